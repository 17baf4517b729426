package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/ubl/internal/signing"
)

var trustFile string

var verifyCmd = &cobra.Command{
	Use:   "verify [files...]",
	Short: "Verify document signatures",
	Long: `Verify the enveloped XML-DSig signature of signed UBL documents.

The signing certificate must be one of the certificates in --trust
(default: signing.cert_file from the config).

Examples:
  ubl verify invoice.xml --trust cert.pem
  ubl verify out/ -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&trustFile, "trust", "", "PEM file with trusted signing certificates")
}

// VerifyResult holds the result of verifying a single file
type VerifyResult struct {
	File string `json:"file"`
	*signing.Result
}

func runVerify(cmd *cobra.Command, args []string) error {
	trust := trustFile
	if trust == "" {
		trust = cfg.Signing.CertFile
	}
	if trust == "" {
		return fmt.Errorf("no trusted certificate: use --trust or signing.cert_file")
	}

	verifier, err := signing.LoadVerifier(trust)
	if err != nil {
		return err
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to verify")
	}

	results := make([]*VerifyResult, 0, len(files))
	allValid := true
	for _, file := range files {
		printVerbose("Verifying: %s\n", file)
		r := verifyFile(verifier, file)
		results = append(results, r)
		if !r.Valid {
			allValid = false
		}
	}

	if outputFormat == "json" {
		if err := writeJSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s: VALID\n", r.File)
			} else {
				fmt.Printf("✗ %s: INVALID\n", r.File)
			}
			if r.Signer != nil {
				fmt.Printf("  Signer: %s\n", r.Signer.Name)
				if r.Signer.Organization != "" {
					fmt.Printf("  Org:    %s\n", r.Signer.Organization)
				}
				fmt.Printf("  Issuer: %s\n", r.Signer.Issuer)
			}
			for _, e := range r.Errors {
				fmt.Printf("  ✗ %s\n", e)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("verification failed for some files")
	}
	return nil
}

func verifyFile(verifier *signing.Verifier, path string) *VerifyResult {
	data, err := os.ReadFile(path)
	if err != nil {
		r := &signing.Result{}
		r.AddError(fmt.Sprintf("failed to read file: %v", err))
		return &VerifyResult{File: path, Result: r}
	}

	r, err := verifier.Verify(data)
	if err != nil {
		var sigErr *signing.SigningError
		if r == nil || !errors.As(err, &sigErr) {
			r = &signing.Result{}
			r.AddError(err.Error())
		}
	}
	return &VerifyResult{File: path, Result: r}
}
