package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/ubl/pkg/ubl"
)

var (
	genKind       string
	genExtension  string
	genInput      string
	genOutput     string
	genSignCert   string
	genSignKey    string
	genValidate   bool
	genSchematron bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build a UBL document from JSON data",
	Long: `Build a UBL 2.1 Invoice or CreditNote from a JSON document data file.

The document is written to stdout unless --output is given. With
--sign-cert and --sign-key it is signed (enveloped XML-DSig placed in
ext:UBLExtensions). With --validate it is checked against the schema,
and with --schematron also against the Peppol or UBL.BE rules.

Examples:
  ubl generate --kind invoice --input data.json -o invoice.xml
  ubl generate --kind credit-note --extension UBL_BE --input data.json --validate`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&genKind, "kind", "invoice", "Document kind (invoice, credit-note)")
	generateCmd.Flags().StringVar(&genExtension, "extension", "", "Regional extension (UBL_BE)")
	generateCmd.Flags().StringVarP(&genInput, "input", "i", "", "JSON document data file (- for stdin)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output file (default stdout)")
	generateCmd.Flags().StringVar(&genSignCert, "sign-cert", "", "PEM signing certificate (default from config)")
	generateCmd.Flags().StringVar(&genSignKey, "sign-key", "", "PEM signing key (default from config)")
	generateCmd.Flags().BoolVar(&genValidate, "validate", false, "Validate the document after building")
	generateCmd.Flags().BoolVar(&genSchematron, "schematron", false, "Also run Schematron rules when validating")
	_ = generateCmd.MarkFlagRequired("input")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kind, err := ubl.ParseKind(genKind)
	if err != nil {
		return err
	}
	ext, err := ubl.ParseExtension(genExtension)
	if err != nil {
		return err
	}

	data, err := readDocumentData(genInput)
	if err != nil {
		return err
	}

	doc, err := ubl.Build(kind, ext, data)
	if err != nil {
		return err
	}
	out := doc.Bytes()
	printVerbose("Built %s (%d bytes)\n", kind, len(out))

	certFile, keyFile := genSignCert, genSignKey
	if certFile == "" && keyFile == "" {
		certFile, keyFile = cfg.Signing.CertFile, cfg.Signing.KeyFile
	}
	if certFile != "" || keyFile != "" {
		signer, err := ubl.LoadSigner(certFile, keyFile)
		if err != nil {
			return err
		}
		out, err = signer.Sign(out)
		if err != nil {
			return fmt.Errorf("failed to sign document: %w", err)
		}
		printVerbose("Signed with %s\n", certFile)
	}

	if genValidate || genSchematron {
		v, err := ubl.NewValidator(cfg.Validator, logger)
		if err != nil {
			return err
		}
		result, err := v.ValidateBytes(cmd.Context(), out, kind, ext, genSchematron)
		if err != nil {
			return err
		}
		if !result.Valid {
			for _, msg := range result.Messages {
				fmt.Fprintf(os.Stderr, "  - %s\n", msg)
			}
			return fmt.Errorf("generated %s is not valid", kind)
		}
		printVerbose("Validation passed\n")
	}

	if genOutput == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(genOutput, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", genOutput, err)
	}
	printVerbose("Written to %s\n", genOutput)
	return nil
}

func readDocumentData(path string) (*ubl.DocumentData, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var data ubl.DocumentData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &data, nil
}
