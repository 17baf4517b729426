package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/ubl/pkg/ubl"
)

var (
	valKind        string
	valExtension   string
	valSchematron  bool
	valConcurrency int
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate UBL files",
	Long: `Validate one or more UBL documents of the same kind.

Checks performed:
  - UBL 2.1 XML schema (always; needs validator.schema_dir or UBL_SCHEMA_DIR)
  - Peppol BIS or UBL.BE Schematron rules (needs docker; skip with --schematron=false)

Files are checked in parallel, at most --concurrency at a time.

Examples:
  ubl validate invoice.xml
  ubl validate invoice.xml --schematron=false
  ubl validate out/*.xml --kind credit-note --extension UBL_BE`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&valKind, "kind", "invoice", "Document kind (invoice, credit-note)")
	validateCmd.Flags().StringVar(&valExtension, "extension", "", "Regional extension (UBL_BE)")
	validateCmd.Flags().BoolVar(&valSchematron, "schematron", true, "Also run Schematron rules")
	validateCmd.Flags().IntVar(&valConcurrency, "concurrency", 0, "Parallel validations (default from config)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	kind, err := ubl.ParseKind(valKind)
	if err != nil {
		return err
	}
	ext, err := ubl.ParseExtension(valExtension)
	if err != nil {
		return err
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	vcfg := cfg.Validator
	if valConcurrency > 0 {
		vcfg.Concurrency = valConcurrency
	}
	v, err := ubl.NewValidator(vcfg, logger)
	if err != nil {
		return err
	}

	printVerbose("Validating %d files\n", len(files))
	batch, err := v.ValidateBatch(cmd.Context(), files, kind, ext, valSchematron)
	if err != nil {
		return err
	}

	results := make([]*ValidationResult, len(files))
	allValid := true
	for i, r := range batch {
		results[i] = &ValidationResult{
			File:     files[i],
			Valid:    r.Valid,
			Messages: r.Messages,
		}
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
			for _, m := range r.Messages {
				fmt.Printf("  - %s\n", m)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages,omitempty"`
}
