package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/ubl/internal/inspect"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about UBL files",
	Long: `Display information about UBL files without validating them.

Shows:
  - Document kind and root namespace
  - Extension (detected from CustomizationID)
  - ID, issue date, currency, line and attachment counts
  - Whether an XML signature is present

Examples:
  ubl info invoice.xml
  ubl info out/ -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// InfoResult pairs a file with what was found in it
type InfoResult struct {
	File  string        `json:"file"`
	Info  *inspect.Info `json:"info,omitempty"`
	Error string        `json:"error,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	results := make([]*InfoResult, 0, len(files))
	for _, file := range files {
		results = append(results, fileInfo(file))
	}

	if outputFormat == "json" {
		return writeJSON(os.Stdout, results)
	}

	for _, r := range results {
		printFileInfo(r)
		fmt.Println()
	}
	return nil
}

func fileInfo(path string) *InfoResult {
	result := &InfoResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	info, err := inspect.Inspect(data)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Info = info
	return result
}

func printFileInfo(r *InfoResult) {
	fmt.Printf("File: %s\n", r.File)
	if r.Error != "" {
		fmt.Printf("  Error: %s\n", r.Error)
		return
	}

	info := r.Info
	fmt.Printf("  Kind: %s\n", info.KindName)
	fmt.Printf("  Namespace: %s\n", info.Namespace)
	if info.ExtensionName != "" {
		fmt.Printf("  Extension: %s\n", info.ExtensionName)
	}
	if info.CustomizationID != "" {
		fmt.Printf("  Customization: %s\n", info.CustomizationID)
	}
	fmt.Printf("  ID: %s\n", info.ID)
	fmt.Printf("  Issue date: %s\n", info.IssueDate)
	fmt.Printf("  Currency: %s\n", info.Currency)
	fmt.Printf("  Lines: %d\n", info.Lines)
	if info.Attachments > 0 {
		fmt.Printf("  Attachments: %d\n", info.Attachments)
	}
	fmt.Printf("  Signed: %t\n", info.Signed)
	fmt.Printf("  Size: %d bytes\n", info.Size)
}
