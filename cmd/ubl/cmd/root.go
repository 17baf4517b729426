package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rezonia/ubl/internal/config"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	configPath   string

	cfg    *config.Config
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "ubl",
	Short: "Generate and validate Peppol UBL invoices and credit notes",
	Long: `ubl renders UBL 2.1 invoices and credit notes for the Peppol network,
optionally with the Belgian UBL.BE extension, and validates them against
the UBL schema and the Peppol or UBL.BE Schematron rules.

Examples:
  # Build an invoice from JSON
  ubl generate --kind invoice --input data.json -o invoice.xml

  # Build a Belgian credit note and sign it
  ubl generate --kind credit-note --extension UBL_BE --input data.json \
    --sign-cert cert.pem --sign-key key.pem

  # Validate against schema and Schematron
  ubl validate invoice.xml

  # Show what a file is
  ubl info *.xml`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (env: UBL_CONFIG, default ~/.ubl/config.toml)")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if configPath == "" {
		configPath = os.Getenv("UBL_CONFIG")
	}
	if configPath == "" {
		if path, err := config.DefaultPath(); err == nil {
			configPath = path
		}
	}
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if outputFormat != "json" && outputFormat != "table" {
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	logger.Debug("configuration loaded", "path", configPath)
	return nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
