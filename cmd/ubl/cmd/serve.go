package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/ubl/internal/server"
	"github.com/rezonia/ubl/pkg/ubl"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for building and validating UBL documents.

The API provides endpoints for:
  - POST /api/v1/build/:kind      - Build XML from JSON (?extension=UBL_BE&sign=true)
  - POST /api/v1/validate/:kind   - Validate XML (?extension=UBL_BE&schematron=true)
  - POST /api/v1/info             - Describe a UBL document
  - GET  /metrics                 - Prometheus metrics
  - GET  /health                  - Health check

Examples:
  # Start server on the configured address
  ubl serve

  # Start on custom port in debug mode
  ubl serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (env: UBL_SERVER_ADDRESS, default from config)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serverAddr
	if addr == "" {
		addr = cfg.Server.Address
	}
	validateTimeout, err := cfg.Validator.TimeoutDuration()
	if err != nil {
		return err
	}

	config := &server.Config{
		Address:         addr,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		ValidateTimeout: validateTimeout,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		Debug:           serverDebug || cfg.Server.Debug,
	}

	v, err := ubl.NewValidator(cfg.Validator, logger)
	if err != nil {
		return err
	}
	opts := []server.Option{
		server.WithValidator(v.Internal()),
		server.WithLogger(logger),
	}

	if cfg.Signing.CertFile != "" {
		signer, err := ubl.LoadSigner(cfg.Signing.CertFile, cfg.Signing.KeyFile)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithSigner(signer))
		fmt.Println("Signing enabled")
	}

	srv := server.NewServer(config, opts...)

	fmt.Printf("Starting server on %s\n", config.Address)
	if cfg.Validator.SchemaDir == "" {
		fmt.Println("Schema directory not configured; validation requests will return 503")
	}

	if err := srv.Run(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Server stopped")
	return nil
}
