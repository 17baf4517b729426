package ubl

import (
	"context"
	"io"
	"log/slog"

	"github.com/rezonia/ubl/internal/config"
	"github.com/rezonia/ubl/internal/signing"
	"github.com/rezonia/ubl/internal/validator"
)

// Re-export validation types
type (
	ValidationResult       = validator.Result
	ValidatorConfig        = config.ValidatorConfig
	EngineUnavailableError = validator.EngineUnavailableError
	EngineError            = validator.EngineError
	Signer                 = signing.Signer
	Verifier               = signing.Verifier
	SignatureResult        = signing.Result
)

// Re-export validation sentinels
var (
	ErrEngineUnavailable = validator.ErrEngineUnavailable
	ErrEngineFailed      = validator.ErrEngineFailed
)

// DefaultValidatorConfig returns the built-in validator settings.
// SchemaDir is empty and must be set before schema validation can run.
func DefaultValidatorConfig() ValidatorConfig {
	return config.Default().Validator
}

// Validator checks built documents against the UBL schema and, on request,
// the Peppol or UBL.BE Schematron rules
type Validator struct {
	inner       *validator.Validator
	concurrency int
}

// NewValidator wires the schema and Schematron engines described by cfg.
// A nil logger discards output.
func NewValidator(cfg ValidatorConfig, logger *slog.Logger) (*Validator, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var sopts []validator.SchematronOption
	sopts = append(sopts, validator.WithTimeout(timeout), validator.WithEngineLogger(logger))
	if cfg.DockerPath != "" {
		sopts = append(sopts, validator.WithDockerPath(cfg.DockerPath))
	}

	opts := []validator.Option{
		validator.WithSchematronEngine(validator.NewSchematronEngine(cfg.SchematronImage, sopts...)),
		validator.WithLogger(logger),
	}
	if cfg.SchemaDir != "" {
		opts = append(opts, validator.WithSchemaEngine(validator.NewSchemaEngineDir(cfg.SchemaDir)))
	}
	if cfg.TempDir != "" {
		opts = append(opts, validator.WithTempDir(cfg.TempDir))
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Validator{
		inner:       validator.New(opts...),
		concurrency: concurrency,
	}, nil
}

// Validate checks the document at path
func (v *Validator) Validate(ctx context.Context, path string, kind DocumentKind, ext Extension, runSchematron bool) (*ValidationResult, error) {
	return v.inner.Validate(ctx, path, kind, ext, runSchematron)
}

// ValidateInvoice checks the Invoice at path
func (v *Validator) ValidateInvoice(ctx context.Context, path string, ext Extension, runSchematron bool) (*ValidationResult, error) {
	return v.inner.Validate(ctx, path, KindInvoice, ext, runSchematron)
}

// ValidateCreditNote checks the CreditNote at path
func (v *Validator) ValidateCreditNote(ctx context.Context, path string, ext Extension, runSchematron bool) (*ValidationResult, error) {
	return v.inner.Validate(ctx, path, KindCreditNote, ext, runSchematron)
}

// ValidateDocument checks a document held in memory
func (v *Validator) ValidateDocument(ctx context.Context, doc *Document, runSchematron bool) (*ValidationResult, error) {
	return v.inner.ValidateBytes(ctx, doc.Bytes(), doc.Kind, doc.Extension, runSchematron)
}

// ValidateBatch checks several documents of one kind in parallel
func (v *Validator) ValidateBatch(ctx context.Context, paths []string, kind DocumentKind, ext Extension, runSchematron bool) ([]*ValidationResult, error) {
	return v.inner.ValidateBatch(ctx, paths, kind, ext, runSchematron, v.concurrency)
}

// Internal returns the underlying validator for the HTTP server
func (v *Validator) Internal() *validator.Validator {
	return v.inner
}

// LoadSigner reads a PEM certificate and private key
func LoadSigner(certFile, keyFile string) (*Signer, error) {
	return signing.LoadSigner(certFile, keyFile)
}

// LoadVerifier trusts the certificates in a PEM file
func LoadVerifier(certFile string) (*Verifier, error) {
	return signing.LoadVerifier(certFile)
}

// ValidateBytes checks raw XML of the given kind
func (v *Validator) ValidateBytes(ctx context.Context, data []byte, kind DocumentKind, ext Extension, runSchematron bool) (*ValidationResult, error) {
	return v.inner.ValidateBytes(ctx, data, kind, ext, runSchematron)
}
