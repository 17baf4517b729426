// Package validator checks built UBL documents against the UBL 2.1 schemas
// and, on request, the Peppol or UBL.BE Schematron business rules.
//
// Validation logic lives in the engines. The validator only prepares an
// isolated copy of the document, runs the engines in order and merges their
// results: schema messages first, then Schematron.
package validator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rezonia/ubl/internal/model"
)

const documentName = "document.xml"

// Validator runs the schema and Schematron engines over documents
type Validator struct {
	schema     Engine
	schematron Engine
	tempDir    string
	logger     *slog.Logger
}

// Option configures a Validator
type Option func(*Validator)

// WithSchemaEngine sets the engine run for every document
func WithSchemaEngine(e Engine) Option {
	return func(v *Validator) {
		v.schema = e
	}
}

// WithSchematronEngine sets the engine run when Schematron is requested
func WithSchematronEngine(e Engine) Option {
	return func(v *Validator) {
		v.schematron = e
	}
}

// WithTempDir sets where private working directories are created
func WithTempDir(dir string) Option {
	return func(v *Validator) {
		v.tempDir = dir
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// New creates a validator
func New(opts ...Option) *Validator {
	v := &Validator{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Availability reports, per engine name, whether the engine can run.
// Engines that cannot tell are assumed available.
func (v *Validator) Availability() map[string]bool {
	out := make(map[string]bool, 2)
	for _, e := range []Engine{v.schema, v.schematron} {
		if e == nil {
			continue
		}
		available := true
		if a, ok := e.(interface{ IsAvailable() bool }); ok {
			available = a.IsAvailable()
		}
		out[e.Name()] = available
	}
	return out
}

// Validate checks the document at path.
// The returned error is reserved for infrastructure failures; a
// non-conforming document yields a Result with Valid false.
func (v *Validator) Validate(ctx context.Context, path string, kind model.DocumentKind, ext model.Extension, runSchematron bool) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return v.ValidateBytes(ctx, data, kind, ext, runSchematron)
}

// ValidateBytes checks a document held in memory
func (v *Validator) ValidateBytes(ctx context.Context, data []byte, kind model.DocumentKind, ext model.Extension, runSchematron bool) (*Result, error) {
	if !kind.Valid() {
		return nil, model.NewUnsupportedKindError(kind.String())
	}
	if !ext.Valid() {
		return nil, model.NewUnsupportedExtensionError(ext.String())
	}
	if v.schema == nil {
		return nil, NewEngineUnavailableError("xsd", "no schema engine configured", nil)
	}
	if runSchematron && v.schematron == nil {
		return nil, NewEngineUnavailableError("schematron", "no schematron engine configured", nil)
	}

	dir, err := os.MkdirTemp(v.tempDir, "ubl-validate-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, documentName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write work copy: %w", err)
	}

	rs := Ruleset{Kind: kind, Extension: ext}
	start := time.Now()

	result, err := v.run(ctx, v.schema, path, rs)
	if err != nil {
		return nil, err
	}

	if runSchematron {
		rules, err := v.run(ctx, v.schematron, path, rs)
		if err != nil {
			return nil, err
		}
		result.Merge(rules)
	}

	v.logger.Info("document validated",
		"kind", kind.String(),
		"ruleset", rs.Name(),
		"schematron", runSchematron,
		"valid", result.Valid,
		"messages", len(result.Messages),
		"duration", time.Since(start),
	)

	return result, nil
}

// ValidateBatch validates paths in parallel, at most concurrency at a time.
// Results keep the order of paths. The first infrastructure error cancels
// the remaining work.
func (v *Validator) ValidateBatch(ctx context.Context, paths []string, kind model.DocumentKind, ext model.Extension, runSchematron bool, concurrency int) ([]*Result, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			result, err := v.Validate(ctx, path, kind, ext, runSchematron)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (v *Validator) run(ctx context.Context, engine Engine, path string, rs Ruleset) (*Result, error) {
	out, err := engine.RunRuleset(ctx, path, rs)
	if err != nil {
		v.logger.Error("validation engine failed", "engine", engine.Name(), "error", err)
		return nil, err
	}
	return engine.ParseOutput(out)
}
