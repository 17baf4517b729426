package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"

	"github.com/rezonia/ubl/internal/model"
)

// Entry points of the UBL 2.1 distribution, relative to the schema root
const (
	InvoiceSchema    = "maindoc/UBL-Invoice-2.1.xsd"
	CreditNoteSchema = "maindoc/UBL-CreditNote-2.1.xsd"
)

var schemaFiles = map[model.DocumentKind]string{
	model.KindInvoice:    InvoiceSchema,
	model.KindCreditNote: CreditNoteSchema,
}

// SchemaEngine validates documents in-process against the UBL XSDs.
// Compiled schemas are cached per kind and shared by concurrent callers.
type SchemaEngine struct {
	fsys fs.FS

	mu    sync.Mutex
	cache map[model.DocumentKind]*xsd.Schema
}

// NewSchemaEngine creates an engine reading schemas from fsys.
// A nil fsys makes every run fail with EngineUnavailableError.
func NewSchemaEngine(fsys fs.FS) *SchemaEngine {
	return &SchemaEngine{
		fsys:  fsys,
		cache: make(map[model.DocumentKind]*xsd.Schema),
	}
}

// NewSchemaEngineDir creates an engine reading schemas from a directory
func NewSchemaEngineDir(dir string) *SchemaEngine {
	if dir == "" {
		return NewSchemaEngine(nil)
	}
	return NewSchemaEngine(os.DirFS(dir))
}

// Name returns the engine name
func (e *SchemaEngine) Name() string {
	return "xsd"
}

// RunRuleset validates the document and returns the violations as a JSON array
func (e *SchemaEngine) RunRuleset(ctx context.Context, path string, rs Ruleset) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schema, err := e.schema(rs.Kind)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, NewEngineError(e.Name(), "cannot read document", err)
	}
	defer f.Close()

	messages := make([]string, 0)
	if err := schema.Validate(f); err != nil {
		if violations, ok := xsderrors.AsValidations(err); ok {
			for _, v := range violations {
				messages = append(messages, v.Error())
			}
		} else {
			messages = append(messages, fmt.Sprintf("document is not well-formed: %v", err))
		}
	}

	return json.Marshal(messages)
}

// ParseOutput decodes the report produced by RunRuleset.
// Every schema violation is an error.
func (e *SchemaEngine) ParseOutput(out []byte) (*Result, error) {
	var messages []string
	if err := json.Unmarshal(out, &messages); err != nil {
		return nil, NewEngineError(e.Name(), "malformed report", err)
	}

	result := NewResult()
	for _, msg := range messages {
		result.AddError(msg)
	}
	return result, nil
}

// IsAvailable reports whether the schema for every kind can be found
func (e *SchemaEngine) IsAvailable() bool {
	if e.fsys == nil {
		return false
	}
	for _, name := range schemaFiles {
		if _, err := fs.Stat(e.fsys, name); err != nil {
			return false
		}
	}
	return true
}

func (e *SchemaEngine) schema(kind model.DocumentKind) (*xsd.Schema, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if s, ok := e.cache[kind]; ok {
		return s, nil
	}

	if e.fsys == nil {
		return nil, NewEngineUnavailableError(e.Name(), "no schema directory configured", nil)
	}
	name, ok := schemaFiles[kind]
	if !ok {
		return nil, model.NewUnsupportedKindError(kind.String())
	}
	if _, err := fs.Stat(e.fsys, name); err != nil {
		return nil, NewEngineUnavailableError(e.Name(), "schema not found: "+name, err)
	}

	s, err := xsd.LoadWithOptions(e.fsys, name, xsd.NewLoadOptions())
	if err != nil {
		return nil, NewEngineUnavailableError(e.Name(), "failed to compile "+name, err)
	}

	e.cache[kind] = s
	return s, nil
}
