package validator

import (
	"context"
	"strings"

	"github.com/rezonia/ubl/internal/model"
)

// Ruleset selects the rules a document is checked against
type Ruleset struct {
	Kind      model.DocumentKind
	Extension model.Extension
}

// Name returns the ruleset name understood by the Schematron image:
// peppol-invoice, peppol-creditnote, ublbe-invoice or ublbe-creditnote.
func (r Ruleset) Name() string {
	family := "peppol"
	if r.Extension == model.ExtensionUBLBE {
		family = "ublbe"
	}
	return family + "-" + strings.ToLower(r.Kind.String())
}

// Engine runs one kind of validation over a document on disk
type Engine interface {
	// Name identifies the engine in logs and errors
	Name() string

	// RunRuleset checks the document at path and returns the raw report
	RunRuleset(ctx context.Context, path string, rs Ruleset) ([]byte, error)

	// ParseOutput turns a raw report into a Result
	ParseOutput(out []byte) (*Result, error)
}
