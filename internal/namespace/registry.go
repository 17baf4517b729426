// Package namespace holds the fixed UBL namespace table.
//
// Every document kind shares the component prefixes (cac, cbc, ext); only the
// default namespace differs. Declaration order is fixed so that repeated
// builds serialize identically.
package namespace

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/rezonia/ubl/internal/model"
)

// UBL 2.1 namespace URIs
const (
	InvoiceURI    = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	CreditNoteURI = "urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"
	CACURI        = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	CBCURI        = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	EXTURI        = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
)

// Prefixes used by the builder. The default namespace has the empty prefix.
const (
	PrefixDefault = ""
	PrefixCAC     = "cac"
	PrefixCBC     = "cbc"
	PrefixEXT     = "ext"
)

// Pair is a single namespace declaration
type Pair struct {
	Prefix string
	URI    string
}

// Attr returns the attribute name used to declare the pair: "xmlns" or "xmlns:<prefix>"
func (p Pair) Attr() string {
	if p.Prefix == PrefixDefault {
		return "xmlns"
	}
	return "xmlns:" + p.Prefix
}

// Set is an ordered, immutable namespace table
type Set struct {
	pairs []Pair
}

var shared = []Pair{
	{Prefix: PrefixCAC, URI: CACURI},
	{Prefix: PrefixCBC, URI: CBCURI},
	{Prefix: PrefixEXT, URI: EXTURI},
}

var defaults = map[model.DocumentKind]string{
	model.KindInvoice:    InvoiceURI,
	model.KindCreditNote: CreditNoteURI,
}

// For returns the namespace set for a document kind.
// Kinds are validated at the API boundary; an unknown kind here is a programming error.
func For(kind model.DocumentKind) Set {
	uri, ok := defaults[kind]
	if !ok {
		panic(fmt.Sprintf("namespace: no table entry for document kind %d", kind))
	}

	pairs := make([]Pair, 0, len(shared)+1)
	pairs = append(pairs, Pair{Prefix: PrefixDefault, URI: uri})
	pairs = append(pairs, shared...)
	return Set{pairs: pairs}
}

// KindOf returns the document kind whose default namespace is uri
func KindOf(uri string) (model.DocumentKind, bool) {
	for kind, u := range defaults {
		if u == uri {
			return kind, true
		}
	}
	return 0, false
}

// Pairs returns a copy of the declarations in order
func (s Set) Pairs() []Pair {
	out := make([]Pair, len(s.pairs))
	copy(out, s.pairs)
	return out
}

// Default returns the default namespace URI
func (s Set) Default() string {
	return s.URI(PrefixDefault)
}

// URI returns the URI bound to prefix, or "" when the prefix is not declared
func (s Set) URI(prefix string) string {
	for _, p := range s.pairs {
		if p.Prefix == prefix {
			return p.URI
		}
	}
	return ""
}

// Has reports whether prefix is declared
func (s Set) Has(prefix string) bool {
	for _, p := range s.pairs {
		if p.Prefix == prefix {
			return true
		}
	}
	return false
}

// Prefixes returns the declared prefixes in order
func (s Set) Prefixes() []string {
	out := make([]string, 0, len(s.pairs))
	for _, p := range s.pairs {
		out = append(out, p.Prefix)
	}
	return out
}

// Apply declares every namespace on el in table order
func (s Set) Apply(el *etree.Element) {
	for _, p := range s.pairs {
		el.CreateAttr(p.Attr(), p.URI)
	}
}
