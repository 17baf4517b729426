// Package ubl provides a public API for generating and validating Peppol
// UBL 2.1 invoices and credit notes.
//
// Example usage:
//
//	doc, err := ubl.NewInvoice(ubl.ExtensionUBLBE, data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("invoice.xml", doc.Bytes(), 0o644)
package ubl

import (
	"github.com/rezonia/ubl/internal/builder"
	"github.com/rezonia/ubl/internal/model"
)

// Re-export core types for public API
type (
	DocumentData   = model.DocumentData
	Party          = model.Party
	Address        = model.Address
	Contact        = model.Contact
	Delivery       = model.Delivery
	PaymentMeans   = model.PaymentMeans
	TaxCategory    = model.TaxCategory
	TaxSubtotal    = model.TaxSubtotal
	TaxTotal       = model.TaxTotal
	MonetaryTotals = model.MonetaryTotals
	Line           = model.Line
	Attachment     = model.Attachment
	DocumentKind   = model.DocumentKind
	Extension      = model.Extension
	Document       = builder.Document
)

// Re-export document kinds
const (
	KindInvoice    = model.KindInvoice
	KindCreditNote = model.KindCreditNote
)

// Re-export extensions
const (
	ExtensionNone  = model.ExtensionNone
	ExtensionUBLBE = model.ExtensionUBLBE
)

// Re-export error types
type (
	IncompleteDataError       = model.IncompleteDataError
	UnsupportedKindError      = model.UnsupportedKindError
	UnsupportedExtensionError = model.UnsupportedExtensionError
	NumericFormatError        = model.NumericFormatError
)

// Re-export error sentinels
var (
	ErrIncompleteData       = model.ErrIncompleteData
	ErrUnsupportedKind      = model.ErrUnsupportedKind
	ErrUnsupportedExtension = model.ErrUnsupportedExtension
	ErrNumericFormat        = model.ErrNumericFormat
)

// ParseKind parses "invoice" or "credit-note"
func ParseKind(s string) (DocumentKind, error) {
	return model.ParseKind(s)
}

// ParseExtension parses "UBL_BE"; empty means no extension
func ParseExtension(s string) (Extension, error) {
	return model.ParseExtension(s)
}

// Build renders data as a document of the given kind
func Build(kind DocumentKind, ext Extension, data *DocumentData) (*Document, error) {
	return builder.Build(kind, ext, data)
}

// NewInvoice renders an Invoice
func NewInvoice(ext Extension, data *DocumentData) (*Document, error) {
	return builder.BuildInvoice(ext, data)
}

// NewCreditNote renders a CreditNote
func NewCreditNote(ext Extension, data *DocumentData) (*Document, error) {
	return builder.BuildCreditNote(ext, data)
}
