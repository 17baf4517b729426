package model

import "strings"

// DocumentKind identifies the UBL document type
type DocumentKind int

const (
	KindInvoice DocumentKind = iota
	KindCreditNote
)

// String returns the UBL root element name for the kind
func (k DocumentKind) String() string {
	switch k {
	case KindInvoice:
		return "Invoice"
	case KindCreditNote:
		return "CreditNote"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is a recognized kind
func (k DocumentKind) Valid() bool {
	return k == KindInvoice || k == KindCreditNote
}

// ParseKind parses a document kind name.
// Accepts "invoice", "credit-note", "creditnote" and "credit_note", case-insensitive.
func ParseKind(s string) (DocumentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "invoice":
		return KindInvoice, nil
	case "creditnote", "credit-note", "credit_note":
		return KindCreditNote, nil
	default:
		return 0, NewUnsupportedKindError(s)
	}
}

// Extension selects a regional profile layered on top of Peppol BIS
type Extension int

const (
	ExtensionNone Extension = iota
	ExtensionUBLBE
)

// String returns the canonical extension name ("" for none)
func (e Extension) String() string {
	switch e {
	case ExtensionNone:
		return ""
	case ExtensionUBLBE:
		return "UBL_BE"
	default:
		return "unknown"
	}
}

// Valid reports whether e is a recognized extension
func (e Extension) Valid() bool {
	return e == ExtensionNone || e == ExtensionUBLBE
}

// ParseExtension parses an extension name. Empty, "none" and "default" map to ExtensionNone.
func ParseExtension(s string) (Extension, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE", "DEFAULT":
		return ExtensionNone, nil
	case "UBL_BE", "UBL.BE", "UBLBE":
		return ExtensionUBLBE, nil
	default:
		return 0, NewUnsupportedExtensionError(s)
	}
}
