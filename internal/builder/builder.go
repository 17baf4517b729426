// Package builder renders UBL 2.1 invoices and credit notes for the Peppol
// network, optionally extended with the Belgian UBL.BE template.
//
// The two document kinds share one skeleton: a header, a document reference
// block and the content block. They differ only in a small variant (root
// name, type code, reference label, line element names). The extension is
// carried explicitly through every stage, so builds with different
// extensions never share state.
package builder

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/rezonia/ubl/internal/model"
	"github.com/rezonia/ubl/internal/namespace"
)

// Document is a rendered UBL document
type Document struct {
	Kind      model.DocumentKind
	Extension model.Extension
	data      []byte
}

// Bytes returns a copy of the UTF-8 encoded XML
func (d *Document) Bytes() []byte {
	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out
}

// String returns the XML as a string
func (d *Document) String() string {
	return string(d.data)
}

// variant holds everything that differs between Invoice and CreditNote
type variant struct {
	root           string
	referenceLabel string
	lineTag        string
	quantityTag    string
	// typeCode writes the kind specific header elements between IssueDate and Note
	typeCode func(header *etree.Element, data *model.DocumentData)
}

var variants = map[model.DocumentKind]variant{
	model.KindInvoice: {
		root:           "Invoice",
		referenceLabel: "CommercialInvoice",
		lineTag:        "cac:InvoiceLine",
		quantityTag:    "cbc:InvoicedQuantity",
		typeCode: func(header *etree.Element, data *model.DocumentData) {
			if data.DueDate != nil {
				cbc(header, "DueDate", formatDate(*data.DueDate))
			}
			cbc(header, "InvoiceTypeCode", "380")
		},
	},
	model.KindCreditNote: {
		root:           "CreditNote",
		referenceLabel: "CreditNote",
		lineTag:        "cac:CreditNoteLine",
		quantityTag:    "cbc:CreditedQuantity",
		typeCode: func(header *etree.Element, _ *model.DocumentData) {
			cbc(header, "CreditNoteTypeCode", "381")
		},
	},
}

// stage is the per-build configuration handed to every construction step
type stage struct {
	ext      model.Extension
	currency string
	ns       namespace.Set
}

func (s *stage) belgian() bool {
	return s.ext == model.ExtensionUBLBE
}

// Build renders data as a document of the given kind.
//
// Kind and extension are checked before anything else, then every required
// field and numeric value. Nothing is returned unless the whole document
// could be built.
func Build(kind model.DocumentKind, ext model.Extension, data *model.DocumentData) (*Document, error) {
	if !kind.Valid() {
		return nil, model.NewUnsupportedKindError(fmt.Sprintf("%d", int(kind)))
	}
	if !ext.Valid() {
		return nil, model.NewUnsupportedExtensionError(fmt.Sprintf("%d", int(ext)))
	}
	if err := check(ext, data); err != nil {
		return nil, err
	}

	v := variants[kind]
	st := &stage{
		ext:      ext,
		currency: data.Currency,
		ns:       namespace.For(kind),
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(v.root)
	st.ns.Apply(root)

	buildHeader(root, st, data, v.typeCode)
	buildDocumentReference(root, st, data, v.referenceLabel)
	buildContent(root, st, data, v)

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", v.root, err)
	}

	return &Document{
		Kind:      kind,
		Extension: ext,
		data:      out,
	}, nil
}

// BuildInvoice renders an Invoice
func BuildInvoice(ext model.Extension, data *model.DocumentData) (*Document, error) {
	return Build(model.KindInvoice, ext, data)
}

// BuildCreditNote renders a CreditNote
func BuildCreditNote(ext model.Extension, data *model.DocumentData) (*Document, error) {
	return Build(model.KindCreditNote, ext, data)
}
