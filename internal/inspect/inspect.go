// Package inspect reports what a UBL document is without validating it
package inspect

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/ubl/internal/model"
	"github.com/rezonia/ubl/internal/namespace"
	"github.com/rezonia/ubl/internal/signing"
)

// Info describes a UBL document
type Info struct {
	Kind            model.DocumentKind `json:"-"`
	KindName        string             `json:"kind"`
	Extension       model.Extension    `json:"-"`
	ExtensionName   string             `json:"extension,omitempty"`
	Namespace       string             `json:"namespace"`
	CustomizationID string             `json:"customization_id,omitempty"`
	ID              string             `json:"id,omitempty"`
	IssueDate       string             `json:"issue_date,omitempty"`
	Currency        string             `json:"currency,omitempty"`
	Lines           int                `json:"lines"`
	Attachments     int                `json:"attachments"`
	Signed          bool               `json:"signed"`
	Size            int                `json:"size"`
}

// Inspect parses data and describes the document.
// Roots outside the Invoice and CreditNote namespaces are rejected.
func Inspect(data []byte) (*Info, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty XML document")
	}

	uri := root.NamespaceURI()
	kind, ok := namespace.KindOf(uri)
	if !ok {
		return nil, model.NewUnsupportedKindError(root.FullTag())
	}

	info := &Info{
		Kind:            kind,
		KindName:        kind.String(),
		Namespace:       uri,
		CustomizationID: childText(root, "CustomizationID"),
		ID:              childText(root, "ID"),
		IssueDate:       childText(root, "IssueDate"),
		Currency:        childText(root, "DocumentCurrencyCode"),
		Attachments:     len(root.FindElements("//EmbeddedDocumentBinaryObject")),
		Signed:          signing.FindSignature(root) != nil,
		Size:            len(data),
	}

	if strings.Contains(info.CustomizationID, "UBL.BE") {
		info.Extension = model.ExtensionUBLBE
		info.ExtensionName = model.ExtensionUBLBE.String()
	}

	switch kind {
	case model.KindInvoice:
		info.Lines = len(root.SelectElements("InvoiceLine"))
	case model.KindCreditNote:
		info.Lines = len(root.SelectElements("CreditNoteLine"))
	}

	return info, nil
}

func childText(root *etree.Element, tag string) string {
	if el := root.SelectElement(tag); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}
