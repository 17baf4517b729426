package builder

import (
	"encoding/base64"

	"github.com/beevik/etree"

	"github.com/rezonia/ubl/internal/attachment"
	"github.com/rezonia/ubl/internal/model"
)

// Peppol BIS Billing 3.0 identifiers
const (
	UBLVersion          = "2.1"
	PeppolCustomization = "urn:cen.eu:en16931:2017#compliant#urn:fdc:peppol.eu:2017:poacc:billing:3.0"
	PeppolProfile       = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"
)

// buildHeader writes the identification header shared by both kinds.
// The kind specific elements are written by typeCode.
func buildHeader(root *etree.Element, st *stage, data *model.DocumentData, typeCode func(*etree.Element, *model.DocumentData)) {
	cbc(root, "UBLVersionID", UBLVersion)
	if st.belgian() {
		cbc(root, "CustomizationID", BelgianCustomization)
	} else {
		cbc(root, "CustomizationID", PeppolCustomization)
	}
	cbc(root, "ProfileID", PeppolProfile)
	cbc(root, "ID", data.ID)
	cbc(root, "IssueDate", formatDate(data.IssueDate))

	typeCode(root, data)

	optionalCBC(root, "Note", data.Note)
	cbc(root, "DocumentCurrencyCode", data.Currency)
	optionalCBC(root, "BuyerReference", data.BuyerReference)
}

// buildDocumentReference writes order, billing and additional document references.
// The additional reference carries the kind label and, when present, the attachment.
func buildDocumentReference(root *etree.Element, st *stage, data *model.DocumentData, label string) {
	if data.OrderReference != "" {
		ref := cac(root, "OrderReference")
		cbc(ref, "ID", data.OrderReference)
	}
	if data.BillingReference != "" {
		ref := cac(root, "BillingReference")
		inv := cac(ref, "InvoiceDocumentReference")
		cbc(inv, "ID", data.BillingReference)
	}

	ref := cac(root, "AdditionalDocumentReference")
	if a := data.Attachment; a != nil {
		cbc(ref, "ID", a.Filename)
	} else {
		cbc(ref, "ID", data.ID)
	}
	cbc(ref, "DocumentDescription", label)

	if a := data.Attachment; a != nil {
		att := cac(ref, "Attachment")
		obj := cbc(att, "EmbeddedDocumentBinaryObject", base64.StdEncoding.EncodeToString(a.Content))
		obj.CreateAttr("mimeCode", attachment.MimeType(a))
		obj.CreateAttr("filename", a.Filename)
	}

	if st.belgian() {
		belgianReference(root)
	}
}
