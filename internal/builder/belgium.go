package builder

import (
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/ubl/internal/model"
)

// UBL.BE template identifiers
const (
	BelgianCustomization = "urn:cen.eu:en16931:2017#conformant#urn:UBL.BE:1.0.0.20180214"
	BelgianReferenceID   = "UBL.BE"
	BelgianVersion       = "1.0.0.20180214"
	// BelgianLegalScheme is the ICD of the Belgian enterprise number (KBO/BCE)
	BelgianLegalScheme   = "0208"
)

// belgianRates maps standard VAT rates to the UBL.BE tax code
var belgianRates = []struct {
	percent decimal.Decimal
	code    string
}{
	{decimal.NewFromInt(21), "03"},
	{decimal.NewFromInt(12), "02"},
	{decimal.NewFromInt(6), "01"},
	{decimal.Zero, "00"},
}

// belgianTaxCode derives the UBL.BE code for a tax category.
// An explicit Name always wins.
func belgianTaxCode(c model.TaxCategory) (string, bool) {
	if c.Name != "" {
		return c.Name, true
	}
	switch c.ID {
	case "S":
		for _, r := range belgianRates {
			if c.Percent.Equal(r.percent) {
				return r.code, true
			}
		}
		return "", false
	case "Z":
		return "00", true
	case "E", "AE", "K", "G", "O":
		return "NA", true
	}
	return "", false
}

// belgianReference declares the UBL.BE template version
func belgianReference(root *etree.Element) {
	ref := cac(root, "AdditionalDocumentReference")
	cbc(ref, "ID", BelgianReferenceID)
	cbc(ref, "DocumentDescription", BelgianVersion)
}
