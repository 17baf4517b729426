package builder

import (
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/ubl/internal/decimal"
	"github.com/rezonia/ubl/internal/model"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// cbc appends a basic component with text content
func cbc(parent *etree.Element, tag, text string) *etree.Element {
	el := parent.CreateElement("cbc:" + tag)
	el.SetText(text)
	return el
}

// optionalCBC appends a basic component only when text is set
func optionalCBC(parent *etree.Element, tag, text string) {
	if text != "" {
		cbc(parent, tag, text)
	}
}

// cac appends an empty aggregate component
func cac(parent *etree.Element, tag string) *etree.Element {
	return parent.CreateElement("cac:" + tag)
}

// amount appends a monetary amount with its currencyID
func (s *stage) amount(parent *etree.Element, tag string, d decimal.Decimal) *etree.Element {
	el := cbc(parent, tag, dec.FormatAmount(d))
	el.CreateAttr("currencyID", s.currency)
	return el
}

func (s *stage) optionalAmount(parent *etree.Element, tag string, d *decimal.Decimal) {
	if d != nil {
		s.amount(parent, tag, *d)
	}
}

// address writes a postal address under the given aggregate tag
func address(parent *etree.Element, tag string, a model.Address) {
	el := cac(parent, tag)
	optionalCBC(el, "StreetName", a.Street)
	optionalCBC(el, "AdditionalStreetName", a.AdditionalStreet)
	optionalCBC(el, "CityName", a.City)
	optionalCBC(el, "PostalZone", a.PostalCode)
	optionalCBC(el, "CountrySubentity", a.Region)
	country := cac(el, "Country")
	cbc(country, "IdentificationCode", a.Country)
}

// taxScheme writes the VAT tax scheme reference
func taxScheme(parent *etree.Element) {
	scheme := cac(parent, "TaxScheme")
	cbc(scheme, "ID", "VAT")
}
