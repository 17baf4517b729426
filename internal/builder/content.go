package builder

import (
	"github.com/beevik/etree"

	dec "github.com/rezonia/ubl/internal/decimal"
	"github.com/rezonia/ubl/internal/model"
)

// buildContent writes parties, delivery, payment, totals and lines.
// Only the line element names come from the variant.
func buildContent(root *etree.Element, st *stage, data *model.DocumentData, v variant) {
	st.party(root, "AccountingSupplierParty", data.Supplier)
	st.party(root, "AccountingCustomerParty", data.Customer)

	if data.Delivery != nil {
		delivery(root, data.Delivery)
	}
	if data.PaymentMeans != nil {
		paymentMeans(root, data.PaymentMeans)
	}
	if data.PaymentTerms != "" {
		terms := cac(root, "PaymentTerms")
		cbc(terms, "Note", data.PaymentTerms)
	}

	st.taxTotal(root, data.TaxTotal)
	st.monetaryTotal(root, data.Totals)

	for _, line := range data.Lines {
		st.line(root, v, line)
	}
}

func (s *stage) party(root *etree.Element, tag string, p model.Party) {
	wrapper := cac(root, tag)
	party := cac(wrapper, "Party")

	endpoint := cbc(party, "EndpointID", p.EndpointID)
	endpoint.CreateAttr("schemeID", p.EndpointScheme)

	if p.Identifier != "" {
		id := cac(party, "PartyIdentification")
		cbc(id, "ID", p.Identifier)
	}

	name := cac(party, "PartyName")
	cbc(name, "Name", p.Name)

	address(party, "PostalAddress", p.Address)

	if p.VATID != "" {
		scheme := cac(party, "PartyTaxScheme")
		cbc(scheme, "CompanyID", p.VATID)
		taxScheme(scheme)
	}

	legal := cac(party, "PartyLegalEntity")
	cbc(legal, "RegistrationName", p.Name)
	if p.LegalID != "" {
		company := cbc(legal, "CompanyID", p.LegalID)
		if s.belgian() {
			company.CreateAttr("schemeID", BelgianLegalScheme)
		}
	}

	if !p.Contact.IsZero() {
		contact := cac(party, "Contact")
		optionalCBC(contact, "Name", p.Contact.Name)
		optionalCBC(contact, "Telephone", p.Contact.Phone)
		optionalCBC(contact, "ElectronicMail", p.Contact.Email)
	}
}

func delivery(root *etree.Element, d *model.Delivery) {
	el := cac(root, "Delivery")
	if d.Date != nil {
		cbc(el, "ActualDeliveryDate", formatDate(*d.Date))
	}
	if !d.Address.IsZero() {
		location := cac(el, "DeliveryLocation")
		address(location, "Address", d.Address)
	}
}

func paymentMeans(root *etree.Element, pm *model.PaymentMeans) {
	el := cac(root, "PaymentMeans")
	cbc(el, "PaymentMeansCode", pm.Code)
	optionalCBC(el, "PaymentID", pm.PaymentID)

	if pm.IBAN != "" {
		account := cac(el, "PayeeFinancialAccount")
		cbc(account, "ID", pm.IBAN)
		optionalCBC(account, "Name", pm.AccountName)
		if pm.BIC != "" {
			branch := cac(account, "FinancialInstitutionBranch")
			cbc(branch, "ID", pm.BIC)
		}
	}
}

func (s *stage) taxTotal(root *etree.Element, t model.TaxTotal) {
	el := cac(root, "TaxTotal")
	s.amount(el, "TaxAmount", t.Amount)

	for _, sub := range t.Subtotals {
		subtotal := cac(el, "TaxSubtotal")
		s.amount(subtotal, "TaxableAmount", sub.TaxableAmount)
		s.amount(subtotal, "TaxAmount", sub.TaxAmount)
		s.taxCategory(subtotal, "TaxCategory", sub.Category, true)
	}
}

// taxCategory writes a TaxCategory or ClassifiedTaxCategory.
// The exemption reason is only valid on the document level category.
func (s *stage) taxCategory(parent *etree.Element, tag string, c model.TaxCategory, withReason bool) {
	el := cac(parent, tag)
	cbc(el, "ID", c.ID)
	if s.belgian() {
		// derivability is checked before the build starts
		code, _ := belgianTaxCode(c)
		cbc(el, "Name", code)
	}
	cbc(el, "Percent", dec.FormatPercent(c.Percent))
	if withReason {
		optionalCBC(el, "TaxExemptionReason", c.ExemptionReason)
	}
	taxScheme(el)
}

func (s *stage) monetaryTotal(root *etree.Element, t model.MonetaryTotals) {
	el := cac(root, "LegalMonetaryTotal")
	s.amount(el, "LineExtensionAmount", t.LineExtension)
	s.amount(el, "TaxExclusiveAmount", t.TaxExclusive)
	s.amount(el, "TaxInclusiveAmount", t.TaxInclusive)
	s.optionalAmount(el, "AllowanceTotalAmount", t.Allowance)
	s.optionalAmount(el, "ChargeTotalAmount", t.Charge)
	s.optionalAmount(el, "PrepaidAmount", t.Prepaid)
	s.optionalAmount(el, "PayableRoundingAmount", t.Rounding)
	s.amount(el, "PayableAmount", t.Payable)
}

func (s *stage) line(root *etree.Element, v variant, l model.Line) {
	el := root.CreateElement(v.lineTag)
	cbc(el, "ID", l.ID)
	optionalCBC(el, "Note", l.Note)

	qty := el.CreateElement(v.quantityTag)
	qty.SetText(dec.FormatQuantity(l.Quantity))
	qty.CreateAttr("unitCode", l.UnitCode)

	s.amount(el, "LineExtensionAmount", l.LineExtension)

	item := cac(el, "Item")
	optionalCBC(item, "Description", l.Description)
	cbc(item, "Name", l.Name)
	if l.SellerItemID != "" {
		id := cac(item, "SellersItemIdentification")
		cbc(id, "ID", l.SellerItemID)
	}
	s.taxCategory(item, "ClassifiedTaxCategory", l.Category, false)

	price := cac(el, "Price")
	amount := cbc(price, "PriceAmount", dec.FormatQuantity(l.Price))
	amount.CreateAttr("currencyID", s.currency)
}
