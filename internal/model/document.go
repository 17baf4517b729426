package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentData holds the business content of an invoice or credit note.
// It is supplied by the caller and never modified by the builder.
type DocumentData struct {
	ID               string     `json:"id"`
	IssueDate        time.Time  `json:"issue_date"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	Currency         string     `json:"currency"`
	Note             string     `json:"note,omitempty"`
	BuyerReference   string     `json:"buyer_reference,omitempty"`
	OrderReference   string     `json:"order_reference,omitempty"`
	BillingReference string     `json:"billing_reference,omitempty"`

	// HeaderOnly allows a document without lines
	HeaderOnly bool `json:"header_only,omitempty"`

	Supplier Party `json:"supplier"`
	Customer Party `json:"customer"`

	Delivery     *Delivery     `json:"delivery,omitempty"`
	PaymentMeans *PaymentMeans `json:"payment_means,omitempty"`
	PaymentTerms string        `json:"payment_terms,omitempty"`

	TaxTotal TaxTotal       `json:"tax_total"`
	Totals   MonetaryTotals `json:"totals"`
	Lines    []Line         `json:"lines"`

	Attachment *Attachment `json:"attachment,omitempty"`
}

// Party is a supplier or customer
type Party struct {
	Name           string  `json:"name"`
	EndpointID     string  `json:"endpoint_id"`
	EndpointScheme string  `json:"endpoint_scheme"`
	Identifier     string  `json:"identifier,omitempty"`
	VATID          string  `json:"vat_id,omitempty"`
	LegalID        string  `json:"legal_id,omitempty"`
	Address        Address `json:"address"`
	Contact        Contact `json:"contact,omitempty"`
}

// Address is a postal address
type Address struct {
	Street           string `json:"street,omitempty"`
	AdditionalStreet string `json:"additional_street,omitempty"`
	City             string `json:"city,omitempty"`
	PostalCode       string `json:"postal_code,omitempty"`
	Region           string `json:"region,omitempty"`
	Country          string `json:"country"`
}

// IsZero reports whether no address field is set
func (a Address) IsZero() bool {
	return a == Address{}
}

// Contact holds party contact details
type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// IsZero reports whether no contact field is set
func (c Contact) IsZero() bool {
	return c == Contact{}
}

// Delivery describes where and when goods were delivered
type Delivery struct {
	Date    *time.Time `json:"date,omitempty"`
	Address Address    `json:"address,omitempty"`
}

// PaymentMeans describes how the payable amount is to be paid
type PaymentMeans struct {
	Code        string `json:"code"`
	PaymentID   string `json:"payment_id,omitempty"`
	IBAN        string `json:"iban,omitempty"`
	AccountName string `json:"account_name,omitempty"`
	BIC         string `json:"bic,omitempty"`
}

// TaxCategory identifies a VAT category and rate
type TaxCategory struct {
	ID              string          `json:"id"`
	Percent         decimal.Decimal `json:"percent"`
	ExemptionReason string          `json:"exemption_reason,omitempty"`
	// Name carries the UBL.BE tax code; derived from ID and Percent when empty
	Name string `json:"name,omitempty"`
}

// TaxSubtotal is the VAT breakdown for one category
type TaxSubtotal struct {
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Category      TaxCategory     `json:"category"`
}

// TaxTotal is the document level VAT total
type TaxTotal struct {
	Amount    decimal.Decimal `json:"amount"`
	Subtotals []TaxSubtotal   `json:"subtotals"`
}

// MonetaryTotals is the legal monetary total. Optional amounts are emitted only when set.
type MonetaryTotals struct {
	LineExtension decimal.Decimal  `json:"line_extension"`
	TaxExclusive  decimal.Decimal  `json:"tax_exclusive"`
	TaxInclusive  decimal.Decimal  `json:"tax_inclusive"`
	Allowance     *decimal.Decimal `json:"allowance,omitempty"`
	Charge        *decimal.Decimal `json:"charge,omitempty"`
	Prepaid       *decimal.Decimal `json:"prepaid,omitempty"`
	Rounding      *decimal.Decimal `json:"rounding,omitempty"`
	Payable       decimal.Decimal  `json:"payable"`
}

// Line is an invoice or credit note line
type Line struct {
	ID            string          `json:"id"`
	Note          string          `json:"note,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	SellerItemID  string          `json:"seller_item_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCode      string          `json:"unit_code"`
	LineExtension decimal.Decimal `json:"line_extension"`
	Price         decimal.Decimal `json:"price"`
	Category      TaxCategory     `json:"category"`
}

// Attachment is a document embedded as base64 in the additional document reference
type Attachment struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Content  []byte `json:"content"`
}
