package builder

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/ubl/internal/attachment"
	dec "github.com/rezonia/ubl/internal/decimal"
	"github.com/rezonia/ubl/internal/model"
)

// check runs every precondition before any element is created.
// Required fields come first, then numeric rules, then the attachment.
func check(ext model.Extension, data *model.DocumentData) error {
	if data == nil {
		return model.NewIncompleteDataError("DocumentData", "is nil")
	}
	if err := checkRequired(ext, data); err != nil {
		return err
	}
	if err := checkNumeric(data); err != nil {
		return err
	}
	if _, err := attachment.Inspect(data.Attachment); err != nil {
		return err
	}
	return nil
}

func checkRequired(ext model.Extension, data *model.DocumentData) error {
	if blank(data.ID) {
		return model.NewIncompleteDataError("ID", "is required")
	}
	if data.IssueDate.IsZero() {
		return model.NewIncompleteDataError("IssueDate", "is required")
	}
	if len(strings.TrimSpace(data.Currency)) != 3 {
		return model.NewIncompleteDataError("Currency", "must be an ISO 4217 code")
	}

	if err := checkParty("Supplier", data.Supplier); err != nil {
		return err
	}
	if err := checkParty("Customer", data.Customer); err != nil {
		return err
	}
	if ext == model.ExtensionUBLBE && blank(data.Supplier.LegalID) {
		return model.NewIncompleteDataError("Supplier.LegalID", "is required for UBL.BE")
	}

	if data.PaymentMeans != nil && blank(data.PaymentMeans.Code) {
		return model.NewIncompleteDataError("PaymentMeans.Code", "is required")
	}

	if len(data.TaxTotal.Subtotals) == 0 && !data.HeaderOnly {
		return model.NewIncompleteDataError("TaxTotal.Subtotals", "at least one subtotal is required")
	}
	for i, sub := range data.TaxTotal.Subtotals {
		if err := checkCategory(ext, fmt.Sprintf("TaxTotal.Subtotals[%d].Category", i), sub.Category); err != nil {
			return err
		}
	}

	if len(data.Lines) == 0 && !data.HeaderOnly {
		return model.NewIncompleteDataError("Lines", "at least one line is required")
	}
	for i, line := range data.Lines {
		field := fmt.Sprintf("Lines[%d]", i)
		switch {
		case blank(line.ID):
			return model.NewIncompleteDataError(field+".ID", "is required")
		case blank(line.Name):
			return model.NewIncompleteDataError(field+".Name", "is required")
		case blank(line.UnitCode):
			return model.NewIncompleteDataError(field+".UnitCode", "is required")
		}
		if err := checkCategory(ext, field+".Category", line.Category); err != nil {
			return err
		}
	}

	return nil
}

func checkParty(field string, p model.Party) error {
	switch {
	case blank(p.Name):
		return model.NewIncompleteDataError(field+".Name", "is required")
	case blank(p.EndpointID):
		return model.NewIncompleteDataError(field+".EndpointID", "is required")
	case blank(p.EndpointScheme):
		return model.NewIncompleteDataError(field+".EndpointScheme", "is required")
	case blank(p.Address.Country):
		return model.NewIncompleteDataError(field+".Address.Country", "is required")
	}
	return nil
}

func checkCategory(ext model.Extension, field string, c model.TaxCategory) error {
	if blank(c.ID) {
		return model.NewIncompleteDataError(field+".ID", "is required")
	}
	if ext == model.ExtensionUBLBE {
		if _, ok := belgianTaxCode(c); !ok {
			return model.NewIncompleteDataError(field+".Name",
				fmt.Sprintf("no UBL.BE tax code for category %s at %s%%", c.ID, c.Percent.String()))
		}
	}
	return nil
}

type amountField struct {
	field string
	value *decimal.Decimal
}

func checkNumeric(data *model.DocumentData) error {
	t := data.Totals
	amounts := []amountField{
		{"TaxTotal.Amount", &data.TaxTotal.Amount},
		{"Totals.LineExtension", &t.LineExtension},
		{"Totals.TaxExclusive", &t.TaxExclusive},
		{"Totals.TaxInclusive", &t.TaxInclusive},
		{"Totals.Allowance", t.Allowance},
		{"Totals.Charge", t.Charge},
		{"Totals.Prepaid", t.Prepaid},
		{"Totals.Rounding", t.Rounding},
		{"Totals.Payable", &t.Payable},
	}
	for _, a := range amounts {
		if a.value == nil {
			continue
		}
		if err := dec.CheckAmount(a.field, *a.value); err != nil {
			return err
		}
	}

	for i, sub := range data.TaxTotal.Subtotals {
		field := fmt.Sprintf("TaxTotal.Subtotals[%d]", i)
		if err := dec.CheckAmount(field+".TaxableAmount", sub.TaxableAmount); err != nil {
			return err
		}
		if err := dec.CheckAmount(field+".TaxAmount", sub.TaxAmount); err != nil {
			return err
		}
		if err := dec.CheckQuantity(field+".Category.Percent", sub.Category.Percent); err != nil {
			return err
		}
	}

	for i, line := range data.Lines {
		field := fmt.Sprintf("Lines[%d]", i)
		if err := dec.CheckQuantity(field+".Quantity", line.Quantity); err != nil {
			return err
		}
		if err := dec.CheckAmount(field+".LineExtension", line.LineExtension); err != nil {
			return err
		}
		if err := dec.CheckQuantity(field+".Price", line.Price); err != nil {
			return err
		}
		if err := dec.CheckQuantity(field+".Category.Percent", line.Category.Percent); err != nil {
			return err
		}
	}

	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
