package tables

import "github.com/JonMunkholm/csvmap/internal/core"

func init() {
	registerAnrokTransactions()
}

// Anrok exports use sentence-case headers; the titles keep them matching
// exactly during auto-mapping.
func registerAnrokTransactions() {
	core.RegisterSchema(core.Schema{
		Key:   "anrok_transactions",
		Group: "Anrok",
		Label: "Transactions",
		Columns: []core.ColumnSpec{
			required(titled(text("transaction_id"), "Transaction ID")),
			titled(text("customer_id"), "Customer ID"),
			titled(text("customer_name"), "Customer name"),
			titled(text("vat_validation_status"), "Overall VAT ID validation status"),
			titled(text("valid_vat_ids"), "Valid VAT IDs"),
			titled(text("other_vat_ids"), "Other VAT IDs"),
			titled(date("invoice_date"), "Invoice date"),
			titled(date("tax_date"), "Tax date"),
			currency(titled(text("transaction_currency"), "Transaction currency")),
			titled(numeric("sales_amount"), "Sales amount"),
			titled(text("exempt_reasons"), "Exempt reasons"),
			titled(numeric("tax_amount"), "Tax amount"),
			titled(numeric("invoice_amount"), "Invoice amount"),
			titled(boolean("void"), "Void"),
			titled(text("customer_address_line_1"), "Customer address line 1"),
			titled(text("customer_address_city"), "Customer address city"),
			titled(text("customer_address_region"), "Customer address region"),
			titled(text("customer_address_postal_code"), "Customer address postal code"),
			titled(text("customer_address_country"), "Customer address country"),
			titled(text("customer_country_code"), "Customer country code"),
			titled(text("jurisdictions"), "Jurisdictions"),
			titled(text("jurisdiction_ids"), "Jurisdictions IDs"),
			titled(text("return_ids"), "Return IDs"),
		},
	})
}

// currency upper-cases ISO 4217 codes and rejects anything else.
func currency(spec core.ColumnSpec) core.ColumnSpec {
	spec.Transforms = append(spec.Transforms, core.Step("uppercase"))
	spec.Rule = &core.Rule{Type: core.RulePattern, Pattern: `^[A-Z]{3}$`, Message: "must be a 3-letter currency code"}
	return spec
}
