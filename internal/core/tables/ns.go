package tables

import "github.com/JonMunkholm/csvmap/internal/core"

func init() {
	registerNsCustomers()
	registerNsSoDetail()
	registerNsInvoiceDetail()
}

func registerNsCustomers() {
	core.RegisterSchema(core.Schema{
		Key:   "ns_customers",
		Group: "NS",
		Label: "Customers",
		Columns: []core.ColumnSpec{
			titled(text("salesforce_id_io"), "Salesforce ID"),
			required(text("internal_id")),
			text("name"),
			text("duplicate"),
			text("company_name"),
			numeric("balance"),
			numeric("unbilled_orders"),
			numeric("overdue_balance"),
			integer("days_overdue"),
		},
	})
}

func registerNsSoDetail() {
	core.RegisterSchema(core.Schema{
		Key:   "ns_so_detail",
		Group: "NS",
		Label: "SO Detail",
		Columns: []core.ColumnSpec{
			titled(text("sfdc_opp_id"), "SFDC Opportunity ID"),
			titled(text("sfdc_opp_line_id"), "SFDC Opportunity Line ID"),
			text("customer_internal_id"),
			text("product_internal_id"),
			text("customer_project"),
			titled(text("so_number"), "Sales Order Number"),
			date("document_date"),
			date("start_date"),
			date("end_date"),
			text("item_name"),
			text("item_display_name"),
			date("line_start_date"),
			date("line_end_date"),
			numeric("quantity"),
			numeric("unit_price"),
			numeric("amount_gross"),
			integer("terms_days_till_net_due"),
		},
	})
}

func registerNsInvoiceDetail() {
	state := text("shipping_address_state")
	state.Transforms = append(state.Transforms, core.Step("us_state"))

	core.RegisterSchema(core.Schema{
		Key:   "ns_invoice_detail",
		Group: "NS",
		Label: "Invoice Detail",
		Columns: []core.ColumnSpec{
			titled(text("sfdc_opp_id"), "SFDC Opportunity ID"),
			titled(text("sfdc_opp_line_id"), "SFDC Opportunity Line ID"),
			titled(text("sfdc_pricebook_id"), "SFDC Price Book ID"),
			text("customer_internal_id"),
			text("product_internal_id"),
			text("type"),
			date("date"),
			date("date_due"),
			required(text("document_number")),
			text("name"),
			text("memo"),
			text("item"),
			titled(numeric("qty"), "Quantity"),
			numeric("contract_quantity"),
			numeric("unit_price"),
			numeric("amount"),
			date("start_date_line"),
			date("end_date_line_level"),
			text("account"),
			text("shipping_address_city"),
			state,
			text("shipping_address_country"),
		},
	})
}
