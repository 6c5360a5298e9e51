package tables

import "github.com/JonMunkholm/csvmap/internal/core"

func init() {
	registerSfdcCustomers()
	registerSfdcPriceBook()
	registerSfdcOppDetail()
}

func registerSfdcCustomers() {
	core.RegisterSchema(core.Schema{
		Key:   "sfdc_customers",
		Group: "SFDC",
		Label: "Customers",
		Columns: []core.ColumnSpec{
			required(titled(text("account_id_casesafe"), "Account ID (Case Safe)")),
			text("account_name"),
			date("last_activity"),
			text("type"),
		},
	})
}

func registerSfdcPriceBook() {
	core.RegisterSchema(core.Schema{
		Key:   "sfdc_price_book",
		Group: "SFDC",
		Label: "Price Book",
		Columns: []core.ColumnSpec{
			text("price_book_name"),
			numeric("list_price"),
			text("product_name"),
			text("product_code"),
			titled(text("product_id_casesafe"), "Product ID (Case Safe)"),
		},
	})
}

func registerSfdcOppDetail() {
	core.RegisterSchema(core.Schema{
		Key:   "sfdc_opp_detail",
		Group: "SFDC",
		Label: "Opportunity Detail",
		Columns: []core.ColumnSpec{
			required(text("opportunity_id")),
			titled(text("opportunity_product_casesafe_id"), "Opportunity Product ID (Case Safe)"),
			text("opportunity_name"),
			text("account_name"),
			date("close_date"),
			date("booked_date"),
			text("fiscal_period"),
			text("payment_schedule"),
			text("payment_due"),
			date("contract_start_date"),
			date("contract_end_date"),
			text("product_name"),
			text("deployment_type"),
			numeric("amount"),
			numeric("quantity"),
			numeric("list_price"),
			numeric("sales_price"),
			numeric("total_price"),
			date("start_date"),
			date("end_date"),
			numeric("term_in_months"),
			text("product_code"),
			numeric("total_amount_due_customer"),
			numeric("total_amount_due_partner"),
			boolean("active_product"),
		},
	})
}
