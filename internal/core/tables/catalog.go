package tables

import "github.com/JonMunkholm/csvmap/internal/core"

func init() {
	registerProducts()
	registerContacts()
}

var zero = 0.0

func registerProducts() {
	core.RegisterSchema(core.Schema{
		Key:   "products",
		Group: "Catalog",
		Label: "Products",
		Columns: []core.ColumnSpec{
			{
				Name:       "sku",
				Title:      "SKU",
				Required:   true,
				Transforms: []core.Transform{core.Step("trim"), core.Step("uppercase")},
				Rule:       &core.Rule{Type: core.RulePattern, Pattern: `^[A-Z0-9][A-Z0-9_-]*$`, Message: "SKU may only contain letters, digits, dashes and underscores"},
			},
			{
				Name:       "name",
				Title:      "Product Name",
				Required:   true,
				Transforms: []core.Transform{core.Step("trim")},
				Rule:       &core.Rule{Type: core.RuleRequired},
			},
			text("description"),
			{
				Name:       "price",
				Title:      "Unit Price",
				Transforms: []core.Transform{strictNumber},
				Rule:       &core.Rule{Type: core.RuleNumber, Min: &zero},
			},
			{
				Name:       "quantity",
				Title:      "Quantity on Hand",
				Default:    core.DefaultTo("0"),
				Transforms: []core.Transform{strictNumber},
				Rule:       &core.Rule{Type: core.RuleInteger, Min: &zero},
			},
			{
				Name:            "category",
				AllowDuplicates: true,
				Transforms:      []core.Transform{core.Step("trim"), core.Step("titlecase")},
			},
			{
				Name:       "active",
				Default:    core.DefaultTo("true"),
				Transforms: []core.Transform{strictBool},
				Rule:       &core.Rule{Type: core.RuleBoolean},
			},
			date("released"),
		},
	})
}

func registerContacts() {
	state := text("state")
	state.Transforms = append(state.Transforms, core.Step("us_state"))

	core.RegisterSchema(core.Schema{
		Key:   "contacts",
		Group: "CRM",
		Label: "Contacts",
		Columns: []core.ColumnSpec{
			{
				Name:       "first_name",
				Title:      "First Name",
				Required:   true,
				Transforms: []core.Transform{core.Step("trim"), core.Step("capitalize")},
				Rule:       &core.Rule{Type: core.RuleRequired},
			},
			{
				Name:       "last_name",
				Title:      "Last Name",
				Transforms: []core.Transform{core.Step("trim"), core.Step("capitalize")},
			},
			{
				Name:       "email",
				Title:      "Email Address",
				Required:   true,
				Transforms: []core.Transform{core.Step("trim"), core.Step("lowercase")},
				Rule:       &core.Rule{Type: core.RuleEmail},
			},
			{
				Name:       "phone",
				Transforms: []core.Transform{core.Step("trim")},
				Rule:       &core.Rule{Type: core.RulePattern, Pattern: `^\+?[0-9 ().-]{7,20}$`, Message: "invalid phone number"},
			},
			text("company"),
			text("city"),
			state,
			{
				Name:       "status",
				Default:    core.DefaultTo("lead"),
				Transforms: []core.Transform{core.Step("trim"), core.Step("lowercase")},
				Rule:       &core.Rule{Type: core.RuleEnum, Values: []string{"lead", "customer", "partner", "churned"}},
			},
			titled(date("created"), "Created Date"),
		},
	})
}
