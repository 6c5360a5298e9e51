// Package core maps, transforms and validates tabular imports.
//
// This package holds the import logic independent of any file or terminal
// handling. The CLI, tests and any other host drive it through the same
// types.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Column Specs: a [ColumnSpec] declares one target column with its
//     transform pipeline and validation [Rule].
//   - Engine: [NewEngine] compiles specs once; [Engine.Transform] maps an
//     input table onto them and returns a [Result].
//   - Importer: an [Importer] is one editing session over a parsed input,
//     holding the mapping a user builds by hand or with [Importer.AutoMap].
//   - Registries: named transform steps ([RegisterTransform]) and named
//     schemas ([RegisterSchema]) are registered at init time.
//
// # Schemas
//
// Schemas are registered at init time using [RegisterSchema]:
//
//	core.RegisterSchema(core.Schema{
//	    Key:   "products",
//	    Label: "Products",
//	    Columns: []core.ColumnSpec{
//	        {Name: "sku", Required: true, Transforms: []core.Transform{core.Step("uppercase")}},
//	        {Name: "price", Transforms: []core.Transform{core.Step("number")}, Rule: &core.Rule{Type: core.RuleNumber}},
//	    },
//	})
//
// # Transform Flow
//
// A transform runs in two phases:
//
//  1. Layout: required columns are checked against the mapping, source
//     columns are remapped onto targets, unmapped targets are filled with
//     their default and columns are put in spec order
//  2. Cells: every cell runs through its column's steps in order, then its
//     rule; failures are collected in the [Result]
//
// A failed step leaves the cell at its pre-step value and later steps still
// run. Install [WithTransformErrorHandler] and return false to abort instead.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - TAB001-TAB005: Table errors (ragged rows, missing columns, arity)
//   - MAP001-MAP003: Mapping errors (required, unknown, in use)
//   - TRN001-TRN002: Transform errors
//   - SCH001-SCH005: Schema errors
//   - FILE001-FILE003: File errors
//   - RUN001-RUN002: Cancelled or timed out runs
package core
