package core

import (
	"sort"
	"time"
)

// PreviewSummary contains the summary counts of a transform.
type PreviewSummary struct {
	RunID           string `json:"runId"`
	TotalRows       int    `json:"totalRows"`
	ValidRows       int    `json:"validRows"`
	ErrorRows       int    `json:"errorRows"`
	ErrorCount      int    `json:"errorCount"`
	TransformErrors int    `json:"transformErrors"`
}

// RowPreview represents a single output row for display.
type RowPreview struct {
	LineNumber int               `json:"lineNumber"`
	Values     map[string]string `json:"values"`
}

// ErrorPreview represents a row with validation or transform errors.
type ErrorPreview struct {
	LineNumber int               `json:"lineNumber"`
	Values     map[string]string `json:"values"`
	Errors     []string          `json:"errors"`
}

// Preview is the display form of a Result: counts, a few output rows and
// samples of the rows that failed.
type Preview struct {
	Summary          PreviewSummary   `json:"summary"`
	FieldErrors      map[string]int   `json:"fieldErrors"`
	RowSamples       []RowPreview     `json:"rowSamples"`
	ErrorSamples     []ErrorPreview   `json:"errorSamples"`
	TransformErrors  []TransformError `json:"transformErrorSamples"`
	ProcessingTimeMs int64            `json:"processingTimeMs"`
}

// Sample limits
const (
	maxRowSamples       = 10
	maxErrorSamples     = 20
	maxTransformSamples = 20
)

// headerLines offsets row indexes to 1-based file line numbers.
const headerLines = 2

// NewPreview summarises res. elapsed is reported as processing time.
func NewPreview(res *Result, elapsed time.Duration) *Preview {
	v := res.Validation
	p := &Preview{
		Summary: PreviewSummary{
			RunID:           res.RunID,
			TotalRows:       v.TotalRows,
			ValidRows:       v.TotalRows - v.ErrorRows,
			ErrorRows:       v.ErrorRows,
			ErrorCount:      v.ErrorCount,
			TransformErrors: len(res.TransformErrors),
		},
		FieldErrors:      v.FieldErrors,
		RowSamples:       []RowPreview{},
		ErrorSamples:     []ErrorPreview{},
		TransformErrors:  res.TransformErrors,
		ProcessingTimeMs: elapsed.Milliseconds(),
	}
	if p.FieldErrors == nil {
		p.FieldErrors = map[string]int{}
	}
	if len(p.TransformErrors) > maxTransformSamples {
		p.TransformErrors = p.TransformErrors[:maxTransformSamples]
	}

	for r := 0; r < res.Table.Len() && r < maxRowSamples; r++ {
		p.RowSamples = append(p.RowSamples, RowPreview{LineNumber: r + headerLines, Values: rowValues(res, r)})
	}

	// Group messages by row, in row order.
	byRow := make(map[int][]string)
	for _, e := range v.Errors {
		byRow[e.RowIndex] = append(byRow[e.RowIndex], e.Field+": "+e.Message)
	}
	for _, e := range res.TransformErrors {
		byRow[e.RowIndex] = append(byRow[e.RowIndex], e.Field+": transform "+e.Step+" failed")
	}
	rows := make([]int, 0, len(byRow))
	for r := range byRow {
		rows = append(rows, r)
	}
	sort.Ints(rows)

	for _, r := range rows {
		if len(p.ErrorSamples) >= maxErrorSamples {
			break
		}
		p.ErrorSamples = append(p.ErrorSamples, ErrorPreview{
			LineNumber: r + headerLines,
			Values:     rowValues(res, r),
			Errors:     byRow[r],
		})
	}

	return p
}

// rowValues keys a row's cells by header. Repeated headers keep the last
// value.
func rowValues(res *Result, r int) map[string]string {
	values := make(map[string]string)
	row, err := res.Table.Row(r)
	if err != nil {
		return values
	}
	for e := range row.Entries() {
		values[e.Header] = e.Value
	}
	return values
}
