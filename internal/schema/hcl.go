package schema

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// decodeHCL reads the native HCL form:
//
//	key = "products"
//
//	column "sku" {
//	  required = true
//	  transform "trim" {}
//	  validate "pattern" {
//	    pattern = "^[A-Z0-9-]+$"
//	  }
//	}
//
// Diagnostics are rendered with source context.
func decodeHCL(data []byte, filename string, f *File) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if !diags.HasErrors() {
		diags = append(diags, gohcl.DecodeBody(file.Body, nil, f)...)
	}
	if diags.HasErrors() {
		var sb strings.Builder
		wr := hcl.NewDiagnosticTextWriter(&sb, parser.Files(), 78, false)
		if err := wr.WriteDiagnostics(diags); err != nil {
			return fmt.Errorf("parse hcl: %w", diags)
		}
		return fmt.Errorf("parse hcl: %s", strings.TrimSpace(sb.String()))
	}
	return nil
}
