// Package core maps, transforms and validates tabular imports.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Table Errors (TAB001-TAB099)
//
// Errors raised by structural table operations:
//
//	TAB001 - Ragged row: A row has a different number of cells than the header
//	         Action: Check the file for missing or extra separators
//	         Patterns: "row length does not match"
//
//	TAB002 - Column not found: A referenced column is not in the file
//	         Action: Verify the column headers match the mapping
//	         Patterns: "column not found"
//
//	TAB003 - Bad position: A column position is out of range
//	         Action: Check the column numbers in the mapping
//	         Patterns: "column index out of range"
//
//	TAB004 - Arity mismatch: Repeated columns map onto a different number of targets
//	         Action: Map each repeated column to one target or to as many targets
//	         Patterns: "column counts differ"
//
//	TAB005 - No headers: The file has no header row
//	         Action: Add a header row or import with headers enabled
//	         Patterns: "table has no headers"
//
// # Mapping Errors (MAP001-MAP099)
//
// Errors related to the source to target mapping:
//
//	MAP001 - Required column: A required column has no source
//	         Action: Map a source column to every required column
//	         Patterns: "required column not mapped"
//
//	MAP002 - Unknown column: The mapping names a column that does not exist
//	         Action: Check the source headers and target names in the mapping
//	         Patterns: "unknown column"
//
//	MAP003 - Target in use: The target column already has a source
//	         Action: Remove the existing mapping first
//	         Patterns: "target column already mapped"
//
// # Transform Errors (TRN001-TRN099)
//
// Errors raised while converting cell values:
//
//	TRN001 - Transform aborted: A cell could not be converted
//	         Action: Fix the reported cell and run the import again
//	         Patterns: "transform aborted"
//
//	TRN002 - Unknown transform: A column uses a transform that does not exist
//	         Action: Check the transform names in the schema
//	         Patterns: "unknown transform"
//
// # Schema Errors (SCH001-SCH099)
//
// Errors related to schema definitions:
//
//	SCH001 - Invalid rule: A validation rule is malformed
//	         Action: Check the rule type, pattern and bounds in the schema
//	         Patterns: "invalid validation rule"
//
//	SCH002 - Invalid column: Column definitions are missing or conflict
//	         Action: Give every column a unique name and output header
//	         Patterns: "invalid column spec"
//
//	SCH003 - Invalid date format: A date format in the schema cannot be compiled
//	         Action: Use a preset name or a valid date pattern
//	         Patterns: "invalid date pattern"
//
//	SCH004 - Schema not found: No schema is registered under that key
//	         Action: Run with --list to see the available schemas
//	         Patterns: "schema not found"
//
//	SCH005 - Schema file: The schema file could not be read
//	         Action: Check the file syntax and extension (.yaml, .json, .hcl)
//	         Patterns: "schema file"
//
// # File Errors (FILE001-FILE099)
//
// Errors related to file handling and parsing:
//
//	FILE001 - Empty file: The input file is empty
//	          Action: Provide a CSV file with a header and data rows
//	          Patterns: "input is empty"
//
//	FILE002 - Invalid CSV: File is not valid delimited text
//	          Action: Check the quoting and separator of the file
//	          Patterns: "unterminated quoted field", "parse csv"
//
//	FILE003 - No file: The file does not exist
//	          Action: Check the path and try again
//	          Patterns: "no such file or directory"
//
// # Run Errors (RUN001-RUN099)
//
// Errors related to the run itself:
//
//	RUN001 - Cancelled: The import was cancelled
//	         Action: Run the import again when ready
//	         Patterns: "context canceled"
//
//	RUN002 - Timed out: The import took too long
//	         Action: Split the file or raise the timeout
//	         Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones. Multiple patterns can map to the same code
// (e.g., FILE002 matches both "unterminated quoted field" and "parse csv").
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, rerun with LOG_LEVEL=debug to see the original technical error
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// Transform Errors (TRN001-TRN002)
	// Checked first: an aborted transform wraps the failing cell's error text.
	// =========================================================================
	{
		pattern: "transform aborted",
		msg: UserMessage{
			Message: "A cell could not be converted",
			Action:  "Fix the reported cell and run the import again",
			Code:    "TRN001",
		},
	},
	{
		pattern: "unknown transform",
		msg: UserMessage{
			Message: "Unknown transform",
			Action:  "Check the transform names in the schema",
			Code:    "TRN002",
		},
	},

	// =========================================================================
	// Mapping Errors (MAP001-MAP003)
	// These errors occur when the mapping does not fit the schema.
	// =========================================================================
	{
		pattern: "required column not mapped",
		msg: UserMessage{
			Message: "A required column has no source",
			Action:  "Map a source column to every required column",
			Code:    "MAP001",
		},
	},
	{
		pattern: "unknown column",
		msg: UserMessage{
			Message: "The mapping names a column that does not exist",
			Action:  "Check the source headers and target names in the mapping",
			Code:    "MAP002",
		},
	},
	{
		pattern: "target column already mapped",
		msg: UserMessage{
			Message: "The target column already has a source",
			Action:  "Remove the existing mapping first",
			Code:    "MAP003",
		},
	},

	// =========================================================================
	// Table Errors (TAB001-TAB005)
	// These errors occur during structural table operations.
	// =========================================================================
	{
		pattern: "row length does not match",
		msg: UserMessage{
			Message: "A row has a different number of cells than the header",
			Action:  "Check the file for missing or extra separators",
			Code:    "TAB001",
		},
	},
	{
		pattern: "column not found",
		msg: UserMessage{
			Message: "A referenced column is not in the file",
			Action:  "Verify the column headers match the mapping",
			Code:    "TAB002",
		},
	},
	{
		pattern: "column index out of range",
		msg: UserMessage{
			Message: "A column position is out of range",
			Action:  "Check the column numbers in the mapping",
			Code:    "TAB003",
		},
	},
	{
		pattern: "column counts differ",
		msg: UserMessage{
			Message: "Repeated columns map onto a different number of targets",
			Action:  "Map each repeated column to one target or to as many targets",
			Code:    "TAB004",
		},
	},
	{
		pattern: "table has no headers",
		msg: UserMessage{
			Message: "The file has no header row",
			Action:  "Add a header row or import with headers enabled",
			Code:    "TAB005",
		},
	},

	// =========================================================================
	// Schema Errors (SCH001-SCH005)
	// These errors occur when loading or compiling a schema.
	// =========================================================================
	{
		pattern: "invalid validation rule",
		msg: UserMessage{
			Message: "A validation rule is malformed",
			Action:  "Check the rule type, pattern and bounds in the schema",
			Code:    "SCH001",
		},
	},
	{
		pattern: "invalid column spec",
		msg: UserMessage{
			Message: "Column definitions are missing or conflict",
			Action:  "Give every column a unique name and output header",
			Code:    "SCH002",
		},
	},
	{
		pattern: "invalid date pattern",
		msg: UserMessage{
			Message: "A date format in the schema cannot be compiled",
			Action:  "Use a preset name or a valid date pattern",
			Code:    "SCH003",
		},
	},
	{
		pattern: "schema not found",
		msg: UserMessage{
			Message: "No schema is registered under that key",
			Action:  "Run with --list to see the available schemas",
			Code:    "SCH004",
		},
	},
	{
		pattern: "schema file",
		msg: UserMessage{
			Message: "The schema file could not be read",
			Action:  "Check the file syntax and extension (.yaml, .json, .hcl)",
			Code:    "SCH005",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE003)
	// These errors occur when reading input files.
	// =========================================================================
	{
		pattern: "input is empty",
		msg: UserMessage{
			Message: "The input file is empty",
			Action:  "Provide a CSV file with a header and data rows",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unterminated quoted field",
		msg: UserMessage{
			Message: "File is not valid delimited text",
			Action:  "Check the quoting and separator of the file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "parse csv",
		msg: UserMessage{
			Message: "File is not valid delimited text",
			Action:  "Check the quoting and separator of the file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no such file or directory",
		msg: UserMessage{
			Message: "The file does not exist",
			Action:  "Check the path and try again",
			Code:    "FILE003",
		},
	},

	// =========================================================================
	// Run Errors (RUN001-RUN002)
	// These errors occur when a run is interrupted.
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The import was cancelled",
			Action:  "Run the import again when ready",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The import timed out",
			Action:  "Split the file or raise the timeout",
			Code:    "RUN002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := fmt.Errorf("transform: %w", ErrRequiredUnmapped)
//	msg := MapError(err)
//	// msg.Code == "MAP001"
//	// msg.Message == "A required column has no source"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// Example output: "A required column has no source (Code: MAP001). Map a source column to every required column"
//
// This is the primary function for displaying errors to end users.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
//
// Example:
//
//	if IsUserFacing(err) {
//	    showToUser(FormatUserError(err))
//	} else {
//	    slog.Error("import failed", "error", err) // Log technical error
//	    showToUser("An error occurred. Please try again.")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// WrapWithUserMessage wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// The returned UserError preserves the original technical error for logging via Unwrap(),
// while providing a clean user message via Error().
//
// Returns nil if err is nil.
//
// Example:
//
//	ue := NewUserError(err)
//	slog.Error("import failed", "error", ue.Technical) // Log original error
//	fmt.Println(ue.Error())                            // Show "The input file is empty"
//	fmt.Println(ue.User.Code)                          // Show "FILE001"
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
