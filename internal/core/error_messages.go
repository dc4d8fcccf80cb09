package core

// # Error Codes Reference
//
// Load failures are shown to the user as a short message, a suggested action
// and a code that can be quoted when reporting a problem. Codes are grouped
// by category:
//
// # Format Errors (FMT001-FMT099)
//
//	FMT001 - Unsupported format: Only .csv and .xlsx files can be loaded
//	         Action: Save the file as CSV or Excel workbook and try again
//	         Patterns: "unsupported format"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Action: Upload a smaller file or a sample of the data
//	          Patterns: "file too large"
//
//	FILE002 - Invalid CSV: Rows do not have a consistent number of columns
//	          Action: Ensure every row has the same number of fields as the header
//	          Patterns: "wrong number of fields", "expected", "invalid csv"
//
//	FILE003 - Bad quoting: A quoted field is not closed properly
//	          Action: Check for stray double quotes in the file
//	          Patterns: "bare \" in non-quoted-field", "extraneous or missing \""
//
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//
//	FORM001 - Malformed request: The upload form could not be read
//	          Patterns: "malformed form data"
//
//	FILE005 - Empty file: The file has no header or rows
//	          Patterns: "empty file", "header row not found"
//
//	FILE006 - Invalid workbook: The file is not a readable Excel workbook
//	          Patterns: "zip:", "open workbook", "workbook has no sheets"
//
// # Example Errors (EX001-EX099)
//
//	EX001 - Unknown example: The example dataset is not available
//	EX002 - Fetch failed: The example dataset could not be downloaded
//
// # Load Errors (LOAD001-LOAD099)
//
//	LOAD001 - System busy: Too many loads in progress
//	LOAD002 - Cancelled: The request was cancelled
//	LOAD003 - Timeout: The load took too long
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the underlying error.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "unsupported format",
		msg: UserMessage{
			Message: "Only .csv and .xlsx files can be loaded",
			Action:  "Save the file as CSV or Excel workbook and try again",
			Code:    "FMT001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Upload a smaller file or a sample of the data",
			Code:    "FILE001",
		},
	},
	{
		pattern: "bare \" in non-quoted-field",
		msg: UserMessage{
			Message: "A quoted field is not closed properly",
			Action:  "Check for stray double quotes in the file",
			Code:    "FILE003",
		},
	},
	{
		pattern: "extraneous or missing \"",
		msg: UserMessage{
			Message: "A quoted field is not closed properly",
			Action:  "Check for stray double quotes in the file",
			Code:    "FILE003",
		},
	},
	{
		pattern: "wrong number of fields",
		msg: UserMessage{
			Message: "Rows do not have a consistent number of columns",
			Action:  "Ensure every row has the same number of fields as the header",
			Code:    "FILE002",
		},
	},
	{
		pattern: "fields, got",
		msg: UserMessage{
			Message: "Rows do not have a consistent number of columns",
			Action:  "Ensure every row has the same number of fields as the header",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a .csv or .xlsx file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "malformed form data",
		msg: UserMessage{
			Message: "The upload form could not be read",
			Action:  "Please submit the form again from the dashboard",
			Code:    "FORM001",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Please upload a file with a header row and data",
			Code:    "FILE005",
		},
	},
	{
		pattern: "header row not found",
		msg: UserMessage{
			Message: "The file has no header row",
			Action:  "Put the column names in the first row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "workbook has no sheets",
		msg: UserMessage{
			Message: "The workbook has no sheets",
			Action:  "Check the file opens in a spreadsheet program",
			Code:    "FILE006",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The file is not a readable Excel workbook",
			Action:  "Re-save the file as .xlsx and try again",
			Code:    "FILE006",
		},
	},
	{
		pattern: "unknown example",
		msg: UserMessage{
			Message: "The example dataset is not available",
			Action:  "Choose one of the listed example datasets",
			Code:    "EX001",
		},
	},
	{
		pattern: "example fetch error",
		msg: UserMessage{
			Message: "The example dataset could not be downloaded",
			Action:  "Check your network connection and try again",
			Code:    "EX002",
		},
	},
	{
		pattern: "too many concurrent loads",
		msg: UserMessage{
			Message: "Too many datasets are loading right now",
			Action:  "Please wait a moment and try again",
			Code:    "LOAD001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "LOAD002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Loading the dataset took too long",
			Action:  "Try a smaller file or try again later",
			Code:    "LOAD003",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a UserMessage.
// A nil error yields the zero UserMessage.
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

// FormatUserError renders err as "Message (Code: X). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
