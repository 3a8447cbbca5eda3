package core

// # Error Codes Reference
//
// Every error the editor can show is mapped to a short message, a suggested
// action and a code users can quote to support.
//
// Engine errors are matched with errors.Is against the sentinels in
// errors.go. Anything else (storage drivers, limits, request cancellation)
// falls through to case-insensitive substring patterns.
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Unknown table: the slot number does not exist
//	TBL002 - Row out of range: the row was removed or never existed
//
// # Column Errors (COL001-COL099)
//
//	COL001 - Duplicate column
//	COL002 - Last column: a table must keep at least one column
//	COL003 - Unknown column
//	COL004 - Invalid column name
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	FILE002 - Unsupported format: not csv, tsv or xlsx
//	FILE003 - Unreadable file: bad header, ragged rows, corrupt workbook
//	FILE004 - No file: nothing was uploaded
//
// # Reconciliation Errors (REC001-REC099)
//
//	REC001 - Columns differ: choose align, union or cancel
//	REC002 - Append cancelled
//	REC003 - Invalid filter: range filter on text, or min above max
//
// # Undo (UNDO001)
//
//	UNDO001 - Nothing to undo
//
// # Storage (IO001-IO099)
//
//	IO001 - Save or load failed
//	IO002 - Database unreachable
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - Too many imports in progress
//	UPL002 - Request cancelled
//	UPL003 - Request timed out
//
// # Requests (REQ001-REQ099)
//
//	REQ001 - Malformed request body
//
// # Rate Limiting (RATE001)
//
// # Default Error (ERR000)
//
// When a user reports ERR000, check the application log for the request id
// shown next to it.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// sentinelMessages is checked in order with errors.Is.
var sentinelMessages = []sentinelMessage{
	{ErrUnknownTable, UserMessage{"That table does not exist", "Pick one of the table tabs", "TBL001"}},
	{ErrRowOutOfRange, UserMessage{"That row no longer exists", "Reload the table and try again", "TBL002"}},
	{ErrDuplicateColumn, UserMessage{"A column with that name already exists", "Choose a different column name", "COL001"}},
	{ErrNoColumnsRemaining, UserMessage{"A table must keep at least one column", "Leave at least one column unselected", "COL002"}},
	{ErrUnknownColumn, UserMessage{"Column not found", "Reload the table; the column may have been removed", "COL003"}},
	{ErrInvalidColumnName, UserMessage{"Column names cannot be blank", "Enter a column name", "COL004"}},
	{ErrFileTooLarge, UserMessage{"File exceeds the maximum upload size", "Split the file into smaller files", "FILE001"}},
	{ErrUnsupportedFormat, UserMessage{"File type is not supported", "Upload a .csv, .tsv or .xlsx file", "FILE002"}},
	{ErrParse, UserMessage{"The file could not be read", "Check that the header has unique names and rows are not longer than the header", "FILE003"}},
	{ErrReconciliationRequired, UserMessage{"The file's columns differ from the table's", "Choose align, add new columns, or cancel", "REC001"}},
	{ErrAppendCancelled, UserMessage{"Upload cancelled", "Nothing was changed", "REC002"}},
	{ErrInvalidPredicate, UserMessage{"That filter cannot be applied", "Use value filters on text columns and a minimum no larger than the maximum", "REC003"}},
	{ErrNothingToUndo, UserMessage{"Nothing to undo", "Make a change first", "UNDO001"}},
	{ErrTooManyImports, UserMessage{"System is busy processing other uploads", "Please wait a moment and try again", "UPL001"}},
	{ErrIO, UserMessage{"The table could not be saved", "Check storage and try again; your changes are still in the editor", "IO001"}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text to user messages. First match wins.
var errorPatterns = []errorPattern{
	{"no file provided", UserMessage{"No file was selected", "Please select a file to upload", "FILE004"}},
	{"invalid request body", UserMessage{"The request could not be understood", "Reload the page and try again", "REQ001"}},
	{"connection refused", UserMessage{"Unable to connect to the database", "Please try again in a few moments", "IO002"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "UPL002"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try a smaller file or try again later", "UPL003"}},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-facing message. nil maps to the zero
// UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error, kept for logs, with the message shown
// to the user.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string { return e.User.Message }

func (e *UserError) Unwrap() error { return e.Technical }

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
