package table

// # Error Codes Reference
//
// Every table error maps to a user-facing message with a code that callers
// can quote back when reporting a problem. Codes are grouped by error kind:
//
//	FILE001 - File not found: The CSV file does not exist or cannot be opened
//	          Action: Check the path and file permissions
//
//	IO001   - I/O failure: Reading or writing table data failed
//	          Action: Check disk space and that the destination is writable
//
//	SCH001  - Schema mismatch: Row or column counts do not line up
//	          Action: Make every line have as many fields as the header
//
//	NAME001 - Name collision: Both tables define the same feature name
//	          Action: Rename one of the columns before concatenating
//
//	NAME002 - Name not found: No column carries the requested feature name
//	          Action: Check the header for the exact spelling
//
//	IDX001  - Index out of range: A row or column index is outside the table
//	          Action: Use indexes between 0 and the row/column count minus one
//
//	TYPE001 - Type mismatch: A numeric operation hit a STRING column
//	          Action: Select numeric columns only
//
//	RNG001  - Invalid range: A slice or sort range is empty or out of bounds
//	          Action: Use a start strictly below the end, within the table
//
//	ERR000  - Unknown error: Anything not produced by this package
//
// Matching uses errors.Is against the sentinel kinds, first match wins.

import (
	"errors"
	"fmt"
)

// UserMessage is a user-facing description of an error.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorMapping struct {
	kind error
	msg  UserMessage
}

var errorMappings = []errorMapping{
	{ErrFileNotFound, UserMessage{
		Message: "The CSV file does not exist or cannot be opened",
		Action:  "Check the path and file permissions",
		Code:    "FILE001",
	}},
	{ErrIO, UserMessage{
		Message: "Reading or writing table data failed",
		Action:  "Check disk space and that the destination is writable",
		Code:    "IO001",
	}},
	{ErrSchemaMismatch, UserMessage{
		Message: "Row or column counts do not line up",
		Action:  "Make every line have as many fields as the header",
		Code:    "SCH001",
	}},
	{ErrNameCollision, UserMessage{
		Message: "Both tables define the same feature name",
		Action:  "Rename one of the columns before concatenating",
		Code:    "NAME001",
	}},
	{ErrNameNotFound, UserMessage{
		Message: "No column carries the requested feature name",
		Action:  "Check the header for the exact spelling",
		Code:    "NAME002",
	}},
	{ErrIndexOutOfRange, UserMessage{
		Message: "A row or column index is outside the table",
		Action:  "Use indexes between 0 and the row/column count minus one",
		Code:    "IDX001",
	}},
	{ErrTypeMismatch, UserMessage{
		Message: "A numeric operation was requested on non-numeric data",
		Action:  "Select numeric columns only",
		Code:    "TYPE001",
	}},
	{ErrRange, UserMessage{
		Message: "The requested range is empty or out of bounds",
		Action:  "Use a start strictly below the end, within the table",
		Code:    "RNG001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error into a user-facing message. A nil error maps
// to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			return m.msg
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
