package core

// error_messages.go turns technical errors into coded messages for people.
//
// Codes are grouped by category and are stable, so a user can quote one
// when reporting a problem:
//
//	CSV001    Unbalanced quote in a field
//	CSV002    Escaped quote in a field without outer quotes
//	CSV003    Quoted field never closed
//	CSV004    Row has the wrong number of fields
//
//	FILE001   File exceeds the size limit
//	FILE002   File not found
//	FILE003   File is not valid UTF-8
//	FILE004   No file in the request
//	FILE005   Permission denied
//	FILE006   Unsupported file type
//	FILE007   File could not be read
//
//	PARSE001  All parse slots busy
//	PARSE002  Request cancelled
//	PARSE003  Request timed out
//	PARSE004  Invalid delimiter
//	PARSE005  Invalid search
//
//	DOC001    No document open
//	REQ001    Malformed request
//	RATE001   Rate limited
//	ERR000    Anything else; check the server log
//
// Typed errors (table, source and service errors) are matched with
// errors.Is and errors.As. Errors that only carry text, such as those
// produced by the HTTP layer, fall back to case-insensitive substring
// patterns; the first matching pattern wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/csvview/internal/source"
	"github.com/JonMunkholm/csvview/internal/table"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgInvalidQuote = UserMessage{
		Message: "A field contains an unbalanced quote",
		Action:  "Double every quote inside a quoted field (\"\") and check the reported column",
		Code:    "CSV001",
	}
	msgInvalidEscape = UserMessage{
		Message: "A field contains escaped quotes but is not itself quoted",
		Action:  "Wrap the field in quotes or remove the doubled quotes",
		Code:    "CSV002",
	}
	msgUnterminatedQuote = UserMessage{
		Message: "A quoted field is never closed",
		Action:  "Add the missing closing quote near the reported row",
		Code:    "CSV003",
	}
	msgFieldCount = UserMessage{
		Message: "A row has a different number of fields than the rows before it",
		Action:  "Make every row have the same number of columns",
		Code:    "CSV004",
	}

	sourceMessages = map[source.Kind]UserMessage{
		source.TooLarge: {
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
		source.NotFound: {
			Message: "File not found",
			Action:  "Check the path and try again",
			Code:    "FILE002",
		},
		source.Encoding: {
			Message: "File contains invalid characters",
			Action:  "Save the file with UTF-8 encoding",
			Code:    "FILE003",
		},
		source.Permission: {
			Message: "Permission denied reading the file",
			Action:  "Check the file permissions",
			Code:    "FILE005",
		},
		source.Unsupported: {
			Message: "Unsupported file type",
			Action:  "Open a .csv, .tsv or .txt file",
			Code:    "FILE006",
		},
		source.Read: {
			Message: "The file could not be read",
			Action:  "Check the file and try again",
			Code:    "FILE007",
		},
	}

	msgTooManyParses = UserMessage{
		Message: "System is busy parsing other documents",
		Action:  "Please wait a moment and try again",
		Code:    "PARSE001",
	}
	msgCanceled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "PARSE002",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "PARSE003",
	}
	msgInvalidDelimiter = UserMessage{
		Message: "The delimiter is not allowed",
		Action:  "Use a single character other than a quote or line break",
		Code:    "PARSE004",
	}
	msgInvalidQuery = UserMessage{
		Message: "The search is not valid",
		Action:  "Enter search text, or fix the regular expression",
		Code:    "PARSE005",
	}
	msgNoDocument = UserMessage{
		Message: "No document is open",
		Action:  "Open or upload a file first",
		Code:    "DOC001",
	}
)

// errorPattern maps a lower-case substring to a message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns cover errors that arrive as plain text. Order matters:
// specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{pattern: "no file provided", msg: UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV or TSV file",
		Code:    "FILE004",
	}},
	{pattern: "request body too large", msg: sourceMessages[source.TooLarge]},
	{pattern: "delimiter", msg: msgInvalidDelimiter},
	{pattern: "invalid request", msg: UserMessage{
		Message: "The request is malformed",
		Action:  "Check the request parameters and body",
		Code:    "REQ001",
	}},
	{pattern: "rate limit", msg: UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
	{pattern: "context deadline exceeded", msg: msgTimeout},
	{pattern: "timeout", msg: msgTimeout},
	{pattern: "context canceled", msg: msgCanceled},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-facing message. It returns the zero
// UserMessage for a nil error and ERR000 when nothing matches.
//
//	_, err := svc.OpenFile(ctx, "data.csv", true)
//	msg := MapError(err)
//	// msg.Code == "CSV003" for an unclosed quote
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		qe *table.QuoteError
		se *source.Error
	)
	switch {
	case errors.As(err, &qe):
		switch qe.Kind {
		case table.InvalidEscape:
			return msgInvalidEscape
		case table.UnterminatedQuote:
			return msgUnterminatedQuote
		default:
			return msgInvalidQuote
		}
	case errors.Is(err, table.ErrFieldCount):
		return msgFieldCount
	case errors.As(err, &se):
		if msg, ok := sourceMessages[se.Kind]; ok {
			return msg
		}
	case errors.Is(err, table.ErrInvalidDelimiter):
		return msgInvalidDelimiter
	case errors.Is(err, ErrTooManyParses):
		return msgTooManyParses
	case errors.Is(err, ErrNoDocument):
		return msgNoDocument
	case errors.Is(err, ErrInvalidQuery):
		return msgInvalidQuery
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.Is(err, context.Canceled):
		return msgCanceled
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders MapError as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback. Fallback errors are logged as server errors.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
