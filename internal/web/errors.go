package web

// errors.go turns service errors into responses.
//
// Every error is logged with the request ID and answered with the coded
// message from core.MapError: as JSON for /api routes and clients that
// ask for JSON, as the HTML page otherwise. Validation failures also carry
// the position of the bad field so a client can point at it.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/csvview/internal/core"
	"github.com/JonMunkholm/csvview/internal/logging"
	"github.com/JonMunkholm/csvview/internal/source"
	"github.com/JonMunkholm/csvview/internal/table"
)

var (
	errNoFile     = errors.New("no file provided")
	errBadRequest = errors.New("invalid request")
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Action  string       `json:"action,omitempty"`
	Code    string       `json:"code"`
	Detail  *ErrorDetail `json:"detail,omitempty"`
}

// ErrorDetail locates a validation failure. Column is set for quote
// errors, Expected and Found for field-count errors.
type ErrorDetail struct {
	Kind     string `json:"kind"`
	Row      int    `json:"row"`
	Column   int    `json:"column,omitempty"`
	Value    string `json:"value,omitempty"`
	Expected int    `json:"expected,omitempty"`
	Found    int    `json:"found,omitempty"`
}

// newErrorResponse builds the body for err.
func newErrorResponse(err error) ErrorResponse {
	msg := core.MapError(err)
	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}

	var (
		qe *table.QuoteError
		re *table.RowShapeError
	)
	switch {
	case errors.As(err, &qe):
		resp.Error = qe.Error()
		resp.Detail = &ErrorDetail{Kind: qe.Kind.Name(), Row: qe.Row, Column: qe.Column, Value: qe.Value}
	case errors.As(err, &re):
		resp.Error = re.Error()
		resp.Detail = &ErrorDetail{Kind: "field_count", Row: re.Row, Expected: re.Expected, Found: re.Found}
	}
	return resp
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	if _, ok := table.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity
	}

	var (
		se  *source.Error
		mbe *http.MaxBytesError
	)
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &se):
		switch se.Kind {
		case source.TooLarge:
			return http.StatusRequestEntityTooLarge
		case source.NotFound:
			return http.StatusNotFound
		case source.Permission:
			return http.StatusForbidden
		case source.Unsupported:
			return http.StatusUnsupportedMediaType
		case source.Encoding:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusInternalServerError
		}
	case errors.Is(err, core.ErrNoDocument):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyParses):
		return http.StatusServiceUnavailable
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errNoFile),
		errors.Is(err, core.ErrInvalidQuery),
		errors.Is(err, table.ErrInvalidDelimiter),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the coded response in the format the
// client expects.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := newErrorResponse(err)

	level := slog.LevelInfo
	if status >= 500 {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", resp.Code,
	)

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	if wantsJSON(r) {
		writeJSONStatus(w, status, resp)
		return
	}
	renderHTML(w, r, status, errorPage(resp))
}

// wantsJSON reports whether the client prefers a JSON response. API
// routes always answer JSON.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// writeJSON writes v with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus encodes v as JSON. Encoding errors are only logged since
// the header is already sent.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
