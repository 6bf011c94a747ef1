package web

// errors.go provides unified error response handling for the web layer.
//
// Every failure is:
//   - Logged with full technical details and the request ID (server-side)
//   - Returned as a coded user message with an action suggestion
//   - Rendered as JSON for /api routes and as plain text elsewhere
//
// Status codes are chosen with errors.Is against the table error kinds and
// the workspace errors below.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/flatframe/internal/logging"
	"github.com/JonMunkholm/flatframe/internal/pgexport"
	"github.com/JonMunkholm/flatframe/internal/table"
)

var (
	// ErrBadRequest marks malformed request parameters or bodies.
	ErrBadRequest = errors.New("bad request")

	// ErrExportDisabled is returned when no database is configured.
	ErrExportDisabled = errors.New("export is not configured")
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

type webMapping struct {
	kind   error
	status int
	msg    table.UserMessage
}

// webMappings cover errors the table package does not produce.
var webMappings = []webMapping{
	{ErrTableNotFound, http.StatusNotFound, table.UserMessage{
		Message: "No table with this ID exists in the workspace",
		Action:  "List tables with GET /api/tables",
		Code:    "WS001",
	}},
	{ErrWorkspaceFull, http.StatusInsufficientStorage, table.UserMessage{
		Message: "The workspace already holds its maximum number of tables",
		Action:  "Delete tables you no longer need",
		Code:    "WS002",
	}},
	{ErrTooManyUploads, http.StatusServiceUnavailable, table.UserMessage{
		Message: "Too many uploads are being processed",
		Action:  "Retry in a few seconds",
		Code:    "UPL001",
	}},
	{ErrExportDisabled, http.StatusServiceUnavailable, table.UserMessage{
		Message: "Database export is not configured on this server",
		Action:  "Set DATABASE_URL and restart the server",
		Code:    "EXP001",
	}},
	{pgexport.ErrInvalidTarget, http.StatusBadRequest, table.UserMessage{
		Message: "The export destination or a column name is not usable",
		Action:  "Provide a table name and make every column name unique",
		Code:    "EXP002",
	}},
	{ErrBadRequest, http.StatusBadRequest, table.UserMessage{
		Message: "The request is malformed",
		Action:  "Check the parameters and JSON body",
		Code:    "REQ001",
	}},
}

// tableStatuses maps table error kinds to HTTP statuses.
var tableStatuses = []struct {
	kind   error
	status int
}{
	{table.ErrFileNotFound, http.StatusNotFound},
	{table.ErrSchemaMismatch, http.StatusUnprocessableEntity},
	{table.ErrNameCollision, http.StatusConflict},
	{table.ErrNameNotFound, http.StatusNotFound},
	{table.ErrIndexOutOfRange, http.StatusBadRequest},
	{table.ErrTypeMismatch, http.StatusUnprocessableEntity},
	{table.ErrRange, http.StatusBadRequest},
	{table.ErrIO, http.StatusInternalServerError},
}

// mapError returns the user message and HTTP status for err.
func mapError(err error) (table.UserMessage, int) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return table.UserMessage{
			Message: "The uploaded file is too large",
			Action:  "Split the file or raise TABLE_MAX_UPLOAD_BYTES",
			Code:    "UPL002",
		}, http.StatusRequestEntityTooLarge
	}
	for _, m := range webMappings {
		if errors.Is(err, m.kind) {
			return m.msg, m.status
		}
	}
	msg := table.MapError(err)
	for _, s := range tableStatuses {
		if errors.Is(err, s.kind) {
			return msg, s.status
		}
	}
	return msg, http.StatusInternalServerError
}

// badRequest wraps a parameter problem so it maps to 400.
func badRequest(format string, args ...any) error {
	return &requestError{detail: fmt.Sprintf(format, args...)}
}

type requestError struct{ detail string }

func (e *requestError) Error() string { return "bad request: " + e.detail }
func (e *requestError) Unwrap() error { return ErrBadRequest }

// respondError logs err and writes the mapped response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg, status := mapError(err)

	level := slog.LevelWarn
	if status >= 500 {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	if wantsJSON(r) {
		respondErrorJSON(w, msg, err, status)
		return
	}
	http.Error(w, msg.Message+" ("+msg.Code+")", status)
}

// respondErrorJSON writes a JSON error body. Detail from our own error
// kinds is safe to echo; anything else is replaced by the generic message.
func respondErrorJSON(w http.ResponseWriter, msg table.UserMessage, err error, status int) {
	detail := msg.Message
	var te *table.Error
	var re *requestError
	switch {
	case errors.As(err, &te):
		detail = te.Op + ": " + te.Kind.Error()
		if te.Detail != "" {
			detail += ": " + te.Detail
		}
	case errors.As(err, &re):
		detail = re.detail
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   detail,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
