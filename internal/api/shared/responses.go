package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrorResponse defines the standard single-message error response
// structure, used for authentication, not-found and internal errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"-"` // Not serialized to JSON, used for logging
}

// FieldErrorResponse defines the error response for validation failures:
// a mapping from field name to the list of messages for that field. All
// violated fields are reported together.
type FieldErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error response with the given status code
// and message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, ErrorResponse{Error: message, Code: status})
}

// RespondWithFieldErrors writes a 400 response carrying per-field
// validation messages.
func RespondWithFieldErrors(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	slog.Debug("sending field error response",
		"fields", len(fieldErrors),
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, http.StatusBadRequest, FieldErrorResponse{Errors: fieldErrors})
}

// RespondWithErrorAndLog writes a JSON error response and logs the
// detailed error. The raw error never reaches the client; only the given
// user message does. Server errors log at ERROR, everything else at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	logAttrs := []slog.Attr{
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}

	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", err.Error()),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if status == http.StatusTooManyRequests {
		logLevel = slog.LevelWarn
	}

	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, ErrorResponse{Error: userMessage, Code: status})
}
