// Package httputil provides HTTP utilities including consistent error responses.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/roleatlas/roleatlas/internal/pkg/logger"
)

// ErrorResponse represents a consistent error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error codes for consistent error identification.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeRequestTooLarge    = "REQUEST_TOO_LARGE"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
)

// WriteError writes a consistent JSON error response and logs it.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message, details string) {
	attrs := []any{
		"status", status,
		"code", code,
		"message", message,
		"path", r.URL.Path,
		"method", r.Method,
	}
	if details != "" {
		attrs = append(attrs, "details", details)
	}
	if reqID := chimiddleware.GetReqID(r.Context()); reqID != "" {
		attrs = append(attrs, "request_id", reqID)
	}
	logger.Error("HTTP error", attrs...)

	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusBadRequest, CodeBadRequest, message, "")
}

// ValidationFailed writes a 400 response for semantically invalid input.
func ValidationFailed(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusBadRequest, CodeValidationFailed, message, "")
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Not found"
	}
	WriteError(w, r, http.StatusNotFound, CodeNotFound, message, "")
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	WriteError(w, r, http.StatusInternalServerError, CodeInternalError, "Internal server error", details)
}

// ServiceUnavailable writes a 503 Service Unavailable error response.
func ServiceUnavailable(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Service unavailable"
	}
	WriteError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable, message, "")
}

// TooManyRequests writes a 429 Too Many Requests error response.
func TooManyRequests(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Too many requests"
	}
	WriteError(w, r, http.StatusTooManyRequests, CodeTooManyRequests, message, "")
}

// RequestTooLarge writes a 413 Request Entity Too Large error response.
func RequestTooLarge(w http.ResponseWriter, r *http.Request, maxSize int64) {
	WriteError(w, r, http.StatusRequestEntityTooLarge, CodeRequestTooLarge,
		"Request body too large", "")
}

// InvalidJSON writes a 400 error for JSON parsing errors with helpful details.
func InvalidJSON(w http.ResponseWriter, r *http.Request, err error) {
	details := ""
	if err != nil {
		var syntaxErr *json.SyntaxError
		var unmarshalErr *json.UnmarshalTypeError

		switch {
		case errors.As(err, &syntaxErr):
			details = "Syntax error in request body"
		case errors.As(err, &unmarshalErr):
			details = "Field '" + unmarshalErr.Field + "' has wrong type, expected " + unmarshalErr.Type.String()
		case errors.Is(err, io.EOF):
			details = "Request body is empty"
		case strings.Contains(err.Error(), "unexpected end of JSON"):
			details = "Incomplete JSON body"
		default:
			details = err.Error()
		}
	}

	WriteError(w, r, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON in request body", details)
}
