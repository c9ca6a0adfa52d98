package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError represents a standardized API error with HTTP status code.
// The SDK returns it for every non-2xx backend response, and the console
// server writes it as its error body.
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Errors) > 0 {
		fields := make([]string, 0, len(e.Errors))
		for f := range e.Errors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, fmt.Sprintf("%s: %s", f, e.Errors[f]))
		}
		return strings.Join(parts, "; ")
	}
	return e.Title
}

// NewAPIError builds an APIError for the given status with the type derived from it
func NewAPIError(status int, detail string) *APIError {
	return &APIError{
		Type:   errorTypeForStatus(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

func errorTypeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return ErrorTypeUnauthorized
	case status == http.StatusForbidden:
		return ErrorTypeForbidden
	case status == http.StatusNotFound:
		return ErrorTypeNotFound
	case status == http.StatusConflict:
		return ErrorTypeConflict
	case status == http.StatusBadRequest:
		return ErrorTypeBadRequest
	case status >= 500:
		return ErrorTypeInternal
	default:
		return ErrorTypeValidation
	}
}

// ValidationMessages provides human-readable validation error messages
// These map validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required":    "This field is required",
	"clientemail": "Must be a valid email address",
	"max":         "Exceeds maximum length",
	"maxlen":      "Exceeds maximum length",
	"min":         "Below minimum length",
	"oneof":       "Must be one of the allowed values",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeInternal     = "internal_error"
	ErrorTypeTransient    = "transient_error"
	ErrorTypeParse        = "parse_error"
)

var (
	// ErrTransport is returned when the backend could not be reached at all
	ErrTransport = errors.New("backend unreachable")
	// ErrNotLoggedIn is returned when an operation needs a session and there is none
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrForbidden is returned when the current role may not perform an action
	ErrForbidden = errors.New("not authorized")
	// ErrInvalidForm is returned when local validation blocks a request
	ErrInvalidForm = errors.New("invalid form")
	// ErrParseFailed is returned when an uploaded spreadsheet cannot be decoded
	ErrParseFailed = errors.New("failed to parse file")
	// ErrSubmitFailed is returned when a bulk import request fails
	ErrSubmitFailed = errors.New("import failed")
	// ErrNothingToSubmit is returned when submit is called without valid rows
	ErrNothingToSubmit = errors.New("no valid rows to import")
	// ErrNothingToExport is returned when an export has no clients
	ErrNothingToExport = errors.New("no clients to export")
	// ErrDialogClosed is returned when an action is attempted on a closed dialog
	ErrDialogClosed = errors.New("dialog closed")
	// ErrCancelled is returned when the user declined a confirmation
	ErrCancelled = errors.New("cancelled")
)

// ErrorKind is the coarse class of a failure as seen by the operator
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindAuthentication is a 401: the session is cleared
	KindAuthentication
	// KindAuthorization is a 403: navigate away without logout
	KindAuthorization
	// KindTransient is a transport failure or 5xx: a single retry is offered
	KindTransient
	// KindValidation is any other 4xx or a local pre-validation failure
	KindValidation
	// KindParse is a malformed upload
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindTransient:
		return "transient"
	case KindValidation:
		return "validation"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// KindForStatus classifies an HTTP status code. Status 0 means the request
// never got a response.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == 0 || status >= 500:
		return KindTransient
	case status == http.StatusUnauthorized:
		return KindAuthentication
	case status == http.StatusForbidden:
		return KindAuthorization
	case status >= 400:
		return KindValidation
	default:
		return KindUnknown
	}
}

// Classify maps an error returned anywhere in the module to its ErrorKind
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return KindForStatus(apiErr.Status)
	}
	switch {
	case errors.Is(err, ErrTransport):
		return KindTransient
	case errors.Is(err, ErrParseFailed):
		return KindParse
	case errors.Is(err, ErrNotLoggedIn):
		return KindAuthentication
	case errors.Is(err, ErrForbidden):
		return KindAuthorization
	case errors.Is(err, ErrInvalidForm):
		return KindValidation
	case errors.Is(err, ErrSubmitFailed):
		return KindTransient
	}
	return KindUnknown
}

// StatusCode returns the HTTP status the console server should answer with for err
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status
	}
	switch Classify(err) {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindValidation, KindParse:
		return http.StatusBadRequest
	case KindTransient:
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrCancelled) || errors.Is(err, ErrNothingToExport) || errors.Is(err, ErrNothingToSubmit) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
