package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Chain-processing sentinel errors
var (
	ErrNoValidRecords    = errors.New("no valid option records")
	ErrUnsupportedFormat = errors.New("unsupported chain format")
	ErrMissingColumns    = errors.New("missing required columns")
	ErrEmptyUpload       = errors.New("empty upload")
	ErrSessionMissing    = errors.New("session not found")
	ErrRateLimited       = errors.New("rate limited")
)

// ProblemDetails implements RFC 7807 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Additional fields for extensibility
	Extensions map[string]interface{} `json:"-"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON custom marshaler to include extensions
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{})

	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status

	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}

	for k, v := range pd.Extensions {
		data[k] = v
	}

	return json.Marshal(data)
}

// NewProblemDetails creates a new RFC 7807 compliant error
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: make(map[string]interface{}),
	}
}

// WithExtension adds an extension field to the problem details
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	pd.Extensions[key] = value
	return pd
}

// MapChainError maps chain-processing domain errors to HTTP problem details
func MapChainError(err error, traceID string) render.Renderer {
	instance := fmt.Sprintf("/api/chain#trace-%s", traceID)

	// Check if it's an APIError from errors.go
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode == "SESSION_NOT_FOUND" {
			return NewProblemDetails(
				http.StatusNotFound,
				TypeSessionNotFound,
				"Session Not Found",
				"No analysis session exists with that id.",
				instance,
			).WithExtension("trace_id", traceID).
				WithExtension("error_code", "SESSION_NOT_FOUND")
		}
	}

	switch {
	case errors.Is(err, ErrSessionMissing):
		return NewProblemDetails(
			http.StatusNotFound,
			TypeSessionNotFound,
			"Session Not Found",
			"No analysis session exists with that id.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "SESSION_NOT_FOUND")

	case errors.Is(err, ErrMissingColumns):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeMissingColumns,
			"Missing Required Columns",
			"The uploaded file does not contain the strike, gamma, and open interest columns.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "MISSING_COLUMNS")

	case errors.Is(err, ErrUnsupportedFormat):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeUnsupportedFormat,
			"Unsupported Chain Format",
			"The uploaded file does not match any supported chain export format.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "UNSUPPORTED_FORMAT")

	case errors.Is(err, ErrNoValidRecords):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeParseFailed,
			"No Valid Option Records",
			"The file was parsed but every row was dropped. Check strikes and open interest values.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "NO_VALID_RECORDS")

	case errors.Is(err, ErrEmptyUpload):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeParseFailed,
			"Empty Upload",
			"The uploaded file contained no data.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "EMPTY_UPLOAD")

	case errors.Is(err, ErrRateLimited):
		return NewProblemDetails(
			http.StatusTooManyRequests,
			TypeRateLimit,
			"Too Many Requests",
			"Too many upload attempts. Please try again later.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "RATE_LIMITED").
			WithExtension("retry_after", 60)

	default:
		return NewProblemDetails(
			http.StatusInternalServerError,
			TypeInternal,
			"Internal Server Error",
			"An unexpected error occurred while processing your request.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "INTERNAL_ERROR")
	}
}
