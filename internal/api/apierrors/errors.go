// Package apierrors writes the JSON error envelope used by every endpoint.
package apierrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error codes.
const (
	ErrInvalidRequest = "VAL_001"
	ErrInvalidFormat  = "VAL_002"

	ErrNotFound         = "RES_001"
	ErrFeatureDisabled  = "RES_002"
	ErrMethodNotAllowed = "RES_003"
	ErrConflict         = "RES_004"

	ErrInternalServer    = "SRV_001"
	ErrDatabaseOperation = "SRV_002"
	ErrRender            = "SRV_003"
)

var httpStatusMap = map[string]int{
	ErrInvalidRequest:    http.StatusBadRequest,
	ErrInvalidFormat:     http.StatusBadRequest,
	ErrNotFound:          http.StatusNotFound,
	ErrFeatureDisabled:   http.StatusNotFound,
	ErrMethodNotAllowed:  http.StatusMethodNotAllowed,
	ErrConflict:          http.StatusConflict,
	ErrInternalServer:    http.StatusInternalServerError,
	ErrDatabaseOperation: http.StatusInternalServerError,
	ErrRender:            http.StatusInternalServerError,
}

// APIError is the error envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// Status returns the HTTP status for code.
func Status(code string) int {
	status, ok := httpStatusMap[code]
	if !ok {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError writes the envelope with the status mapped from code.
func WriteError(w http.ResponseWriter, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(code))
	_ = json.NewEncoder(w).Encode(APIError{Code: code, Message: message})
}

// FromError builds an envelope from err.
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{Code: ErrInternalServer, Message: "unknown error"}
	}
	return APIError{Code: code, Message: err.Error()}
}
