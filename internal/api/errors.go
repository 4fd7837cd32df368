package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/asset-dashboard/internal/types"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error types.ServiceError `json:"error"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, code, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: types.ServiceError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	_ = json.NewEncoder(w).Encode(response)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// mapServiceError maps service errors to HTTP status codes. Anything
// unclassified becomes a 500 with a generic message so internal detail never
// leaks to the client.
func mapServiceError(err error) (int, string, string) {
	var serviceErr *types.ServiceError
	if errors.As(err, &serviceErr) {
		switch serviceErr.Code {
		case types.ErrCodeMissingParameter:
			return http.StatusBadRequest, serviceErr.Code, serviceErr.Message
		case types.ErrCodeNoData:
			return http.StatusNotFound, serviceErr.Code, serviceErr.Message
		case types.ErrCodeRateLimited:
			return http.StatusTooManyRequests, serviceErr.Code, serviceErr.Message
		default:
			return http.StatusInternalServerError, types.ErrCodeInternal, "An internal error occurred"
		}
	}

	return http.StatusInternalServerError, types.ErrCodeInternal, "An internal error occurred"
}
