// Package response writes the JSON envelope every API route returns.
package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"doctrack/pkg/apperror"
	"doctrack/pkg/logger"
)

// Envelope is the wire shape of every API response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

// OK writes a 200 success envelope around data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope[any]{Success: true, Data: data})
}

// Error writes a failure envelope. Internal errors are logged and replaced by
// a generic message.
func Error(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	message := "internal server error"

	var appErr *apperror.Error
	if status == http.StatusInternalServerError {
		logger.Sugar.Errorf("Request failed: %v", err)
	} else if errors.As(err, &appErr) {
		message = appErr.Message
	}

	JSON(w, status, Envelope[any]{Success: false, Error: message})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation, apperror.KindConflict:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON request body into v. An empty or malformed body is a
// validation error.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return apperror.Validation("Request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("Request body is required")
		}
		return apperror.Validation("Invalid request body")
	}
	return nil
}
