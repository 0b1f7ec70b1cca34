package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// statusFor maps corpus errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, internalerr.ErrDuplicateDocument):
		return http.StatusConflict
	case errors.Is(err, internalerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internalerr.ErrEmptyCorpus), errors.Is(err, internalerr.ErrNoWordsFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, internalerr.ErrEmptyQuery),
		errors.Is(err, internalerr.ErrInvalidInput),
		errors.Is(err, internalerr.ErrFormat),
		errors.Is(err, internalerr.ErrUnsupportedFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
