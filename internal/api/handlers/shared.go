package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/validation"
)

// parseJSON decodes a request body into the given request type.
func parseJSON[T any](r *http.Request) (T, error) {
	var payload T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return payload, fmt.Errorf("invalid JSON body: %w", err)
	}
	return payload, nil
}

// isValidationError reports whether err carries per-field validation messages.
func isValidationError(err error) bool {
	var verr *validation.Error
	return errors.As(err, &verr)
}
