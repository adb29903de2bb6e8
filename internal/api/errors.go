package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/thenoetrevino/etapa/internal/models"
)

// Error codes carried in the error envelope
const (
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeTransactionFailed = "TRANSACTION_FAILED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeInternal          = "INTERNAL"
)

// ErrorBody is the payload of every failed request:
// {"error": {"code": "...", "message": "..."}}
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// kinds pairs each failure kind with its code and status
var kinds = []struct {
	err    error
	code   string
	status int
}{
	{models.ErrNotFound, CodeNotFound, http.StatusNotFound},
	{models.ErrConflict, CodeConflict, http.StatusConflict},
	{models.ErrTransactionFailed, CodeTransactionFailed, http.StatusServiceUnavailable},
	{models.ErrUnauthorized, CodeUnauthorized, http.StatusForbidden},
	{models.ErrInvalidArgument, CodeInvalidArgument, http.StatusBadRequest},
}

// mapError picks the status and code for err
func mapError(err error) (int, string) {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

// errorFromBody turns a decoded error envelope back into an error matching
// the failure kind with errors.Is
func errorFromBody(status int, body ErrorBody) error {
	for _, k := range kinds {
		if body.Error.Code == k.code {
			return fmt.Errorf("%w: %s", k.err, body.Error.Message)
		}
	}
	if body.Error.Message == "" {
		return fmt.Errorf("unexpected status %d", status)
	}
	return fmt.Errorf("%s (status %d)", body.Error.Message, status)
}
