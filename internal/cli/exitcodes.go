package cli

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/etapa/internal/models"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, network errors, unexpected failures.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested stage or deal was not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	ExitDataErr = 4

	// ExitValidation indicates input that fails validation rules.
	ExitValidation = 5

	// ExitConflict indicates a write lost to a concurrent change, such as a
	// taken label or position. Retrying may succeed.
	ExitConflict = 6

	// ExitUnauthorized indicates the API server refused the credentials.
	ExitUnauthorized = 7
)

// ExitError carries the process exit code of a failed command. The message
// has already been shown to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFor maps an error to the exit code of its failure kind
func ExitCodeFor(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, models.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, models.ErrInvalidArgument):
		return ExitValidation
	case errors.Is(err, models.ErrConflict):
		return ExitConflict
	case errors.Is(err, models.ErrUnauthorized):
		return ExitUnauthorized
	default:
		return ExitError
	}
}

// ErrorCodeFor names the failure kind of err for JSON output
func ErrorCodeFor(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, models.ErrInvalidArgument):
		return "INVALID_ARGUMENT"
	case errors.Is(err, models.ErrConflict):
		return "CONFLICT"
	case errors.Is(err, models.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, models.ErrTransactionFailed):
		return "TRANSACTION_FAILED"
	default:
		return "INTERNAL"
	}
}
