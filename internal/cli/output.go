package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
	Out   io.Writer
	Err   io.Writer
}

// FormatterFor builds a formatter from cmd's --json and --quiet flags,
// writing where cmd writes
func FormatterFor(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}

// Success outputs a successful operation result. human renders the
// human-readable form; nil falls back to a generic dump.
func (f *OutputFormatter) Success(key string, data any, human func(io.Writer)) error {
	if f.Quiet {
		switch v := data.(type) {
		case interface{ GetID() string }:
			_, err := fmt.Fprintln(f.out(), v.GetID())
			return err
		case []string:
			for _, id := range v {
				if _, err := fmt.Fprintln(f.out(), id); err != nil {
					return err
				}
			}
			return nil
		}
		return nil
	}

	if f.JSON {
		payload := map[string]any{"success": true}
		if key != "" {
			payload[key] = data
		}
		return json.NewEncoder(f.out()).Encode(payload)
	}

	if human != nil {
		human(f.out())
		return nil
	}
	_, err := fmt.Fprintf(f.out(), "%+v\n", data)
	return err
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	fmt.Fprintf(f.errOut(), "❌ Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(f.errOut(), "💡 Suggestion: %s\n", suggestion)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
// An empty code is derived from the failure kind.
func (f *OutputFormatter) Fail(code string, err error) error {
	if code == "" {
		code = ErrorCodeFor(err)
	}
	_ = f.Error(code, err.Error())
	return &ExitError{Code: ExitCodeFor(err), Err: err}
}

// Usage reports a usage error with a suggestion
func (f *OutputFormatter) Usage(message, suggestion string) error {
	_ = f.ErrorWithSuggestion("USAGE", message, suggestion)
	return &ExitError{Code: ExitUsage, Err: errors.New(message)}
}
