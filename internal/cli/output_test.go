package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/thenoetrevino/etapa/internal/models"
)

func newFormatter(jsonOut, quiet bool) (*OutputFormatter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &OutputFormatter{JSON: jsonOut, Quiet: quiet, Out: &out, Err: &errOut}, &out, &errOut
}

func TestSuccessHuman(t *testing.T) {
	f, out, _ := newFormatter(false, false)

	err := f.Success("stage", &models.Stage{ID: "s1"}, func(w io.Writer) {
		fmt.Fprintln(w, "created s1")
	})
	if err != nil {
		t.Fatalf("Success failed: %v", err)
	}
	if out.String() != "created s1\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestSuccessJSON(t *testing.T) {
	f, out, _ := newFormatter(true, false)

	if err := f.Success("stage", &models.Stage{ID: "s1", Label: "Nouveau"}, nil); err != nil {
		t.Fatalf("Success failed: %v", err)
	}

	var payload struct {
		Success bool          `json:"success"`
		Stage   *models.Stage `json:"stage"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if !payload.Success || payload.Stage.Label != "Nouveau" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestSuccessQuiet(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"identified", &models.Deal{ID: "d1"}, "d1\n"},
		{"id list", []string{"a", "b"}, "a\nb\n"},
		{"other", map[string]int{"n": 1}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, out, _ := newFormatter(false, true)
			if err := f.Success("x", tt.data, func(w io.Writer) { fmt.Fprint(w, "human") }); err != nil {
				t.Fatalf("Success failed: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("got %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestFailJSON(t *testing.T) {
	f, out, errOut := newFormatter(true, false)

	err := f.Fail("", fmt.Errorf("stage s9: %w", models.ErrNotFound))
	if ExitCodeFor(err) != ExitNotFound {
		t.Errorf("expected exit %d, got %d", ExitNotFound, ExitCodeFor(err))
	}
	if errOut.Len() != 0 {
		t.Errorf("JSON mode should not write to stderr, got %q", errOut.String())
	}

	var payload struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if payload.Success || payload.Error.Code != "NOT_FOUND" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestUsageHuman(t *testing.T) {
	f, out, errOut := newFormatter(false, false)

	err := f.Usage("--label is required", "etapa stage create --label=X")
	if ExitCodeFor(err) != ExitUsage {
		t.Errorf("expected exit %d, got %d", ExitUsage, ExitCodeFor(err))
	}
	if out.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", out.String())
	}
	want := "❌ Error: --label is required\n💡 Suggestion: etapa stage create --label=X\n"
	if errOut.String() != want {
		t.Errorf("got %q, want %q", errOut.String(), want)
	}
}
