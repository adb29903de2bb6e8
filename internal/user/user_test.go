package user

import (
	"strings"
	"testing"
)

func TestNameNeverEmpty(t *testing.T) {
	name := Name()
	if name == "" {
		t.Fatal("Name() should never return an empty string")
	}
	if strings.Contains(name, `\`) {
		t.Errorf("Name() should drop the domain part, got %q", name)
	}
}
