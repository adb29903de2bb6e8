// Package user names the person running etapa
package user

import (
	"os"
	"os/user"
	"strings"
)

// Unknown is returned when no login name can be found
const Unknown = "unknown"

// Name returns the login name of the current user, falling back to $USER.
// Domain-qualified Windows names keep only the account part.
func Name() string {
	name := ""
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	if name == "" {
		name = os.Getenv("USER")
	}
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return Unknown
	}
	return name
}
