package board

import (
	"os"
	"os/user"
	"strings"
)

var lookupUser = user.Current

// CurrentUser returns the account name used to stamp history entries.
func CurrentUser() string {
	if u, err := lookupUser(); err == nil {
		if name := strings.TrimSpace(u.Username); name != "" {
			// Windows accounts come back as DOMAIN\name.
			if i := strings.LastIndex(name, `\`); i >= 0 {
				name = name[i+1:]
			}
			return name
		}
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return "unknown"
}
