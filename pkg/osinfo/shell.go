//go:build !windows

package osinfo

import (
	"bufio"
	"os"
	"strings"
)

const fallbackShell = "/bin/sh"

// Shell returns the user's shell from $SHELL, validated against
// /etc/shells. Falls back to /bin/sh if $SHELL is unset or untrusted.
func Shell() string {
	shell := os.Getenv("SHELL")
	if shell == "" || !isTrustedShell(shell) {
		return fallbackShell
	}
	return shell
}

func isTrustedShell(shell string) bool {
	f, err := os.Open("/etc/shells")
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == shell {
			return true
		}
	}
	return false
}
