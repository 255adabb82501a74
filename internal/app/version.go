package app

import (
	"fmt"
	"io"
)

// Version is the daemon version, overridable at build time via
// -ldflags "-X github.com/agbru/hostmon/internal/app.Version=...".
var Version = "dev"

// HasVersionFlag reports whether the arguments request the version.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" {
			return true
		}
	}
	return false
}

// PrintVersion writes the version line.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "hostmon %s\n", Version)
}
