// Command htget is a small command-line exerciser for pkg/htclient: it
// builds one Client from its flags and issues a single GET/HEAD/POST,
// streaming the response body to a file or stdout.
//
// Grounded in docker-compose's cmd/compose package layout (a thin main.go
// delegating to an Execute() built from cobra.Command + pflag-backed
// flags defined alongside the RunE they configure).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "htget:", err)
		os.Exit(1)
	}
}
