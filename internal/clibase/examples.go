// internal/clibase/examples.go
package clibase

import (
	"errors"
	"fmt"
	"io"
)

// ErrPrintedAndExitOK is returned by Parse for --examples. The app prints
// its quickstart and exits 0 without validating any other flag.
var ErrPrintedAndExitOK = errors.New("examples requested")

// PrintExamples prints "<tool>: quickstart", the tool's example body, and
// a pointer to the pipeline order of the af2tools commands.
func PrintExamples(out io.Writer, name string, body func(io.Writer)) {
	if out == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "%s: quickstart\n\n", name)
	if body != nil {
		body(out)
	}
	_, _ = fmt.Fprintln(out, "\nPipeline: distribute -> (AlphaFold2 jobs) -> copy-output -> search")
	_, _ = fmt.Fprintf(out, "Run %s --help for all flags.\n", name)
}
