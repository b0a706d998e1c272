// internal/cli/flagset.go
package cli

import (
	"flag"
	"io"
)

// NewFlagSet returns a ContinueOnError FlagSet that prints nothing on its
// own. Parse errors come back to the app, which reports them as ERROR lines
// and prints usage through the writer it chooses.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}
