// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"

	"af2tools/internal/cli"
)

// Common holds CLI fields shared by every tool.
type Common struct {
	Quiet    bool
	Version  bool
	Help     bool
	Examples bool
}

// Register wires the shared flags onto fs.
func Register(fs *flag.FlagSet, c *Common) {
	fs.BoolVar(&c.Quiet, "quiet", false, "suppress progress and warnings [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "v", false, "alias of --version")
	fs.BoolVar(&c.Help, "help", false, "show this help [false]")
	fs.BoolVar(&c.Help, "h", false, "alias of --help")
	fs.BoolVar(&c.Examples, "examples", false, "show quickstart examples and exit [false]")
}

// Parse runs fs.Parse and maps the shared early exits. Positional
// arguments are rejected: every input is named by a flag.
func Parse(fs *flag.FlagSet, c *Common, argv []string) error {
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &cli.ConfigError{Msg: err.Error()}
	}
	switch {
	case c.Help:
		return flag.ErrHelp
	case c.Examples:
		return ErrPrintedAndExitOK
	case c.Version:
		return nil
	}
	if fs.NArg() > 0 {
		return cli.Configf("unexpected argument %q (all inputs are given by flags)", fs.Arg(0))
	}
	return nil
}
