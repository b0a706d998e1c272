package clibase

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"af2tools/internal/cli"
)

func newFS(c *Common) *flag.FlagSet {
	fs := cli.NewFlagSet("tool")
	fs.SetOutput(new(bytes.Buffer))
	Register(fs, c)
	return fs
}

func TestParseEarlyExits(t *testing.T) {
	var c Common
	if err := Parse(newFS(&c), &c, []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("help: %v", err)
	}
	c = Common{}
	if err := Parse(newFS(&c), &c, []string{"--examples"}); !errors.Is(err, ErrPrintedAndExitOK) {
		t.Fatalf("examples: %v", err)
	}
	c = Common{}
	if err := Parse(newFS(&c), &c, []string{"--version", "stray"}); err != nil || !c.Version {
		t.Fatalf("version: %v", err)
	}
}

func TestParseRejectsPositionalsAndBadFlags(t *testing.T) {
	var c Common
	if err := Parse(newFS(&c), &c, []string{"stray"}); !cli.IsConfig(err) {
		t.Fatalf("positional: %v", err)
	}
	c = Common{}
	if err := Parse(newFS(&c), &c, []string{"--nope"}); !cli.IsConfig(err) {
		t.Fatalf("unknown flag: %v", err)
	}
}

func TestUsageCommonPrintsDefaults(t *testing.T) {
	var c Common
	fs := newFS(&c)
	fs.String("out", "here", "")
	var buf bytes.Buffer
	fs.SetOutput(&buf)
	UsageCommon(fs, "tool", "does things", func(out io.Writer, def func(string) string) {
		_, _ = io.WriteString(out, "  --out ["+def("out")+"]\n")
	})
	fs.Usage()
	s := buf.String()
	for _, want := range []string{"tool – does things", "--out [here]", "--quiet", "Version:"} {
		if !strings.Contains(s, want) {
			t.Fatalf("usage missing %q:\n%s", want, s)
		}
	}
}

func TestPrintExamples(t *testing.T) {
	var buf bytes.Buffer
	PrintExamples(&buf, "search", func(w io.Writer) { _, _ = io.WriteString(w, "search -q q -p p\n") })
	got := buf.String()
	for _, want := range []string{"search: quickstart\n\n", "search -q q -p p\n", "copy-output -> search", "Run search --help"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
	PrintExamples(nil, "search", nil)
}
