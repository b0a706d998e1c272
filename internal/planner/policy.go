package planner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Decision is a policy's answer for one conflicting job directory.
type Decision int

const (
	Proceed Decision = iota // reuse the directory, overwriting job artifacts
	Abort                   // stop the whole run
	Skip                    // drop this item from the run
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Abort:
		return "abort"
	case Skip:
		return "skip"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// ParseDecision accepts proceed|abort|skip.
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "proceed":
		return Proceed, nil
	case "abort":
		return Abort, nil
	case "skip":
		return Skip, nil
	}
	return 0, fmt.Errorf("unknown decision %q (want proceed|abort|skip)", s)
}

// Conflict describes an existing job directory that looks like a prior run.
type Conflict struct {
	Item      Item
	Dir       string
	Artifacts []string
}

// Policy resolves conflicts.
type Policy interface {
	Decide(ctx context.Context, c Conflict) (Decision, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(ctx context.Context, c Conflict) (Decision, error)

func (f PolicyFunc) Decide(ctx context.Context, c Conflict) (Decision, error) { return f(ctx, c) }

// Always returns a policy answering d for every conflict.
func Always(d Decision) Policy {
	return PolicyFunc(func(context.Context, Conflict) (Decision, error) { return d, nil })
}

// Force is the --force_overwrite policy.
var Force = Always(Proceed)

// PromptPolicy asks the operator. Unrecognized answers are asked again;
// end of input is an error.
type PromptPolicy struct {
	In  *bufio.Reader
	Out io.Writer
}

func (p PromptPolicy) Decide(ctx context.Context, c Conflict) (Decision, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Abort, err
		}
		fmt.Fprintf(p.Out, "Directory '%s' already exists. Do you want to proceed? (y/n/skip_this_fasta): ", c.Dir)
		line, err := p.In.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return Proceed, nil
		case "n", "no":
			return Abort, nil
		case "s", "skip", "skip_this_fasta":
			return Skip, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Abort, fmt.Errorf("no answer for %s: %w", c.Dir, io.ErrUnexpectedEOF)
			}
			return Abort, err
		}
		fmt.Fprintln(p.Out, "Please answer y, n or skip_this_fasta.")
	}
}

// TerminalPolicy prompts only when In is an interactive terminal and defers
// to Fallback otherwise (pipelines, batch jobs, CI).
type TerminalPolicy struct {
	In       *os.File
	Out      io.Writer
	Fallback Policy

	prompt *PromptPolicy
}

// NewTerminalPolicy builds a TerminalPolicy over in/out.
func NewTerminalPolicy(in *os.File, out io.Writer, fallback Policy) *TerminalPolicy {
	return &TerminalPolicy{In: in, Out: out, Fallback: fallback}
}

// Interactive reports whether prompts will be shown.
func (p *TerminalPolicy) Interactive() bool {
	return p.In != nil && term.IsTerminal(int(p.In.Fd()))
}

func (p *TerminalPolicy) Decide(ctx context.Context, c Conflict) (Decision, error) {
	if !p.Interactive() {
		if p.Fallback == nil {
			return Skip, nil
		}
		return p.Fallback.Decide(ctx, c)
	}
	if p.prompt == nil {
		p.prompt = &PromptPolicy{In: bufio.NewReader(p.In), Out: p.Out}
	}
	return p.prompt.Decide(ctx, c)
}
