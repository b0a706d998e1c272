// Package runner invokes external executables with an explicit working
// directory, a caller-owned stdout sink and in-memory stderr capture.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Runner runs external tools. The zero value runs without a timeout.
type Runner struct {
	// Timeout bounds each invocation; 0 disables it.
	Timeout time.Duration
	// Echo, when set, receives a copy of every tool's stderr as it is produced.
	Echo io.Writer
}

// Invocation describes one external process run.
type Invocation struct {
	Path   string
	Args   []string
	Dir    string
	Stdout io.Writer // nil discards stdout
}

func (inv Invocation) String() string {
	if len(inv.Args) == 0 {
		return inv.Path
	}
	return inv.Path + " " + strings.Join(inv.Args, " ")
}

// ProcessFailure reports a tool that could not be started, exited non-zero,
// or was killed by the timeout. Stderr holds the tool's diagnostics verbatim.
type ProcessFailure struct {
	Path     string
	Args     []string
	Dir      string
	ExitCode int
	Stderr   string
	TimedOut bool
	Timeout  time.Duration
	Err      error
}

func (e *ProcessFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", Invocation{Path: e.Path, Args: e.Args})
	switch {
	case e.TimedOut:
		fmt.Fprintf(&b, ": timed out after %s", e.Timeout)
	case e.ExitCode > 0:
		fmt.Fprintf(&b, ": exit status %d", e.ExitCode)
	case e.Err != nil:
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, "\n%s", s)
	}
	return b.String()
}

func (e *ProcessFailure) Unwrap() error { return e.Err }

// Run executes inv and waits for it. Any failure is a *ProcessFailure.
func (r *Runner) Run(ctx context.Context, inv Invocation) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	if inv.Stdout != nil {
		cmd.Stdout = inv.Stdout
	} else {
		cmd.Stdout = io.Discard
	}
	var stderr bytes.Buffer
	if r.Echo != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.Echo)
	} else {
		cmd.Stderr = &stderr
	}
	configureCommandProcess(cmd)
	cmd.Cancel = func() error {
		terminateCommandProcess(cmd)
		return nil
	}
	cmd.WaitDelay = 2 * time.Second

	err := cmd.Run()
	if err == nil {
		return nil
	}

	pf := &ProcessFailure{
		Path:     inv.Path,
		Args:     inv.Args,
		Dir:      inv.Dir,
		ExitCode: -1,
		Stderr:   stderr.String(),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		pf.ExitCode = exitErr.ExitCode()
	}
	switch ctx.Err() {
	case context.DeadlineExceeded:
		pf.TimedOut = true
		pf.Timeout = r.Timeout
		pf.Err = ctx.Err()
	case context.Canceled:
		pf.Err = ctx.Err()
	}
	return pf
}
