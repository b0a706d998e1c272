package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ExitInterrupted is the exit code of a run cut short by SIGINT/SIGTERM.
const ExitInterrupted = 130

// Main runs a tool with the process arguments. An empty argument list is
// passed through unchanged so the tool reports its missing inputs and
// exits 1 with usage.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := Normalize(ctx, run(ctx, os.Args[1:], os.Stdout, os.Stderr))

	stop()
	os.Exit(code)
}

// Normalize maps any exit code of an interrupted run to ExitInterrupted.
func Normalize(ctx context.Context, code int) int {
	if ctx.Err() != nil {
		return ExitInterrupted
	}
	return code
}
