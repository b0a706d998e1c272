// internal/copyapp/app.go
package copyapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"af2tools/internal/clibase"
	"af2tools/internal/cmdutil"
	"af2tools/internal/copycli"
	"af2tools/internal/copyout"
	"af2tools/internal/version"
)

const name = "copy-output"

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(_ context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 64<<10)

	fs := copycli.NewFlagSet(name)

	usage := func(code int) int {
		fs.SetOutput(outw)
		fs.Usage()
		return cmdutil.Finish(outw, stderr, code)
	}

	opts, err := copycli.ParseArgs(fs, argv)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return usage(0)
	case errors.Is(err, clibase.ErrPrintedAndExitOK):
		clibase.PrintExamples(outw, name, func(w io.Writer) {
			_, _ = fmt.Fprintln(w, "Copy each job's ranked_0.pdb to <query_dir>/<job>.pdb.")
			_, _ = fmt.Fprintln(w, "\nExample:")
			_, _ = fmt.Fprintln(w, "  copy-output -a ./af2_out -q ./queries")
		})
		return cmdutil.Finish(outw, stderr, 0)
	case err != nil:
		cmdutil.Errorf(stderr, "%v", err)
		return usage(1)
	}
	if opts.Version {
		fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return cmdutil.Finish(outw, stderr, 0)
	}

	res, err := copyout.Collect(opts.OutDir, opts.QueryDir, opts.Artifact)
	for _, c := range res.Copied {
		cmdutil.Infof(stderr, opts.Quiet, "%s: %s -> %s", c.Job, c.Src, c.Dst)
	}
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return cmdutil.Finish(outw, stderr, 1)
	}
	for _, job := range res.Missing {
		cmdutil.Warnf(stderr, opts.Quiet, "%s: no %s yet", job, opts.Artifact)
	}
	cmdutil.Infof(stderr, opts.Quiet, "%d copied, %d without %s", len(res.Copied), len(res.Missing), opts.Artifact)
	return cmdutil.Finish(outw, stderr, 0)
}
