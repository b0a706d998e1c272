// internal/searchapp/app.go
package searchapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"af2tools/internal/cli"
	"af2tools/internal/clibase"
	"af2tools/internal/cmdutil"
	"af2tools/internal/common"
	"af2tools/internal/runner"
	"af2tools/internal/search"
	"af2tools/internal/searchcli"
	"af2tools/internal/tools"
	"af2tools/internal/version"
	"af2tools/internal/writers"
)

const name = "search"

// Env is what the app reads from the process besides argv.
type Env struct {
	Getenv func(string) string
	// Base is where conventional tool directories are finally looked up; "" means ".".
	Base string
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	return RunEnv(ctx, Env{Getenv: os.Getenv}, argv, stdout, stderr)
}

func RunEnv(ctx context.Context, env Env, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 64<<10)

	fs := searchcli.NewFlagSet(name)

	usage := func(code int) int {
		fs.SetOutput(outw)
		fs.Usage()
		return cmdutil.Finish(outw, stderr, code)
	}

	opts, err := searchcli.ParseArgs(fs, argv)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return usage(0)
	case errors.Is(err, clibase.ErrPrintedAndExitOK):
		searchcli.PrintExamples(outw)
		return cmdutil.Finish(outw, stderr, 0)
	case err != nil:
		cmdutil.Errorf(stderr, "%v", err)
		return usage(1)
	}
	if opts.Version {
		fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return cmdutil.Finish(outw, stderr, 0)
	}

	s, queries, collections, err := prepare(env, opts)
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return usage(1)
	}

	logw := &cmdutil.SyncWriter{W: stderr}
	prog := &cmdutil.Progress{Out: logw, Quiet: opts.Quiet}
	s.Progress = prog.Observe
	if !opts.Quiet {
		s.Logf = func(format string, a ...any) { cmdutil.Infof(logw, false, format, a...) }
	}
	cmdutil.Infof(logw, opts.Quiet, "searching %d queries against %d proteomes (FATCAT %s, USalign %s)",
		len(queries), len(collections), s.FATCAT.Path, s.USalign.Path)

	res, err := s.Run(ctx, queries, collections)
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		cmdutil.Errorf(stderr, "no results written")
		return cmdutil.Finish(outw, stderr, 1)
	}
	for _, pe := range res.Failures {
		cmdutil.Errorf(stderr, "%v", pe)
	}

	common.SortRows(res.Rows)
	if err := writers.WriteResultTableFile(opts.Output, res.Rows); err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return cmdutil.Finish(outw, stderr, 1)
	}
	cmdutil.Infof(stderr, opts.Quiet, "FATCAT and USalign search complete: %d rows written to %s", len(res.Rows), opts.Output)
	if len(res.Failures) > 0 {
		cmdutil.Errorf(stderr, "%d of %d query/proteome pairs failed", len(res.Failures), res.Pairs)
		return cmdutil.Finish(outw, stderr, 1)
	}
	return cmdutil.Finish(outw, stderr, 0)
}

// prepare locates both tools and discovers inputs. Every error it returns
// is a configuration error: nothing has run yet.
func prepare(env Env, o searchcli.Options) (*search.Searcher, []search.Query, []search.Collection, error) {
	res := tools.Resolver{SearchPath: o.ToolSearchPath, Base: env.Base, Getenv: env.Getenv}
	fatcat, err := res.Locate(tools.FATCAT, o.FATCATDir)
	if err != nil {
		return nil, nil, nil, &cli.ConfigError{Msg: err.Error()}
	}
	usalign, err := res.Locate(tools.USalign, o.USalignDir)
	if err != nil {
		return nil, nil, nil, &cli.ConfigError{Msg: err.Error()}
	}
	queries, err := search.DiscoverQueries(o.QueryDir)
	if err != nil {
		return nil, nil, nil, &cli.ConfigError{Msg: err.Error()}
	}
	collections, err := search.DiscoverCollections(o.CollectionRoot)
	if err != nil {
		return nil, nil, nil, &cli.ConfigError{Msg: err.Error()}
	}
	s := &search.Searcher{
		FATCAT:      fatcat,
		USalign:     usalign,
		Runner:      &runner.Runner{Timeout: o.Timeout},
		Threads:     o.Threads,
		FailFast:    o.FailFast,
		KeepReports: o.KeepReports,
	}
	return s, queries, collections, nil
}
