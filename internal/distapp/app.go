// internal/distapp/app.go
package distapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"af2tools/internal/cli"
	"af2tools/internal/clibase"
	"af2tools/internal/cmdutil"
	"af2tools/internal/distcli"
	"af2tools/internal/fasta"
	"af2tools/internal/fsutil"
	"af2tools/internal/jobscript"
	"af2tools/internal/planner"
	"af2tools/internal/runner"
	"af2tools/internal/version"
)

const name = "distribute"

// Env is what the app reads from the process besides argv.
type Env struct {
	Stdin     *os.File
	LookupEnv func(string) (string, bool)
	// Policy, if set, replaces the policy chosen from the flags.
	Policy planner.Policy
	Runner *runner.Runner
}

// ProcessEnv is the Env of the running process.
func ProcessEnv() Env {
	return Env{Stdin: os.Stdin, LookupEnv: os.LookupEnv}
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	return RunEnv(ctx, ProcessEnv(), argv, stdout, stderr)
}

func RunEnv(ctx context.Context, env Env, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 64<<10)

	fs := distcli.NewFlagSet(name)

	usage := func(code int) int {
		fs.SetOutput(outw)
		fs.Usage()
		return cmdutil.Finish(outw, stderr, code)
	}

	opts, err := distcli.ParseArgs(fs, argv)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return usage(0)
	case errors.Is(err, clibase.ErrPrintedAndExitOK):
		distcli.PrintExamples(outw)
		return cmdutil.Finish(outw, stderr, 0)
	case err != nil:
		cmdutil.Errorf(stderr, "%v", err)
		return usage(1)
	}
	if opts.Version {
		fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return cmdutil.Finish(outw, stderr, 0)
	}

	if err := distribute(ctx, env, opts, outw, stderr); err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		if cli.IsConfig(err) {
			return usage(1)
		}
		return cmdutil.Finish(outw, stderr, 1)
	}
	return cmdutil.Finish(outw, stderr, 0)
}

func distribute(ctx context.Context, env Env, o distcli.Options, stdout, stderr io.Writer) error {
	lookup := env.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	user, err := jobscript.LookupUser(lookup)
	if err != nil {
		return &cli.ConfigError{Msg: err.Error()}
	}
	tmpl, err := jobscript.Load(o.RunScript)
	if err != nil {
		var unknown *jobscript.UnknownPlaceholderError
		if errors.As(err, &unknown) {
			return &cli.ConfigError{Msg: err.Error()}
		}
		return err
	}
	if !slices.Contains(tmpl.Placeholders(), jobscript.FastaFile) {
		cmdutil.Warnf(stderr, o.Quiet, "%s never uses %s; every job would run the same input", o.RunScript, jobscript.FastaFile)
	}
	if _, err := os.Stat(o.SIFFile); err != nil {
		cmdutil.Warnf(stderr, o.Quiet, "container image %s not found here; the scheduler node must provide it", o.SIFFile)
	}

	items, err := planner.Discover(o.FastaDir, planner.DefaultExts)
	if err != nil {
		var dup *planner.DuplicateStemError
		if errors.As(err, &dup) {
			return &cli.ConfigError{Msg: err.Error()}
		}
		return err
	}
	items = validInputs(items, o.Quiet, stderr)
	if len(items) == 0 {
		return cli.Configf("no FASTA files (%s) with records found in %s",
			strings.Join(planner.DefaultExts, ", "), o.FastaDir)
	}

	plan, err := planner.Build(ctx, items, o.OutDir, choosePolicy(env, o, stderr))
	if err != nil {
		return err
	}
	for _, it := range plan.Skipped {
		cmdutil.Infof(stderr, o.Quiet, "Skipping fasta file '%s'.", it.Stem)
	}
	if err := planner.Materialize(plan); err != nil {
		return err
	}

	r := env.Runner
	if r == nil {
		r = &runner.Runner{}
	}
	var failed, submitted int
	for _, job := range plan.Jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if job.Reuse {
			cmdutil.Infof(stderr, o.Quiet, "Proceeding with fasta file '%s'.", job.Item.Stem)
		}
		script, err := prepare(job, tmpl, o, user)
		if err != nil {
			cmdutil.Errorf(stderr, "%s: %v", job.Item.Stem, err)
			failed++
			continue
		}
		cmdutil.Infof(stderr, o.Quiet, "%s: wrote %s", job.Item.Stem, script)
		if !o.Submit {
			continue
		}
		if err := submit(ctx, r, o.SubmitCmd, script, job.Dir, stdout); err != nil {
			cmdutil.Errorf(stderr, "%s: submit: %v", job.Item.Stem, err)
			failed++
			continue
		}
		submitted++
	}

	cmdutil.Infof(stderr, o.Quiet, "%d job(s) prepared, %d skipped, %d submitted, %d failed",
		len(plan.Jobs)-failed, len(plan.Skipped), submitted, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d job(s) failed", failed, len(plan.Jobs))
	}
	return nil
}

// validInputs drops FASTA files without sequence residues, which covers
// both empty files and headers with no sequence lines. Unreadable or
// malformed files are kept so that the failure surfaces for that job.
func validInputs(items []planner.Item, quiet bool, stderr io.Writer) []planner.Item {
	var out []planner.Item
	for _, it := range items {
		sum, err := fasta.Summarize(it.Path)
		switch {
		case err != nil:
		case sum.Records == 0:
			cmdutil.Warnf(stderr, quiet, "%s has no sequence records; skipping", it.Path)
			continue
		case sum.Residues == 0:
			cmdutil.Warnf(stderr, quiet, "%s has %d record(s) but no sequence; skipping", it.Path, sum.Records)
			continue
		}
		out = append(out, it)
	}
	return out
}

func choosePolicy(env Env, o distcli.Options, stderr io.Writer) planner.Policy {
	if env.Policy != nil {
		return env.Policy
	}
	if o.ForceOverwrite {
		return planner.Force
	}
	if o.OnConflict != distcli.OnConflictPrompt {
		if d, err := planner.ParseDecision(o.OnConflict); err == nil {
			return planner.Always(d)
		}
	}
	skip := planner.PolicyFunc(func(ctx context.Context, c planner.Conflict) (planner.Decision, error) {
		cmdutil.Warnf(stderr, o.Quiet, "%s holds a prior run and stdin is not a terminal; skipping (see --force_overwrite, --on_conflict)", c.Dir)
		return planner.Skip, nil
	})
	return planner.NewTerminalPolicy(env.Stdin, stderr, skip)
}

// prepare stages the FASTA in the job dir and writes the rendered script.
func prepare(job planner.Job, tmpl *jobscript.Template, o distcli.Options, user string) (string, error) {
	if _, err := fasta.Summarize(job.Item.Path); err != nil {
		return "", err
	}
	staged := filepath.Join(job.Dir, filepath.Base(job.Item.Path))
	if !fsutil.Exists(staged) {
		if err := fsutil.CopyFile(job.Item.Path, staged); err != nil {
			return "", fmt.Errorf("copy FASTA: %w", err)
		}
	}
	text, err := tmpl.Render(jobscript.Values{
		FastaFile: staged,
		OutputDir: job.Dir,
		ImageFile: o.SIFFile,
		JobName:   jobscript.JobNameFor(job.Item.Stem),
		User:      user,
	})
	if err != nil {
		return "", err
	}
	return jobscript.Write(job.Dir, job.Item.Stem, text)
}

func submit(ctx context.Context, r *runner.Runner, submitCmd, script, dir string, stdout io.Writer) error {
	argv := strings.Fields(submitCmd)
	if len(argv) == 0 {
		return errors.New("empty submit command")
	}
	return r.Run(ctx, runner.Invocation{
		Path:   argv[0],
		Args:   append(argv[1:], script),
		Dir:    dir,
		Stdout: stdout,
	})
}
