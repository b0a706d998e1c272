package distcli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"af2tools/internal/cli"
	"af2tools/internal/clibase"
	"af2tools/internal/cliutil"
)

// On-conflict choices for directories holding a prior run.
const (
	OnConflictPrompt = "prompt"
	OnConflictSkip   = "skip"
	OnConflictAbort  = "abort"
)

type Options struct {
	clibase.Common

	FastaDir  string // absolute
	OutDir    string // absolute; created by the app
	SIFFile   string // absolute
	RunScript string // absolute

	ForceOverwrite bool
	OnConflict     string

	Submit    bool
	SubmitCmd string
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := cli.NewFlagSet(name)
	clibase.UsageCommon(fs, name, "distribute AlphaFold2 jobs, one per FASTA file", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s --fasta_file_dir ./fastas --alphafold_out_dir ./af2_out [options]\n", name)

		_, _ = fmt.Fprintln(out, "\nInput:")
		_, _ = fmt.Fprintln(out, "  -f, --fasta_file_dir dir     Directory containing the FASTA files (*.fasta, *.fa) [*]")
		_, _ = fmt.Fprintln(out, "  -o, --alphafold_out_dir dir  Output root, one job directory per FASTA (created) [*]")
		_, _ = fmt.Fprintf(out, "      --sif_file file          AlphaFold2 container image [%s]\n", def("sif_file"))
		_, _ = fmt.Fprintf(out, "      --run_script file        Job script template with {{PLACEHOLDERS}} [%s]\n", def("run_script"))

		_, _ = fmt.Fprintln(out, "\nExisting job directories:")
		_, _ = fmt.Fprintf(out, "      --force_overwrite        Reuse directories holding a prior run without asking [%s]\n", def("force_overwrite"))
		_, _ = fmt.Fprintf(out, "      --on_conflict string     prompt | skip | abort (prompt needs a terminal, else skip) [%s]\n", def("on_conflict"))

		_, _ = fmt.Fprintln(out, "\nScheduler:")
		_, _ = fmt.Fprintf(out, "      --submit                 Submit each rendered script [%s]\n", def("submit"))
		_, _ = fmt.Fprintf(out, "      --submit_cmd string      Submission command [%s]\n", def("submit_cmd"))
	})
	return fs
}

// PrintExamples prints a tiny quickstart for distribute.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "distribute", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Render one job script per FASTA file and submit them.")
		_, _ = fmt.Fprintln(w, "\nExample:")
		_, _ = fmt.Fprintln(w, "  distribute \\")
		_, _ = fmt.Fprintln(w, "    -f ./fastas \\")
		_, _ = fmt.Fprintln(w, "    -o ./af2_out \\")
		_, _ = fmt.Fprintln(w, "    --sif_file /shared/alphafold.sif \\")
		_, _ = fmt.Fprintln(w, "    --submit")
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	clibase.Register(fs, &o.Common)

	fs.StringVar(&o.FastaDir, "fasta_file_dir", "", "directory containing the FASTA files [*]")
	fs.StringVar(&o.FastaDir, "f", "", "alias of --fasta_file_dir")
	fs.StringVar(&o.OutDir, "alphafold_out_dir", "", "output root for AlphaFold2 results [*]")
	fs.StringVar(&o.OutDir, "o", "", "alias of --alphafold_out_dir")
	fs.StringVar(&o.SIFFile, "sif_file", "./alphafold.sif", "AlphaFold2 container image")
	fs.StringVar(&o.RunScript, "run_script", "./run.sh", "job script template")

	fs.BoolVar(&o.ForceOverwrite, "force_overwrite", false, "reuse existing job directories without asking [false]")
	o.OnConflict = OnConflictPrompt
	fs.Var(cli.ChoiceValue{Dst: &o.OnConflict, Choices: []string{OnConflictPrompt, OnConflictSkip, OnConflictAbort}},
		"on_conflict", "prompt | skip | abort")

	fs.BoolVar(&o.Submit, "submit", false, "submit each rendered script [false]")
	fs.StringVar(&o.SubmitCmd, "submit_cmd", "sbatch", "submission command")

	if err := clibase.Parse(fs, &o.Common, argv); err != nil {
		return o, err
	}
	if o.Version {
		return o, nil
	}
	return o, Validate(&o)
}

// Validate checks inputs and resolves paths. It never writes.
func Validate(o *Options) error {
	var err error
	if o.FastaDir, err = cliutil.RequireDir("fasta_file_dir", o.FastaDir); err != nil {
		return err
	}
	if o.OutDir == "" {
		return cli.Configf("please provide --alphafold_out_dir")
	}
	if st, statErr := os.Stat(o.OutDir); statErr == nil && !st.IsDir() {
		return cli.Configf("the provided alphafold_out_dir %q is not a directory", o.OutDir)
	}
	if o.OutDir, err = filepath.Abs(o.OutDir); err != nil {
		return cli.Configf("alphafold_out_dir: %v", err)
	}
	if o.RunScript, err = cliutil.RequireFile("run_script", o.RunScript); err != nil {
		return err
	}
	if o.SIFFile == "" {
		return cli.Configf("--sif_file must not be empty")
	}
	if o.SIFFile, err = filepath.Abs(o.SIFFile); err != nil {
		return cli.Configf("sif_file: %v", err)
	}
	if o.Submit && o.SubmitCmd == "" {
		return cli.Configf("--submit needs a --submit_cmd")
	}
	return nil
}
