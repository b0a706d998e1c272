package searchcli

import (
	"flag"
	"fmt"
	"io"
	"time"

	"af2tools/internal/cli"
	"af2tools/internal/clibase"
	"af2tools/internal/cliutil"
)

// DefaultOutput is the default ResultTable name.
const DefaultOutput = "fatcat_tmalign_homology_search.csv"

type Options struct {
	clibase.Common

	QueryDir       string // absolute
	CollectionRoot string // absolute
	FATCATDir      string // as given; resolved by tools.Resolver
	USalignDir     string
	ToolSearchPath []string

	Output         string // .csv enforced
	ForceOverwrite bool

	Threads     int
	Timeout     time.Duration
	FailFast    bool
	KeepReports bool
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := cli.NewFlagSet(name)
	clibase.UsageCommon(fs, name, "FATCAT + USalign structural homology search", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s --query_file_dir ./queries --proteome_dirs ./proteomes [options]\n", name)

		_, _ = fmt.Fprintln(out, "\nInput:")
		_, _ = fmt.Fprintln(out, "  -q, --query_file_dir dir        Directory containing the query *.pdb files [*]")
		_, _ = fmt.Fprintln(out, "  -p, --proteome_dirs dir         Directory of proteome directories (human/, mouse/, ...) [*]")

		_, _ = fmt.Fprintln(out, "\nTools:")
		_, _ = fmt.Fprintln(out, "  -f, --fatcat_install_dir dir    FATCAT checkout holding FATCATMain/FATCATSearch.pl")
		_, _ = fmt.Fprintln(out, "  -t, --tm_align_install_dir dir  USalign checkout holding the USalign binary")
		_, _ = fmt.Fprintln(out, "      --tool_search_path list     Extra directories searched for FATCAT-dist/ and USalign/")
		_, _ = fmt.Fprintln(out, "                                  (also $FATCAT_INSTALL_DIR, $USALIGN_INSTALL_DIR, $AF2TOOLS_TOOL_PATH, then ./)")

		_, _ = fmt.Fprintln(out, "\nOutput:")
		_, _ = fmt.Fprintf(out, "      --output_name file          Result table, .csv enforced [%s]\n", def("output_name"))
		_, _ = fmt.Fprintf(out, "      --force_overwrite           Replace an existing result table [%s]\n", def("force_overwrite"))
		_, _ = fmt.Fprintf(out, "      --keep_reports              Keep raw tool reports in the proteome directories [%s]\n", def("keep_reports"))

		_, _ = fmt.Fprintln(out, "\nPerformance:")
		_, _ = fmt.Fprintf(out, "      --threads int               Queries searched concurrently [%s]\n", def("threads"))
		_, _ = fmt.Fprintf(out, "      --timeout duration          Limit per tool invocation (0=none) [%s]\n", def("timeout"))
		_, _ = fmt.Fprintf(out, "      --fail_fast                 Stop at the first failed query/proteome pair [%s]\n", def("fail_fast"))
	})
	return fs
}

// PrintExamples prints a tiny quickstart for search.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "search", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Search every query against every proteome with FATCAT and USalign;")
		_, _ = fmt.Fprintln(w, "keep hits reported by both.")
		_, _ = fmt.Fprintln(w, "\nExample:")
		_, _ = fmt.Fprintln(w, "  search \\")
		_, _ = fmt.Fprintln(w, "    -q ./queries -p ./proteomes \\")
		_, _ = fmt.Fprintln(w, "    -f ./FATCAT-dist -t ./USalign \\")
		_, _ = fmt.Fprintln(w, "    --threads 4 --output_name hits.csv")
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	clibase.Register(fs, &o.Common)

	fs.StringVar(&o.QueryDir, "query_file_dir", "", "directory containing the query PDB files [*]")
	fs.StringVar(&o.QueryDir, "q", "", "alias of --query_file_dir")
	fs.StringVar(&o.CollectionRoot, "proteome_dirs", "", "directory of proteome directories [*]")
	fs.StringVar(&o.CollectionRoot, "p", "", "alias of --proteome_dirs")
	fs.StringVar(&o.FATCATDir, "fatcat_install_dir", "", "FATCAT install directory")
	fs.StringVar(&o.FATCATDir, "f", "", "alias of --fatcat_install_dir")
	fs.StringVar(&o.USalignDir, "tm_align_install_dir", "", "USalign install directory")
	fs.StringVar(&o.USalignDir, "t", "", "alias of --tm_align_install_dir")
	fs.Var(cli.ListValue{Dst: &o.ToolSearchPath}, "tool_search_path", "extra tool search directories")

	fs.StringVar(&o.Output, "output_name", DefaultOutput, "result table (.csv)")
	fs.BoolVar(&o.ForceOverwrite, "force_overwrite", false, "replace an existing result table [false]")
	fs.BoolVar(&o.KeepReports, "keep_reports", true, "keep raw tool reports [true]")

	fs.IntVar(&o.Threads, "threads", 1, "queries searched concurrently [1]")
	fs.DurationVar(&o.Timeout, "timeout", 0, "limit per tool invocation (0=none) [0s]")
	fs.BoolVar(&o.FailFast, "fail_fast", false, "stop at the first failed pair [false]")

	if err := clibase.Parse(fs, &o.Common, argv); err != nil {
		return o, err
	}
	if o.Version {
		return o, nil
	}
	return o, Validate(&o)
}

// Validate checks directories and numeric limits. Tool installations are
// resolved by the app, which owns the environment.
func Validate(o *Options) error {
	var err error
	if o.QueryDir, err = cliutil.RequireDir("query_file_dir", o.QueryDir); err != nil {
		return err
	}
	if o.CollectionRoot, err = cliutil.RequireDir("proteome_dirs", o.CollectionRoot); err != nil {
		return err
	}
	if o.Output == "" {
		return cli.Configf("--output_name must not be empty")
	}
	o.Output = cliutil.EnsureExt(o.Output, ".csv")
	if err := cliutil.CheckOverwrite("output_name", o.Output, o.ForceOverwrite); err != nil {
		return err
	}
	if o.Threads < 1 {
		return cli.Configf("--threads must be ≥ 1")
	}
	if o.Timeout < 0 {
		return cli.Configf("--timeout must be ≥ 0")
	}
	return nil
}
