package copycli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"af2tools/internal/cli"
	"af2tools/internal/clibase"
	"af2tools/internal/cliutil"
)

// DefaultArtifact is the AlphaFold2 output collected from each job.
const DefaultArtifact = "ranked_0.pdb"

type Options struct {
	clibase.Common

	QueryDir string // absolute; created by the app
	OutDir   string // absolute
	Artifact string
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := cli.NewFlagSet(name)
	clibase.UsageCommon(fs, name, "collect AlphaFold2 models into a query directory", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s --alphafold_out_dir ./af2_out --query_file_dir ./queries\n", name)

		_, _ = fmt.Fprintln(out, "\nInput:")
		_, _ = fmt.Fprintln(out, "  -q, --query_file_dir dir     Directory the <job>.pdb files are copied to (created) [*]")
		_, _ = fmt.Fprintln(out, "  -a, --alphafold_out_dir dir  AlphaFold2 output root, one directory per job [*]")
		_, _ = fmt.Fprintf(out, "      --artifact name          File collected from each job [%s]\n", def("artifact"))
	})
	return fs
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	clibase.Register(fs, &o.Common)

	fs.StringVar(&o.QueryDir, "query_file_dir", "", "directory the PDB files are saved to [*]")
	fs.StringVar(&o.QueryDir, "q", "", "alias of --query_file_dir")
	fs.StringVar(&o.OutDir, "alphafold_out_dir", "", "AlphaFold2 output root [*]")
	fs.StringVar(&o.OutDir, "a", "", "alias of --alphafold_out_dir")
	fs.StringVar(&o.Artifact, "artifact", DefaultArtifact, "file collected from each job")

	if err := clibase.Parse(fs, &o.Common, argv); err != nil {
		return o, err
	}
	if o.Version {
		return o, nil
	}
	return o, Validate(&o)
}

func Validate(o *Options) error {
	var err error
	if o.OutDir, err = cliutil.RequireDir("alphafold_out_dir", o.OutDir); err != nil {
		return err
	}
	if o.QueryDir == "" {
		return cli.Configf("please provide --query_file_dir")
	}
	if st, statErr := os.Stat(o.QueryDir); statErr == nil && !st.IsDir() {
		return cli.Configf("the provided query_file_dir %q is not a directory", o.QueryDir)
	}
	if o.QueryDir, err = filepath.Abs(o.QueryDir); err != nil {
		return cli.Configf("query_file_dir: %v", err)
	}
	if o.Artifact == "" || strings.ContainsAny(o.Artifact, `/\`) {
		return cli.Configf("--artifact must be a plain file name, got %q", o.Artifact)
	}
	return nil
}
