// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"af2tools/internal/copyapp"
	"af2tools/internal/distapp"
	"af2tools/internal/search"
	"af2tools/internal/searchapp"
	"af2tools/internal/testutil"
)

func write(t *testing.T, fn, data string) string {
	t.Helper()
	return testutil.WriteFile(t, fn, data)
}

func noEnv(string) string { return "" }

type searchLayout struct {
	fake    *testutil.FakeTools
	root    string
	queries string
	prots   string
}

// newSearchLayout builds q1.pdb and proteomes/human/{t1,t2}.pdb; FATCAT
// reports t1 and t2, USalign only t1.
func newSearchLayout(t *testing.T) searchLayout {
	t.Helper()
	root := t.TempDir()
	l := searchLayout{
		fake:    testutil.NewFakeTools(t, search.IndexName),
		root:    root,
		queries: filepath.Join(root, "queries"),
		prots:   filepath.Join(root, "proteomes"),
	}
	write(t, filepath.Join(l.queries, "q1.pdb"), "ATOM q1\n")
	write(t, filepath.Join(l.prots, "human", "t1.pdb"), "ATOM t1\n")
	write(t, filepath.Join(l.prots, "human", "t2.pdb"), "ATOM t2\n")
	l.fake.SetReport(t, testutil.FATCAT, "human", "q1",
		testutil.FATCATBlock("q1", "t1", 30)+testutil.FATCATBlock("q1", "t2", 20))
	l.fake.SetReport(t, testutil.USalign, "human", "q1", testutil.USalignReport("q1", "t1"))
	return l
}

func (l searchLayout) argv(extra ...string) []string {
	return append([]string{
		"-q", l.queries, "-p", l.prots,
		"-f", l.fake.FATCAT.Dir, "-t", l.fake.USalign.Dir,
		"--quiet",
	}, extra...)
}

func runSearch(ctx context.Context, argv []string) (int, string, string) {
	var out, errBuf bytes.Buffer
	code := searchapp.RunEnv(ctx, searchapp.Env{Getenv: noEnv}, argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func readCSV(t *testing.T, p string) [][]string {
	t.Helper()
	fh, err := os.Open(p)
	require.NoError(t, err)
	defer fh.Close()
	recs, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestSearchEndToEnd(t *testing.T) {
	l := newSearchLayout(t)
	code, _, stderr := runSearch(context.Background(), l.argv("--output_name", filepath.Join(l.root, "results.txt")))
	require.Equal(t, 0, code, stderr)

	require.NoFileExists(t, filepath.Join(l.root, "results.txt"))
	recs := readCSV(t, filepath.Join(l.root, "results.csv"))
	require.Len(t, recs, 2, "header plus one joined row")
	require.Equal(t, "query", recs[0][0])
	require.Equal(t, []string{"q1", "t1"}, recs[1][:2])
	require.Equal(t, "human", recs[1][8])
	require.Equal(t, "0.3", recs[1][4])

	require.NoFileExists(t, filepath.Join(l.prots, "human", "q1.pdb"))
	idx, err := os.ReadFile(filepath.Join(l.prots, "human", search.IndexName))
	require.NoError(t, err)
	require.Equal(t, "t1\nt2\n", string(idx))
	require.FileExists(t, filepath.Join(l.prots, "human", "fatcat_search_results_q1.aln"))
}

func TestSearchLocatesToolsOnSearchPath(t *testing.T) {
	l := newSearchLayout(t)
	out := filepath.Join(l.root, "hits.csv")
	code, _, stderr := runSearch(context.Background(), []string{
		"-q", l.queries, "-p", l.prots, "--quiet",
		"--tool_search_path", l.fake.InstallRoot,
		"--output_name", out, "--keep_reports=false",
	})
	require.Equal(t, 0, code, stderr)
	require.Len(t, readCSV(t, out), 2)
	require.NoFileExists(t, filepath.Join(l.prots, "human", "fatcat_search_results_q1.aln"))
}

func TestSearchBadToolDirPrintsUsage(t *testing.T) {
	l := newSearchLayout(t)
	out := filepath.Join(l.root, "hits.csv")
	code, stdout, stderr := runSearch(context.Background(), []string{
		"-q", l.queries, "-p", l.prots,
		"-f", l.root, "-t", l.fake.USalign.Dir,
		"--output_name", out,
	})
	require.Equal(t, 1, code)
	require.Contains(t, stdout, "Usage:")
	require.Contains(t, stderr, "FATCATSearch.pl")
	require.NoFileExists(t, out)
	require.Empty(t, l.fake.Calls(t))
}

func TestSearchRefusesExistingOutput(t *testing.T) {
	l := newSearchLayout(t)
	out := write(t, filepath.Join(l.root, "hits.csv"), "keep me")
	code, _, _ := runSearch(context.Background(), l.argv("--output_name", out))
	require.Equal(t, 1, code)
	b, _ := os.ReadFile(out)
	require.Equal(t, "keep me", string(b))

	code, _, stderr := runSearch(context.Background(), l.argv("--output_name", out, "--force_overwrite"))
	require.Equal(t, 0, code, stderr)
	require.Len(t, readCSV(t, out), 2)
}

func TestSearchPairFailureKeepsOtherRows(t *testing.T) {
	l := newSearchLayout(t)
	write(t, filepath.Join(l.prots, "mouse", "m1.pdb"), "ATOM m1\n")
	l.fake.Fail(t, testutil.USalign, "mouse", "q1", "Warning! Cannot parse file: m1.pdb\n")
	out := filepath.Join(l.root, "hits.csv")

	code, _, stderr := runSearch(context.Background(), l.argv("--output_name", out))
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "Warning! Cannot parse file: m1.pdb")
	require.Contains(t, stderr, "q1 vs mouse")
	recs := readCSV(t, out)
	require.Len(t, recs, 2)
	require.Equal(t, "human", recs[1][8])
}

func TestSearchFailFastWritesNothing(t *testing.T) {
	l := newSearchLayout(t)
	l.fake.Fail(t, testutil.FATCAT, "human", "q1", "boom\n")
	out := filepath.Join(l.root, "hits.csv")
	code, _, stderr := runSearch(context.Background(), l.argv("--output_name", out, "--fail_fast"))
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "boom")
	require.NoFileExists(t, out)
}

func TestDistributeMissingFastaDir(t *testing.T) {
	root := t.TempDir()
	tmpl := write(t, filepath.Join(root, "run.sh"), "#!/bin/sh\n")
	out := filepath.Join(root, "af2_out")
	var stdout, stderr bytes.Buffer
	env := distapp.Env{LookupEnv: func(string) (string, bool) { return "alice", true }}
	code := distapp.RunEnv(context.Background(), env, []string{
		"--fasta_file_dir", filepath.Join(root, "nope"),
		"--alphafold_out_dir", out,
		"--run_script", tmpl,
	}, &stdout, &stderr)
	require.NotEqual(t, 0, code)
	require.Contains(t, stdout.String(), "Usage:")
	require.NoDirExists(t, out)
	ents, _ := os.ReadDir(root)
	require.Len(t, ents, 1, "only the template exists")
}

func TestNoArgumentsIsAnError(t *testing.T) {
	env := distapp.Env{LookupEnv: func(string) (string, bool) { return "alice", true }}
	tools := map[string]func(stdout, stderr *bytes.Buffer) int{
		"distribute": func(stdout, stderr *bytes.Buffer) int {
			return distapp.RunEnv(context.Background(), env, nil, stdout, stderr)
		},
		"copy-output": func(stdout, stderr *bytes.Buffer) int {
			return copyapp.Run([]string{}, stdout, stderr)
		},
		"search": func(stdout, stderr *bytes.Buffer) int {
			return searchapp.RunEnv(context.Background(), searchapp.Env{Getenv: noEnv}, nil, stdout, stderr)
		},
	}
	for name, run := range tools {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			require.Equal(t, 1, run(&stdout, &stderr))
			require.Contains(t, stdout.String(), "Usage:")
			require.Contains(t, stderr.String(), "ERROR: please provide --")
		})
	}
}

// TestDistributeCopySearch runs the three tools in sequence, with the
// AlphaFold2 run itself simulated by writing ranked_0.pdb.
func TestDistributeCopySearch(t *testing.T) {
	l := newSearchLayout(t)
	require.NoError(t, os.RemoveAll(l.queries))
	fastas := filepath.Join(l.root, "fastas")
	write(t, filepath.Join(fastas, "q1.fasta"), ">q1\nMKVLA\n")
	tmpl := write(t, filepath.Join(l.root, "run.sh"), "#!/bin/sh\n#SBATCH -J {{JOB_NAME}}\nrun {{FASTA_FILE}} {{OUTPUT_DIR}}\n")
	afOut := filepath.Join(l.root, "af2_out")

	var stdout, stderr bytes.Buffer
	env := distapp.Env{LookupEnv: func(k string) (string, bool) { return "alice", k == "LOGNAME" }}
	code := distapp.RunEnv(context.Background(), env, []string{
		"-f", fastas, "-o", afOut, "--run_script", tmpl, "--quiet",
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	script, err := os.ReadFile(filepath.Join(afOut, "q1", "run_q1.sh"))
	require.NoError(t, err)
	require.True(t, strings.Contains(string(script), "-J af2_q1"))

	write(t, filepath.Join(afOut, "q1", "q1", "ranked_0.pdb"), "ATOM q1 model\n")
	stdout.Reset()
	stderr.Reset()
	code = copyapp.Run([]string{"-a", afOut, "-q", l.queries, "--quiet"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.FileExists(t, filepath.Join(l.queries, "q1.pdb"))

	out := filepath.Join(l.root, "hits")
	code, _, serr := runSearch(context.Background(), l.argv("--output_name", out))
	require.Equal(t, 0, code, serr)
	recs := readCSV(t, out+".csv")
	require.Len(t, recs, 2)
	require.Equal(t, []string{"q1", "t1"}, recs[1][:2])
}
