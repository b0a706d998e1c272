// Package testutil builds stand-in FATCAT and USalign installations for
// tests. The fakes are /bin/sh scripts that replay canned reports.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"af2tools/internal/tools"
)

// Tool keys used in fixture paths.
const (
	FATCAT  = "fatcat"
	USalign = "usalign"
)

// FakeTools is a pair of fake tool installations sharing a fixture root.
type FakeTools struct {
	Root        string // fixtures and call log
	InstallRoot string // holds FATCAT-dist/ and USalign/
	FATCAT      tools.Installation
	USalign     tools.Installation
}

const fakeScript = `#!/bin/sh
q=$(basename "$1" .pdb)
c=$(basename "$(pwd)")
echo "$c $q $*" >> "%[1]s/calls.log"
[ -f "$1" ] || { echo "query $1 not staged in $c" >&2; exit 2; }
[ -f "%[3]s" ] || { echo "index %[3]s missing in $c" >&2; exit 2; }
if [ -f "%[1]s/fail/%[2]s/$c/$q" ]; then cat "%[1]s/fail/%[2]s/$c/$q" >&2; exit 1; fi
if [ -f "%[1]s/sleep/%[2]s" ]; then sleep "$(cat "%[1]s/sleep/%[2]s")"; fi
if [ -f "%[1]s/%[2]s/$c/$q.aln" ]; then cat "%[1]s/%[2]s/$c/$q.aln"; fi
exit 0
`

// NewFakeTools installs both fakes under a fresh temp dir. Tests using it are
// skipped on Windows.
func NewFakeTools(t testing.TB, indexName string) *FakeTools {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skip on windows: fake tools are shell scripts")
	}
	base := t.TempDir()
	f := &FakeTools{Root: filepath.Join(base, "fixtures"), InstallRoot: filepath.Join(base, "install")}
	mkdir(t, f.Root)

	write := func(tool tools.Tool, dirName, key string) tools.Installation {
		dir := filepath.Join(f.InstallRoot, dirName)
		exe := filepath.Join(dir, tool.Exec)
		mkdir(t, filepath.Dir(exe))
		script := fmt.Sprintf(fakeScript, f.Root, key, indexName)
		if err := os.WriteFile(exe, []byte(script), 0o755); err != nil {
			t.Fatalf("write fake %s: %v", tool.Name, err)
		}
		return tools.Installation{Tool: tool, Dir: dir, Path: exe}
	}
	f.FATCAT = write(tools.FATCAT, "FATCAT-dist", FATCAT)
	f.USalign = write(tools.USalign, "USalign", USalign)
	return f
}

// SetReport makes tool print text for query (stem) run in collection.
func (f *FakeTools) SetReport(t testing.TB, tool, collection, query, text string) {
	t.Helper()
	p := filepath.Join(f.Root, tool, collection, query+".aln")
	mkdir(t, filepath.Dir(p))
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Fail makes tool exit 1 with stderr for query run in collection.
func (f *FakeTools) Fail(t testing.TB, tool, collection, query, stderr string) {
	t.Helper()
	p := filepath.Join(f.Root, "fail", tool, collection, query)
	mkdir(t, filepath.Dir(p))
	if err := os.WriteFile(p, []byte(stderr), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Sleep makes every run of tool sleep for the given number of seconds first.
func (f *FakeTools) Sleep(t testing.TB, tool string, seconds int) {
	t.Helper()
	p := filepath.Join(f.Root, "sleep", tool)
	mkdir(t, filepath.Dir(p))
	if err := os.WriteFile(p, []byte(fmt.Sprint(seconds)), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Calls returns one "collection query args..." line per tool invocation.
func (f *FakeTools) Calls(t testing.TB) []string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(f.Root, "calls.log"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

// FATCATBlock fabricates one FATCAT report block.
func FATCATBlock(query, target string, identityPct float64) string {
	return fmt.Sprintf("Align %s.pdb 120 with %s.pdb 130\n"+
		"Twists 0 ini-len 100 ini-rmsd 2.10 opt-equ 104 opt-rmsd 1.95 chain-rmsd 2.10 Score 250.00 align-len 128 gaps 24 (18.75%%)\n"+
		"P-value 1.00e-06 Afp-num 900 Identity %.2f%% Similarity 40.00%%\n\n", query, target, identityPct)
}

// USalignReport fabricates a USalign -outfmt 2 report listing targets.
func USalignReport(query string, targets ...string) string {
	var b strings.Builder
	b.WriteString("#PDBchain1\tPDBchain2\tTM1\tTM2\tRMSD\tID1\tID2\tIDali\tL1\tL2\tLali\n")
	for _, tg := range targets {
		fmt.Fprintf(&b, "%s.pdb:A\t./%s.pdb:A\t0.7000\t0.6500\t2.00\t0.300\t0.280\t0.310\t120\t130\t110\n", query, tg)
	}
	b.WriteString("#Total CPU time is  0.01 seconds\n")
	return b.String()
}

// WriteFile creates path (and parents) with data.
func WriteFile(t testing.TB, path, data string) string {
	t.Helper()
	mkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func mkdir(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
}
