package writers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"af2tools/internal/report"
	"af2tools/internal/search"
)

func sampleRow() search.Row {
	return search.Row{
		Query: "q1", Target: "t1", Collection: "human",
		FATCAT: report.FATCATRecord{
			Query: "q1", Target: "t1", PValue: 1e-06, RMSD: 1.95,
			Identity: 0.3, Similarity: 0.4, Score: 250, AFP: 900,
		},
		TMAlign: report.TMAlignRecord{
			Query: "q1", Target: "t1", TM1: 0.7, TM2: 0.65, RMSD: 2,
			ID1: 0.3, ID2: 0.28, IDali: 0.31, L1: 120, L2: 130, Lali: 110,
		},
	}
}

func TestWriteResultTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResultTable(&buf, []search.Row{sampleRow()}); err != nil {
		t.Fatal(err)
	}
	want := "query,prot_pdb,p_val,rmsd,identity,similarity,score,afp,proteome,TM1,TM2,RMSD,ID1,ID2,IDali,L1,L2,Lali\n" +
		"q1,t1,1e-06,1.95,0.3,0.4,250,900,human,0.7,0.65,2,0.3,0.28,0.31,120,130,110\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteResultTableHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResultTable(&buf, nil); err != nil {
		t.Fatal(err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil || len(recs) != 1 || len(recs[0]) != len(ResultColumns) {
		t.Fatalf("recs=%v err=%v", recs, err)
	}
}

func TestWriteResultTableQuotesIdentifiers(t *testing.T) {
	r := sampleRow()
	r.Target = "odd,name"
	var buf bytes.Buffer
	if err := WriteResultTable(&buf, []search.Row{r}); err != nil {
		t.Fatal(err)
	}
	recs, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil || recs[1][1] != "odd,name" {
		t.Fatalf("recs=%v err=%v", recs, err)
	}
}

func TestWriteResultTableFileReplaces(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(p, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteResultTableFile(p, []search.Row{sampleRow()}); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(p)
	if !strings.HasPrefix(string(b), "query,prot_pdb,") || strings.Contains(string(b), "stale") {
		t.Fatalf("file not replaced: %q", b)
	}
	ents, _ := os.ReadDir(filepath.Dir(p))
	if len(ents) != 1 {
		t.Fatalf("temp file left behind: %v", ents)
	}
}

func TestIsBrokenPipe(t *testing.T) {
	if !IsBrokenPipe(syscall.EPIPE) || IsBrokenPipe(nil) || IsBrokenPipe(errors.New("x")) {
		t.Fatal("IsBrokenPipe misclassifies")
	}
	if !IsBrokenPipe(fmt.Errorf("flush stdout: %w", syscall.EPIPE)) || !IsBrokenPipe(os.ErrClosed) {
		t.Fatal("wrapped or closed-file errors not recognized")
	}
}
