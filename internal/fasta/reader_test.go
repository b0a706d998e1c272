// internal/fasta/reader_test.go
package fasta

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const multimer = `>chainA some description
MKTAYIAK
qrqisfvk
>chainB
; comment
MSEQ
`

func TestRead(t *testing.T) {
	recs, err := Read(strings.NewReader(multimer), "m.fasta")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "chainA" || recs[1].ID != "chainB" {
		t.Fatalf("unexpected records: %+v", recs)
	}
	if string(recs[0].Seq) != "MKTAYIAKQRQISFVK" {
		t.Fatalf("seq=%s", recs[0].Seq)
	}
}

func TestReadNoTrailingNewline(t *testing.T) {
	recs, err := Read(strings.NewReader(">x\nMK"), "x")
	if err != nil || len(recs) != 1 || string(recs[0].Seq) != "MK" {
		t.Fatalf("got %+v %v", recs, err)
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Read(strings.NewReader("MKV\n>x\nA\n"), "bad.fasta"); err == nil || !strings.HasPrefix(err.Error(), "bad.fasta:1") {
		t.Fatalf("expected line-numbered error, got %v", err)
	}
	if _, err := Read(strings.NewReader(">\nA\n"), "bad.fasta"); err == nil {
		t.Fatal("expected error for empty header")
	}
}

func TestSummarize(t *testing.T) {
	p := filepath.Join(t.TempDir(), "m.fasta")
	if err := os.WriteFile(p, []byte(multimer), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Summarize(p)
	if err != nil {
		t.Fatal(err)
	}
	if s.Records != 2 || s.Residues != 20 {
		t.Fatalf("summary %+v", s)
	}
	empty := filepath.Join(t.TempDir(), "e.fasta")
	_ = os.WriteFile(empty, nil, 0o644)
	if s, err := Summarize(empty); err != nil || s.Records != 0 {
		t.Fatalf("empty summary %+v %v", s, err)
	}
	hollow := filepath.Join(t.TempDir(), "h.fasta")
	_ = os.WriteFile(hollow, []byte(">a\n"), 0o644)
	if s, err := Summarize(hollow); err != nil || s.Records != 1 || s.Residues != 0 {
		t.Fatalf("header-only summary %+v %v", s, err)
	}
}
