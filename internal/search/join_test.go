package search

import (
	"testing"

	"af2tools/internal/report"
)

func TestJoinKeepsOnlyPairsBothToolsReport(t *testing.T) {
	fc := []report.FATCATRecord{
		{Query: "q1", Target: "t1", Score: 10},
		{Query: "q1", Target: "t2", Score: 20}, // FATCAT only
	}
	tm := []report.TMAlignRecord{
		{Query: "q1", Target: "t1", TM1: 0.8},
		{Query: "q1", Target: "t3", TM1: 0.4}, // USalign only
	}
	rows, err := Join("human", fc, tm)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d: %+v", len(rows), rows)
	}
	r := rows[0]
	if r.Query != "q1" || r.Target != "t1" || r.Collection != "human" || r.FATCAT.Score != 10 || r.TMAlign.TM1 != 0.8 {
		t.Fatalf("unexpected row %+v", r)
	}
}

func TestJoinEmptySides(t *testing.T) {
	rows, err := Join("c", nil, []report.TMAlignRecord{{Query: "q", Target: "t"}})
	if err != nil || len(rows) != 0 {
		t.Fatalf("got %v %v", rows, err)
	}
}

func TestJoinRejectsDuplicates(t *testing.T) {
	dupFC := []report.FATCATRecord{{Query: "q", Target: "t"}, {Query: "q", Target: "t"}}
	if _, err := Join("c", dupFC, nil); err == nil {
		t.Fatal("expected duplicate FATCAT error")
	}
	dupTM := []report.TMAlignRecord{{Query: "q", Target: "t"}, {Query: "q", Target: "t"}}
	if _, err := Join("c", nil, dupTM); err == nil {
		t.Fatal("expected duplicate USalign error")
	}
}
