package search

import (
	"fmt"

	"af2tools/internal/report"
)

// Row is one hit confirmed by both tools.
type Row struct {
	Query      string
	Target     string
	Collection string
	FATCAT     report.FATCATRecord
	TMAlign    report.TMAlignRecord
}

type pairKey struct{ query, target string }

// Join inner-joins one collection's FATCAT and USalign records on
// (query, target), tagging the result with the collection name. Hits reported
// by only one tool are dropped. Output follows FATCAT order.
func Join(collection string, fc []report.FATCATRecord, tm []report.TMAlignRecord) ([]Row, error) {
	byKey := make(map[pairKey]report.TMAlignRecord, len(tm))
	for _, r := range tm {
		k := pairKey{r.Query, r.Target}
		if _, dup := byKey[k]; dup {
			return nil, fmt.Errorf("%s: duplicate USalign record for %s vs %s", collection, r.Query, r.Target)
		}
		byKey[k] = r
	}
	seen := make(map[pairKey]bool, len(fc))
	var rows []Row
	for _, f := range fc {
		k := pairKey{f.Query, f.Target}
		if seen[k] {
			return nil, fmt.Errorf("%s: duplicate FATCAT record for %s vs %s", collection, f.Query, f.Target)
		}
		seen[k] = true
		t, ok := byKey[k]
		if !ok {
			continue
		}
		rows = append(rows, Row{
			Query:      f.Query,
			Target:     f.Target,
			Collection: collection,
			FATCAT:     f,
			TMAlign:    t,
		})
	}
	return rows, nil
}
