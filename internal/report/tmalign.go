// internal/report/tmalign.go
package report

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// TMAlignRecord is one row of a USalign "-outfmt 2" report.
type TMAlignRecord struct {
	Query  string
	Target string
	TM1    float64
	TM2    float64
	RMSD   float64
	ID1    float64
	ID2    float64
	IDali  float64
	L1     float64
	L2     float64
	Lali   float64
}

// TMAlignHeader is the sentinel opening the USalign -outfmt 2 header line.
const TMAlignHeader = "#PDBchain1"

// TMAlignFields is the positional schema of a data line.
var TMAlignFields = []string{"PDBchain1", "PDBchain2", "TM1", "TM2", "RMSD", "ID1", "ID2", "IDali", "L1", "L2", "Lali"}

// ParseTMAlign reads a USalign -outfmt 2 report. Lines starting with '#'
// (the header and USalign's trailing timing note) and blank lines are not
// data; every other line must carry exactly len(TMAlignFields) tab-separated
// tokens.
func ParseTMAlign(r io.Reader, source string) ([]TMAlignRecord, error) {
	var out []TMAlignRecord
	seen := map[[2]string]int{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tok := strings.Split(line, "\t")
		if len(tok) != len(TMAlignFields) {
			return nil, parseErr(source, ln, nil, "want %d tab-separated fields, got %d", len(TMAlignFields), len(tok))
		}
		var nums [9]float64
		for i, t := range tok[2:] {
			v, err := parseFloat(strings.TrimSpace(t), TMAlignFields[i+2], source, ln)
			if err != nil {
				return nil, err
			}
			nums[i] = v
		}
		rec := TMAlignRecord{
			Query:  Stem(tok[0]),
			Target: Stem(tok[1]),
			TM1:    nums[0],
			TM2:    nums[1],
			RMSD:   nums[2],
			ID1:    nums[3],
			ID2:    nums[4],
			IDali:  nums[5],
			L1:     nums[6],
			L2:     nums[7],
			Lali:   nums[8],
		}
		if rec.Query == "" || rec.Target == "" {
			return nil, parseErr(source, ln, nil, "empty structure identifier")
		}
		key := [2]string{rec.Query, rec.Target}
		if prev, dup := seen[key]; dup {
			return nil, parseErr(source, ln, nil, "duplicate record for %s vs %s (first at line %d)", key[0], key[1], prev)
		}
		seen[key] = ln
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, parseErr(source, ln, err, "read")
	}
	return out, nil
}

// ParseTMAlignFile is ParseTMAlign over a file on disk.
func ParseTMAlignFile(path string) ([]TMAlignRecord, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ParseTMAlign(fh, path)
}
