// internal/report/fatcat.go
package report

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// FATCATRecord is one query/target block of a FATCAT search report.
// Identity and Similarity are fractions in [0,1].
type FATCATRecord struct {
	Query      string
	Target     string
	PValue     float64
	RMSD       float64
	Identity   float64
	Similarity float64
	Score      float64
	AFP        int
}

// Marker tokens and the token positions read from each marker line.
const (
	fatcatAlign  = "Align"
	fatcatTwists = "Twists"
	fatcatPValue = "P-value"

	// P-value 1.23e-05 Afp-num 4387 Identity 34.56% Similarity 45.67%
	pvalIdx, afpIdx, identIdx, simIdx = 1, 3, 5, 7
	// Twists 0 ini-len 120 ini-rmsd 1.23 opt-equ 118 opt-rmsd 1.11 chain-rmsd 1.23 Score 300.50 ...
	rmsdIdx, scoreIdx = 9, 13
)

type fatcatBlock struct {
	rec       FATCATRecord
	line      int
	haveStats bool
	haveTwist bool
}

func (b *fatcatBlock) complete() bool { return b.haveStats && b.haveTwist }

// ParseFATCAT reads a FATCAT report. A record opens on an "Align" line and is
// complete once both its "P-value" and "Twists" lines have been read; a new
// "Align" line or EOF before that is an error.
func ParseFATCAT(r io.Reader, source string) ([]FATCATRecord, error) {
	var (
		out  []FATCATRecord
		cur  *fatcatBlock
		seen = map[[2]string]int{}
	)
	closeBlock := func() error {
		if cur == nil {
			return nil
		}
		if !cur.complete() {
			return parseErr(source, cur.line, nil, "incomplete record for %s vs %s (missing %s)",
				cur.rec.Query, cur.rec.Target, cur.missing())
		}
		key := [2]string{cur.rec.Query, cur.rec.Target}
		if prev, dup := seen[key]; dup {
			return parseErr(source, cur.line, nil, "duplicate record for %s vs %s (first at line %d)",
				key[0], key[1], prev)
		}
		seen[key] = cur.line
		out = append(out, cur.rec)
		cur = nil
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case fatcatAlign:
			if err := closeBlock(); err != nil {
				return nil, err
			}
			if len(f) < 5 {
				return nil, parseErr(source, ln, nil, "bad %s line: want at least 5 fields, got %d", fatcatAlign, len(f))
			}
			cur = &fatcatBlock{line: ln}
			cur.rec.Query = Stem(f[1])
			cur.rec.Target = Stem(f[len(f)-2])

		case fatcatPValue:
			if cur == nil {
				return nil, parseErr(source, ln, nil, "%s line outside a record", fatcatPValue)
			}
			if cur.haveStats {
				return nil, parseErr(source, ln, nil, "second %s line in record opened at line %d", fatcatPValue, cur.line)
			}
			if err := parseFATCATStats(f, &cur.rec, source, ln); err != nil {
				return nil, err
			}
			cur.haveStats = true

		case fatcatTwists:
			if cur == nil {
				return nil, parseErr(source, ln, nil, "%s line outside a record", fatcatTwists)
			}
			if cur.haveTwist {
				return nil, parseErr(source, ln, nil, "second %s line in record opened at line %d", fatcatTwists, cur.line)
			}
			if err := parseFATCATTwists(f, &cur.rec, source, ln); err != nil {
				return nil, err
			}
			cur.haveTwist = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, parseErr(source, ln, err, "read")
	}
	if err := closeBlock(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseFATCATFile is ParseFATCAT over a file on disk.
func ParseFATCATFile(path string) ([]FATCATRecord, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ParseFATCAT(fh, path)
}

func (b *fatcatBlock) missing() string {
	var m []string
	if !b.haveTwist {
		m = append(m, fatcatTwists)
	}
	if !b.haveStats {
		m = append(m, fatcatPValue)
	}
	return strings.Join(m, ", ")
}

func parseFATCATStats(f []string, rec *FATCATRecord, src string, ln int) error {
	if len(f) <= simIdx {
		return parseErr(src, ln, nil, "bad %s line: want at least %d fields, got %d", fatcatPValue, simIdx+1, len(f))
	}
	if err := expectLabel(f, afpIdx-1, "Afp-num", src, ln); err != nil {
		return err
	}
	if err := expectLabel(f, identIdx-1, "Identity", src, ln); err != nil {
		return err
	}
	if err := expectLabel(f, simIdx-1, "Similarity", src, ln); err != nil {
		return err
	}

	var err error
	if rec.PValue, err = parseFloat(f[pvalIdx], "p-value", src, ln); err != nil {
		return err
	}
	afp, convErr := strconv.Atoi(f[afpIdx])
	if convErr != nil {
		return parseErr(src, ln, convErr, "bad afp count %q", f[afpIdx])
	}
	rec.AFP = afp
	if rec.Identity, err = parsePercent(f[identIdx], "identity", src, ln); err != nil {
		return err
	}
	if rec.Similarity, err = parsePercent(f[simIdx], "similarity", src, ln); err != nil {
		return err
	}
	return nil
}

func parseFATCATTwists(f []string, rec *FATCATRecord, src string, ln int) error {
	if len(f) <= scoreIdx {
		return parseErr(src, ln, nil, "bad %s line: want at least %d fields, got %d", fatcatTwists, scoreIdx+1, len(f))
	}
	if err := expectLabel(f, rmsdIdx-1, "opt-rmsd", src, ln); err != nil {
		return err
	}
	if err := expectLabel(f, scoreIdx-1, "Score", src, ln); err != nil {
		return err
	}
	var err error
	if rec.RMSD, err = parseFloat(f[rmsdIdx], "rmsd", src, ln); err != nil {
		return err
	}
	if rec.Score, err = parseFloat(f[scoreIdx], "score", src, ln); err != nil {
		return err
	}
	return nil
}

func expectLabel(f []string, i int, label, src string, ln int) error {
	if f[i] != label {
		return parseErr(src, ln, nil, "expected %q at field %d, got %q", label, i+1, f[i])
	}
	return nil
}

func parseFloat(tok, what, src string, ln int) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, parseErr(src, ln, err, "bad %s %q", what, tok)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, parseErr(src, ln, nil, "non-finite %s %q", what, tok)
	}
	return v, nil
}

// parsePercent reads "45.67%" as 0.4567. Values outside [0,100] are rejected.
func parsePercent(tok, what, src string, ln int) (float64, error) {
	v, err := parseFloat(strings.TrimSuffix(tok, "%"), what, src, ln)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 100 {
		return 0, parseErr(src, ln, nil, "%s %q out of range [0,100]", what, tok)
	}
	return v / 100, nil
}
