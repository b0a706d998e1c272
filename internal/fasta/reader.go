// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one FASTA entry.
type Record struct {
	ID  string
	Seq []byte
}

// Read parses every record from r. Sequence lines are upper-cased and
// whitespace is dropped. Sequence data before the first header is an error.
func Read(r io.Reader, source string) ([]Record, error) {
	br := bufio.NewReader(r)
	var (
		out []Record
		cur *Record
		ln  int
	)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			ln++
			line = bytes.TrimRight(line, "\r\n")
			switch {
			case len(line) > 0 && line[0] == '>':
				if cur != nil {
					out = append(out, *cur)
				}
				fields := strings.Fields(string(line[1:]))
				if len(fields) == 0 {
					return nil, fmt.Errorf("%s:%d empty FASTA header", source, ln)
				}
				cur = &Record{ID: fields[0]}
			case len(bytes.TrimSpace(line)) == 0 || line[0] == ';':
			default:
				if cur == nil {
					return nil, fmt.Errorf("%s:%d sequence data before first header", source, ln)
				}
				for _, b := range bytes.ToUpper(line) {
					if b != ' ' && b != '\t' {
						cur.Seq = append(cur.Seq, b)
					}
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out, nil
}

// Summary describes a FASTA file without keeping its sequences.
type Summary struct {
	Records  int
	Residues int
}

// Summarize reads path and reports its record count and total length.
func Summarize(path string) (Summary, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer fh.Close()

	recs, err := Read(fh, path)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{Records: len(recs)}
	for _, r := range recs {
		s.Residues += len(r.Seq)
	}
	return s, nil
}
