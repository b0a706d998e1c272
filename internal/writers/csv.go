// internal/writers/csv.go
package writers

import (
	"encoding/csv"
	"io"
	"strconv"

	"af2tools/internal/fsutil"
	"af2tools/internal/search"
)

// ResultColumns is the ResultTable header: the FATCAT columns, the
// collection, then the USalign columns.
var ResultColumns = []string{
	"query", "prot_pdb", "p_val", "rmsd", "identity", "similarity", "score", "afp",
	"proteome",
	"TM1", "TM2", "RMSD", "ID1", "ID2", "IDali", "L1", "L2", "Lali",
}

func ff(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func resultRecord(r search.Row) []string {
	fc, tm := r.FATCAT, r.TMAlign
	return []string{
		r.Query, r.Target, ff(fc.PValue), ff(fc.RMSD), ff(fc.Identity), ff(fc.Similarity), ff(fc.Score), strconv.Itoa(fc.AFP),
		r.Collection,
		ff(tm.TM1), ff(tm.TM2), ff(tm.RMSD), ff(tm.ID1), ff(tm.ID2), ff(tm.IDali), ff(tm.L1), ff(tm.L2), ff(tm.Lali),
	}
}

// WriteResultTable writes the header and one CSV record per row, in the
// given order.
func WriteResultTable(w io.Writer, rows []search.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(resultRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResultTableFile replaces path with the table in one atomic rename.
func WriteResultTableFile(path string, rows []search.Row) error {
	return fsutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return WriteResultTable(w, rows)
	})
}
