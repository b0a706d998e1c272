package cmdutil

import (
	"fmt"
	"io"
)

// Progress prints one line per finished query:
//
//	3 of 10 queries complete (30.00% done, 1 errors)
//
// Observe matches the search.Searcher Progress callback. Calls must be
// serialized by the caller.
type Progress struct {
	Out   io.Writer
	Quiet bool

	errors int
}

func (p *Progress) Observe(done, total int, query string, failed bool) {
	if failed {
		p.errors++
	}
	if p.Quiet || p.Out == nil {
		return
	}
	ratio := 0.0
	if total > 0 {
		ratio = 100.0 * float64(done) / float64(total)
	}
	_, _ = fmt.Fprintf(p.Out, "%d of %d queries complete (%0.2f%% done, %d errors) %s\n",
		done, total, ratio, p.errors, query)
}

// Errors is the number of failed queries observed so far.
func (p *Progress) Errors() int { return p.errors }
