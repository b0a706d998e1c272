// internal/search/searcher.go
package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"af2tools/internal/fsutil"
	"af2tools/internal/report"
	"af2tools/internal/runner"
	"af2tools/internal/tools"
)

// Pair stages, used in PairError.
const (
	StageIndex   = "index"
	StageStage   = "stage"
	StageFATCAT  = "fatcat"
	StageUSalign = "usalign"
	StageJoin    = "join"
)

// PairError is a failure of one (query, collection) pair.
type PairError struct {
	Query      string
	Collection string
	Stage      string
	Err        error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("%s vs %s: %s: %v", e.Query, e.Collection, e.Stage, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }

// StagingConflictError is returned when the collection already holds a file
// with the query's name; staging would overwrite and then delete it.
type StagingConflictError struct {
	Path string
}

func (e *StagingConflictError) Error() string {
	return fmt.Sprintf("%s already exists in the collection; refusing to stage the query over it", e.Path)
}

// Report file names inside a collection directory.
func FATCATReportName(q Query) string  { return "fatcat_search_results_" + q.Stem + ".aln" }
func USalignReportName(q Query) string { return "tm_align_search_results_" + q.Stem + ".aln" }

// Searcher runs both tools over queries × collections.
type Searcher struct {
	FATCAT  tools.Installation
	USalign tools.Installation
	Runner  *runner.Runner

	// Threads is the number of queries searched concurrently; <1 means 1.
	Threads int
	// FailFast stops the run at the first failed pair.
	FailFast bool
	// KeepReports leaves the raw tool reports in the collection directories.
	KeepReports bool

	// Progress, if set, is called once per finished query with a
	// monotonically increasing done count.
	Progress func(done, total int, query string, failed bool)
	// Logf, if set, receives one line per pair.
	Logf func(format string, a ...any)

	RunID string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Rows     []Row
	Failures []*PairError
	Pairs    int
}

// Run searches every query against every collection. Pair failures are
// collected in Result.Failures and do not affect other pairs unless FailFast
// is set, in which case the first one is returned as the error. Rows are
// concatenated in the order of queries, then collections, whatever the
// number of threads.
func (s *Searcher) Run(parent context.Context, queries []Query, collections []Collection) (Result, error) {
	if s.Runner == nil {
		s.Runner = &runner.Runner{}
	}
	if s.RunID == "" {
		s.RunID = uuid.NewString()
	}
	res := Result{RunID: s.RunID, Pairs: len(queries) * len(collections)}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	type outcome struct {
		rows     []Row
		failures []*PairError
	}
	outcomes := make([]outcome, len(queries))

	workers := s.Threads
	if workers < 1 {
		workers = 1
	}
	if workers > len(queries) {
		workers = len(queries)
	}

	var (
		wg       sync.WaitGroup
		progMu   sync.Mutex
		done     int
		firstErr error
	)
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for qi := range jobs {
				q := queries[qi]
				var out outcome
				for _, c := range collections {
					if ctx.Err() != nil {
						break
					}
					rows, perr := s.searchPair(ctx, q, c)
					if perr != nil {
						if ctx.Err() != nil && errors.Is(perr, ctx.Err()) {
							break
						}
						out.failures = append(out.failures, perr)
						if s.FailFast {
							progMu.Lock()
							if firstErr == nil {
								firstErr = perr
							}
							progMu.Unlock()
							cancel()
							break
						}
						continue
					}
					out.rows = append(out.rows, rows...)
				}
				outcomes[qi] = out

				progMu.Lock()
				done++
				if s.Progress != nil {
					s.Progress(done, len(queries), q.Stem, len(out.failures) > 0)
				}
				progMu.Unlock()
			}
		}()
	}

feed:
	for qi := range queries {
		select {
		case jobs <- qi:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for _, o := range outcomes {
		res.Rows = append(res.Rows, o.rows...)
		res.Failures = append(res.Failures, o.failures...)
	}

	if firstErr != nil {
		return res, firstErr
	}
	if err := parent.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Searcher) lockFor(dir string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks == nil {
		s.locks = map[string]*sync.Mutex{}
	}
	l, ok := s.locks[dir]
	if !ok {
		l = &sync.Mutex{}
		s.locks[dir] = l
	}
	return l
}

func (s *Searcher) logf(format string, a ...any) {
	if s.Logf == nil {
		return
	}
	id := s.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	s.Logf("[%s] "+format, append([]any{id}, a...)...)
}

func (s *Searcher) searchPair(ctx context.Context, q Query, c Collection) ([]Row, *PairError) {
	fail := func(stage string, err error) *PairError {
		return &PairError{Query: q.Stem, Collection: c.Name, Stage: stage, Err: err}
	}

	lock := s.lockFor(c.Dir)
	lock.Lock()
	defer lock.Unlock()

	if _, err := c.WriteIndex(); err != nil {
		return nil, fail(StageIndex, err)
	}

	staged := filepath.Join(c.Dir, q.Base())
	if fsutil.Exists(staged) {
		return nil, fail(StageStage, &StagingConflictError{Path: staged})
	}
	if err := fsutil.CopyFile(q.Path, staged); err != nil {
		_ = os.Remove(staged)
		return nil, fail(StageStage, err)
	}
	defer os.Remove(staged)

	fcPath := filepath.Join(c.Dir, FATCATReportName(q))
	tmPath := filepath.Join(c.Dir, USalignReportName(q))
	if !s.KeepReports {
		defer os.Remove(fcPath)
		defer os.Remove(tmPath)
	}

	s.logf("%s vs %s: FATCAT", q.Stem, c.Name)
	if err := s.runToFile(ctx, runner.Invocation{
		Path: s.FATCAT.Path,
		Args: []string{q.Base(), IndexName, "-q"},
		Dir:  c.Dir,
	}, fcPath); err != nil {
		return nil, fail(StageFATCAT, err)
	}
	fc, err := report.ParseFATCATFile(fcPath)
	if err != nil {
		return nil, fail(StageFATCAT, err)
	}

	s.logf("%s vs %s: USalign", q.Stem, c.Name)
	if err := s.runToFile(ctx, runner.Invocation{
		Path: s.USalign.Path,
		Args: []string{q.Base(), "-dir2", "./", "./" + IndexName, "-suffix", StructureExt, "-outfmt", "2", "-ter", "1", "-fast"},
		Dir:  c.Dir,
	}, tmPath); err != nil {
		return nil, fail(StageUSalign, err)
	}
	tm, err := report.ParseTMAlignFile(tmPath)
	if err != nil {
		return nil, fail(StageUSalign, err)
	}

	rows, err := Join(c.Name, fc, tm)
	if err != nil {
		return nil, fail(StageJoin, err)
	}
	s.logf("%s vs %s: %d FATCAT, %d USalign, %d joined", q.Stem, c.Name, len(fc), len(tm), len(rows))
	return rows, nil
}

func (s *Searcher) runToFile(ctx context.Context, inv runner.Invocation, path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	inv.Stdout = fh
	runErr := s.Runner.Run(ctx, inv)
	closeErr := fh.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}
