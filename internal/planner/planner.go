// internal/planner/planner.go
package planner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExts are the sequence-file suffixes recognized as job inputs.
var DefaultExts = []string{".fasta", ".fa"}

// PriorRunExt marks a job directory as holding a previous run.
const PriorRunExt = ".sh"

// ErrAborted is wrapped by the error returned when a policy aborts the run.
var ErrAborted = errors.New("aborted by overwrite policy")

// Item is one discovered input file.
type Item struct {
	Stem string
	Path string
}

// Job is an input bound to its output directory.
type Job struct {
	Item  Item
	Dir   string
	Reuse bool // directory held a prior run and the policy said proceed
}

// Plan is the outcome of planning; nothing has been written yet.
type Plan struct {
	OutRoot string
	Jobs    []Job
	Skipped []Item
}

// ConflictError reports the conflict on which the policy aborted.
type ConflictError struct {
	Item Item
	Dir  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: existing job directory %s: %v", e.Item.Stem, e.Dir, ErrAborted)
}

func (e *ConflictError) Unwrap() error { return ErrAborted }

// DuplicateStemError reports two inputs that would share one job directory.
type DuplicateStemError struct {
	Stem  string
	Paths []string
}

func (e *DuplicateStemError) Error() string {
	return fmt.Sprintf("inputs %s share the job name %q", strings.Join(e.Paths, ", "), e.Stem)
}

// Discover lists regular files in dir whose extension is one of exts
// (case-insensitive), sorted by stem.
func Discover(dir string, exts []string) ([]Item, error) {
	if len(exts) == 0 {
		exts = DefaultExts
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if !hasExt(exts, ext) {
			continue
		}
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err != nil || !info.Mode().IsRegular() {
			continue
		}
		items = append(items, Item{Stem: strings.TrimSuffix(name, ext), Path: p})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Stem != items[j].Stem {
			return items[i].Stem < items[j].Stem
		}
		return items[i].Path < items[j].Path
	})
	if err := checkDistinct(items); err != nil {
		return nil, err
	}
	return items, nil
}

func hasExt(exts []string, ext string) bool {
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func checkDistinct(items []Item) error {
	seen := make(map[string]string, len(items))
	for _, it := range items {
		if prev, ok := seen[it.Stem]; ok {
			return &DuplicateStemError{Stem: it.Stem, Paths: []string{prev, it.Path}}
		}
		seen[it.Stem] = it.Path
	}
	return nil
}

// PriorRun reports whether dir exists, is non-empty, and contains at least
// one job script. The matching script names are returned.
func PriorRun(dir string) (bool, []string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil, nil
		}
		return false, nil, err
	}
	var scripts []string
	for _, e := range ents {
		if !e.IsDir() && strings.HasSuffix(e.Name(), PriorRunExt) {
			scripts = append(scripts, e.Name())
		}
	}
	return len(ents) > 0 && len(scripts) > 0, scripts, nil
}

// Build plans one job per item under outRoot, consulting policy for every
// job directory that already holds a prior run. It performs no writes.
func Build(ctx context.Context, items []Item, outRoot string, policy Policy) (Plan, error) {
	if policy == nil {
		return Plan{}, errors.New("planner: nil policy")
	}
	if err := checkDistinct(items); err != nil {
		return Plan{}, err
	}
	p := Plan{OutRoot: outRoot}
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return Plan{}, err
		}
		dir := filepath.Join(outRoot, it.Stem)
		prior, scripts, err := PriorRun(dir)
		if err != nil {
			return Plan{}, fmt.Errorf("%s: inspect %s: %w", it.Stem, dir, err)
		}
		if !prior {
			p.Jobs = append(p.Jobs, Job{Item: it, Dir: dir})
			continue
		}
		d, err := policy.Decide(ctx, Conflict{Item: it, Dir: dir, Artifacts: scripts})
		if err != nil {
			return Plan{}, fmt.Errorf("%s: overwrite policy: %w", it.Stem, err)
		}
		switch d {
		case Proceed:
			p.Jobs = append(p.Jobs, Job{Item: it, Dir: dir, Reuse: true})
		case Skip:
			p.Skipped = append(p.Skipped, it)
		case Abort:
			return Plan{}, &ConflictError{Item: it, Dir: dir}
		default:
			return Plan{}, fmt.Errorf("%s: overwrite policy returned %s", it.Stem, d)
		}
	}
	return p, nil
}

// Materialize creates the output root and every planned job directory.
func Materialize(p Plan) error {
	if err := os.MkdirAll(p.OutRoot, 0o755); err != nil {
		return fmt.Errorf("create output root: %w", err)
	}
	for _, j := range p.Jobs {
		if err := os.MkdirAll(j.Dir, 0o755); err != nil {
			return fmt.Errorf("%s: create job directory: %w", j.Item.Stem, err)
		}
	}
	return nil
}
