// Package copyout collects one model file from every AlphaFold2 job
// directory into a flat query directory, named after the job.
package copyout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"af2tools/internal/fsutil"
)

// Copied is one collected artifact.
type Copied struct {
	Job string
	Src string
	Dst string
}

// Result lists collected artifacts and jobs without one, both sorted by job.
type Result struct {
	Copied  []Copied
	Missing []string
}

// Locate returns the artifact of the job rooted at jobDir. AlphaFold2
// writes into <jobDir>/<job>/ when its output dir is the job dir, so that
// nested location is tried after <jobDir>/ itself.
func Locate(jobDir, artifact string) (string, bool) {
	job := filepath.Base(jobDir)
	for _, p := range []string{
		filepath.Join(jobDir, artifact),
		filepath.Join(jobDir, job, artifact),
	} {
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// Collect copies <outRoot>/<job>/[<job>/]artifact to <queryDir>/<job>.pdb
// for every job directory, creating queryDir if needed. Existing copies are
// replaced.
func Collect(outRoot, queryDir, artifact string) (Result, error) {
	var res Result
	ents, err := os.ReadDir(outRoot)
	if err != nil {
		return res, err
	}
	if err := os.MkdirAll(queryDir, 0o755); err != nil {
		return res, fmt.Errorf("create query dir: %w", err)
	}
	sort.Slice(ents, func(i, j int) bool { return ents[i].Name() < ents[j].Name() })
	for _, e := range ents {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		job := e.Name()
		src, ok := Locate(filepath.Join(outRoot, job), artifact)
		if !ok {
			res.Missing = append(res.Missing, job)
			continue
		}
		dst := filepath.Join(queryDir, job+filepath.Ext(artifact))
		if err := fsutil.CopyFile(src, dst); err != nil {
			return res, fmt.Errorf("%s: %w", job, err)
		}
		res.Copied = append(res.Copied, Copied{Job: job, Src: src, Dst: dst})
	}
	return res, nil
}
