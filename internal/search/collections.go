package search

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"af2tools/internal/fsutil"
)

// IndexName is the CollectionIndex file written into each collection directory.
const IndexName = "proteome_database.txt"

// StructureExt is the suffix of query and target structure files.
const StructureExt = ".pdb"

// Query is one query structure.
type Query struct {
	Stem string
	Path string // absolute
}

// Base is the query's file name.
func (q Query) Base() string { return filepath.Base(q.Path) }

// Collection is a directory of target structures.
type Collection struct {
	Name string
	Dir  string // absolute
}

// ErrNoQueries and ErrNoCollections are returned by Discover for empty inputs.
var (
	ErrNoQueries     = errors.New("no query structures (*" + StructureExt + ") found")
	ErrNoCollections = errors.New("no collection directories found")
)

// DiscoverQueries lists *.pdb files in dir, sorted by stem.
func DiscoverQueries(dir string) ([]Query, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	ents, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	var qs []Query
	for _, e := range ents {
		if e.IsDir() || filepath.Ext(e.Name()) != StructureExt {
			continue
		}
		qs = append(qs, Query{
			Stem: strings.TrimSuffix(e.Name(), StructureExt),
			Path: filepath.Join(abs, e.Name()),
		})
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoQueries)
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].Stem < qs[j].Stem })
	return qs, nil
}

// DiscoverCollections lists the immediate subdirectories of root, sorted by name.
func DiscoverCollections(root string) ([]Collection, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	ents, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	var cs []Collection
	for _, e := range ents {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		cs = append(cs, Collection{Name: e.Name(), Dir: filepath.Join(abs, e.Name())})
	}
	if len(cs) == 0 {
		return nil, fmt.Errorf("%s: %w", root, ErrNoCollections)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].Name < cs[j].Name })
	return cs, nil
}

// Members lists the stems of the collection's structure files, sorted.
func (c Collection) Members() ([]string, error) {
	ents, err := os.ReadDir(c.Dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == StructureExt {
			out = append(out, strings.TrimSuffix(e.Name(), StructureExt))
		}
	}
	sort.Strings(out)
	return out, nil
}

// WriteIndex regenerates the collection's index file from its current members.
func (c Collection) WriteIndex() (string, error) {
	members, err := c.Members()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, m := range members {
		b.WriteString(m)
		b.WriteByte('\n')
	}
	p := filepath.Join(c.Dir, IndexName)
	if err := fsutil.WriteFileAtomic(p, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return p, nil
}
