package report

import (
	"path"
	"strings"
)

// StructureExts are the coordinate-file suffixes stripped from identifiers.
var StructureExts = []string{".pdb", ".ent", ".cif"}

// Stem normalizes a tool-reported structure name to the bare identifier
// used as a join key: "./human/t1.pdb:A" -> "t1".
func Stem(tok string) string {
	s := strings.TrimSpace(tok)
	if s == "" {
		return ""
	}
	s = path.Base(strings.ReplaceAll(s, "\\", "/"))
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	for _, ext := range StructureExts {
		if strings.HasSuffix(strings.ToLower(s), ext) {
			return s[:len(s)-len(ext)]
		}
	}
	return s
}
