package copyout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func write(t *testing.T, p, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
}

func TestCollectDirectAndNested(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "af2_out")
	write(t, filepath.Join(out, "p1", "ranked_0.pdb"), "P1")
	write(t, filepath.Join(out, "p2", "p2", "ranked_0.pdb"), "P2")
	write(t, filepath.Join(out, "p3", "run_p3.sh"), "#!/bin/sh\n")
	write(t, filepath.Join(out, "p4", "other", "ranked_0.pdb"), "wrong nesting")
	write(t, filepath.Join(out, "stray.pdb"), "not a job")
	queries := filepath.Join(root, "queries")

	res, err := Collect(out, queries, "ranked_0.pdb")
	require.NoError(t, err)
	require.Len(t, res.Copied, 2)
	require.Equal(t, "p1", res.Copied[0].Job)
	require.Equal(t, filepath.Join(queries, "p2.pdb"), res.Copied[1].Dst)
	require.Equal(t, []string{"p3", "p4"}, res.Missing)

	b, err := os.ReadFile(filepath.Join(queries, "p2.pdb"))
	require.NoError(t, err)
	require.Equal(t, "P2", string(b))
	ents, _ := os.ReadDir(queries)
	require.Len(t, ents, 2)
}

func TestCollectPrefersDirectArtifact(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "out", "j", "ranked_0.pdb"), "direct")
	write(t, filepath.Join(root, "out", "j", "j", "ranked_0.pdb"), "nested")
	src, ok := Locate(filepath.Join(root, "out", "j"), "ranked_0.pdb")
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, "out", "j", "ranked_0.pdb"), src)
}

func TestCollectReplacesExistingCopy(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "out", "j", "ranked_1.pdb"), "new")
	write(t, filepath.Join(root, "q", "j.pdb"), "old")
	res, err := Collect(filepath.Join(root, "out"), filepath.Join(root, "q"), "ranked_1.pdb")
	require.NoError(t, err)
	require.Len(t, res.Copied, 1)
	b, _ := os.ReadFile(filepath.Join(root, "q", "j.pdb"))
	require.Equal(t, "new", string(b))
}

func TestCollectMissingRoot(t *testing.T) {
	_, err := Collect(filepath.Join(t.TempDir(), "none"), t.TempDir(), "ranked_0.pdb")
	require.Error(t, err)
}
