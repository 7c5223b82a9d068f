package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.csv", "a.csv", "c.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("likes\n1\n"), 0o644))
	}
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")

	got := expandInputs([]string{filepath.Join(dir, "*.csv"), a, filepath.Join(dir, "none.csv")})
	assert.Equal(t, []string{a, b}, got)
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	first := uniquePath(dir, "posts", ".report.md")
	assert.Equal(t, filepath.Join(dir, "posts.report.md"), first)

	require.NoError(t, os.WriteFile(first, nil, 0o644))
	second := uniquePath(dir, "posts", ".report.md")
	assert.Equal(t, filepath.Join(dir, "posts__2.report.md"), second)

	require.NoError(t, os.WriteFile(second, nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "posts__3.report.md"), uniquePath(dir, "posts", ".report.md"))
}
