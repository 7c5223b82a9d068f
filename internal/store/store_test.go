package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, max int64) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := New(dir, max)
	require.NoError(t, err)
	return s, dir
}

func TestSaveGetDelete(t *testing.T) {
	s, dir := newStore(t, 0)

	e, err := s.Save("../../posts.csv", strings.NewReader("likes\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, "posts.csv", e.Name)
	assert.Equal(t, int64(8), e.Size)
	assert.Equal(t, dir, filepath.Dir(e.Path))

	got, err := s.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Path, got.Path)

	require.NoError(t, s.Delete(e.ID))
	_, err = s.Get(e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(e.ID), ErrNotFound)
}

func TestSaveRejects(t *testing.T) {
	s, _ := newStore(t, 4)

	_, err := s.Save("notes.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = s.Save("", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = s.Save("big.csv", strings.NewReader("123456789"))
	assert.ErrorIs(t, err, ErrTooLarge)

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list, "rejected uploads leave nothing behind")
}

func TestGetUnknown(t *testing.T) {
	s, _ := newStore(t, 0)
	_, err := s.Get("not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("0b6a3c59-8a0e-4b53-9a4e-6f7f7c2d1e11")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s, dir := newStore(t, 0)
	a, err := s.Save("a.csv", strings.NewReader("likes\n"))
	require.NoError(t, err)
	b, err := s.Save("b.tsv", strings.NewReader("likes\n"))
	require.NoError(t, err)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(a.Path, old, old))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.csv"), []byte("x"), 0o644))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
}
