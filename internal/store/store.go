// Package store keeps uploaded dataset files in a flat directory.
package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/socialpulse/internal/dataset"
	"github.com/KaramelBytes/socialpulse/internal/logger"
	"github.com/KaramelBytes/socialpulse/internal/utils"
)

const sep = "__"

var (
	// ErrNotFound is returned for ids with no stored file.
	ErrNotFound = errors.New("dataset not found")
	// ErrInvalidName is returned for uploads that are not .csv, .tsv or .xlsx.
	ErrInvalidName = errors.New("file must be .csv, .tsv or .xlsx")
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds upload size limit")
)

// Entry describes one stored dataset file.
type Entry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"-"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Store saves files as <uuid>__<basename> under dir.
type Store struct {
	dir      string
	maxBytes int64
}

// New creates dir if needed. maxBytes <= 0 disables the size limit.
func New(dir string, maxBytes int64) (*Store, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure uploads dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Save copies r into a new file and returns its entry.
func (s *Store) Save(name string, r io.Reader) (Entry, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) || !dataset.Supported(base) {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	id := uuid.NewString()
	path := filepath.Join(s.dir, id+sep+base)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return Entry{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(tmp, src)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Entry{}, fmt.Errorf("write upload: %w", err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		return Entry{}, fmt.Errorf("%w (%d bytes)", ErrTooLarge, s.maxBytes)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Entry{}, fmt.Errorf("atomic rename: %w", err)
	}
	logger.InfoWithFields("dataset stored", logger.Fields{"dataset_id": id, "name": base, "bytes": n})
	return s.entry(path)
}

// Get returns the entry for id.
func (s *Store) Get(id string) (Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, id+sep+"*"))
	if err != nil {
		return Entry{}, fmt.Errorf("lookup %s: %w", id, err)
	}
	if len(matches) == 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.entry(matches[0])
}

// List returns every stored dataset, newest first.
func (s *Store) List() ([]Entry, error) {
	des, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read uploads dir: %w", err)
	}
	out := []Entry{}
	for _, de := range des {
		if de.IsDir() || !strings.Contains(de.Name(), sep) {
			continue
		}
		e, err := s.entry(filepath.Join(s.dir, de.Name()))
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

// Delete removes the file stored under id.
func (s *Store) Delete(id string) error {
	e, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := os.Remove(e.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("delete %s: %w", id, err)
	}
	logger.InfoWithFields("dataset deleted", logger.Fields{"dataset_id": id})
	return nil
}

func (s *Store) entry(path string) (Entry, error) {
	id, name, ok := strings.Cut(filepath.Base(path), sep)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if _, err := uuid.Parse(id); err != nil {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Entry{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Entry{ID: id, Name: name, Path: path, Size: info.Size(), UploadedAt: info.ModTime()}, nil
}
