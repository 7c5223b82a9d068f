package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/KaramelBytes/socialpulse/internal/analytics"
	"github.com/KaramelBytes/socialpulse/internal/dataset"
	"github.com/KaramelBytes/socialpulse/internal/logger"
	"github.com/KaramelBytes/socialpulse/internal/store"
)

const fallbackNotice = "Uploaded file not found. Falling back to default dataset."

var errNoDataset = errors.New("no dataset selected and no default_dataset configured")

// source is a resolved dataset file.
type source struct {
	ID   string
	Name string
	Path string
}

// resolve maps a dataset id to a file. An empty id means the default dataset.
// With fallback set, unknown ids also use the default and return a notice.
func (s *Server) resolve(id string, fallback bool) (source, string, error) {
	if id != "" {
		e, err := s.store.Get(id)
		if err == nil {
			return source{ID: e.ID, Name: e.Name, Path: e.Path}, "", nil
		}
		if !fallback || !errors.Is(err, store.ErrNotFound) {
			return source{}, "", err
		}
		src, _, derr := s.resolve("", false)
		if derr != nil {
			return source{}, "", err
		}
		return src, fallbackNotice, nil
	}
	if s.cfg.DefaultDataset == "" {
		return source{}, "", errNoDataset
	}
	return source{Name: filepath.Base(s.cfg.DefaultDataset), Path: s.cfg.DefaultDataset}, "", nil
}

// report loads src from disk and runs every analytics component on it.
// Each call works on its own freshly loaded dataset.
func (s *Server) report(src source) (*analytics.Report, error) {
	ds, err := dataset.Load(src.Path, s.cfg.Load)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name, err)
	}
	ds.Name = src.Name
	return analytics.Run(ds, s.cfg.Analytics), nil
}

// storeUpload saves an upload and checks that it parses as a dataset.
// Files that fail to load are removed again.
func (s *Server) storeUpload(name string, r io.Reader) (store.Entry, error) {
	e, err := s.store.Save(name, r)
	if err != nil {
		return store.Entry{}, err
	}
	if _, err := dataset.Load(e.Path, s.cfg.Load); err != nil {
		if derr := s.store.Delete(e.ID); derr != nil {
			logger.WarnWithFields("remove rejected upload failed", logger.Fields{"dataset_id": e.ID, "error": derr.Error()})
		}
		return store.Entry{}, fmt.Errorf("invalid dataset %s: %w", e.Name, err)
	}
	return e, nil
}

// statusFor maps store and loader errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, store.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrInvalidName),
		errors.Is(err, errNoDataset),
		errors.Is(err, dataset.ErrEmptyFile),
		errors.Is(err, dataset.ErrUnsupportedFormat),
		errors.Is(err, dataset.ErrMalformed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
