package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a dataset file, choosing the decoder by extension.
func Load(path string, opt LoadOptions) (Dataset, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return LoadXLSX(path, opt)
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".tsv"):
		return LoadCSV(path, opt)
	default:
		return Dataset{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// LoadCSV reads a delimited file from disk.
func LoadCSV(path string, opt LoadOptions) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return ReadCSV(f, filepath.Base(path), opt)
}

// ReadCSV decodes a delimited stream whose first record is the header row.
func ReadCSV(r io.Reader, name string, opt LoadOptions) (Dataset, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Dataset{}, ErrEmptyFile
		}
		return Dataset{}, fmt.Errorf("%w: read header: %w", ErrMalformed, err)
	}
	if len(header) == 0 {
		return Dataset{}, ErrEmptyFile
	}
	ds := Dataset{Name: name, Columns: cleanHeader(header)}
	dec := newRowDecoder(header)

	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Dataset{}, fmt.Errorf("%w: read row %d: %w", ErrMalformed, ds.Rows+1, err)
		}
		if blankRecord(rec) {
			continue
		}
		ds.Rows++
		if len(ds.Posts) >= maxRows {
			continue
		}
		ds.Posts = append(ds.Posts, dec.decode(rec, ds.Rows))
	}
	finish(&ds, dec)
	return ds, nil
}

func finish(ds *Dataset, dec *rowDecoder) {
	if missing := dec.missingColumns(); len(missing) > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("missing columns treated as empty: %s", strings.Join(missing, ", ")))
	}
	ds.Warnings = append(ds.Warnings, dec.warnings...)
	if len(ds.Posts) < ds.Rows {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", len(ds.Posts), ds.Rows))
	}
	if ds.Posts == nil {
		ds.Posts = []Post{}
	}
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}
