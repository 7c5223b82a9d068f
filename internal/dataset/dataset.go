// Package dataset loads social-media post exports into an in-memory Dataset.
package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Column names recognised in the header row (case-insensitive).
const (
	ColLikes           = "likes"
	ColComments        = "comments"
	ColShares          = "shares"
	ColSaves           = "saves"
	ColPostType        = "post_type"
	ColHashtags        = "hashtags"
	ColHashtagList     = "hashtag_list"
	ColDateTime        = "date_time"
	ColContentCategory = "content_category"
)

var (
	// ErrEmptyFile is returned when the input has no header row.
	ErrEmptyFile = errors.New("dataset has no header row")
	// ErrUnsupportedFormat is returned for file extensions the loader cannot read.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrMalformed wraps decode failures in otherwise readable files.
	ErrMalformed = errors.New("malformed dataset")
)

// Post is one row of the dataset. Absent or blank cells stay at their zero value.
type Post struct {
	Likes           int64  `json:"likes"`
	Comments        int64  `json:"comments"`
	Shares          int64  `json:"shares"`
	Saves           int64  `json:"saves"`
	PostType        string `json:"post_type"`
	Hashtags        string `json:"hashtags"`
	DateTime        string `json:"date_time"`
	ContentCategory string `json:"content_category"`
}

// Dataset is an ordered sequence of posts; index in Posts is the original row position.
type Dataset struct {
	Name     string   `json:"name"`
	Columns  []string `json:"columns"`
	Posts    []Post   `json:"posts"`
	Rows     int      `json:"rows"`
	Warnings []string `json:"warnings,omitempty"`
}

// Len returns the number of posts.
func (d Dataset) Len() int { return len(d.Posts) }

// New builds a Dataset from already decoded posts.
func New(name string, posts []Post) Dataset {
	return Dataset{Name: name, Posts: posts, Rows: len(posts)}
}

// LoadOptions controls how files are decoded.
type LoadOptions struct {
	// Delimiter for CSV. If 0, '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// SheetName selects an XLSX sheet; empty means SheetIndex.
	SheetName string
	// SheetIndex is 1-based; <=0 means the first sheet.
	SheetIndex int
}

// DefaultLoadOptions returns the loader defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{MaxRows: 100000, SheetIndex: 1}
}

// Supported reports whether the file name has an extension the loader reads.
func Supported(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".tsv") || strings.HasSuffix(lower, ".xlsx")
}

// rowDecoder maps header positions to Post fields.
type rowDecoder struct {
	idx      map[string]int
	warned   map[string]bool
	warnings []string
}

func newRowDecoder(header []string) *rowDecoder {
	d := &rowDecoder{idx: map[string]int{}, warned: map[string]bool{}}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := d.idx[name]; dup || name == "" {
			continue
		}
		d.idx[name] = i
	}
	if _, ok := d.idx[ColHashtags]; !ok {
		if i, ok := d.idx[ColHashtagList]; ok {
			d.idx[ColHashtags] = i
		}
	}
	return d
}

func (d *rowDecoder) cell(rec []string, col string) string {
	i, ok := d.idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (d *rowDecoder) count(rec []string, col string, row int) int64 {
	raw := d.cell(rec, col)
	n, ok := parseCount(raw)
	if !ok {
		d.warnOnce(col, fmt.Sprintf("column %q: non-numeric value %q at row %d treated as 0", col, raw, row))
		return 0
	}
	if n < 0 {
		d.warnOnce(col, fmt.Sprintf("column %q: negative value %q at row %d treated as 0", col, raw, row))
		return 0
	}
	return n
}

func (d *rowDecoder) warnOnce(col, msg string) {
	if d.warned[col] {
		return
	}
	d.warned[col] = true
	d.warnings = append(d.warnings, msg)
}

// decode converts one record; row is 1-based for messages.
func (d *rowDecoder) decode(rec []string, row int) Post {
	return Post{
		Likes:           d.count(rec, ColLikes, row),
		Comments:        d.count(rec, ColComments, row),
		Shares:          d.count(rec, ColShares, row),
		Saves:           d.count(rec, ColSaves, row),
		PostType:        d.cell(rec, ColPostType),
		Hashtags:        d.cell(rec, ColHashtags),
		DateTime:        d.cell(rec, ColDateTime),
		ContentCategory: d.cell(rec, ColContentCategory),
	}
}

// missingColumns lists the engagement columns absent from the header.
func (d *rowDecoder) missingColumns() []string {
	var out []string
	for _, c := range []string{ColLikes, ColComments, ColShares, ColSaves, ColPostType, ColHashtags, ColDateTime} {
		if _, ok := d.idx[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}
