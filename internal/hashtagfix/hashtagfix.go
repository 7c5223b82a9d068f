// Package hashtagfix adds a synthetic hashtag_list column to a post export,
// sampling tags that fit each row's content_category. It is an offline
// data-preparation step; the analytics engine never calls it.
package hashtagfix

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/socialpulse/internal/dataset"
	"github.com/KaramelBytes/socialpulse/internal/logger"
	"github.com/KaramelBytes/socialpulse/internal/utils"
)

// DefaultOutputName is written next to the input file when no output is given.
const DefaultOutputName = "socialpulse_final_dataset.csv"

// TagsPerRow is the number of distinct tags sampled for each row.
const TagsPerRow = 3

// DefaultCategory is assumed for rows with a blank content_category.
const DefaultCategory = "Lifestyle"

var categoryTags = map[string][]string{
	"Technology":  {"#tech", "#innovation", "#coding", "#future", "#ai", "#gadgets"},
	"Fitness":     {"#fitness", "#gym", "#workout", "#health", "#fitfam", "#training"},
	"Travel":      {"#travel", "#adventure", "#explore", "#wanderlust", "#trip", "#vacation"},
	"Food":        {"#foodie", "#delicious", "#yummy", "#dinner", "#lunch", "#cooking"},
	"Fashion":     {"#fashion", "#style", "#ootd", "#trend", "#model", "#beauty"},
	"Music":       {"#music", "#song", "#artist", "#newmusic", "#vibe", "#concert"},
	"Beauty":      {"#makeup", "#skincare", "#beautyhacks", "#glow", "#style"},
	"Lifestyle":   {"#lifestyle", "#daily", "#motivation", "#inspiration", "#life"},
	"Comedy":      {"#funny", "#comedy", "#humor", "#meme", "#lol"},
	"Photography": {"#photo", "#camera", "#shot", "#nature", "#art"},
}

var fallbackTags = []string{"#viral", "#trending", "#explore"}

// Options controls FixFile.
type Options struct {
	// Output path; empty means DefaultOutputName beside the input.
	Output string
	// Seed for tag sampling; 0 seeds from the clock.
	Seed int64
	// Delimiter for the input and output CSV; 0 means ','.
	Delimiter rune
}

// Result summarizes a run.
type Result struct {
	Input           string         `json:"input"`
	Output          string         `json:"output"`
	Rows            int            `json:"rows"`
	Categories      map[string]int `json:"categories"`
	MissingCategory bool           `json:"missing_category"`
}

// Tags returns the candidate tags for a category. Matching ignores case and
// surrounding spaces; blank means DefaultCategory and unknown categories get
// a generic set.
func Tags(category string) []string {
	c := strings.TrimSpace(category)
	if c == "" {
		c = DefaultCategory
	}
	for name, tags := range categoryTags {
		if strings.EqualFold(name, c) {
			return tags
		}
	}
	return fallbackTags
}

// Assign samples TagsPerRow distinct tags for category joined with ", ".
func Assign(category string, rng *rand.Rand) string {
	tags := Tags(category)
	n := TagsPerRow
	if len(tags) < n {
		n = len(tags)
	}
	picked := make([]string, 0, n)
	for _, i := range rng.Perm(len(tags))[:n] {
		picked = append(picked, tags[i])
	}
	return strings.Join(picked, ", ")
}

// Fix copies the CSV from r to w with a hashtag_list column filled per row.
// An existing hashtag_list column is overwritten; otherwise one is appended.
func Fix(r io.Reader, w io.Writer, rng *rand.Rand, delim rune) (Result, error) {
	if delim == 0 {
		delim = ','
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, dataset.ErrEmptyFile
		}
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)

	catIdx, outIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case dataset.ColContentCategory:
			catIdx = i
		case dataset.ColHashtagList:
			outIdx = i
		}
	}
	if outIdx < 0 {
		header = append(header, dataset.ColHashtagList)
		outIdx = len(header) - 1
	}

	res := Result{Categories: map[string]int{}, MissingCategory: catIdx < 0}
	cw := csv.NewWriter(w)
	cw.Comma = delim
	if err := cw.Write(header); err != nil {
		return res, fmt.Errorf("write header: %w", err)
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", res.Rows+1, err)
		}
		row := make([]string, len(header))
		copy(row, rec)
		category := ""
		if catIdx >= 0 && catIdx < len(rec) {
			category = strings.TrimSpace(rec[catIdx])
		}
		if category == "" {
			category = DefaultCategory
		}
		row[outIdx] = Assign(category, rng)
		if err := cw.Write(row); err != nil {
			return res, fmt.Errorf("write row %d: %w", res.Rows+1, err)
		}
		res.Categories[category]++
		res.Rows++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return res, fmt.Errorf("flush csv: %w", err)
	}
	return res, nil
}

// FixFile runs Fix on input and atomically writes the result.
func FixFile(input string, opt Options) (Result, error) {
	if !strings.EqualFold(filepath.Ext(input), ".csv") {
		return Result{}, fmt.Errorf("%w: fix-data reads .csv files", dataset.ErrUnsupportedFormat)
	}
	f, err := os.Open(input)
	if err != nil {
		return Result{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	out := opt.Output
	if out == "" {
		out = utils.SiblingPath(input, DefaultOutputName)
	}
	seed := opt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var buf bytes.Buffer
	res, err := Fix(f, &buf, rand.New(rand.NewSource(seed)), opt.Delimiter)
	if err != nil {
		return res, fmt.Errorf("fix %s: %w", input, err)
	}
	if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
		return res, err
	}
	res.Input, res.Output = input, out
	logger.Log.Infof("hashtags added input=%s output=%s rows=%d", input, out, res.Rows)
	return res, nil
}
