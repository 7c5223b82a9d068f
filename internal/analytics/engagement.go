// Package analytics turns a post dataset into engagement metrics, posting-time
// recommendations, hashtag rankings, drop alerts and per-post diagnostics.
//
// Every function here is a pure transformation of a read-only dataset.Dataset:
// derived values (scores, parsed timestamps) live in private working slices and
// the caller's posts are never modified.
package analytics

import (
	"sort"
	"time"

	"github.com/KaramelBytes/socialpulse/internal/dataset"
)

// Weights applied to interaction counts; likes count once, everything else twice.
const (
	LikeWeight    = 1
	CommentWeight = 2
	ShareWeight   = 2
	SaveWeight    = 2
)

// Score returns the weighted engagement of a post:
// likes + 2*comments + 2*shares + 2*saves.
func Score(p dataset.Post) int64 {
	return LikeWeight*p.Likes + CommentWeight*p.Comments + ShareWeight*p.Shares + SaveWeight*p.Saves
}

type scoredPost struct {
	index int
	post  dataset.Post
	score int64
}

type timedPost struct {
	scoredPost
	at time.Time
}

func scoreAll(posts []dataset.Post) []scoredPost {
	out := make([]scoredPost, len(posts))
	for i, p := range posts {
		out[i] = scoredPost{index: i, post: p, score: Score(p)}
	}
	return out
}

// withTimestamps keeps the posts whose date_time parses, in row order.
func withTimestamps(scored []scoredPost) []timedPost {
	out := make([]timedPost, 0, len(scored))
	for _, sp := range scored {
		if at, ok := ParseTimestamp(sp.post.DateTime); ok {
			out = append(out, timedPost{scoredPost: sp, at: at})
		}
	}
	return out
}

// chronological returns a time-ordered copy; equal timestamps keep row order.
func chronological(posts []timedPost) []timedPost {
	out := make([]timedPost, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].at.Before(out[j].at) })
	return out
}

func scores[T interface{ value() int64 }](items []T) []float64 {
	out := make([]float64, len(items))
	for i, it := range items {
		out[i] = float64(it.value())
	}
	return out
}

func (s scoredPost) value() int64 { return s.score }
