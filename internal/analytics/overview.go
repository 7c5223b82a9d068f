package analytics

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/socialpulse/internal/dataset"
)

// UnknownType labels posts whose post_type cell is blank.
const UnknownType = "unknown"

// OverviewMetrics are the dataset-wide totals shown at the top of the dashboard.
type OverviewMetrics struct {
	Empty             bool            `json:"empty"`
	TotalPosts        int             `json:"total_posts"`
	TotalLikes        int64           `json:"total_likes"`
	TotalComments     int64           `json:"total_comments"`
	TotalShares       int64           `json:"total_shares"`
	TotalSaves        int64           `json:"total_saves"`
	TotalEngagement   int64           `json:"total_engagement"`
	AvgEngagement     float64         `json:"avg_engagement"`
	MedianEngagement  float64         `json:"median_engagement"`
	AvgLikes          float64         `json:"avg_likes"`
	AvgComments       float64         `json:"avg_comments"`
	AvgShares         float64         `json:"avg_shares"`
	AvgSaves          float64         `json:"avg_saves"`
	TopPostIndex      int             `json:"top_post_index"`
	TopPostEngagement int64           `json:"top_post_engagement"`
	PostsWithHashtags int             `json:"posts_with_hashtags"`
	DatedPosts        int             `json:"dated_posts"`
	ByType            []TypeBreakdown `json:"by_type"`
}

// TypeBreakdown aggregates posts sharing a post_type.
type TypeBreakdown struct {
	Type            string  `json:"type"`
	Posts           int     `json:"posts"`
	TotalEngagement int64   `json:"total_engagement"`
	AvgEngagement   float64 `json:"avg_engagement"`
	// Share is the percentage of all posts with this type.
	Share float64 `json:"share"`
}

// Overview computes summary statistics over every row. An empty dataset
// yields zeroed metrics with Empty set and TopPostIndex -1.
func Overview(ds dataset.Dataset) OverviewMetrics {
	m := OverviewMetrics{TopPostIndex: -1, ByType: []TypeBreakdown{}}
	if ds.Len() == 0 {
		m.Empty = true
		return m
	}
	scored := scoreAll(ds.Posts)
	m.TotalPosts = len(scored)

	byType := map[string]*TypeBreakdown{}
	for _, sp := range scored {
		p := sp.post
		m.TotalLikes += p.Likes
		m.TotalComments += p.Comments
		m.TotalShares += p.Shares
		m.TotalSaves += p.Saves
		m.TotalEngagement += sp.score
		if m.TopPostIndex < 0 || sp.score > m.TopPostEngagement {
			m.TopPostIndex = sp.index
			m.TopPostEngagement = sp.score
		}
		if strings.TrimSpace(p.Hashtags) != "" {
			m.PostsWithHashtags++
		}
		if _, ok := ParseTimestamp(p.DateTime); ok {
			m.DatedPosts++
		}
		key := normalizeType(p.PostType)
		tb := byType[key]
		if tb == nil {
			tb = &TypeBreakdown{Type: key}
			byType[key] = tb
		}
		tb.Posts++
		tb.TotalEngagement += sp.score
	}

	n := float64(m.TotalPosts)
	vals := scores(scored)
	m.AvgEngagement = round2(mean(vals))
	m.MedianEngagement = round2(median(vals))
	m.AvgLikes = round2(float64(m.TotalLikes) / n)
	m.AvgComments = round2(float64(m.TotalComments) / n)
	m.AvgShares = round2(float64(m.TotalShares) / n)
	m.AvgSaves = round2(float64(m.TotalSaves) / n)

	for _, tb := range byType {
		tb.AvgEngagement = round2(float64(tb.TotalEngagement) / float64(tb.Posts))
		tb.Share = round2(float64(tb.Posts) * 100 / n)
		m.ByType = append(m.ByType, *tb)
	}
	sort.Slice(m.ByType, func(i, j int) bool {
		if m.ByType[i].Posts == m.ByType[j].Posts {
			return m.ByType[i].Type < m.ByType[j].Type
		}
		return m.ByType[i].Posts > m.ByType[j].Posts
	})
	return m
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return UnknownType
	}
	return t
}
