package analytics

import (
	"strings"

	"github.com/KaramelBytes/socialpulse/internal/dataset"
)

// Tier is the performance band of a post relative to the dataset mean.
type Tier string

const (
	TierUnder   Tier = "underperforming"
	TierAverage Tier = "average"
	TierOver    Tier = "overperforming"
)

// Tier thresholds as multiples of the dataset mean engagement.
const (
	UnderThreshold = 0.7
	OverThreshold  = 1.3
)

// Insight is the Post Doctor verdict for a single row.
type Insight struct {
	PostIndex       int    `json:"post_index"`
	EngagementScore int64  `json:"engagement_score"`
	Tier            Tier   `json:"tier"`
	PostType        string `json:"post_type"`
	Reason          string `json:"reason"`
	Fix             string `json:"fix"`
}

type diagnosis struct {
	Reason string
	Fix    string
}

// with appends another clause to both halves of the diagnosis.
func (d diagnosis) with(extra diagnosis) diagnosis {
	return diagnosis{Reason: d.Reason + " " + extra.Reason, Fix: d.Fix + " " + extra.Fix}
}

var (
	underByType = map[string]diagnosis{
		"image":    {"Image posts usually receive lower engagement.", "Try using reels or carousel posts."},
		"video":    {"Video did not hold audience attention.", "Add a strong hook in the first few seconds."},
		"carousel": {"Carousel post did not encourage swipes.", "Improve the first slide to grab attention."},
	}
	underGeneric = diagnosis{"Post did not perform well.", "Experiment with different content formats."}
	noHashtags   = diagnosis{"No hashtags were used.", "Add 5–10 relevant hashtags."}
	overDiag     = diagnosis{"This post performed very well.", "Repeat this content style and posting time."}
	averageDiag  = diagnosis{"Post performance was average.", "Improve caption quality, hashtags, or posting time."}
)

// Classify places a score in a tier around mean. Both boundaries count as average.
func Classify(score int64, mean float64) Tier {
	s := float64(score)
	switch {
	case s < UnderThreshold*mean:
		return TierUnder
	case s > OverThreshold*mean:
		return TierOver
	default:
		return TierAverage
	}
}

// diagnose picks the reason and fix for a post in tier t.
func diagnose(p dataset.Post, t Tier) diagnosis {
	switch t {
	case TierOver:
		return overDiag
	case TierAverage:
		return averageDiag
	}
	d, ok := underByType[strings.ToLower(strings.TrimSpace(p.PostType))]
	if !ok {
		d = underGeneric
	}
	if strings.TrimSpace(p.Hashtags) == "" {
		d = d.with(noHashtags)
	}
	return d
}

// PostDoctor returns one insight per post in row order, using the mean
// engagement of every row as the pivot.
func PostDoctor(ds dataset.Dataset) []Insight {
	scored := scoreAll(ds.Posts)
	avg := mean(scores(scored))
	out := make([]Insight, 0, len(scored))
	for _, sp := range scored {
		tier := Classify(sp.score, avg)
		d := diagnose(sp.post, tier)
		out = append(out, Insight{
			PostIndex:       sp.index,
			EngagementScore: sp.score,
			Tier:            tier,
			PostType:        normalizeType(sp.post.PostType),
			Reason:          d.Reason,
			Fix:             d.Fix,
		})
	}
	return out
}

// TierCounts tallies insights per tier.
func TierCounts(insights []Insight) map[Tier]int {
	counts := map[Tier]int{TierUnder: 0, TierAverage: 0, TierOver: 0}
	for _, in := range insights {
		counts[in.Tier]++
	}
	return counts
}
