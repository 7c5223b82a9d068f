package analytics

import (
	"sort"
	"strings"
	"unicode"

	"github.com/KaramelBytes/socialpulse/internal/dataset"
)

// DefaultTopHashtags is the ranking length used when TopN is not set.
const DefaultTopHashtags = 10

// TagStat is usage and engagement for one hashtag.
type TagStat struct {
	Tag             string  `json:"tag"`
	Posts           int     `json:"posts"`
	TotalEngagement int64   `json:"total_engagement"`
	AvgEngagement   float64 `json:"avg_engagement"`
}

// HashtagReport ranks hashtags by how often they are used and by the mean
// engagement of the posts carrying them.
type HashtagReport struct {
	TaggedPosts   int       `json:"tagged_posts"`
	UntaggedPosts int       `json:"untagged_posts"`
	UniqueTags    int       `json:"unique_tags"`
	TaggedMean    float64   `json:"tagged_mean"`
	UntaggedMean  float64   `json:"untagged_mean"`
	ByUsage       []TagStat `json:"by_usage"`
	ByEngagement  []TagStat `json:"by_engagement"`
}

func isTagSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == ';' || r == '|'
}

// ExtractHashtags tokenizes a free-text hashtags cell. Tokens are split on
// whitespace, commas, semicolons and pipes; only tokens starting with '#'
// are kept. Tags are lower-cased, trailing punctuation is stripped, and
// duplicates within the same cell are dropped keeping first-seen order.
func ExtractHashtags(field string) []string {
	var out []string
	seen := map[string]bool{}
	for _, tok := range strings.FieldsFunc(field, isTagSeparator) {
		if !strings.HasPrefix(tok, "#") {
			continue
		}
		tag := strings.ToLower(strings.TrimRightFunc(tok, func(r rune) bool {
			return unicode.IsPunct(r) && r != '_'
		}))
		if len(tag) <= 1 || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// AnalyzeHashtags counts tag usage over the dataset. Rankings are truncated
// to topN entries; topN == 0 uses DefaultTopHashtags and a negative topN
// keeps every tag.
func AnalyzeHashtags(ds dataset.Dataset, topN int) HashtagReport {
	if topN == 0 {
		topN = DefaultTopHashtags
	}
	rep := HashtagReport{ByUsage: []TagStat{}, ByEngagement: []TagStat{}}
	byTag := map[string]*TagStat{}
	var tagged, untagged []float64
	for _, sp := range scoreAll(ds.Posts) {
		tags := ExtractHashtags(sp.post.Hashtags)
		if len(tags) == 0 {
			untagged = append(untagged, float64(sp.score))
			continue
		}
		tagged = append(tagged, float64(sp.score))
		for _, t := range tags {
			st := byTag[t]
			if st == nil {
				st = &TagStat{Tag: t}
				byTag[t] = st
			}
			st.Posts++
			st.TotalEngagement += sp.score
		}
	}
	rep.TaggedPosts = len(tagged)
	rep.UntaggedPosts = len(untagged)
	rep.TaggedMean = round2(mean(tagged))
	rep.UntaggedMean = round2(mean(untagged))
	rep.UniqueTags = len(byTag)

	all := make([]TagStat, 0, len(byTag))
	for _, st := range byTag {
		st.AvgEngagement = round2(float64(st.TotalEngagement) / float64(st.Posts))
		all = append(all, *st)
	}

	byUsage := append([]TagStat(nil), all...)
	sort.Slice(byUsage, func(i, j int) bool {
		a, b := byUsage[i], byUsage[j]
		if a.Posts != b.Posts {
			return a.Posts > b.Posts
		}
		if a.AvgEngagement != b.AvgEngagement {
			return a.AvgEngagement > b.AvgEngagement
		}
		return a.Tag < b.Tag
	})
	byEng := append([]TagStat(nil), all...)
	sort.Slice(byEng, func(i, j int) bool {
		a, b := byEng[i], byEng[j]
		if a.AvgEngagement != b.AvgEngagement {
			return a.AvgEngagement > b.AvgEngagement
		}
		if a.Posts != b.Posts {
			return a.Posts > b.Posts
		}
		return a.Tag < b.Tag
	})
	rep.ByUsage = truncate(byUsage, topN)
	rep.ByEngagement = truncate(byEng, topN)
	return rep
}

func truncate(s []TagStat, n int) []TagStat {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
