package analytics

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/socialpulse/internal/dataset"
)

// Report section names, as used by the CLI --section flag and the API.
const (
	SectionOverview = "overview"
	SectionBestTime = "best-time"
	SectionHashtags = "hashtags"
	SectionDrop     = "drop"
	SectionDoctor   = "doctor"
	SectionSchedule = "schedule"
)

// Sections lists every report section in render order.
var Sections = []string{SectionOverview, SectionBestTime, SectionHashtags, SectionDrop, SectionDoctor, SectionSchedule}

// Options configures Run.
type Options struct {
	// TopHashtags caps hashtag rankings (0 = DefaultTopHashtags, <0 = all).
	TopHashtags int
	// DoctorLimit caps the insights printed by Markdown (0 = all). The
	// report itself always holds one insight per post.
	DoctorLimit int
}

// DefaultOptions returns the options used by the dashboard.
func DefaultOptions() Options {
	return Options{TopHashtags: DefaultTopHashtags, DoctorLimit: 20}
}

// Report bundles every analytics component computed over one dataset.
type Report struct {
	Name     string          `json:"name"`
	Posts    int             `json:"posts"`
	Overview OverviewMetrics `json:"overview"`
	BestTime BestTime        `json:"best_time"`
	Hashtags HashtagReport   `json:"hashtags"`
	Drop     DropAlert       `json:"drop"`
	Doctor   []Insight       `json:"doctor"`
	Schedule Schedule        `json:"schedule"`
	Warnings []string        `json:"warnings"`

	doctorLimit int
}

// Run computes every component on ds. ds is not modified.
func Run(ds dataset.Dataset, opt Options) *Report {
	bt := BestPostingTime(ds)
	r := &Report{
		Name:        ds.Name,
		Posts:       ds.Len(),
		Overview:    Overview(ds),
		BestTime:    bt,
		Hashtags:    AnalyzeHashtags(ds, opt.TopHashtags),
		Drop:        DetectPerformanceDrop(ds),
		Doctor:      PostDoctor(ds),
		Schedule:    WeeklySchedule(bt),
		Warnings:    append([]string{}, ds.Warnings...),
		doctorLimit: opt.DoctorLimit,
	}
	return r
}

// Section returns the named part of the report.
func (r *Report) Section(name string) (any, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SectionOverview:
		return r.Overview, true
	case SectionBestTime:
		return r.BestTime, true
	case SectionHashtags:
		return r.Hashtags, true
	case SectionDrop:
		return r.Drop, true
	case SectionDoctor:
		return r.Doctor, true
	case SectionSchedule:
		return r.Schedule, true
	}
	return nil, false
}

// Markdown renders the full report.
func (r *Report) Markdown() string {
	var b strings.Builder
	for i, s := range Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		r.writeSection(&b, s)
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}

// SectionMarkdown renders a single section; ok is false for unknown names.
func (r *Report) SectionMarkdown(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := r.Section(name); !ok {
		return "", false
	}
	var b strings.Builder
	r.writeSection(&b, name)
	return b.String(), true
}

func (r *Report) writeSection(b *strings.Builder, name string) {
	switch name {
	case SectionOverview:
		r.writeOverview(b)
	case SectionBestTime:
		r.writeBestTime(b)
	case SectionHashtags:
		r.writeHashtags(b)
	case SectionDrop:
		r.writeDrop(b)
	case SectionDoctor:
		r.writeDoctor(b)
	case SectionSchedule:
		r.writeSchedule(b)
	}
}

func (r *Report) writeOverview(b *strings.Builder) {
	m := r.Overview
	b.WriteString("[OVERVIEW]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", r.Name))
	}
	if m.Empty {
		b.WriteString("No posts in dataset.\n")
		return
	}
	b.WriteString(fmt.Sprintf("Posts: %d (with hashtags %d, timestamped %d)\n", m.TotalPosts, m.PostsWithHashtags, m.DatedPosts))
	b.WriteString(fmt.Sprintf("Likes: %d, Comments: %d, Shares: %d, Saves: %d\n", m.TotalLikes, m.TotalComments, m.TotalShares, m.TotalSaves))
	b.WriteString(fmt.Sprintf("Engagement: total %d, mean %.2f, median %.2f\n", m.TotalEngagement, m.AvgEngagement, m.MedianEngagement))
	b.WriteString(fmt.Sprintf("Top post: #%d (engagement %d)\n", m.TopPostIndex, m.TopPostEngagement))
	if len(m.ByType) > 0 {
		b.WriteString("By type:\n")
		for _, t := range m.ByType {
			b.WriteString(fmt.Sprintf("- %s: %d posts (%.1f%%), mean %.2f\n", t.Type, t.Posts, t.Share, t.AvgEngagement))
		}
	}
}

func (r *Report) writeBestTime(b *strings.Builder) {
	bt := r.BestTime
	b.WriteString("[BEST POSTING TIME]\n")
	b.WriteString(bt.Suggestion + "\n")
	if !bt.HasData {
		return
	}
	b.WriteString(fmt.Sprintf("Based on %d timestamped posts.\n", bt.ValidPosts))
	for _, d := range bt.Days {
		b.WriteString(fmt.Sprintf("- %s: mean %.2f (n=%d)\n", d.Label, d.MeanEngagement, d.Posts))
	}
}

func (r *Report) writeHashtags(b *strings.Builder) {
	h := r.Hashtags
	b.WriteString("[HASHTAGS]\n")
	if h.UniqueTags == 0 {
		b.WriteString("No hashtags found.\n")
		return
	}
	b.WriteString(fmt.Sprintf("Tagged posts: %d (mean %.2f), untagged: %d (mean %.2f), unique tags: %d\n",
		h.TaggedPosts, h.TaggedMean, h.UntaggedPosts, h.UntaggedMean, h.UniqueTags))
	b.WriteString("Most used: ")
	writeTags(b, h.ByUsage, func(t TagStat) string { return fmt.Sprintf("%s(%d)", t.Tag, t.Posts) })
	b.WriteString("Best engagement: ")
	writeTags(b, h.ByEngagement, func(t TagStat) string { return fmt.Sprintf("%s(%.2f)", t.Tag, t.AvgEngagement) })
}

func writeTags(b *strings.Builder, tags []TagStat, f func(TagStat) string) {
	for i, t := range tags {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f(t))
	}
	b.WriteString("\n")
}

func (r *Report) writeDrop(b *strings.Builder) {
	d := r.Drop
	b.WriteString("[PERFORMANCE DROP]\n")
	if d.Warning {
		b.WriteString("⚠ ")
	}
	b.WriteString(d.Message + "\n")
	if d.Advice != "" {
		b.WriteString("Advice: " + d.Advice + "\n")
	}
	if d.ValidPosts >= MinDropPosts {
		b.WriteString(fmt.Sprintf("Recent mean %.2f vs older mean %.2f\n", d.RecentMean, d.OlderMean))
	}
}

func (r *Report) writeDoctor(b *strings.Builder) {
	b.WriteString("[POST DOCTOR]\n")
	if len(r.Doctor) == 0 {
		b.WriteString("No posts to diagnose.\n")
		return
	}
	c := TierCounts(r.Doctor)
	b.WriteString(fmt.Sprintf("Underperforming: %d, average: %d, overperforming: %d\n", c[TierUnder], c[TierAverage], c[TierOver]))
	lim := len(r.Doctor)
	if r.doctorLimit > 0 && r.doctorLimit < lim {
		lim = r.doctorLimit
	}
	for _, in := range r.Doctor[:lim] {
		b.WriteString(fmt.Sprintf("- #%d %s (%d, %s): %s Fix: %s\n", in.PostIndex, in.PostType, in.EngagementScore, in.Tier, in.Reason, in.Fix))
	}
	if lim < len(r.Doctor) {
		b.WriteString(fmt.Sprintf("... %d more\n", len(r.Doctor)-lim))
	}
}

func (r *Report) writeSchedule(b *strings.Builder) {
	s := r.Schedule
	b.WriteString("[WEEKLY SCHEDULE]\n")
	b.WriteString(s.Message + "\n")
	for _, sl := range s.Slots {
		mark := ""
		if sl.Primary {
			mark = " *"
		}
		b.WriteString(fmt.Sprintf("- %s %s%s: %s\n", sl.Day, sl.Time, mark, sl.Note))
	}
}
