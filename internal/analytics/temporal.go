package analytics

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/socialpulse/internal/dataset"
)

// NoTemporalDataMessage is the suggestion returned when no row has a usable timestamp.
const NoTemporalDataMessage = "Not enough timestamped posts to suggest a posting time."

// Weekdays in grouping order. Best-day ties go to the earliest day in this list.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// Bucket is the mean engagement of the posts falling in one weekday or hour.
type Bucket struct {
	// Key is the position in grouping order: 0=Monday..6=Sunday, or the hour 0-23.
	Key            int     `json:"key"`
	Label          string  `json:"label"`
	Posts          int     `json:"posts"`
	MeanEngagement float64 `json:"mean_engagement"`
}

// BestTime is the best weekday and hour to post, by mean engagement.
type BestTime struct {
	HasData       bool     `json:"has_data"`
	BestDay       string   `json:"best_day"`
	BestHour      int      `json:"best_hour"`
	BestHourLabel string   `json:"best_hour_label"`
	Suggestion    string   `json:"suggestion"`
	ValidPosts    int      `json:"valid_posts"`
	Days          []Bucket `json:"days"`
	Hours         []Bucket `json:"hours"`
}

// BestPostingTime groups timestamped posts by weekday and by hour of day and
// picks the group with the highest mean engagement in each. Groups are
// visited in calendar order (Monday..Sunday, 0..23) and a later group must
// be strictly better to win, so ties resolve to the earliest group. Rows
// whose date_time does not parse are ignored.
func BestPostingTime(ds dataset.Dataset) BestTime {
	timed := withTimestamps(scoreAll(ds.Posts))
	bt := BestTime{ValidPosts: len(timed), Days: []Bucket{}, Hours: []Bucket{}}
	if len(timed) == 0 {
		bt.Suggestion = NoTemporalDataMessage
		return bt
	}

	bt.Days = groupMeans(timed, len(Weekdays), func(tp timedPost) int {
		return weekdayKey(tp.at.Weekday())
	}, func(k int) string {
		return Weekdays[k].String()
	})
	bt.Hours = groupMeans(timed, 24, func(tp timedPost) int {
		return tp.at.Hour()
	}, HourLabel)

	day := bestBucket(bt.Days)
	hour := bestBucket(bt.Hours)
	bt.HasData = true
	bt.BestDay = day.Label
	bt.BestHour = hour.Key
	bt.BestHourLabel = hour.Label
	bt.Suggestion = fmt.Sprintf("Post on %s around %s for better engagement.", bt.BestDay, bt.BestHourLabel)
	return bt
}

// HourLabel formats an hour the way suggestions show it ("9:00", "19:00").
func HourLabel(h int) string { return fmt.Sprintf("%d:00", h) }

func weekdayKey(d time.Weekday) int { return (int(d) + 6) % 7 }

// groupMeans returns one bucket per non-empty key in ascending key order.
func groupMeans(posts []timedPost, n int, key func(timedPost) int, label func(int) string) []Bucket {
	groups := make([][]float64, n)
	for _, tp := range posts {
		k := key(tp)
		groups[k] = append(groups[k], float64(tp.score))
	}
	out := make([]Bucket, 0, n)
	for k, vals := range groups {
		if len(vals) == 0 {
			continue
		}
		out = append(out, Bucket{Key: k, Label: label(k), Posts: len(vals), MeanEngagement: mean(vals)})
	}
	return out
}

// bestBucket returns the first bucket holding the maximum mean.
func bestBucket(buckets []Bucket) Bucket {
	best := buckets[0]
	for _, b := range buckets[1:] {
		if b.MeanEngagement > best.MeanEngagement {
			best = b
		}
	}
	return best
}
