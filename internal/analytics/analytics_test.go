package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/socialpulse/internal/dataset"
)

func post(likes int64, typ, tags, at string) dataset.Post {
	return dataset.Post{Likes: likes, PostType: typ, Hashtags: tags, DateTime: at}
}

func TestScore(t *testing.T) {
	cases := []struct {
		p    dataset.Post
		want int64
	}{
		{dataset.Post{}, 0},
		{dataset.Post{Likes: 10}, 10},
		{dataset.Post{Likes: 100, Comments: 10, Shares: 5, Saves: 2}, 134},
		{dataset.Post{Comments: 1, Shares: 1, Saves: 1}, 6},
	}
	for _, c := range cases {
		got := Score(c.p)
		assert.Equal(t, c.want, got)
		assert.GreaterOrEqual(t, got, int64(0))
	}
}

func TestParseTimestamp(t *testing.T) {
	at, ok := ParseTimestamp("2024-03-04 09:00:00")
	require.True(t, ok)
	assert.Equal(t, time.Monday, at.Weekday())
	assert.Equal(t, 9, at.Hour())

	at, ok = ParseTimestamp("12/31/2024 23:59")
	require.True(t, ok)
	assert.Equal(t, time.December, at.Month())

	at, ok = ParseTimestamp("13/03/2024 10:00")
	require.True(t, ok, "day-first when the month is out of range")
	assert.Equal(t, time.March, at.Month())
	assert.Equal(t, 13, at.Day())
	assert.Equal(t, 10, at.Hour())

	at, ok = ParseTimestamp("May 8, 2009 5:57:51 PM")
	require.True(t, ok, "lenient fallback")
	assert.Equal(t, 17, at.Hour())

	for _, bad := range []string{"", "  ", "not a date", "1700000000"} {
		_, ok := ParseTimestamp(bad)
		assert.False(t, ok, bad)
	}
}

func TestOverview(t *testing.T) {
	ds := dataset.New("t", []dataset.Post{
		{Likes: 10, Comments: 1, PostType: "image", Hashtags: "#a", DateTime: "2024-03-04 09:00:00"},
		{Likes: 20, PostType: "Video", DateTime: "bad"},
		{Likes: 4, Saves: 2, Hashtags: "#b"},
		{Likes: 6, Shares: 1, PostType: " IMAGE "},
	})
	m := Overview(ds)

	assert.False(t, m.Empty)
	assert.Equal(t, 4, m.TotalPosts)
	assert.Equal(t, int64(40), m.TotalLikes)
	assert.Equal(t, int64(1), m.TotalComments)
	assert.Equal(t, int64(1), m.TotalShares)
	assert.Equal(t, int64(2), m.TotalSaves)
	assert.Equal(t, int64(48), m.TotalEngagement)
	assert.Equal(t, 12.0, m.AvgEngagement)
	assert.Equal(t, 10.0, m.MedianEngagement)
	assert.Equal(t, 10.0, m.AvgLikes)
	assert.Equal(t, 1, m.TopPostIndex)
	assert.Equal(t, int64(20), m.TopPostEngagement)
	assert.Equal(t, 2, m.PostsWithHashtags)
	assert.Equal(t, 1, m.DatedPosts)

	require.Len(t, m.ByType, 3)
	assert.Equal(t, TypeBreakdown{Type: "image", Posts: 2, TotalEngagement: 20, AvgEngagement: 10, Share: 50}, m.ByType[0])
	assert.Equal(t, UnknownType, m.ByType[1].Type)
	assert.Equal(t, "video", m.ByType[2].Type)
}

func TestOverviewEmpty(t *testing.T) {
	m := Overview(dataset.Dataset{})
	assert.True(t, m.Empty)
	assert.Equal(t, 0, m.TotalPosts)
	assert.Equal(t, -1, m.TopPostIndex)
	assert.NotNil(t, m.ByType)
	assert.Empty(t, m.ByType)
}

func TestBestPostingTime(t *testing.T) {
	ds := dataset.New("t", []dataset.Post{
		post(50, "image", "", "2024-03-04 09:00:00"),
		post(10, "image", "", "2024-03-05 09:00:00"),
	})
	bt := BestPostingTime(ds)
	require.True(t, bt.HasData)
	assert.Equal(t, "Monday", bt.BestDay)
	assert.Equal(t, 9, bt.BestHour)
	assert.Equal(t, "9:00", bt.BestHourLabel)
	assert.Equal(t, "Post on Monday around 9:00 for better engagement.", bt.Suggestion)
	assert.Equal(t, 2, bt.ValidPosts)
	require.Len(t, bt.Days, 2)
	assert.Equal(t, "Monday", bt.Days[0].Label)
	assert.Equal(t, 50.0, bt.Days[0].MeanEngagement)
}

func TestBestPostingTimeTieBreak(t *testing.T) {
	// Sunday comes first in row order but Monday leads the week.
	ds := dataset.New("t", []dataset.Post{
		post(30, "video", "", "2024-03-10 19:00:00"),
		post(30, "video", "", "2024-03-11 08:00:00"),
		post(0, "video", "", "garbage"),
	})
	bt := BestPostingTime(ds)
	require.True(t, bt.HasData)
	assert.Equal(t, "Monday", bt.BestDay)
	assert.Equal(t, 8, bt.BestHour)
	assert.Equal(t, 2, bt.ValidPosts)
	assert.Equal(t, "Sunday", bt.Days[len(bt.Days)-1].Label)
}

func TestBestPostingTimeNoTimestamps(t *testing.T) {
	ds := dataset.New("t", []dataset.Post{
		post(30, "video", "", "garbage"),
		post(10, "image", "", ""),
	})
	bt := BestPostingTime(ds)
	assert.False(t, bt.HasData)
	assert.Equal(t, NoTemporalDataMessage, bt.Suggestion)
	assert.Empty(t, bt.BestDay)
	assert.Empty(t, bt.Days)
	assert.Empty(t, bt.Hours)

	assert.False(t, BestPostingTime(dataset.Dataset{}).HasData)
}

func TestExtractHashtags(t *testing.T) {
	assert.Equal(t, []string{"#food", "#yum", "#fun"}, ExtractHashtags("#Food, #yum;#food |  travel #fun! #"))
	assert.Equal(t, []string{"#a_b", "#tag"}, ExtractHashtags("#a_b\t#tag."))
	assert.Empty(t, ExtractHashtags(""))
	assert.Empty(t, ExtractHashtags("no tags here"))
}

func TestAnalyzeHashtags(t *testing.T) {
	ds := dataset.New("t", []dataset.Post{
		post(10, "", "#a #b", ""),
		post(30, "", "#A", ""),
		post(5, "", "", ""),
		post(50, "", "#c", ""),
	})
	rep := AnalyzeHashtags(ds, 0)
	assert.Equal(t, 3, rep.TaggedPosts)
	assert.Equal(t, 1, rep.UntaggedPosts)
	assert.Equal(t, 3, rep.UniqueTags)
	assert.Equal(t, 30.0, rep.TaggedMean)
	assert.Equal(t, 5.0, rep.UntaggedMean)

	require.Len(t, rep.ByUsage, 3)
	assert.Equal(t, []string{"#a", "#c", "#b"}, tagNames(rep.ByUsage))
	assert.Equal(t, TagStat{Tag: "#a", Posts: 2, TotalEngagement: 40, AvgEngagement: 20}, rep.ByUsage[0])
	assert.Equal(t, []string{"#c", "#a", "#b"}, tagNames(rep.ByEngagement))

	top := AnalyzeHashtags(ds, 2)
	assert.Len(t, top.ByUsage, 2)
	assert.Len(t, top.ByEngagement, 2)
}

func TestAnalyzeHashtagsNone(t *testing.T) {
	ds := dataset.New("t", []dataset.Post{post(10, "image", "", ""), post(3, "video", "  ", "")})
	rep := AnalyzeHashtags(ds, 5)
	assert.Equal(t, 0, rep.UniqueTags)
	assert.NotNil(t, rep.ByUsage)
	assert.Empty(t, rep.ByUsage)
	assert.Empty(t, rep.ByEngagement)
}

func tagNames(stats []TagStat) []string {
	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = s.Tag
	}
	return out
}

func TestDetectPerformanceDrop(t *testing.T) {
	// oldest post is last in row order; the detector must sort by time
	ds := dataset.New("t", []dataset.Post{
		post(10, "", "", "2024-03-02 10:00:00"),
		post(10, "", "", "2024-03-03 10:00:00"),
		post(10, "", "", "2024-03-04 10:00:00"),
		post(10, "", "", "2024-03-05 10:00:00"),
		post(10, "", "", "2024-03-06 10:00:00"),
		post(100, "", "", "2024-03-01 10:00:00"),
	})
	d := DetectPerformanceDrop(ds)
	assert.True(t, d.Warning)
	assert.Equal(t, "Engagement has dropped in recent posts.", d.Message)
	assert.Equal(t, "Try changing content type, posting time, or hashtags.", d.Advice)
	assert.Equal(t, 6, d.ValidPosts)
	assert.Equal(t, 10.0, d.RecentMean)
	assert.Equal(t, 100.0, d.OlderMean)
	assert.Equal(t, 0.1, d.ChangeRatio)
}

func TestDetectPerformanceDropStable(t *testing.T) {
	posts := make([]dataset.Post, 0, 8)
	for i := 0; i < 8; i++ {
		posts = append(posts, post(40, "", "", time.Date(2024, 3, 1+i, 12, 0, 0, 0, time.UTC).Format("2006-01-02 15:04:05")))
	}
	d := DetectPerformanceDrop(dataset.New("t", posts))
	assert.False(t, d.Warning)
	assert.Equal(t, "No significant performance drop detected.", d.Message)
	assert.Empty(t, d.Advice)
	assert.Equal(t, 1.0, d.ChangeRatio)
}

func TestDetectPerformanceDropNotEnoughData(t *testing.T) {
	ds := dataset.New("t", []dataset.Post{
		post(100, "", "", "2024-03-01 10:00:00"),
		post(1, "", "", "2024-03-02 10:00:00"),
		post(1, "", "", "2024-03-03 10:00:00"),
		post(1, "", "", "2024-03-04 10:00:00"),
		post(1, "", "", "2024-03-05 10:00:00"),
		post(1, "", "", "whenever"),
		post(1, "", "", ""),
	})
	d := DetectPerformanceDrop(ds)
	assert.False(t, d.Warning)
	assert.Equal(t, "Not enough data to detect performance drop.", d.Message)
	assert.Equal(t, 5, d.ValidPosts)

	assert.False(t, DetectPerformanceDrop(dataset.Dataset{}).Warning)
}

func TestPostDoctor(t *testing.T) {
	ds := dataset.New("t", []dataset.Post{
		post(10, "Image", "", ""),
		post(100, "video", "#a", ""),
		post(50, "carousel", "#b", ""),
		post(40, "reel", "", ""),
		post(20, "reel", "#c", ""),
	})
	out := PostDoctor(ds)
	require.Len(t, out, 5)
	for i, in := range out {
		assert.Equal(t, i, in.PostIndex)
	}

	assert.Equal(t, TierUnder, out[0].Tier)
	assert.Equal(t, "Image posts usually receive lower engagement. No hashtags were used.", out[0].Reason)
	assert.Equal(t, "Try using reels or carousel posts. Add 5–10 relevant hashtags.", out[0].Fix)
	assert.Equal(t, "image", out[0].PostType)

	assert.Equal(t, TierOver, out[1].Tier)
	assert.Equal(t, "This post performed very well.", out[1].Reason)
	assert.Equal(t, "Repeat this content style and posting time.", out[1].Fix)

	assert.Equal(t, TierAverage, out[2].Tier)
	assert.Equal(t, "Post performance was average.", out[2].Reason)
	assert.Equal(t, TierAverage, out[3].Tier, "average tier ignores missing hashtags")

	assert.Equal(t, TierUnder, out[4].Tier)
	assert.Equal(t, "Post did not perform well.", out[4].Reason)
	assert.Equal(t, "Experiment with different content formats.", out[4].Fix)
	assert.Equal(t, int64(20), out[4].EngagementScore)
}

func TestPostDoctorUniformEngagement(t *testing.T) {
	ds := dataset.New("t", []dataset.Post{
		post(25, "image", "", ""),
		post(25, "video", "", ""),
		post(25, "", "#x", ""),
	})
	for _, in := range PostDoctor(ds) {
		assert.Equal(t, TierAverage, in.Tier)
	}

	zero := dataset.New("z", []dataset.Post{{}, {}})
	for _, in := range PostDoctor(zero) {
		assert.Equal(t, TierAverage, in.Tier)
	}
	assert.Empty(t, PostDoctor(dataset.Dataset{}))
}

func TestClassifyBoundaries(t *testing.T) {
	assert.Equal(t, TierAverage, Classify(70, 100))
	assert.Equal(t, TierAverage, Classify(130, 100))
	assert.Equal(t, TierUnder, Classify(69, 100))
	assert.Equal(t, TierOver, Classify(131, 100))
}

func TestWeeklySchedule(t *testing.T) {
	ds := dataset.New("t", []dataset.Post{
		post(50, "", "", "2024-03-04 19:00:00"),
		post(10, "", "", "2024-03-05 19:00:00"),
		post(30, "", "", "2024-03-08 19:00:00"),
	})
	s := WeeklySchedule(BestPostingTime(ds))
	require.True(t, s.HasData)
	require.Len(t, s.Slots, 7)

	mon := s.Slots[0]
	assert.Equal(t, "Monday", mon.Day)
	assert.Equal(t, "19:00", mon.Time)
	assert.True(t, mon.Primary)
	assert.Equal(t, 1, mon.Rank)

	assert.Equal(t, 3, s.Slots[1].Rank)
	assert.Equal(t, 0, s.Slots[2].Rank)
	assert.Equal(t, "No history for this day yet.", s.Slots[2].Note)
	assert.Equal(t, 2, s.Slots[4].Rank)
	assert.Equal(t, "Sunday", s.Slots[6].Day)
	for _, sl := range s.Slots[1:] {
		assert.False(t, sl.Primary)
		assert.Equal(t, "19:00", sl.Time)
	}
}

func TestWeeklyScheduleNoData(t *testing.T) {
	s := WeeklySchedule(BestPostingTime(dataset.Dataset{}))
	assert.False(t, s.HasData)
	assert.NotEmpty(t, s.Message)
	assert.Empty(t, s.Slots)
}
