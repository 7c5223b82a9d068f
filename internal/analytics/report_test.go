package analytics

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/socialpulse/internal/dataset"
)

func sampleDataset() dataset.Dataset {
	ds := dataset.New("sample.csv", []dataset.Post{
		{Likes: 120, Comments: 10, Shares: 4, Saves: 6, PostType: "video", Hashtags: "#travel #sun", DateTime: "2024-03-01 19:00:00"},
		{Likes: 90, Comments: 5, PostType: "image", Hashtags: "#food", DateTime: "2024-03-02 12:00:00"},
		{Likes: 200, Comments: 20, Shares: 10, Saves: 15, PostType: "carousel", Hashtags: "#travel", DateTime: "2024-03-04 19:00:00"},
		{Likes: 15, PostType: "image", DateTime: "2024-03-05 08:00:00"},
		{Likes: 30, Comments: 1, PostType: "video", Hashtags: "#sun", DateTime: "2024-03-06 08:00:00"},
		{Likes: 25, PostType: "reel", DateTime: "2024-03-07 09:00:00"},
		{Likes: 20, Comments: 2, PostType: "image", Hashtags: "#food", DateTime: "2024-03-08 09:00:00"},
	})
	ds.Warnings = []string{"column \"saves\": 1 non-numeric value(s) treated as 0"}
	return ds
}

func TestRun(t *testing.T) {
	ds := sampleDataset()
	before := append([]dataset.Post(nil), ds.Posts...)

	r := Run(ds, DefaultOptions())
	require.NotNil(t, r)
	assert.Equal(t, "sample.csv", r.Name)
	assert.Equal(t, 7, r.Posts)
	assert.Len(t, r.Doctor, len(ds.Posts))
	assert.True(t, r.BestTime.HasData)
	assert.Equal(t, "Monday", r.BestTime.BestDay)
	assert.True(t, r.Drop.Warning)
	assert.Len(t, r.Schedule.Slots, 7)
	assert.Equal(t, ds.Warnings, r.Warnings)
	assert.Equal(t, before, ds.Posts, "input must not be modified")
}

func TestRunEmpty(t *testing.T) {
	r := Run(dataset.Dataset{Name: "empty.csv"}, DefaultOptions())
	assert.True(t, r.Overview.Empty)
	assert.False(t, r.BestTime.HasData)
	assert.False(t, r.Drop.Warning)
	assert.Empty(t, r.Doctor)
	assert.False(t, r.Schedule.HasData)

	md := r.Markdown()
	assert.Contains(t, md, "No posts in dataset.")
	assert.Contains(t, md, NoTemporalDataMessage)
	assert.Contains(t, md, "No hashtags found.")
}

func TestReportSection(t *testing.T) {
	r := Run(sampleDataset(), DefaultOptions())
	for _, s := range Sections {
		v, ok := r.Section(s)
		assert.True(t, ok, s)
		assert.NotNil(t, v, s)
	}
	v, ok := r.Section(" Drop ")
	require.True(t, ok)
	assert.Equal(t, r.Drop, v)

	_, ok = r.Section("nope")
	assert.False(t, ok)
	_, ok = r.SectionMarkdown("nope")
	assert.False(t, ok)

	md, ok := r.SectionMarkdown(SectionSchedule)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(md, "[WEEKLY SCHEDULE]\n"))
	assert.NotContains(t, md, "[OVERVIEW]")
}

func TestReportMarkdown(t *testing.T) {
	opt := DefaultOptions()
	opt.DoctorLimit = 2
	md := Run(sampleDataset(), opt).Markdown()

	for _, h := range []string{"[OVERVIEW]", "[BEST POSTING TIME]", "[HASHTAGS]", "[PERFORMANCE DROP]", "[POST DOCTOR]", "[WEEKLY SCHEDULE]", "[WARNINGS]"} {
		assert.Contains(t, md, h)
	}
	assert.Contains(t, md, "Dataset: sample.csv")
	assert.Contains(t, md, "Post on Monday around 19:00 for better engagement.")
	assert.Contains(t, md, "Engagement has dropped in recent posts.")
	assert.Contains(t, md, "... 5 more")
	assert.Less(t, strings.Index(md, "[OVERVIEW]"), strings.Index(md, "[POST DOCTOR]"))
}

func TestReportJSON(t *testing.T) {
	b, err := json.Marshal(Run(sampleDataset(), DefaultOptions()))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	for _, k := range []string{"overview", "best_time", "hashtags", "drop", "doctor", "schedule"} {
		assert.Contains(t, got, k)
	}
	assert.NotContains(t, got, "doctorLimit")
}
