package analytics

import (
	"github.com/KaramelBytes/socialpulse/internal/dataset"
)

// Drop detection constants. These are fixed; the minimum sample is never relaxed.
const (
	MinDropPosts = 6
	RecentWindow = 5
	DropRatio    = 0.75
)

const (
	dropNotEnoughData = "Not enough data to detect performance drop."
	dropDetected      = "Engagement has dropped in recent posts."
	dropAdvice        = "Try changing content type, posting time, or hashtags."
	dropNone          = "No significant performance drop detected."
)

// DropAlert compares the latest posts against everything posted before them.
type DropAlert struct {
	Warning    bool    `json:"warning"`
	Message    string  `json:"message"`
	Advice     string  `json:"advice,omitempty"`
	ValidPosts int     `json:"valid_posts"`
	RecentMean float64 `json:"recent_mean"`
	OlderMean  float64 `json:"older_mean"`
	// ChangeRatio is RecentMean/OlderMean, 0 when OlderMean is 0.
	ChangeRatio float64 `json:"change_ratio"`
}

// DetectPerformanceDrop orders timestamped posts by time and flags a drop
// when the mean of the last RecentWindow posts is below DropRatio times the
// mean of the posts before them.
func DetectPerformanceDrop(ds dataset.Dataset) DropAlert {
	timed := chronological(withTimestamps(scoreAll(ds.Posts)))
	alert := DropAlert{ValidPosts: len(timed)}
	if len(timed) < MinDropPosts {
		alert.Message = dropNotEnoughData
		return alert
	}

	split := len(timed) - RecentWindow
	older := mean(scores(timed[:split]))
	recent := mean(scores(timed[split:]))
	alert.OlderMean = round2(older)
	alert.RecentMean = round2(recent)
	if older != 0 {
		alert.ChangeRatio = round2(recent / older)
	}

	if recent < DropRatio*older {
		alert.Warning = true
		alert.Message = dropDetected
		alert.Advice = dropAdvice
		return alert
	}
	alert.Message = dropNone
	return alert
}
