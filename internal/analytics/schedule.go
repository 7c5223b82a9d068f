package analytics

import (
	"fmt"
	"sort"
)

const noScheduleMessage = "Upload posts with valid date_time values to build a weekly schedule."

// Slot is the suggested posting time for one weekday.
type Slot struct {
	Day  string `json:"day"`
	Time string `json:"time"`
	// Rank orders days by historical mean engagement, 1 = best. Days with no
	// timestamped posts have rank 0.
	Rank           int     `json:"rank"`
	Primary        bool    `json:"primary"`
	MeanEngagement float64 `json:"mean_engagement"`
	Posts          int     `json:"posts"`
	Note           string  `json:"note"`
}

// Schedule is a weekly posting plan built from a BestTime result.
type Schedule struct {
	HasData bool   `json:"has_data"`
	Message string `json:"message"`
	Slots   []Slot `json:"slots"`
}

// WeeklySchedule lays the best hour across every weekday Monday..Sunday and
// ranks the days by how well they performed historically.
func WeeklySchedule(bt BestTime) Schedule {
	if !bt.HasData {
		return Schedule{Message: noScheduleMessage, Slots: []Slot{}}
	}

	ranked := append([]Bucket(nil), bt.Days...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanEngagement > ranked[j].MeanEngagement
	})
	rank := map[int]int{}
	for i, b := range ranked {
		rank[b.Key] = i + 1
	}
	byKey := map[int]Bucket{}
	for _, b := range bt.Days {
		byKey[b.Key] = b
	}

	s := Schedule{
		HasData: true,
		Message: fmt.Sprintf("Best slot: %s at %s. Keep the same hour on other days.", bt.BestDay, bt.BestHourLabel),
		Slots:   make([]Slot, 0, len(Weekdays)),
	}
	for k, wd := range Weekdays {
		slot := Slot{Day: wd.String(), Time: bt.BestHourLabel, Primary: wd.String() == bt.BestDay}
		b, ok := byKey[k]
		switch {
		case !ok:
			slot.Note = "No history for this day yet."
		case slot.Primary:
			slot.Note = "Best performing day."
		default:
			slot.Note = fmt.Sprintf("Ranked %d of %d days with history.", rank[k], len(ranked))
		}
		if ok {
			slot.Rank = rank[k]
			slot.MeanEngagement = round2(b.MeanEngagement)
			slot.Posts = b.Posts
		}
		s.Slots = append(s.Slots, slot)
	}
	return s
}
