package domain

import "time"

const (
	MinMood = 1
	MaxMood = 5
)

// MoodEntry is one recorded check-in. Entries are never edited after they
// are appended to the history.
type MoodEntry struct {
	Mood      int       `json:"mood"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidMood reports whether score is on the 1..5 scale.
func ValidMood(score int) bool {
	return score >= MinMood && score <= MaxMood
}

// DayAverage is one calendar-day bucket of the trend view. Average is nil
// when nothing was recorded that day; a nil bucket is not the same as 0.
type DayAverage struct {
	Date    string   `json:"date"`
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

func (d DayAverage) HasData() bool {
	return d.Average != nil
}

var moodLabels = [...]string{"", "Very Sad", "Sad", "Neutral", "Happy", "Very Happy"}

// MoodLabel names a score on the 1..5 scale.
func MoodLabel(score int) string {
	if !ValidMood(score) {
		return ""
	}
	return moodLabels[score]
}

// NearestMood maps an averaged value back onto the scale, using the same
// half-point thresholds the dashboard uses for its emoji.
func NearestMood(avg float64) int {
	switch {
	case avg <= 1.5:
		return 1
	case avg <= 2.5:
		return 2
	case avg <= 3.5:
		return 3
	case avg <= 4.5:
		return 4
	default:
		return 5
	}
}
