package mood

import (
	"time"

	"github.com/fjod/bookmood/internal/domain"
)

const dateLayout = "2006-01-02"

// DailyAverages buckets entries into windowDays calendar days (in loc)
// ending on ref's date, oldest first. A day without entries gets a nil
// Average. Entries outside the 1..5 scale are ignored.
func DailyAverages(entries []domain.MoodEntry, windowDays int, ref time.Time, loc *time.Location) []domain.DayAverage {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if loc == nil {
		loc = time.UTC
	}

	type acc struct {
		sum   int
		count int
	}
	byDay := make(map[string]*acc)
	for _, e := range entries {
		if !domain.ValidMood(e.Mood) || e.Timestamp.IsZero() {
			continue
		}
		day := e.Timestamp.In(loc).Format(dateLayout)
		a, ok := byDay[day]
		if !ok {
			a = &acc{}
			byDay[day] = a
		}
		a.sum += e.Mood
		a.count++
	}

	y, m, d := ref.In(loc).Date()
	anchor := time.Date(y, m, d, 0, 0, 0, 0, loc)

	out := make([]domain.DayAverage, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		day := anchor.AddDate(0, 0, -i).Format(dateLayout)
		bucket := domain.DayAverage{Date: day}
		if a, ok := byDay[day]; ok {
			avg := float64(a.sum) / float64(a.count)
			bucket.Average = &avg
			bucket.Count = a.count
		}
		out = append(out, bucket)
	}
	return out
}
