package services

import (
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

const DefaultSummaryDays = 365

// DayLayout is the key format of Summary.PerDay.
const DayLayout = "2006-01-02"

// Summary is the aggregate view behind the dashboard charts and heatmap.
type Summary struct {
	Days        int                     `json:"days"`
	Total       int                     `json:"total"`
	PerDay      map[string]int          `json:"perDay"`
	PerCategory map[models.Category]int `json:"perCategory"`
}

func ValidSummaryDays(days int) bool {
	switch days {
	case 7, 30, 365:
		return true
	}
	return false
}

// Summarize counts entries created within days of now, per UTC calendar day
// and per category. PerCategory always has every known category; entries
// with an unknown category count toward Total and PerDay only.
func Summarize(entries []*models.Entry, days int, now time.Time) Summary {
	window := time.Duration(days) * 24 * time.Hour

	s := Summary{
		Days:        days,
		PerDay:      make(map[string]int),
		PerCategory: make(map[models.Category]int, len(models.Categories)),
	}
	for _, c := range models.Categories {
		s.PerCategory[c] = 0
	}

	for _, e := range entries {
		if e == nil || now.Sub(e.CreatedAt) > window {
			continue
		}
		s.Total++
		s.PerDay[e.CreatedAt.UTC().Format(DayLayout)]++
		if e.Category.Valid() {
			s.PerCategory[e.Category]++
		}
	}

	return s
}
