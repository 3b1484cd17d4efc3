package history

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/2beens/gymlogger/internal/entries"
)

const displayDateLayout = "02/01/2006"

// WindowStart is midnight (in now's location) of the day seven calendar
// days before now.
func WindowStart(now time.Time) time.Time {
	y, m, d := now.AddDate(0, 0, -7).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// LastSevenDays keeps the entries whose timestamp is not before
// WindowStart(now), newest first. The date field plays no part.
func LastSevenDays(list []entries.Entry, now time.Time) []entries.Entry {
	start := WindowStart(now)
	recent := make([]entries.Entry, 0, len(list))
	for _, e := range list {
		if !e.Timestamp.Before(start) {
			recent = append(recent, e)
		}
	}
	return SortByTimestampDesc(recent)
}

// SortByTimestampDesc returns a sorted copy; entries with equal
// timestamps keep their input order.
func SortByTimestampDesc(list []entries.Entry) []entries.Entry {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b entries.Entry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return sorted
}

func Combined(lists ...[]entries.Entry) []entries.Entry {
	var all []entries.Entry
	for _, l := range lists {
		all = append(all, l...)
	}
	return SortByTimestampDesc(all)
}

// FilterCategory keeps weightlifting entries of the given category.
func FilterCategory(list []entries.Entry, category string) []entries.Entry {
	filtered := make([]entries.Entry, 0, len(list))
	for _, e := range list {
		if w, ok := e.Details.(*entries.Weightlifting); ok && w.Category == category {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// FormatDate turns "2024-01-10" into "10/01/2024". Anything it cannot parse
// comes back unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(entries.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(displayDateLayout)
}

// Describe renders the details column of a history row.
func Describe(e entries.Entry) string {
	switch d := e.Details.(type) {
	case *entries.Weightlifting:
		return fmt.Sprintf("%s - %dx%d - %s KG", d.Exercise, d.Sets, d.Reps, FormatNumber(d.Weight))
	case *entries.BodyWeight:
		return fmt.Sprintf("%s KG", FormatNumber(d.Weight))
	case *entries.Cardio:
		switch d.Subtype {
		case entries.CardioRunning:
			return fmt.Sprintf("%s min, %s km", FormatNumber(d.Time), FormatNumber(d.Distance))
		case entries.CardioSprints:
			return fmt.Sprintf("Active/Rest: %s, Power: %s W", d.Interval, FormatNumber(d.Power))
		default:
			return string(d.Subtype)
		}
	default:
		return ""
	}
}

// FormatNumber prints 80 as "80" and 82.5 as "82.5".
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// TypeLabel is the "Type" column of the combined table.
func TypeLabel(e entries.Entry) string {
	if c, ok := e.Details.(*entries.Cardio); ok {
		switch c.Subtype {
		case entries.CardioRunning:
			return "Cardio (running)"
		case entries.CardioSprints:
			return "Cardio (sprints)"
		}
	}
	return e.Kind().Title()
}
