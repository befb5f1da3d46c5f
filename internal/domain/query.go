package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// The functions in this file operate on the complete record set fetched by
// the caller. Nothing here touches storage, and date/time values are only
// ever compared as strings.

// upcomingWindowDays is the length of the Upcoming window after today.
const upcomingWindowDays = 7

// ListFilter narrows List results. Empty fields are ignored; the rest are
// combined with AND. Month is a "2006-01" prefix of Date.
type ListFilter struct {
	Date   string
	Church string
	Status string
	Month  string
}

// MonthEvent is one entry of the month calendar view.
type MonthEvent struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       Status `json:"status"`
	Church       string `json:"church"`
	Organization string `json:"organization"`
	Participants int    `json:"participants"`
}

// DayEvent is one entry of the single-day calendar view.
type DayEvent struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Time         string  `json:"time"`
	Status       Status  `json:"status"`
	Church       string  `json:"church"`
	Organization string  `json:"organization"`
	Participants int     `json:"participants"`
	Priest       string  `json:"priest"`
	Contact      Contact `json:"contact"`
}

// UpcomingItem is one entry of the next-seven-days view.
type UpcomingItem struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Organization string `json:"organization"`
	Church       string `json:"church"`
	Status       Status `json:"status"`
	Participants int    `json:"participants"`
}

// StatusCounts is the per-group tally returned by Stats.
// Pending records only count toward Total.
type StatusCounts struct {
	Total     int `json:"total"`
	Active    int `json:"activo"`
	Completed int `json:"completado"`
	Cancelled int `json:"cancelado"`
}

// Dimension selects the grouping key for Stats.
type Dimension func(Pilgrimage) string

var (
	// ByChurch groups by Pilgrimage.Church.
	ByChurch Dimension = func(p Pilgrimage) string { return p.Church }
	// ByOrganization groups by Pilgrimage.Organization.
	ByOrganization Dimension = func(p Pilgrimage) string { return p.Organization }
)

// List returns the records matching f ordered by date, then time.
// The result is never nil.
func List(records []Pilgrimage, f ListFilter) []Pilgrimage {
	out := make([]Pilgrimage, 0, len(records))
	for _, p := range records {
		if f.Date != "" && p.Date != f.Date {
			continue
		}
		if f.Church != "" && p.Church != f.Church {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.Month != "" && !strings.HasPrefix(p.Date, f.Month) {
			continue
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, compareSlot)
	return out
}

// FindByID returns the record with the given id, or ErrNotFound.
func FindByID(records []Pilgrimage, id string) (Pilgrimage, error) {
	i := slices.IndexFunc(records, func(p Pilgrimage) bool { return p.ID == id })
	if i < 0 {
		return Pilgrimage{}, ErrNotFound
	}
	return records[i], nil
}

// CalendarByMonth projects the records of month ("2006-01") into calendar
// events ordered by date, then time.
func CalendarByMonth(records []Pilgrimage, month string) []MonthEvent {
	matched := List(records, ListFilter{Month: month})
	out := make([]MonthEvent, len(matched))
	for i, p := range matched {
		out[i] = MonthEvent{
			ID:           p.ID,
			Title:        p.Title(),
			Date:         p.Date,
			Time:         p.Time,
			Status:       p.Status,
			Church:       p.Church,
			Organization: p.Organization,
			Participants: p.Participants,
		}
	}
	return out
}

// CalendarByDay projects the records of date ("2006-01-02") into day events
// ordered by time.
func CalendarByDay(records []Pilgrimage, date string) []DayEvent {
	out := make([]DayEvent, 0)
	for _, p := range records {
		if p.Date != date {
			continue
		}
		out = append(out, DayEvent{
			ID:           p.ID,
			Title:        p.Title(),
			Time:         p.Time,
			Status:       p.Status,
			Church:       p.Church,
			Organization: p.Organization,
			Participants: p.Participants,
			Priest:       p.Priest,
			Contact:      p.Contact,
		})
	}
	slices.SortStableFunc(out, func(a, b DayEvent) int { return cmp.Compare(a.Time, b.Time) })
	return out
}

// Stats groups records by dim and tallies their statuses.
func Stats(records []Pilgrimage, dim Dimension) map[string]StatusCounts {
	out := make(map[string]StatusCounts)
	for _, p := range records {
		key := dim(p)
		c := out[key]
		c.Total++
		switch p.Status {
		case StatusActive:
			c.Active++
		case StatusCompleted:
			c.Completed++
		case StatusCancelled:
			c.Cancelled++
		}
		out[key] = c
	}
	return out
}

// Upcoming returns the non-cancelled records dated between today and seven
// days from today inclusive, using now's UTC calendar date. Ordered by date,
// then time.
func Upcoming(records []Pilgrimage, now time.Time) []UpcomingItem {
	from := now.UTC().Format(time.DateOnly)
	to := now.UTC().AddDate(0, 0, upcomingWindowDays).Format(time.DateOnly)

	out := make([]UpcomingItem, 0)
	for _, p := range List(records, ListFilter{}) {
		if p.Date < from || p.Date > to || p.Status == StatusCancelled {
			continue
		}
		out = append(out, UpcomingItem{
			ID:           p.ID,
			Date:         p.Date,
			Time:         p.Time,
			Organization: p.Organization,
			Church:       p.Church,
			Status:       p.Status,
			Participants: p.Participants,
		})
	}
	return out
}

// SlotTaken reports whether any record already occupies the date/at slot.
func SlotTaken(records []Pilgrimage, date, at string) bool {
	return slices.ContainsFunc(records, func(p Pilgrimage) bool {
		return p.Date == date && p.Time == at
	})
}

func compareSlot(a, b Pilgrimage) int {
	if c := cmp.Compare(a.Date, b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.Time, b.Time)
}
