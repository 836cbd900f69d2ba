// Package calendar classifies Sri Lankan calendar dates into the contextual
// flags the delay model was trained on: weekends, Poya days, gazetted public
// holidays and festival periods.
package calendar

import (
	"fmt"
	"time"
)

// DayContext holds the calendar flags for a single date.
type DayContext struct {
	Date            string `json:"date"`
	IsWeekend       bool   `json:"is_weekend"`
	IsPoya          bool   `json:"is_poya"`
	IsPublicHoliday bool   `json:"is_public_holiday"`
	IsFestival      bool   `json:"is_festival"`
	FestivalName    string `json:"festival_name,omitempty"`
	Month           int    `json:"month"`
	DayOfWeek       int    `json:"day_of_week"` // 0=Monday .. 6=Sunday
}

// FestivalPeriod is an inclusive date range with a label.
type FestivalPeriod struct {
	Start string
	End   string
	Name  string
}

// Poya days (full-moon holidays), 2024-2025.
var poyaDays = map[string]struct{}{
	"2024-01-25": {}, "2024-02-24": {}, "2024-03-25": {}, "2024-04-23": {},
	"2024-05-23": {}, "2024-06-21": {}, "2024-07-21": {}, "2024-08-19": {},
	"2024-09-17": {}, "2024-10-17": {}, "2024-11-15": {}, "2024-12-15": {},
	"2025-01-13": {}, "2025-02-12": {}, "2025-03-13": {}, "2025-04-12": {},
	"2025-05-12": {}, "2025-06-11": {}, "2025-07-10": {}, "2025-08-09": {},
	"2025-09-07": {}, "2025-10-06": {}, "2025-11-05": {}, "2025-12-04": {},
}

// Gazetted public holidays, 2024-2025.
var publicHolidays = map[string]struct{}{
	"2024-01-15": {}, "2024-02-04": {}, "2024-03-29": {}, "2024-04-11": {},
	"2024-04-12": {}, "2024-04-13": {}, "2024-04-14": {}, "2024-05-01": {},
	"2024-05-23": {}, "2024-05-24": {}, "2024-06-17": {}, "2024-06-21": {},
	"2024-07-21": {}, "2024-08-19": {}, "2024-09-16": {}, "2024-09-17": {},
	"2024-10-17": {}, "2024-10-31": {}, "2024-11-15": {}, "2024-12-15": {},
	"2024-12-25": {},
	"2025-01-14": {}, "2025-02-04": {}, "2025-04-14": {}, "2025-05-01": {},
	"2025-05-12": {}, "2025-12-25": {},
}

// Festival periods in configured order. When ranges overlap, the first
// matching entry wins.
var festivalPeriods = []FestivalPeriod{
	{"2024-04-10", "2024-04-16", "Sinhala New Year"},
	{"2024-05-20", "2024-05-26", "Vesak"},
	{"2024-06-18", "2024-06-23", "Poson"},
	{"2024-07-24", "2024-08-10", "Kandy Perahera"},
	{"2024-10-29", "2024-11-02", "Deepavali"},
	{"2024-12-23", "2024-12-27", "Christmas"},
	{"2025-04-10", "2025-04-16", "Sinhala New Year"},
	{"2025-05-10", "2025-05-16", "Vesak"},
}

// Classify computes the calendar flags for an ISO date (YYYY-MM-DD).
func Classify(date string) (DayContext, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return DayContext{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	// Go counts Sunday as 0; the model was trained with Monday as 0.
	weekday := (int(t.Weekday()) + 6) % 7

	ctx := DayContext{
		Date:      date,
		IsWeekend: weekday >= 5,
		Month:     int(t.Month()),
		DayOfWeek: weekday,
	}

	_, ctx.IsPoya = poyaDays[date]
	_, ctx.IsPublicHoliday = publicHolidays[date]
	ctx.IsFestival, ctx.FestivalName = Festival(date)

	return ctx, nil
}

// Festival returns whether the date falls inside a festival period and the
// label of the first period in list order whose inclusive bounds contain it.
func Festival(date string) (bool, string) {
	for _, p := range festivalPeriods {
		if p.Start <= date && date <= p.End {
			return true, p.Name
		}
	}
	return false, ""
}

// TimeSlot buckets an hour of day into the named slots used as a model
// feature.
func TimeSlot(hour int) string {
	switch {
	case hour >= 5 && hour < 9:
		return "Morning Peak"
	case hour >= 9 && hour < 12:
		return "Morning Off-Peak"
	case hour >= 12 && hour < 16:
		return "Afternoon"
	case hour >= 16 && hour < 20:
		return "Evening Peak"
	default:
		return "Night"
	}
}

// TimeSlots lists the slot labels in encoding order.
func TimeSlots() []string {
	return []string{"Morning Peak", "Morning Off-Peak", "Afternoon", "Evening Peak", "Night"}
}
