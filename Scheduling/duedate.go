package Scheduling

import (
	"strings"
	"time"

	"HomeList/Models"
)

// Schedule carries the fields the due-date calculator needs. It is filled
// from either a template or a task.
type Schedule struct {
	FrequencyDays int
	Seasonal      bool
	AnchorType    string
	SeasonCode    string
	AnchorMonth   int
	AnchorDay     int
}

type MonthDay struct {
	Month time.Month
	Day   int
}

// SeasonStarts holds meteorological season boundaries (northern hemisphere).
var SeasonStarts = map[string]MonthDay{
	"winter": {time.December, 1},
	"spring": {time.March, 1},
	"summer": {time.June, 1},
	"autumn": {time.September, 1},
}

func ScheduleForTask(t Models.Task) Schedule {
	return Schedule{
		FrequencyDays: t.FrequencyDays,
		Seasonal:      t.Seasonal,
		AnchorType:    t.AnchorType,
		SeasonCode:    t.SeasonCode,
		AnchorMonth:   t.AnchorMonth,
		AnchorDay:     t.AnchorDay,
	}
}

func ScheduleForTemplate(t Models.TaskTemplate) Schedule {
	return Schedule{
		FrequencyDays: t.FrequencyDays,
		Seasonal:      t.Seasonal,
		AnchorType:    t.AnchorType,
		SeasonCode:    t.SeasonCode,
		AnchorMonth:   t.AnchorMonth,
		AnchorDay:     t.AnchorDay,
	}
}

// Anchor resolves the calendar anchor of a seasonal schedule. ok is false for
// non-seasonal schedules and for seasonal ones with incomplete anchor data.
func (s Schedule) Anchor() (MonthDay, bool) {
	if !s.Seasonal {
		return MonthDay{}, false
	}
	switch strings.ToLower(strings.TrimSpace(s.AnchorType)) {
	case Models.AnchorFixedDate:
		if ValidMonthDay(s.AnchorMonth, s.AnchorDay) {
			return MonthDay{time.Month(s.AnchorMonth), s.AnchorDay}, true
		}
	case Models.AnchorSeasonStart:
		if md, ok := SeasonStarts[strings.ToLower(strings.TrimSpace(s.SeasonCode))]; ok {
			return md, true
		}
	}
	return MonthDay{}, false
}

// NextDue computes the next due date after ref.
//
// Non-seasonal schedules land frequency days after ref. Anchored schedules
// land on the first occurrence of the anchor strictly after ref, so an anchor
// equal to ref moves a full year forward. Seasonal schedules without a usable
// anchor fall back to the frequency.
func NextDue(s Schedule, ref time.Time) time.Time {
	ref = DateOf(ref)
	if md, ok := s.Anchor(); ok {
		return nextOccurrence(md, ref)
	}
	freq := s.FrequencyDays
	if freq < 1 {
		freq = 1
	}
	return ref.AddDate(0, 0, freq)
}

// nextOccurrence walks forward year by year. Feb 29 anchors only exist in
// leap years, so they resolve to the next leap year's Feb 29.
func nextOccurrence(md MonthDay, ref time.Time) time.Time {
	for year := ref.Year(); ; year++ {
		candidate := time.Date(year, md.Month, md.Day, 0, 0, 0, 0, time.UTC)
		if candidate.Month() != md.Month || candidate.Day() != md.Day {
			continue
		}
		if candidate.After(ref) {
			return candidate
		}
	}
}

// ValidMonthDay accepts any day that exists in a leap year.
func ValidMonthDay(month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	d := time.Date(2024, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Month() == time.Month(month) && d.Day() == day
}
