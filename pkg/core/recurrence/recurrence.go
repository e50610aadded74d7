// Package recurrence expands recurrence specifications into concrete
// occurrence dates. It is pure: no clock, no storage, no side effects.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

// Frequency is the cadence of a recurring slot series
type Frequency string

const (
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	// Monthly steps every 4 weeks, not by calendar month
	Monthly Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	return f == Weekly || f == Biweekly || f == Monthly
}

// ParseFrequency parses a frequency name, case-insensitively
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(s))
	if !f.IsValid() {
		return "", errs.Validationf("unknown frequency %q", s)
	}
	return f, nil
}

// IntervalDays returns the number of days between occurrences
func (f Frequency) IntervalDays() int {
	switch f {
	case Weekly:
		return 7
	case Biweekly:
		return 14
	case Monthly:
		return 28
	}
	return 0
}

// Occurrences expands a single-weekday series: the cursor advances day
// by day from start until it lands on weekday, then steps by the
// frequency interval until it passes end. The end boundary is
// inclusive: a cursor exactly equal to end is emitted.
//
// An end before start is a validation failure. A range containing no
// occurrence yields an empty slice and no error.
func Occurrences(start time.Time, weekday time.Weekday, freq Frequency, end time.Time) ([]time.Time, error) {
	if !freq.IsValid() {
		return nil, errs.Validationf("unknown frequency %q", freq)
	}

	cursor := Midnight(start)
	last := Midnight(end)
	if last.Before(cursor) {
		return nil, errs.Validationf("end date %s is before start date %s",
			last.Format("2006-01-02"), cursor.Format("2006-01-02"))
	}

	// Walk forward to the first occurrence of the weekday
	for cursor.Weekday() != weekday {
		cursor = cursor.AddDate(0, 0, 1)
	}

	interval := freq.IntervalDays()
	var dates []time.Time
	for !cursor.After(last) {
		dates = append(dates, cursor)
		cursor = cursor.AddDate(0, 0, interval)
	}

	return dates, nil
}

// rruleWeekdays maps time.Weekday (0=Sunday) to rrule weekdays
var rruleWeekdays = [...]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// RuleOccurrences expands an activity type's recurrence rule (weekday
// set crossed with week-of-month set) over [start, end], both
// inclusive. A disabled rule or an empty weekday set yields no dates.
func RuleOccurrences(rule model.RecurrenceRule, start, end time.Time) ([]time.Time, error) {
	if !rule.Enabled || len(rule.Weekdays) == 0 {
		return nil, nil
	}

	first := Midnight(start)
	last := Midnight(end)
	if last.Before(first) {
		return nil, errs.Validationf("end date %s is before start date %s",
			last.Format("2006-01-02"), first.Format("2006-01-02"))
	}

	byWeekday, err := buildByWeekday(rule)
	if err != nil {
		return nil, err
	}

	freq := rrule.MONTHLY
	if len(rule.WeeksOfMonth) == 0 {
		// No week-of-month restriction: plain weekly recurrence
		freq = rrule.WEEKLY
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      freq,
		Dtstart:   first,
		Byweekday: byWeekday,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}

	return r.Between(first, last, true), nil
}

// buildByWeekday crosses the rule's weekday set with its week-of-month
// set into rrule BYDAY entries
func buildByWeekday(rule model.RecurrenceRule) ([]rrule.Weekday, error) {
	var result []rrule.Weekday
	for _, day := range rule.Weekdays {
		if day < 0 || day > 6 {
			return nil, errs.Validationf("weekday %d out of range 0..6", day)
		}
		if len(rule.WeeksOfMonth) == 0 {
			result = append(result, rruleWeekdays[day])
			continue
		}
		for _, week := range rule.WeeksOfMonth {
			if week < 1 || week > 4 {
				return nil, errs.Validationf("week of month %d out of range 1..4", week)
			}
			result = append(result, rruleWeekdays[day].Nth(week))
		}
	}
	return result, nil
}

// Midnight truncates a time to the start of its day in UTC
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
