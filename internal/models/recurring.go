package models

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is the unit a recurring transaction repeats in.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Frequencies lists the supported frequencies.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly}

// ParseFrequency matches s against the supported frequencies, ignoring
// case. An empty string means monthly.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FrequencyMonthly, nil
	}
	for _, f := range Frequencies {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// Advance returns the date interval units after d. Monthly and yearly steps
// keep the day of month, clamped to the last day of shorter months, so
// Jan 31 advances to Feb 28 (or 29).
func (f Frequency) Advance(d time.Time, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch f {
	case FrequencyDaily:
		return d.AddDate(0, 0, interval)
	case FrequencyWeekly:
		return d.AddDate(0, 0, 7*interval)
	case FrequencyYearly:
		return addMonths(d, 12*interval)
	default:
		return addMonths(d, interval)
	}
}

func addMonths(d time.Time, months int) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()).AddDate(0, months, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

// RecurringTransaction is a template that produces one transaction per
// occurrence. Unlike transactions, templates can be edited and deleted.
type RecurringTransaction struct {
	ID          string
	UserID      string
	Description string

	// Amount is signed like Transaction.Amount.
	Amount   float64
	Category Category

	StartDate time.Time

	// EndDate is optional; the zero time means no end. An occurrence on the
	// end date is still generated.
	EndDate time.Time

	Frequency Frequency
	Interval  int

	// NextDate is the first occurrence not yet generated.
	NextDate time.Time

	CreatedAt int64
	UpdatedAt int64
}

// HasEnd reports whether the template stops at EndDate.
func (r RecurringTransaction) HasEnd() bool {
	return !r.EndDate.IsZero()
}

// Ended reports whether d lies past the end date.
func (r RecurringTransaction) Ended(d time.Time) bool {
	return r.HasEnd() && d.After(r.EndDate)
}

// Occurrences returns up to max dates starting at NextDate that are on or
// before limit and not past the end date.
func (r RecurringTransaction) Occurrences(limit time.Time, max int) []time.Time {
	var out []time.Time
	for d := r.NextDate; !d.After(limit) && !r.Ended(d) && len(out) < max; d = r.Frequency.Advance(d, r.Interval) {
		out = append(out, d)
	}
	return out
}
