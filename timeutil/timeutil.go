// Package timeutil parses the date and slot-label strings stored on
// doctor availability and appointment records.
//
// Dates are written as "2006-01-02". Records migrated from the previous
// system may instead carry the legacy "2nd January,2006" form, which the
// read-side sweeps still tolerate. Slot labels are clock ranges like
// "9:00am - 10:00am" or "09:00-10:00".
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a stored date string in either supported form. The
// returned time is midnight local time on that date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}
	return parseLegacyDate(s)
}

// parseLegacyDate handles the "2nd January,2025" form: day with ordinal
// suffix, full month name, comma, year.
func parseLegacyDate(s string) (time.Time, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 3 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	day := fields[0]
	i := 0
	for i < len(day) && day[i] >= '0' && day[i] <= '9' {
		i++
	}
	if i == 0 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	normalized := day[:i] + " " + fields[1] + " " + fields[2]
	t, err := time.ParseInLocation("2 January 2006", normalized, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return t, nil
}

// ValidDate reports whether s is a strict YYYY-MM-DD date. Write paths
// accept only this form.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// ParseSlotLabel parses a slot time label into start and end minutes from
// midnight. Both "9:00am - 10:00am" and "09:00-10:00" forms are accepted.
func ParseSlotLabel(label string) (start, end int, err error) {
	parts := strings.SplitN(label, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unrecognized slot label %q", label)
	}
	start, err = parseClock(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("unrecognized slot label %q", label)
	}
	end, err = parseClock(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("unrecognized slot label %q", label)
	}
	if start >= end {
		return 0, 0, fmt.Errorf("slot label %q ends before it starts", label)
	}
	return start, end, nil
}

func parseClock(s string) (int, error) {
	for _, layout := range []string{"3:04pm", "3:04PM", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized clock %q", s)
}

// SlotWindow resolves a stored date plus slot label into concrete start and
// end times.
func SlotWindow(date, label string) (time.Time, time.Time, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end, err := ParseSlotLabel(label)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return day.Add(time.Duration(start) * time.Minute),
		day.Add(time.Duration(end) * time.Minute), nil
}

// Today returns today's date in the stored YYYY-MM-DD form. The string
// comparison used by availability reads relies on this layout being
// lexicographically ordered.
func Today() string {
	return time.Now().Format(dateLayout)
}

// Countdown renders the time until start as a short display label.
func Countdown(now, start time.Time) string {
	d := start.Sub(now)
	if d <= 0 {
		return "now"
	}
	if d >= 24*time.Hour {
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "in 1 day"
		}
		return fmt.Sprintf("in %d days", days)
	}
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	if h == 0 {
		return fmt.Sprintf("in %dm", m)
	}
	return fmt.Sprintf("in %dh %02dm", h, m)
}
