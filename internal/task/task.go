// Package task defines the strict in-memory representation of a task and
// validates untrusted task records into it.
package task

import (
	"encoding/json"
	"fmt"
	"time"
)

// Defaults applied when an optional field is absent or unusable.
const (
	DefaultImportance     = 5
	DefaultEstimatedHours = 1.0
	MinImportance         = 0
	MaxImportance         = 10
)

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

// Task is a validated task. Every field is guaranteed to be within its
// domain; corrections made while validating are listed in Issues.
type Task struct {
	ID             int
	Title          string
	DueDate        Date
	Importance     int
	EstimatedHours float64
	Dependencies   []int

	// Issues lists out-of-range fields that were corrected.
	Issues []Issue
	// Extra holds input keys the engine does not interpret. They are
	// echoed back unchanged on output.
	Extra map[string]any
}

// Issue records a non-fatal correction applied to a single field.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

// Date is a calendar date without time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string. RFC 3339 timestamps are also
// accepted; only their date part is kept.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want %s", s, DateLayout)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC on d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysFrom returns the number of whole calendar days from the date of now
// to d. The result is negative when d is in the past. Only the date part of
// now (in now's location) is considered.
func (d Date) DaysFrom(now time.Time) int {
	const secondsPerDay = 24 * 60 * 60
	return int((d.Time().Unix() - DateOf(now).Time().Unix()) / secondsPerDay)
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes d as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
