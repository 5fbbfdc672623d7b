// Package quadrant places tasks on an urgency x importance (Eisenhower)
// matrix. Placement uses only the due date, the importance, and the batch's
// reference instant; scores and dependencies never influence it.
package quadrant

import (
	"fmt"
	"time"

	"github.com/papapumpkin/triage/internal/task"
)

// Quadrant is one of the four urgency x importance buckets.
type Quadrant int

const (
	DoFirst   Quadrant = iota // urgent and important
	Schedule                  // important, not urgent
	Delegate                  // urgent, not important
	Eliminate                 // neither
)

// All lists the quadrants in display order.
var All = []Quadrant{DoFirst, Schedule, Delegate, Eliminate}

func (q Quadrant) String() string {
	switch q {
	case DoFirst:
		return "do_first"
	case Schedule:
		return "schedule"
	case Delegate:
		return "delegate"
	case Eliminate:
		return "eliminate"
	default:
		return fmt.Sprintf("quadrant(%d)", int(q))
	}
}

// Title returns a human-readable heading for q.
func (q Quadrant) Title() string {
	switch q {
	case DoFirst:
		return "Do First (urgent, important)"
	case Schedule:
		return "Schedule (important, not urgent)"
	case Delegate:
		return "Delegate (urgent, not important)"
	default:
		return "Eliminate (neither)"
	}
}

// Thresholds configures the urgent and important cutoffs. Any client that
// re-buckets analyzed tasks must use the same values.
type Thresholds struct {
	// UrgentDays: a task due within this many days (inclusive), or overdue,
	// is urgent.
	UrgentDays int
	// ImportantMin: a task with at least this importance is important.
	ImportantMin int
}

// DefaultThresholds returns the standard cutoffs: 3 days and importance 6.
func DefaultThresholds() Thresholds {
	return Thresholds{UrgentDays: 3, ImportantMin: 6}
}

// Classifier assigns quadrants.
type Classifier struct {
	th Thresholds
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{th: th}
}

// Thresholds returns the classifier's cutoffs.
func (c *Classifier) Thresholds() Thresholds {
	return c.th
}

// Urgent reports whether a task due on due is urgent relative to now.
func (c *Classifier) Urgent(due task.Date, now time.Time) bool {
	return due.DaysFrom(now) <= c.th.UrgentDays
}

// Important reports whether importance meets the important cutoff.
func (c *Classifier) Important(importance int) bool {
	return importance >= c.th.ImportantMin
}

// Classify returns the quadrant for a due date and importance.
func (c *Classifier) Classify(due task.Date, importance int, now time.Time) Quadrant {
	urgent, important := c.Urgent(due, now), c.Important(importance)
	switch {
	case urgent && important:
		return DoFirst
	case important:
		return Schedule
	case urgent:
		return Delegate
	default:
		return Eliminate
	}
}
