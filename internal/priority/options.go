package priority

import (
	"errors"
	"fmt"
)

// Weights holds the relative weight of each factor in the combined score.
// Only their ratios matter; the score divides by their sum.
type Weights struct {
	Urgency    float64
	Importance float64
	Effort     float64
	Graph      float64
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Urgency + w.Importance + w.Effort + w.Graph
}

// Options configures the Scorer.
type Options struct {
	Weights Weights

	// UrgencyFloor is the lowest urgency factor a task can receive, however
	// distant its due date. Must be in [0, 1).
	UrgencyFloor float64
	// UrgencyHalfLifeDays is the number of days over which the urgency
	// above the floor halves.
	UrgencyHalfLifeDays float64

	// EffortCeilingHours is the estimate at which the effort factor
	// reaches zero.
	EffortCeilingHours float64
	// QuickWinHours is the estimate at or below which a task is described
	// as a quick win.
	QuickWinHours float64

	// CyclePenalty is subtracted from the final score of every task that
	// participates in a dependency cycle. Must be positive.
	CyclePenalty int

	// HighImportance is the importance at or above which a task is
	// described as highly important.
	HighImportance int
}

// DefaultOptions returns production defaults: urgency and importance
// dominate, graph position adjusts, effort nudges.
func DefaultOptions() Options {
	return Options{
		Weights: Weights{
			Urgency:    0.40,
			Importance: 0.35,
			Effort:     0.10,
			Graph:      0.15,
		},
		UrgencyFloor:        0.10,
		UrgencyHalfLifeDays: 7,
		EffortCeilingHours:  16,
		QuickWinHours:       1,
		CyclePenalty:        15,
		HighImportance:      6,
	}
}

// Validate reports the first inconsistency in o.
func (o Options) Validate() error {
	w := o.Weights
	if w.Urgency < 0 || w.Importance < 0 || w.Effort < 0 || w.Graph < 0 {
		return errors.New("weights must not be negative")
	}
	if w.Sum() <= 0 {
		return errors.New("weights must not all be zero")
	}
	if w.Effort > w.Urgency || w.Effort > w.Importance || w.Effort > w.Graph {
		return fmt.Errorf("effort weight %.2f must be the smallest weight", w.Effort)
	}
	if o.UrgencyFloor <= 0 || o.UrgencyFloor >= 1 {
		return fmt.Errorf("urgency floor %.2f must be in (0, 1)", o.UrgencyFloor)
	}
	if o.UrgencyHalfLifeDays <= 0 {
		return fmt.Errorf("urgency half-life %.2f must be positive", o.UrgencyHalfLifeDays)
	}
	if o.EffortCeilingHours <= 0 {
		return fmt.Errorf("effort ceiling %.2f must be positive", o.EffortCeilingHours)
	}
	if o.CyclePenalty <= 0 || o.CyclePenalty > 100 {
		return fmt.Errorf("cycle penalty %d must be in (0, 100]", o.CyclePenalty)
	}
	return nil
}
