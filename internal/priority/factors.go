package priority

import "math"

// Factors are the per-task inputs to the score, each normalized to [0, 1].
type Factors struct {
	Urgency    float64
	Importance float64
	Effort     float64
	Graph      float64
}

// Position summarizes where a task sits in the dependency graph.
type Position struct {
	// Reach is the number of tasks that transitively depend on this one.
	Reach int
	// BlockedBy is the number of in-batch tasks this one depends on.
	BlockedBy int
	// BlockedByCycle reports whether any of those dependencies is itself
	// part of a cycle, so it can never be finished first.
	BlockedByCycle bool
	// InCycle reports whether the task participates in a cycle.
	InCycle bool
}

// Graph factor components.
const (
	graphNeutral       = 0.5
	graphReachGain     = 0.5
	graphReachHalf     = 2.0 // reach at which half the gain is earned
	graphBlockedCost   = 0.25
	graphCycleDepsCost = 0.5
)

// UrgencyFactor maps whole days until the due date to [floor, 1]. Overdue
// and due-today tasks get 1. Beyond that the portion above the floor halves
// every halfLife days, so the curve is continuous and never reaches the
// floor exactly.
func UrgencyFactor(days int, floor, halfLife float64) float64 {
	if days <= 0 {
		return 1
	}
	return floor + (1-floor)*math.Pow(0.5, float64(days)/halfLife)
}

// ImportanceFactor maps importance 0..10 to [0, 1].
func ImportanceFactor(importance int) float64 {
	return clamp01(float64(importance) / 10)
}

// EffortFactor rewards short tasks on a logarithmic scale: an instant task
// scores 1 and anything at or beyond ceiling hours scores 0.
func EffortFactor(hours, ceiling float64) float64 {
	if hours <= 0 {
		return 1
	}
	return clamp01(1 - math.Log2(1+hours)/math.Log2(1+ceiling))
}

// GraphFactor scores a task's dependency position. Unblocking others lifts
// it from the neutral midpoint; waiting on other tasks lowers it, more so
// when one of them is stuck in a cycle. Cyclic tasks score 0.
func GraphFactor(p Position) float64 {
	if p.InCycle {
		return 0
	}
	reach := float64(p.Reach)
	f := graphNeutral + graphReachGain*reach/(reach+graphReachHalf)
	switch {
	case p.BlockedByCycle:
		f -= graphCycleDepsCost
	case p.BlockedBy > 0:
		f -= graphBlockedCost
	}
	return clamp01(f)
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
