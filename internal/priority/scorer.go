// Package priority combines urgency, importance, effort, and dependency
// position into a 0-100 score with a short explanation.
package priority

import (
	"math"
	"time"

	"github.com/papapumpkin/triage/internal/dag"
	"github.com/papapumpkin/triage/internal/task"
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// Result is the outcome of scoring one task.
type Result struct {
	Score       int
	Explanation string
	Factors     Factors
	Position    Position
	// Cycle is non-nil when the task participates in a dependency cycle.
	Cycle *dag.Cycle
}

// Scorer scores tasks against a dependency graph. It holds only
// configuration and is safe for concurrent use.
type Scorer struct {
	opts Options
}

// NewScorer creates a Scorer. Options are expected to have passed Validate.
func NewScorer(opts Options) *Scorer {
	return &Scorer{opts: opts}
}

// Options returns the scorer's configuration.
func (s *Scorer) Options() Options {
	return s.opts
}

// Score computes the score and explanation for t. The graph and cycle
// annotations must come from the same batch as t, and now must be the
// single reference instant shared by the whole batch.
func (s *Scorer) Score(t task.Task, g *dag.Graph, cycles map[int]dag.Cycle, now time.Time) Result {
	days := t.DueDate.DaysFrom(now)
	pos := position(t.ID, g, cycles)

	f := Factors{
		Urgency:    UrgencyFactor(days, s.opts.UrgencyFloor, s.opts.UrgencyHalfLifeDays),
		Importance: ImportanceFactor(t.Importance),
		Effort:     EffortFactor(t.EstimatedHours, s.opts.EffortCeilingHours),
		Graph:      GraphFactor(pos),
	}

	res := Result{
		Factors:  f,
		Position: pos,
	}
	penalty := 0
	if c, ok := cycles[t.ID]; ok {
		res.Cycle = &c
		penalty = s.opts.CyclePenalty
	}
	res.Score = s.combine(f, penalty)
	res.Explanation = s.explain(t, days, res, g)
	return res
}

// combine weights the factors, scales to 100, and applies the penalty.
func (s *Scorer) combine(f Factors, penalty int) int {
	w := s.opts.Weights
	total := w.Urgency*f.Urgency + w.Importance*f.Importance + w.Effort*f.Effort + w.Graph*f.Graph
	score := int(math.Round(100*total/w.Sum())) - penalty
	return max(MinScore, min(MaxScore, score))
}

func position(id int, g *dag.Graph, cycles map[int]dag.Cycle) Position {
	_, inCycle := cycles[id]
	p := Position{
		Reach:   len(g.Descendants(id)),
		InCycle: inCycle,
	}
	for _, dep := range g.Dependencies(id) {
		if dep == id {
			continue
		}
		p.BlockedBy++
		if _, ok := cycles[dep]; ok {
			p.BlockedByCycle = true
		}
	}
	return p
}
