// Package report presents analyzed batches: ordered lists with score tiers,
// an urgency x importance matrix, and JSON. Presentation never recomputes
// scores; it only reorders and groups what the engine produced.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/papapumpkin/triage/internal/engine"
)

// SortOrder selects how a list is ordered for display.
type SortOrder string

const (
	// ByPriority orders by score, highest first.
	ByPriority SortOrder = "priority"
	// ByFastest orders by estimated hours, shortest first.
	ByFastest SortOrder = "fastest"
	// ByImpact orders by importance, highest first.
	ByImpact SortOrder = "impact"
	// ByDeadline orders by due date, earliest first.
	ByDeadline SortOrder = "deadline"
)

// SortOrders lists every supported order.
var SortOrders = []SortOrder{ByPriority, ByFastest, ByImpact, ByDeadline}

// ParseSortOrder validates a sort order name.
func ParseSortOrder(name string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range SortOrders {
		if o == known {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort order %q (want priority, fastest, impact, or deadline)", name)
}

// SortBy returns a copy of tasks in the given order. Ties keep the
// engine's order.
func SortBy(tasks []engine.AnalyzedTask, order SortOrder) []engine.AnalyzedTask {
	sorted := make([]engine.AnalyzedTask, len(tasks))
	copy(sorted, tasks)

	var less func(a, b engine.AnalyzedTask) bool
	switch order {
	case ByFastest:
		less = func(a, b engine.AnalyzedTask) bool { return a.EstimatedHours < b.EstimatedHours }
	case ByImpact:
		less = func(a, b engine.AnalyzedTask) bool { return a.Importance > b.Importance }
	case ByDeadline:
		less = func(a, b engine.AnalyzedTask) bool { return a.DueDate.Before(b.DueDate) }
	default:
		less = func(a, b engine.AnalyzedTask) bool { return a.Score > b.Score }
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}
