package engine

import (
	"encoding/json"
	"sort"

	"github.com/papapumpkin/triage/internal/priority"
	"github.com/papapumpkin/triage/internal/quadrant"
	"github.com/papapumpkin/triage/internal/task"
)

// Output-only field names.
const (
	FieldScore       = "score"
	FieldExplanation = "explanation"
	FieldInCycle     = "has_circular_dependency"
	FieldDiagnostics = "diagnostics"
)

// computedFields are never echoed from input, so re-submitting an analyzed
// batch produces fresh values rather than stale ones.
var computedFields = map[string]bool{
	FieldScore:       true,
	FieldExplanation: true,
	FieldInCycle:     true,
	FieldDiagnostics: true,
}

// AnalyzedTask is a validated task enriched with its score.
type AnalyzedTask struct {
	task.Task
	Score       int
	Explanation string
	InCycle     bool

	// Quadrant and Factors are derived in the same pass as Score and are
	// not part of the wire format.
	Quadrant quadrant.Quadrant
	Factors  priority.Factors
}

// MarshalJSON emits every input field, including keys the engine does not
// interpret, plus score and explanation. The cycle flag and diagnostics are
// included only when set. Keys are sorted, so identical analyses encode to
// identical bytes.
func (t AnalyzedTask) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Extra)+8)
	for k, v := range t.Extra {
		if computedFields[k] {
			continue
		}
		out[k] = v
	}
	deps := t.Dependencies
	if deps == nil {
		deps = []int{}
	}
	out[task.FieldID] = t.ID
	out[task.FieldTitle] = t.Title
	out[task.FieldDueDate] = t.DueDate.String()
	out[task.FieldImportance] = t.Importance
	out[task.FieldEstimatedHours] = t.EstimatedHours
	out[task.FieldDependencies] = deps
	out[FieldScore] = t.Score
	out[FieldExplanation] = t.Explanation
	if t.InCycle {
		out[FieldInCycle] = true
	}
	if len(t.Issues) > 0 {
		diags := make([]string, len(t.Issues))
		for i, issue := range t.Issues {
			diags[i] = issue.String()
		}
		out[FieldDiagnostics] = diags
	}
	return json.Marshal(out)
}

// Suggest returns up to n tasks with the highest scores, highest first.
// Equal scores keep their input order. The input slice is not modified.
func Suggest(tasks []AnalyzedTask, n int) []AnalyzedTask {
	if n <= 0 {
		return nil
	}
	ranked := make([]AnalyzedTask, len(tasks))
	copy(ranked, tasks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
