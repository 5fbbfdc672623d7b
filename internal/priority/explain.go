package priority

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/papapumpkin/triage/internal/dag"
	"github.com/papapumpkin/triage/internal/task"
)

type factorKind int

const (
	factorUrgency factorKind = iota
	factorImportance
	factorGraph
	factorEffort
)

type contribution struct {
	kind   factorKind
	value  float64 // weighted contribution
	factor float64 // raw factor in [0, 1]
}

// driveThreshold is the raw factor at or above which a leading factor is
// said to push the score up rather than merely shape it.
const driveThreshold = 0.5

// explain builds the explanation text. It names the two largest weighted
// contributions, then appends clauses for cycles, blocking relationships,
// unknown dependencies, and input corrections. The output depends only on
// its arguments.
func (s *Scorer) explain(t task.Task, days int, res Result, g *dag.Graph) string {
	w := s.opts.Weights
	f := res.Factors
	contribs := []contribution{
		{factorUrgency, w.Urgency * f.Urgency, f.Urgency},
		{factorImportance, w.Importance * f.Importance, f.Importance},
	}
	// A cyclic task's zeroed graph factor is covered by the cycle clause.
	if res.Cycle == nil {
		contribs = append(contribs, contribution{factorGraph, w.Graph * f.Graph, f.Graph})
	}
	contribs = append(contribs, contribution{factorEffort, w.Effort * f.Effort, f.Effort})
	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].value > contribs[j].value
	})
	lead := contribs[:2]

	var sentences []string
	phrases := []string{s.phrase(lead[0].kind, t, days, res.Position), s.phrase(lead[1].kind, t, days, res.Position)}
	verb := "shape this score"
	if lead[0].factor >= driveThreshold && lead[1].factor >= driveThreshold {
		verb = "drive this score up"
	}
	sentences = append(sentences, capitalize(phrases[0]+" and "+phrases[1]+" "+verb+"."))

	leadsWith := func(k factorKind) bool {
		return lead[0].kind == k || lead[1].kind == k
	}

	if res.Cycle != nil {
		if len(res.Cycle.Mates) == 0 {
			sentences = append(sentences, "Cannot be prioritized reliably: the task depends on itself.")
		} else {
			sentences = append(sentences, fmt.Sprintf("Cannot be prioritized reliably: circular dependency with task(s) %s.", joinIDs(res.Cycle.Mates)))
		}
	} else {
		p := res.Position
		if p.Reach > 0 && !leadsWith(factorGraph) {
			sentences = append(sentences, fmt.Sprintf("Unblocks %s.", count(p.Reach, "task")))
		}
		if p.BlockedByCycle {
			sentences = append(sentences, "Waits on a task stuck in a circular dependency.")
		} else if p.BlockedBy > 0 {
			sentences = append(sentences, fmt.Sprintf("Waits on %s in this batch.", count(p.BlockedBy, "task")))
		}
	}

	if missing := g.Unresolved(t.ID); len(missing) > 0 {
		sentences = append(sentences, fmt.Sprintf("References unknown task(s) %s, ignored for scoring.", joinIDs(missing)))
	}
	if len(t.Issues) > 0 {
		msgs := make([]string, len(t.Issues))
		for i, issue := range t.Issues {
			msgs[i] = issue.String()
		}
		sentences = append(sentences, "Input corrected: "+strings.Join(msgs, "; ")+".")
	}
	return strings.Join(sentences, " ")
}

func (s *Scorer) phrase(k factorKind, t task.Task, days int, p Position) string {
	switch k {
	case factorUrgency:
		switch {
		case days < 0:
			return "overdue by " + count(-days, "day")
		case days == 0:
			return "due today"
		default:
			return "due in " + count(days, "day")
		}
	case factorImportance:
		switch {
		case t.Importance >= s.opts.HighImportance:
			return fmt.Sprintf("high importance (%d/10)", t.Importance)
		case t.Importance <= 3:
			return fmt.Sprintf("low importance (%d/10)", t.Importance)
		default:
			return fmt.Sprintf("moderate importance (%d/10)", t.Importance)
		}
	case factorEffort:
		switch {
		case t.EstimatedHours <= s.opts.QuickWinHours:
			return fmt.Sprintf("a quick win (%sh)", hours(t.EstimatedHours))
		case t.EstimatedHours >= s.opts.EffortCeilingHours:
			return fmt.Sprintf("a large effort (%sh)", hours(t.EstimatedHours))
		default:
			return fmt.Sprintf("an estimate of %sh", hours(t.EstimatedHours))
		}
	default:
		switch {
		case p.Reach > 0:
			return "unblocking " + count(p.Reach, "task")
		case p.BlockedBy > 0:
			return "waiting on " + count(p.BlockedBy, "task")
		default:
			return "no dependency constraints"
		}
	}
}

func count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func hours(h float64) string {
	return strconv.FormatFloat(h, 'g', -1, 64)
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
