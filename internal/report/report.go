package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/papapumpkin/triage/internal/engine"
	"github.com/papapumpkin/triage/internal/quadrant"
)

// Strategy renders an analyzed batch. Strategies are pure: the same input
// always renders the same text.
type Strategy interface {
	Render(tasks []engine.AnalyzedTask) string
}

// Format names a built-in strategy.
type Format string

const (
	FormatList   Format = "list"
	FormatMatrix Format = "matrix"
	FormatJSON   Format = "json"
)

// Options selects and configures a strategy.
type Options struct {
	Format Format
	Order  SortOrder
	Tiers  Tiers
	Color  bool
}

// New returns the strategy for opts.Format.
func New(opts Options) (Strategy, error) {
	switch opts.Format {
	case FormatList, "":
		return &ListStrategy{Order: opts.Order, Tiers: opts.Tiers, Color: opts.Color}, nil
	case FormatMatrix:
		return &MatrixStrategy{Order: opts.Order, Tiers: opts.Tiers, Color: opts.Color}, nil
	case FormatJSON:
		return &JSONStrategy{Order: opts.Order, Indent: true}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want list, matrix, or json)", opts.Format)
	}
}

// ListStrategy renders a numbered list with score tier badges.
type ListStrategy struct {
	Order SortOrder
	Tiers Tiers
	Color bool
}

// Render implements Strategy.
func (s *ListStrategy) Render(tasks []engine.AnalyzedTask) string {
	var b strings.Builder
	b.WriteString(paint(s.Color, styleHeading, "# Prioritized Tasks"))
	fmt.Fprintf(&b, " (by %s)\n\n", orderOrDefault(s.Order))

	if len(tasks) == 0 {
		b.WriteString("No tasks.\n")
		return b.String()
	}

	for i, t := range SortBy(tasks, s.Order) {
		fmt.Fprintf(&b, "%d. ", i+1)
		writeEntry(&b, t, s.Tiers, s.Color)
	}
	return b.String()
}

// MatrixStrategy groups tasks by urgency x importance quadrant. Within each
// quadrant tasks follow Order.
type MatrixStrategy struct {
	Order SortOrder
	Tiers Tiers
	Color bool
}

// Render implements Strategy.
func (s *MatrixStrategy) Render(tasks []engine.AnalyzedTask) string {
	groups := make(map[quadrant.Quadrant][]engine.AnalyzedTask, len(quadrant.All))
	for _, t := range SortBy(tasks, s.Order) {
		groups[t.Quadrant] = append(groups[t.Quadrant], t)
	}

	var b strings.Builder
	b.WriteString(paint(s.Color, styleHeading, "# Eisenhower Matrix"))
	b.WriteString("\n")
	for _, q := range quadrant.All {
		members := groups[q]
		fmt.Fprintf(&b, "\n## %s (%d)\n\n", q.Title(), len(members))
		if len(members) == 0 {
			b.WriteString(paint(s.Color, styleMuted, "(none)"))
			b.WriteString("\n")
			continue
		}
		for _, t := range members {
			b.WriteString("- ")
			writeEntry(&b, t, s.Tiers, s.Color)
		}
	}
	return b.String()
}

// JSONStrategy renders the batch in the wire format. Order defaults to
// the engine's input order when empty.
type JSONStrategy struct {
	Order  SortOrder
	Indent bool
}

// Render implements Strategy.
func (s *JSONStrategy) Render(tasks []engine.AnalyzedTask) string {
	out := tasks
	if s.Order != "" {
		out = SortBy(tasks, s.Order)
	}
	if out == nil {
		out = []engine.AnalyzedTask{}
	}
	var (
		data []byte
		err  error
	)
	if s.Indent {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return fmt.Sprintf("error: %v\n", err)
	}
	return string(data) + "\n"
}

func writeEntry(b *strings.Builder, t engine.AnalyzedTask, tiers Tiers, color bool) {
	tier := tiers.Of(t.Score)
	badge := fmt.Sprintf("[%3d %-6s]", t.Score, tier)
	b.WriteString(paint(color, tierStyle(tier), badge))
	fmt.Fprintf(b, " #%d %s", t.ID, t.Title)
	if t.InCycle {
		b.WriteString(paint(color, styleHigh, " (cycle)"))
	}
	b.WriteString("\n")

	meta := fmt.Sprintf("due %s | importance %d/10 | %s", t.DueDate, t.Importance, hours(t.EstimatedHours))
	if len(t.Dependencies) > 0 {
		meta += " | depends on " + joinIDs(t.Dependencies)
	}
	fmt.Fprintf(b, "   %s\n", paint(color, styleMuted, meta))
	if t.Explanation != "" {
		fmt.Fprintf(b, "   %s\n", t.Explanation)
	}
}

func hours(h float64) string {
	if h == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%g hours", h)
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return strings.Join(parts, ", ")
}

func orderOrDefault(o SortOrder) SortOrder {
	if o == "" {
		return ByPriority
	}
	return o
}
