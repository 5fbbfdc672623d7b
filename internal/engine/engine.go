// Package engine runs the full prioritization pipeline over one batch:
// validation, dependency graph construction, cycle detection, scoring, and
// quadrant classification.
package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/papapumpkin/triage/internal/dag"
	"github.com/papapumpkin/triage/internal/priority"
	"github.com/papapumpkin/triage/internal/quadrant"
	"github.com/papapumpkin/triage/internal/task"
)

// Options configures an Analyzer.
type Options struct {
	Scoring    priority.Options
	Thresholds quadrant.Thresholds
	// Logger receives debug-level findings. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the default scoring options and thresholds.
func DefaultOptions() Options {
	return Options{
		Scoring:    priority.DefaultOptions(),
		Thresholds: quadrant.DefaultThresholds(),
	}
}

// Analyzer is the entry point for batch analysis. It holds configuration
// only; every call builds its own graph and annotations, so one Analyzer
// can serve concurrent callers.
type Analyzer struct {
	scorer     *priority.Scorer
	classifier *quadrant.Classifier
	logger     *slog.Logger
}

// New creates an Analyzer. Returns an error if the scoring options are
// inconsistent.
func New(opts Options) (*Analyzer, error) {
	if err := opts.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring options: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{
		scorer:     priority.NewScorer(opts.Scoring),
		classifier: quadrant.NewClassifier(opts.Thresholds),
		logger:     logger,
	}, nil
}

// Classifier returns the quadrant classifier used by the analyzer.
func (a *Analyzer) Classifier() *quadrant.Classifier {
	return a.classifier
}

// Analyze scores a decoded batch against the reference instant now. The
// result has the same length and order as the input. Only malformed input
// (task.ErrMalformedInput) fails the call; every other problem is reported
// through the affected task's score and explanation.
func (a *Analyzer) Analyze(payload any, now time.Time) ([]AnalyzedTask, error) {
	tasks, err := task.Validate(payload)
	if err != nil {
		return nil, err
	}

	g, err := dag.Build(tasks)
	if err != nil {
		// Validation guarantees unique ids, so this is a programming error.
		return nil, fmt.Errorf("building dependency graph: %w", err)
	}
	cycles := g.Cycles()
	a.logFindings(tasks, g, cycles)

	out := make([]AnalyzedTask, len(tasks))
	for i, t := range tasks {
		res := a.scorer.Score(t, g, cycles, now)
		out[i] = AnalyzedTask{
			Task:        t,
			Score:       res.Score,
			Explanation: res.Explanation,
			InCycle:     res.Cycle != nil,
			Quadrant:    a.classifier.Classify(t.DueDate, t.Importance, now),
			Factors:     res.Factors,
		}
	}
	return out, nil
}

// AnalyzeJSON decodes a JSON batch and analyzes it. Anything other than a
// JSON array of objects is malformed input.
func (a *Analyzer) AnalyzeJSON(data []byte, now time.Time) ([]AnalyzedTask, error) {
	payload, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return a.Analyze(payload, now)
}

// DecodeJSON decodes a JSON document into generic values, keeping numbers
// as json.Number so integers and fractions stay distinguishable.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", task.ErrMalformedInput, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON document", task.ErrMalformedInput)
	}
	return payload, nil
}

func (a *Analyzer) logFindings(tasks []task.Task, g *dag.Graph, cycles map[int]dag.Cycle) {
	for _, t := range tasks {
		if c, ok := cycles[t.ID]; ok {
			a.logger.Debug("task in dependency cycle", "task", t.ID, "mates", c.Mates)
		}
		if missing := g.Unresolved(t.ID); len(missing) > 0 {
			a.logger.Debug("dangling dependencies", "task", t.ID, "ids", missing)
		}
		for _, issue := range t.Issues {
			a.logger.Debug("field corrected", "task", t.ID, "field", issue.Field, "detail", issue.Message)
		}
	}
	a.logger.Debug("batch analyzed", "tasks", len(tasks), "cyclic", len(cycles))
}
