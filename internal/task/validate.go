package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrMalformedInput is returned when a batch is not a list of task records
// or a record lacks a usable id, title, or due date. It is fatal to the
// whole batch.
var ErrMalformedInput = errors.New("malformed input")

// Record field names.
const (
	FieldID             = "id"
	FieldTitle          = "title"
	FieldDueDate        = "due_date"
	FieldImportance     = "importance"
	FieldEstimatedHours = "estimated_hours"
	FieldDependencies   = "dependencies"
)

var knownFields = map[string]bool{
	FieldID:             true,
	FieldTitle:          true,
	FieldDueDate:        true,
	FieldImportance:     true,
	FieldEstimatedHours: true,
	FieldDependencies:   true,
}

// Validate converts a decoded payload into validated tasks. The payload
// must be a list whose elements are objects. Structural problems return an
// error wrapping ErrMalformedInput and no tasks; out-of-range optional
// fields are corrected and recorded on the task's Issues.
func Validate(payload any) ([]Task, error) {
	records, err := asList(payload)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(records))
	seen := make(map[int]int, len(records))
	for i, raw := range records {
		rec, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: task[%d]: expected an object, got %s", ErrMalformedInput, i, typeName(raw))
		}
		t, err := validateRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: task[%d]: %v", ErrMalformedInput, i, err)
		}
		if first, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: task[%d]: duplicate id %d (first seen at task[%d])", ErrMalformedInput, i, t.ID, first)
		}
		seen[t.ID] = i
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func asList(payload any) ([]any, error) {
	switch v := payload.(type) {
	case []any:
		return v, nil
	case []map[string]any:
		out := make([]any, len(v))
		for i, rec := range v {
			out[i] = rec
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a list of tasks, got %s", ErrMalformedInput, typeName(payload))
	}
}

func validateRecord(rec map[string]any) (Task, error) {
	var t Task

	rawID, ok := rec[FieldID]
	if !ok || rawID == nil {
		return t, errors.New("missing id")
	}
	id, ok := integral(rawID)
	if !ok {
		return t, fmt.Errorf("id %v is not an integer", rawID)
	}
	if id < 0 {
		return t, fmt.Errorf("id %d is negative", id)
	}
	t.ID = id

	title, ok := rec[FieldTitle].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return t, errors.New("missing title")
	}
	t.Title = title

	due, err := dueDate(rec[FieldDueDate])
	if err != nil {
		return t, err
	}
	t.DueDate = due

	t.Importance = t.importance(rec)
	t.EstimatedHours = t.estimatedHours(rec)
	t.Dependencies = t.dependencies(rec)

	for k, v := range rec {
		if knownFields[k] {
			continue
		}
		if t.Extra == nil {
			t.Extra = make(map[string]any)
		}
		t.Extra[k] = v
	}
	return t, nil
}

func dueDate(v any) (Date, error) {
	switch d := v.(type) {
	case nil:
		return Date{}, errors.New("missing due_date")
	case string:
		parsed, err := ParseDate(strings.TrimSpace(d))
		if err != nil {
			return Date{}, fmt.Errorf("due_date: %v", err)
		}
		return parsed, nil
	case time.Time:
		return DateOf(d), nil
	case Date:
		return d, nil
	default:
		return Date{}, fmt.Errorf("due_date: unsupported type %s", typeName(v))
	}
}

func (t *Task) importance(rec map[string]any) int {
	raw, present := rec[FieldImportance]
	if !present || raw == nil {
		return DefaultImportance
	}
	f, ok := number(raw)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		t.addIssue(FieldImportance, fmt.Sprintf("%v is not a number, using %d", raw, DefaultImportance))
		return DefaultImportance
	}
	switch {
	case f < MinImportance:
		t.addIssue(FieldImportance, fmt.Sprintf("%v is below %d, clamped", raw, MinImportance))
		return MinImportance
	case f > MaxImportance:
		t.addIssue(FieldImportance, fmt.Sprintf("%v is above %d, clamped", raw, MaxImportance))
		return MaxImportance
	}
	v := int(math.Round(f))
	if float64(v) != f {
		t.addIssue(FieldImportance, fmt.Sprintf("%v is not an integer, rounded to %d", raw, v))
	}
	return v
}

func (t *Task) estimatedHours(rec map[string]any) float64 {
	raw, present := rec[FieldEstimatedHours]
	if !present || raw == nil {
		return DefaultEstimatedHours
	}
	f, ok := number(raw)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		t.addIssue(FieldEstimatedHours, fmt.Sprintf("%v is not a number, using %g", raw, DefaultEstimatedHours))
		return DefaultEstimatedHours
	}
	if f < 0 {
		t.addIssue(FieldEstimatedHours, fmt.Sprintf("%g is negative, clamped to 0", f))
		return 0
	}
	return f
}

func (t *Task) dependencies(rec map[string]any) []int {
	raw, present := rec[FieldDependencies]
	if !present || raw == nil {
		return []int{}
	}
	list, ok := raw.([]any)
	if !ok {
		t.addIssue(FieldDependencies, fmt.Sprintf("expected a list, got %s; treated as empty", typeName(raw)))
		return []int{}
	}

	deps := make([]int, 0, len(list))
	seen := make(map[int]bool, len(list))
	dropped := 0
	for _, item := range list {
		id, ok := integral(item)
		if !ok {
			dropped++
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		deps = append(deps, id)
	}
	if dropped > 0 {
		t.addIssue(FieldDependencies, fmt.Sprintf("ignored %d non-integer entr%s", dropped, plural(dropped, "y", "ies")))
	}
	return deps
}

func (t *Task) addIssue(field, msg string) {
	t.Issues = append(t.Issues, Issue{Field: field, Message: msg})
}

// number extracts a float from the numeric representations produced by
// encoding/json (with or without UseNumber), yaml.v3, and go-toml.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func integral(v any) (int, bool) {
	f, ok := number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	}
	if _, ok := number(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
