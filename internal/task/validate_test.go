package task

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

// record builds a minimal valid record, applying overrides on top.
func record(id any, overrides map[string]any) map[string]any {
	rec := map[string]any{
		FieldID:             id,
		FieldTitle:          "task",
		FieldDueDate:        "2025-12-01",
		FieldImportance:     5,
		FieldEstimatedHours: 1.5,
		FieldDependencies:   []any{},
	}
	for k, v := range overrides {
		if v == nil {
			delete(rec, k)
			continue
		}
		rec[k] = v
	}
	return rec
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	tasks, err := Validate([]any{
		record(1, nil),
		record(2, map[string]any{FieldDependencies: []any{1, 1, 99}}),
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	got := tasks[1]
	if got.ID != 2 {
		t.Errorf("ID = %d, want 2", got.ID)
	}
	if want := (Date{2025, time.December, 1}); got.DueDate != want {
		t.Errorf("DueDate = %v, want %v", got.DueDate, want)
	}
	if !reflect.DeepEqual(got.Dependencies, []int{1, 99}) {
		t.Errorf("Dependencies = %v, want [1 99]", got.Dependencies)
	}
	if len(got.Issues) != 0 {
		t.Errorf("Issues = %v, want none", got.Issues)
	}
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload any
		wantMsg string
	}{
		{"not a list", map[string]any{"id": 1}, "expected a list"},
		{"null payload", nil, "expected a list"},
		{"element not an object", []any{"hello"}, "expected an object"},
		{"missing id", []any{record(nil, nil)}, "missing id"},
		{"fractional id", []any{record(1.5, nil)}, "not an integer"},
		{"string id", []any{record("7", nil)}, "not an integer"},
		{"negative id", []any{record(-3, nil)}, "negative"},
		{"missing title", []any{record(1, map[string]any{FieldTitle: nil})}, "missing title"},
		{"blank title", []any{record(1, map[string]any{FieldTitle: "   "})}, "missing title"},
		{"missing due date", []any{record(1, map[string]any{FieldDueDate: nil})}, "missing due_date"},
		{"bad due date", []any{record(1, map[string]any{FieldDueDate: "next week"})}, "due_date"},
		{"numeric due date", []any{record(1, map[string]any{FieldDueDate: 20251201})}, "unsupported type"},
		{"duplicate id", []any{record(1, nil), record(1, nil)}, "duplicate id 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tasks, err := Validate(tt.payload)
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("err = %v, want ErrMalformedInput", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %q, want it to contain %q", err, tt.wantMsg)
			}
			if tasks != nil {
				t.Errorf("tasks = %v, want nil on failure", tasks)
			}
		})
	}
}

func TestValidate_Corrections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		overrides  map[string]any
		importance int
		hours      float64
		deps       []int
		issueField string
	}{
		{"importance above range", map[string]any{FieldImportance: 14}, 10, 1.5, []int{}, FieldImportance},
		{"importance below range", map[string]any{FieldImportance: -2}, 0, 1.5, []int{}, FieldImportance},
		{"fractional importance", map[string]any{FieldImportance: 7.6}, 8, 1.5, []int{}, FieldImportance},
		{"importance beyond int range", map[string]any{FieldImportance: 1e20}, 10, 1.5, []int{}, FieldImportance},
		{"importance far below range", map[string]any{FieldImportance: -1e20}, 0, 1.5, []int{}, FieldImportance},
		{"huge json importance", map[string]any{FieldImportance: json.Number("1e300")}, 10, 1.5, []int{}, FieldImportance},
		{"string importance", map[string]any{FieldImportance: "high"}, DefaultImportance, 1.5, []int{}, FieldImportance},
		{"missing importance", map[string]any{FieldImportance: nil}, DefaultImportance, 1.5, []int{}, ""},
		{"negative hours", map[string]any{FieldEstimatedHours: -4}, 5, 0, []int{}, FieldEstimatedHours},
		{"missing hours", map[string]any{FieldEstimatedHours: nil}, 5, DefaultEstimatedHours, []int{}, ""},
		{"string hours", map[string]any{FieldEstimatedHours: "2h"}, 5, DefaultEstimatedHours, []int{}, FieldEstimatedHours},
		{"dependencies not a list", map[string]any{FieldDependencies: "3"}, 5, 1.5, []int{}, FieldDependencies},
		{"non-integer dependency", map[string]any{FieldDependencies: []any{2, "x", 2.5, 3}}, 5, 1.5, []int{2, 3}, FieldDependencies},
		{"missing dependencies", map[string]any{FieldDependencies: nil}, 5, 1.5, []int{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tasks, err := Validate([]any{record(1, tt.overrides)})
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			got := tasks[0]
			if got.Importance != tt.importance {
				t.Errorf("Importance = %d, want %d", got.Importance, tt.importance)
			}
			if got.EstimatedHours != tt.hours {
				t.Errorf("EstimatedHours = %g, want %g", got.EstimatedHours, tt.hours)
			}
			if !reflect.DeepEqual(got.Dependencies, tt.deps) {
				t.Errorf("Dependencies = %v, want %v", got.Dependencies, tt.deps)
			}
			if tt.issueField == "" {
				if len(got.Issues) != 0 {
					t.Errorf("Issues = %v, want none", got.Issues)
				}
				return
			}
			if len(got.Issues) == 0 || got.Issues[0].Field != tt.issueField {
				t.Errorf("Issues = %v, want one for %s", got.Issues, tt.issueField)
			}
		})
	}
}

func TestValidate_HugeImportanceClampsTowardSign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  any
		want int
		msg  string
	}{
		{1e20, MaxImportance, "1e+20 is above 10, clamped"},
		{-1e20, MinImportance, "-1e+20 is below 0, clamped"},
		{json.Number("1e20"), MaxImportance, "1e20 is above 10, clamped"},
	}
	for _, tt := range tests {
		tasks, err := Validate([]any{record(1, map[string]any{FieldImportance: tt.raw})})
		if err != nil {
			t.Fatalf("Validate(%v): %v", tt.raw, err)
		}
		got := tasks[0]
		if got.Importance != tt.want {
			t.Errorf("importance %v -> %d, want %d", tt.raw, got.Importance, tt.want)
		}
		if len(got.Issues) != 1 || got.Issues[0].Message != tt.msg {
			t.Errorf("importance %v issues = %v, want one %q", tt.raw, got.Issues, tt.msg)
		}
	}
}

func TestValidate_JSONNumbers(t *testing.T) {
	t.Parallel()

	dec := json.NewDecoder(strings.NewReader(`[{"id": 3, "title": "a", "due_date": "2025-11-30", "importance": 8, "estimated_hours": 0.5, "dependencies": [1, 2]}]`))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		t.Fatal(err)
	}
	tasks, err := Validate(payload)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	got := tasks[0]
	if got.ID != 3 || got.Importance != 8 || got.EstimatedHours != 0.5 {
		t.Errorf("got %+v", got)
	}
	if !reflect.DeepEqual(got.Dependencies, []int{1, 2}) {
		t.Errorf("Dependencies = %v, want [1 2]", got.Dependencies)
	}
}

func TestValidate_ExtraFieldsKept(t *testing.T) {
	t.Parallel()

	tasks, err := Validate([]any{record(1, map[string]any{"owner": "sam", "tags": []any{"x"}})})
	if err != nil {
		t.Fatal(err)
	}
	extra := tasks[0].Extra
	if extra["owner"] != "sam" {
		t.Errorf("Extra[owner] = %v, want sam", extra["owner"])
	}
	if _, ok := extra[FieldTitle]; ok {
		t.Error("known field leaked into Extra")
	}
}

func TestValidate_EmptyBatch(t *testing.T) {
	t.Parallel()

	tasks, err := Validate([]any{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("got %d tasks, want 0", len(tasks))
	}
}

func TestDate(t *testing.T) {
	t.Parallel()

	t.Run("parse and format", func(t *testing.T) {
		t.Parallel()
		d, err := ParseDate("2025-12-05")
		if err != nil {
			t.Fatal(err)
		}
		if d.String() != "2025-12-05" {
			t.Errorf("String() = %q", d.String())
		}
	})

	t.Run("rfc3339 keeps date part", func(t *testing.T) {
		t.Parallel()
		d, err := ParseDate("2025-12-05T23:30:00-08:00")
		if err != nil {
			t.Fatal(err)
		}
		if d.String() != "2025-12-05" {
			t.Errorf("String() = %q, want 2025-12-05", d.String())
		}
	})

	t.Run("days ignore time of day", func(t *testing.T) {
		t.Parallel()
		d := Date{2025, time.December, 1}
		morning := time.Date(2025, time.December, 1, 0, 1, 0, 0, time.UTC)
		night := time.Date(2025, time.December, 1, 23, 59, 0, 0, time.UTC)
		if d.DaysFrom(morning) != 0 || d.DaysFrom(night) != 0 {
			t.Errorf("DaysFrom same day = %d/%d, want 0", d.DaysFrom(morning), d.DaysFrom(night))
		}
		if got := d.DaysFrom(time.Date(2025, time.November, 28, 12, 0, 0, 0, time.UTC)); got != 3 {
			t.Errorf("DaysFrom 3 days earlier = %d, want 3", got)
		}
		if got := d.DaysFrom(time.Date(2025, time.December, 4, 12, 0, 0, 0, time.UTC)); got != -3 {
			t.Errorf("DaysFrom 3 days later = %d, want -3", got)
		}
	})

	t.Run("centuries away", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)
		if got := (Date{2400, time.January, 1}).DaysFrom(now); got != 136311 {
			t.Errorf("DaysFrom 2400-01-01 = %d, want 136311", got)
		}
		if got := (Date{1600, time.January, 1}).DaysFrom(now); got != -155883 {
			t.Errorf("DaysFrom 1600-01-01 = %d, want -155883", got)
		}
	})

	t.Run("uses now's location", func(t *testing.T) {
		t.Parallel()
		loc := time.FixedZone("UTC-8", -8*60*60)
		now := time.Date(2025, time.November, 30, 22, 0, 0, 0, loc) // already Dec 1 in UTC
		d := Date{2025, time.December, 1}
		if got := d.DaysFrom(now); got != 1 {
			t.Errorf("DaysFrom = %d, want 1", got)
		}
	})

	t.Run("json round trip", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Date{2026, time.January, 2})
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `"2026-01-02"` {
			t.Errorf("Marshal = %s", data)
		}
		var d Date
		if err := json.Unmarshal(data, &d); err != nil {
			t.Fatal(err)
		}
		if d != (Date{2026, time.January, 2}) {
			t.Errorf("Unmarshal = %v", d)
		}
	})
}
