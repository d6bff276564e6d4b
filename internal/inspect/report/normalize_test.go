package report

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func TestNormalizeReformatsDates(t *testing.T) {
	out := Normalize(map[string]string{"inspection_date": "2024-03-05"}, testNow)

	if out["inspection_date"] != "05-03-2024" {
		t.Errorf("inspection_date = %q, want 05-03-2024", out["inspection_date"])
	}
	if out["date"] != "05-03-2024" {
		t.Errorf("date alias = %q, want 05-03-2024", out["date"])
	}
}

func TestNormalizeUnparseableDatePassesThrough(t *testing.T) {
	out := Normalize(map[string]string{"inspection_date": "sometime in March"}, testNow)
	if out["inspection_date"] != "sometime in March" {
		t.Errorf("inspection_date = %q, want raw value unchanged", out["inspection_date"])
	}
}

func TestNormalizeAlreadyFormattedDateStable(t *testing.T) {
	// Re-submitting an edited record must not shift day and month.
	out := Normalize(map[string]string{"inspection_date": "05-03-2024"}, testNow)
	if out["inspection_date"] != "05-03-2024" {
		t.Errorf("inspection_date = %q, want 05-03-2024", out["inspection_date"])
	}
}

func TestNormalizeLogDateIgnoresInput(t *testing.T) {
	out := Normalize(map[string]string{"log_date": "1999-01-01"}, testNow)
	if out["log_date"] != "15-03-2026" {
		t.Errorf("log_date = %q, want 15-03-2026", out["log_date"])
	}
}

func TestNormalizeInspectorAliases(t *testing.T) {
	out := Normalize(map[string]string{
		"lead_inspector":             "A. Bello",
		"lead_inspector_designation": "Chief Regulatory Officer",
		"co_inspector_designation":   "Senior Regulatory Officer",
	}, testNow)

	for key, want := range map[string]string{
		"lead_designation": "Chief Regulatory Officer",
		"lead_rank":        "Chief Regulatory Officer",
		"co_designation":   "Senior Regulatory Officer",
		"co_rank":          "Senior Regulatory Officer",
		"lead_inspectors":  "A. Bello",
	} {
		if out[key] != want {
			t.Errorf("%s = %q, want %q", key, out[key], want)
		}
	}
}

func TestNormalizeTraineeJoin(t *testing.T) {
	out := Normalize(map[string]string{
		"trainee_inspector":   "T. One",
		"trainee_inspector_2": "T. Two",
	}, testNow)
	if out["trainee_inspectors"] != "T. One, T. Two" {
		t.Errorf("trainee_inspectors = %q", out["trainee_inspectors"])
	}

	out = Normalize(map[string]string{"trainee_inspector": "T. One"}, testNow)
	if out["trainee_inspectors"] != "T. One" {
		t.Errorf("single trainee = %q", out["trainee_inspectors"])
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := map[string]string{"inspection_date": "2024-03-05"}
	Normalize(raw, testNow)
	if raw["inspection_date"] != "2024-03-05" {
		t.Errorf("input map mutated: %q", raw["inspection_date"])
	}
	if _, ok := raw["log_date"]; ok {
		t.Error("input map gained log_date")
	}
}
