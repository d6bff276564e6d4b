package report

import (
	"testing"
	"time"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
)

func TestBuildContextEndToEnd(t *testing.T) {
	raw := map[string]string{
		"facility_name":   "Acme Pharma",
		"inspection_date": "2024-03-05",
	}
	findings := []entity.Finding{
		{Observation: "Cold chain broken", Classification: "Critical", Guideline: "G1"},
	}

	ctx := BuildContext(raw, findings, nil, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))

	want := map[string]interface{}{
		"facility_name":               "Acme Pharma",
		"inspection_date":             "05-03-2024",
		"risk_level":                  "High",
		"risk_rating":                 "A",
		"major_findings_grouped":      "1. Cold chain broken",
		"other_findings_grouped":      "Nil",
		"major_findings":              "1. Cold chain broken",
		"critical_findings_grouped":   "1. Cold chain broken",
		"critical_guidelines_grouped": "1. G1",
		"risk_frequency":              "Reduced Freq. once in 2yrs",
		"risk_circle_3":               "③",
		"risk_circle_1":               "1",
		"risk_tick_A":                 "☑",
		"risk_tick_C":                 "☐",
		"status":                      "Completed",
		"log_date":                    "01-09-2026",
	}
	for key, wantVal := range want {
		if got := ctx[key]; got != wantVal {
			t.Errorf("ctx[%q] = %v, want %v", key, got, wantVal)
		}
	}

	rows, ok := ctx["findings"].([]map[string]string)
	if !ok || len(rows) != 1 {
		t.Fatalf("findings rows = %v", ctx["findings"])
	}
	if rows[0]["index"] != "1" {
		t.Errorf("finding index = %q, want 1", rows[0]["index"])
	}
	if rows[0]["observation"] != "• Cold chain broken" {
		t.Errorf("finding observation = %q", rows[0]["observation"])
	}
}

func TestBuildContextGroupedMajorCombinesCriticalAndMajor(t *testing.T) {
	findings := []entity.Finding{
		{Observation: "Cold chain broken", Classification: "Critical", Guideline: "G1"},
		{Observation: "No cleaning log", Classification: "Major", Guideline: "G2"},
		{Observation: "Faded signage", Classification: "Minor", Guideline: "G3"},
	}

	ctx := BuildContext(map[string]string{}, findings, nil, time.Now())

	if got := ctx["major_findings_grouped"]; got != "1. Cold chain broken\n2. No cleaning log" {
		t.Errorf("major_findings_grouped = %q", got)
	}
	if got := ctx["major_guidelines_grouped"]; got != "1. G1\n2. G2" {
		t.Errorf("major_guidelines_grouped = %q", got)
	}
	if got := ctx["critical_findings_grouped"]; got != "1. Cold chain broken" {
		t.Errorf("critical_findings_grouped = %q", got)
	}
	if got := ctx["other_findings_grouped"]; got != "1. Faded signage" {
		t.Errorf("other_findings_grouped = %q", got)
	}
}

func TestBuildContextIdempotent(t *testing.T) {
	raw := map[string]string{"facility_name": "Repeat Ltd"}
	findings := []entity.Finding{
		{Observation: "one", Classification: "Major"},
		{Observation: "two"},
	}
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	first := BuildContext(raw, findings, nil, now)
	second := BuildContext(raw, findings, nil, now)

	firstRows := first["findings"].([]map[string]string)
	secondRows := second["findings"].([]map[string]string)
	for i := range firstRows {
		if firstRows[i]["index"] != secondRows[i]["index"] {
			t.Errorf("row %d index drifted across calls: %q vs %q", i, firstRows[i]["index"], secondRows[i]["index"])
		}
	}
	if firstRows[0]["index"] != "1" || firstRows[1]["index"] != "2" {
		t.Errorf("indexes = %q,%q want 1,2", firstRows[0]["index"], firstRows[1]["index"])
	}
}

func TestBuildContextPersonnelAliases(t *testing.T) {
	personnel := []entity.Personnel{
		{Name: "Jane Doe", Designation: "Superintendent Pharmacist", Qualification: "B.Pharm", Phone: "0801", Email: "jane@acme.ng"},
		{Name: "John Roe", Designation: "Storekeeper"},
	}

	ctx := BuildContext(map[string]string{}, nil, personnel, time.Now())

	if ctx["facility_personnelname"] != "Jane Doe" {
		t.Errorf("flat personnel name = %v", ctx["facility_personnelname"])
	}
	if ctx["facility_personneldesignation"] != "Superintendent Pharmacist" {
		t.Errorf("flat personnel designation = %v", ctx["facility_personneldesignation"])
	}

	rows := ctx["personnel"].([]map[string]string)
	if len(rows) != 2 {
		t.Fatalf("personnel rows = %d, want 2", len(rows))
	}
	if rows[0]["personnel_name"] != "Jane Doe" || rows[0]["rank"] != "Superintendent Pharmacist" {
		t.Errorf("personnel aliases wrong: %v", rows[0])
	}
	if rows[1]["index"] != "2" {
		t.Errorf("second personnel index = %q", rows[1]["index"])
	}
}

func TestBuildContextInspectorsList(t *testing.T) {
	raw := map[string]string{
		"lead_inspector":                  "L",
		"lead_inspector_designation":      "CRO",
		"co_inspector":                    "C",
		"co_inspector_designation":        "SRO",
		"trainee_inspector":               "T1",
		"trainee_inspector_designation":   "RO I",
		"trainee_inspector_2":             "T2",
		"trainee_inspector_2_designation": "RO II",
	}

	ctx := BuildContext(raw, nil, nil, time.Now())
	rows := ctx["inspectors_list"].([]map[string]string)
	if len(rows) != 4 {
		t.Fatalf("inspectors = %d, want 4", len(rows))
	}
	wantRoles := []string{"Lead Inspector", "Co-Inspector", "Trainee Inspector", "Trainee Inspector"}
	for i, role := range wantRoles {
		if rows[i]["role"] != role {
			t.Errorf("inspector %d role = %q, want %q", i, rows[i]["role"], role)
		}
	}
	if rows[2]["name"] != "T1" || rows[3]["rank"] != "RO II" {
		t.Errorf("trainee rows wrong: %v %v", rows[2], rows[3])
	}

	// Without trainees the list stays at the fixed Lead+Co pair.
	delete(raw, "trainee_inspector")
	delete(raw, "trainee_inspector_2")
	ctx = BuildContext(raw, nil, nil, time.Now())
	if rows := ctx["inspectors_list"].([]map[string]string); len(rows) != 2 {
		t.Errorf("inspectors without trainees = %d, want 2", len(rows))
	}
}

func TestBuildContextBulletsFreeTextFields(t *testing.T) {
	raw := map[string]string{
		"recommendations": "Fix roof\nTrain staff",
		"facility_name":   "X",
	}
	ctx := BuildContext(raw, nil, nil, time.Now())
	want := "• Fix roof\n• Train staff"
	if ctx["recommendations"] != want {
		t.Errorf("recommendations = %q, want %q", ctx["recommendations"], want)
	}
	// Non-listed fields stay untouched.
	if ctx["facility_name"] != "X" {
		t.Errorf("facility_name = %q", ctx["facility_name"])
	}
}
