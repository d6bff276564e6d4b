package service_test

import (
	"context"
	"testing"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/testutil"
)

func TestDashboardStats(t *testing.T) {
	env := testutil.SetupEnv(t)
	ctx := context.Background()

	submissions := []struct {
		facility string
		findings []entity.Finding
	}{
		{"Clean Facility", nil},
		{"Risky Facility", []entity.Finding{
			{Observation: "No temperature logs", Classification: entity.ClassificationCritical},
		}},
		{"Middling Facility", []entity.Finding{
			{Observation: "Incomplete records", Classification: entity.ClassificationMajor},
		}},
		{"Minor Issues", []entity.Finding{
			{Observation: "Dusty shelves", Classification: entity.ClassificationOthers},
		}},
	}
	for _, s := range submissions {
		if _, err := env.Inspections.Submit(ctx, submitRequest(s.facility, s.findings...)); err != nil {
			t.Fatalf("Submit(%s) failed: %v", s.facility, err)
		}
	}

	stats, err := env.Dashboard.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if stats.High != 1 {
		t.Errorf("High = %d, want 1", stats.High)
	}
	if stats.Medium != 1 {
		t.Errorf("Medium = %d, want 1", stats.Medium)
	}
	if stats.Low != 2 {
		t.Errorf("Low = %d, want 2", stats.Low)
	}
	if stats.Local != 4 {
		t.Errorf("Local = %d, want 4", stats.Local)
	}
}

func TestDashboardStatsEmpty(t *testing.T) {
	env := testutil.SetupEnv(t)

	stats, err := env.Dashboard.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Total != 0 || stats.High != 0 || stats.Medium != 0 || stats.Low != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
}
