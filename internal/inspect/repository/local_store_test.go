package repository

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
)

func openTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := OpenLocalStore(filepath.Join(t.TempDir(), "fallback.db"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(facility string) *entity.Inspection {
	fields, _ := json.Marshal(map[string]string{"facility_name": facility})
	return &entity.Inspection{
		FacilityName: facility,
		RiskLevel:    entity.RiskLevelLow,
		RiskRating:   entity.RiskRatingC,
		Status:       entity.StatusCompleted,
		Fields:       fields,
		Timestamp:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rowID, err := store.Append(ctx, sampleRecord("Acme Pharma"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rowID != 1 {
		t.Errorf("first row id = %d, want 1", rowID)
	}

	record, err := store.Get(ctx, rowID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.FacilityName != "Acme Pharma" {
		t.Errorf("facility = %q", record.FacilityName)
	}
	if record.ID != "local_1" {
		t.Errorf("id = %q, want local_1", record.ID)
	}
	if record.Source != entity.BackendLocal {
		t.Errorf("source = %q, want local", record.Source)
	}

	fields, err := record.DecodeFields()
	if err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	if fields["facility_name"] != "Acme Pharma" {
		t.Errorf("fields round trip: %v", fields)
	}
}

func TestLocalStoreUpdateOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rowID, _ := store.Append(ctx, sampleRecord("Before Ltd"))

	updated := sampleRecord("After Ltd")
	updated.RiskLevel = entity.RiskLevelHigh
	if err := store.Update(ctx, rowID, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	record, _ := store.Get(ctx, rowID)
	if record.FacilityName != "After Ltd" || record.RiskLevel != entity.RiskLevelHigh {
		t.Errorf("record after update = %+v", record)
	}

	if err := store.Update(ctx, 999, updated); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing row: %v, want ErrNotFound", err)
	}
}

func TestLocalStoreListInsertionOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		if _, err := store.Append(ctx, sampleRecord(name)); err != nil {
			t.Fatalf("append %s: %v", name, err)
		}
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if items[i].FacilityName != want {
			t.Errorf("items[%d] = %q, want %q", i, items[i].FacilityName, want)
		}
	}
}

func TestLocalStoreDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rowID, _ := store.Append(ctx, sampleRecord("Gone Ltd"))
	if err := store.Delete(ctx, rowID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, rowID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted: %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, rowID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: %v, want ErrNotFound", err)
	}
}
