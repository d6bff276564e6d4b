package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
	_ "modernc.org/sqlite"
)

// LocalStore is the fallback backend: an append-ordered SQLite file
// that holds full inspection records as JSON, used when the remote
// store cannot be reached. Ids are row ids, exposed to callers as
// "local_<n>".
type LocalStore struct {
	DBPath string
	db     *sql.DB
}

// OpenLocalStore opens or creates the fallback database.
func OpenLocalStore(path string) (*LocalStore, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve local store path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure local store dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	store := &LocalStore{DBPath: absPath, db: db}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *LocalStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *LocalStore) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS inspections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_json TEXT NOT NULL,
	saved_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("ensure local store schema: %w", err)
	}
	return nil
}

// Append stores a record as a new row and returns its row id. A failed
// remote edit also lands here as a new record, never as a lost write.
func (s *LocalStore) Append(ctx context.Context, inspection *entity.Inspection) (int64, error) {
	recordJSON, err := json.Marshal(inspection)
	if err != nil {
		return 0, fmt.Errorf("encode record: %w", err)
	}
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO inspections (record_json, saved_at) VALUES (?, ?)",
		string(recordJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("append record: %w", err)
	}
	return result.LastInsertId()
}

// Update overwrites the record at one row id.
func (s *LocalStore) Update(ctx context.Context, rowID int64, inspection *entity.Inspection) error {
	recordJSON, err := json.Marshal(inspection)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE inspections SET record_json = ?, saved_at = ? WHERE id = ?",
		string(recordJSON), time.Now().UTC().Format(time.RFC3339), rowID)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get loads the record at one row id.
func (s *LocalStore) Get(ctx context.Context, rowID int64) (*entity.Inspection, error) {
	var recordJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT record_json FROM inspections WHERE id = ?", rowID).Scan(&recordJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load record %d: %w", rowID, err)
	}
	return decodeLocalRecord(rowID, recordJSON)
}

// List returns every locally stored record in insertion order.
func (s *LocalStore) List(ctx context.Context) ([]entity.Inspection, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, record_json FROM inspections ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list local records: %w", err)
	}
	defer rows.Close()

	var items []entity.Inspection
	for rows.Next() {
		var rowID int64
		var recordJSON string
		if err := rows.Scan(&rowID, &recordJSON); err != nil {
			return nil, fmt.Errorf("scan local record: %w", err)
		}
		record, err := decodeLocalRecord(rowID, recordJSON)
		if err != nil {
			return nil, err
		}
		items = append(items, *record)
	}
	return items, rows.Err()
}

// Delete removes the record at one row id.
func (s *LocalStore) Delete(ctx context.Context, rowID int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM inspections WHERE id = ?", rowID)
	if err != nil {
		return fmt.Errorf("delete record %d: %w", rowID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeLocalRecord(rowID int64, recordJSON string) (*entity.Inspection, error) {
	var record entity.Inspection
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("decode record %d: %w", rowID, err)
	}
	record.ID = fmt.Sprintf("local_%d", rowID)
	record.Source = entity.BackendLocal
	return &record, nil
}
