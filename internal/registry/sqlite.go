package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite file registry.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSQLiteSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

func createSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		file_id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		path TEXT NOT NULL,
		sheets TEXT NOT NULL DEFAULT '[]',
		uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_files_uploaded_at ON files(uploaded_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Save records a newly uploaded workbook.
func (s *SQLiteStore) Save(ctx context.Context, rec *domain.FileRecord) error {
	sheets, err := json.Marshal(rec.Sheets)
	if err != nil {
		return fmt.Errorf("failed to encode sheet list: %w", err)
	}
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO files (file_id, filename, path, sheets, uploaded_at) VALUES (?, ?, ?, ?, ?)",
		rec.FileID, rec.Filename, rec.Path, string(sheets), rec.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save file record: %w", err)
	}
	return nil
}

// Get retrieves a file record by id.
func (s *SQLiteStore) Get(ctx context.Context, fileID string) (*domain.FileRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT file_id, filename, path, sheets, uploaded_at FROM files WHERE file_id = ?",
		fileID,
	)
	rec, err := scanFileRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("file", fileID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load file record: %w", err)
	}
	return rec, nil
}

// List returns all known file records, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]*domain.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT file_id, filename, path, sheets, uploaded_at FROM files ORDER BY uploaded_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list file records: %w", err)
	}
	defer rows.Close()

	var out []*domain.FileRecord
	for rows.Next() {
		rec, err := scanFileRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a file record.
func (s *SQLiteStore) Delete(ctx context.Context, fileID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE file_id = ?", fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError("file", fileID)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanFileRecord(s scanner) (*domain.FileRecord, error) {
	rec := &domain.FileRecord{}
	var sheets string
	if err := s.Scan(&rec.FileID, &rec.Filename, &rec.Path, &sheets, &rec.UploadedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sheets), &rec.Sheets); err != nil {
		return nil, fmt.Errorf("failed to decode sheet list: %w", err)
	}
	return rec, nil
}
