package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL file registry over an existing
// connection, creating the schema if it doesn't exist.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := createPostgresSchema(db); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL file registry from a
// connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func createPostgresSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		file_id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		path TEXT NOT NULL,
		sheets JSONB NOT NULL DEFAULT '[]',
		uploaded_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_files_uploaded_at ON files(uploaded_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Save records a newly uploaded workbook.
func (s *PostgresStore) Save(ctx context.Context, rec *domain.FileRecord) error {
	sheets, err := json.Marshal(rec.Sheets)
	if err != nil {
		return fmt.Errorf("failed to encode sheet list: %w", err)
	}
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO files (file_id, filename, path, sheets, uploaded_at) VALUES ($1, $2, $3, $4, $5)",
		rec.FileID, rec.Filename, rec.Path, string(sheets), rec.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save file record: %w", err)
	}
	return nil
}

// Get retrieves a file record by id.
func (s *PostgresStore) Get(ctx context.Context, fileID string) (*domain.FileRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT file_id, filename, path, sheets, uploaded_at FROM files WHERE file_id = $1",
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
func (s *PostgresStore) List(ctx context.Context) ([]*domain.FileRecord, error) {
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
func (s *PostgresStore) Delete(ctx context.Context, fileID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE file_id = $1", fileID)
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
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
