// Package registry tracks uploaded workbooks: file id, original filename,
// stored path, and sheet list. It is the only state that outlives an HTTP
// request besides the analysis store, so it sits behind a Store interface
// with SQLite (default) and PostgreSQL backends.
package registry

import (
	"context"
	"io"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// Store defines the interface for uploaded-file metadata storage.
type Store interface {
	// Save records a newly uploaded workbook.
	Save(ctx context.Context, rec *domain.FileRecord) error

	// Get retrieves a file record by id. Returns a NotFoundError when the
	// id is unknown.
	Get(ctx context.Context, fileID string) (*domain.FileRecord, error)

	// List returns all known file records, newest first.
	List(ctx context.Context) ([]*domain.FileRecord, error)

	// Delete removes a file record. Returns a NotFoundError when the id is
	// unknown; no partial state is mutated.
	Delete(ctx context.Context, fileID string) error

	io.Closer
}
