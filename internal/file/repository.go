package file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

// Repository provides access to file metadata storage.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a new file repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts metadata for a new file. The insert and the target-directory
// check run in one transaction, so a directory deleted mid-request cannot leave
// a file row pointing at a missing parent.
func (r *Repository) Create(ctx context.Context, meta File) (File, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return File{}, fmt.Errorf("begin create file: %w", err)
	}
	defer tx.Rollback(ctx)

	if meta.DirectoryID != nil {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM directories WHERE id = $1);`,
			*meta.DirectoryID,
		).Scan(&exists)
		if err != nil {
			return File{}, fmt.Errorf("check directory: %w", err)
		}
		if !exists {
			return File{}, ErrDirectoryNotFound
		}
	}

	query := `
INSERT INTO files (id, owner_id, directory_id, name, size_bytes)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, owner_id, directory_id, name, size_bytes, created_at;`

	row := tx.QueryRow(ctx, query, meta.ID, meta.OwnerID, meta.DirectoryID, meta.Name, meta.SizeBytes)

	var stored File
	if err := row.Scan(&stored.ID, &stored.OwnerID, &stored.DirectoryID, &stored.Name, &stored.SizeBytes, &stored.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return File{}, ErrDirectoryNotFound
		}
		return File{}, fmt.Errorf("create file metadata: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return File{}, fmt.Errorf("commit create file: %w", err)
	}
	return stored, nil
}

// List returns files in a directory. A nil directoryID selects root-level files.
func (r *Repository) List(ctx context.Context, directoryID *uuid.UUID) ([]File, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
SELECT id, owner_id, directory_id, name, size_bytes, created_at
FROM files
WHERE directory_id IS NOT DISTINCT FROM $1
ORDER BY created_at DESC;`

	rows, err := r.pool.Query(ctx, query, directoryID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var meta File
		if err := rows.Scan(&meta.ID, &meta.OwnerID, &meta.DirectoryID, &meta.Name, &meta.SizeBytes, &meta.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file metadata: %w", err)
		}
		files = append(files, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}

// Get fetches metadata for a single file.
func (r *Repository) Get(ctx context.Context, fileID uuid.UUID) (File, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
SELECT id, owner_id, directory_id, name, size_bytes, created_at
FROM files
WHERE id = $1;`

	var meta File
	err := r.pool.QueryRow(ctx, query, fileID).Scan(
		&meta.ID,
		&meta.OwnerID,
		&meta.DirectoryID,
		&meta.Name,
		&meta.SizeBytes,
		&meta.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return File{}, ErrFileNotFound
		}
		return File{}, fmt.Errorf("get file metadata: %w", err)
	}
	return meta, nil
}

// Delete removes metadata and returns the deleted record.
func (r *Repository) Delete(ctx context.Context, fileID uuid.UUID) (File, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
DELETE FROM files
WHERE id = $1
RETURNING id, owner_id, directory_id, name, size_bytes, created_at;`

	var meta File
	err := r.pool.QueryRow(ctx, query, fileID).Scan(
		&meta.ID,
		&meta.OwnerID,
		&meta.DirectoryID,
		&meta.Name,
		&meta.SizeBytes,
		&meta.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return File{}, ErrFileNotFound
		}
		return File{}, fmt.Errorf("delete file metadata: %w", err)
	}
	return meta, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
