package directory

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

const repositoryTimeout = 5 * time.Second

// Repository provides database access to the directory tree.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a directory repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new directory. Sibling-name uniqueness is enforced by the
// partial unique indexes on (parent_id, name), so concurrent creates of the
// same name cannot both succeed; the loser surfaces ErrNameExists.
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID) (Directory, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	query := `
INSERT INTO directories (id, owner_id, name, parent_id)
VALUES ($1, $2, $3, $4)
RETURNING id, owner_id, name, parent_id, created_at;`

	row := r.pool.QueryRow(ctx, query, uuid.New(), ownerID, name, parentID)

	var dir Directory
	if err := row.Scan(&dir.ID, &dir.OwnerID, &dir.Name, &dir.ParentID, &dir.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return Directory{}, ErrNameExists
		}
		if isForeignKeyViolation(err) {
			return Directory{}, ErrParentNotFound
		}
		return Directory{}, fmt.Errorf("create directory: %w", err)
	}
	return dir, nil
}

// Get fetches a single directory by identifier.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Directory, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	query := `
SELECT id, owner_id, name, parent_id, created_at
FROM directories
WHERE id = $1;`

	var dir Directory
	err := r.pool.QueryRow(ctx, query, id).Scan(&dir.ID, &dir.OwnerID, &dir.Name, &dir.ParentID, &dir.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Directory{}, ErrNotFound
		}
		return Directory{}, fmt.Errorf("get directory: %w", err)
	}
	return dir, nil
}

// ListByParent returns directories sharing the given parent. A nil parentID
// selects the root-level group.
func (r *Repository) ListByParent(ctx context.Context, parentID *uuid.UUID) ([]Directory, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	query := `
SELECT id, owner_id, name, parent_id, created_at
FROM directories
WHERE parent_id IS NOT DISTINCT FROM $1
ORDER BY created_at;`

	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list directories: %w", err)
	}
	defer rows.Close()

	var dirs []Directory
	for rows.Next() {
		var dir Directory
		if err := rows.Scan(&dir.ID, &dir.OwnerID, &dir.Name, &dir.ParentID, &dir.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan directory: %w", err)
		}
		dirs = append(dirs, dir)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directories: %w", err)
	}
	return dirs, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
