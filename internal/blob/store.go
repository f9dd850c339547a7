package blob

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
)

// ErrNotFound signals that no blob exists under the requested identifier.
var ErrNotFound = errors.New("blob not found")

// Store maps opaque file identifiers to byte streams on durable storage.
//
// Keys are UUIDs rather than free-form strings so no caller-controlled path
// fragments ever reach a backend.
type Store interface {
	// Put streams r into storage under id, replacing any prior content.
	// A partially written object is never observable under id.
	Put(ctx context.Context, id uuid.UUID, r io.Reader, size int64) (int64, error)
	// Get opens the blob for reading. The caller closes the reader.
	Get(ctx context.Context, id uuid.UUID) (io.ReadCloser, int64, error)
	// Delete removes the blob. Deleting an absent blob is a no-op.
	Delete(ctx context.Context, id uuid.UUID) error
}
