package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Local stores blobs as flat files under a root directory, one file per
// identifier. Writes go through a temp file and an atomic rename so readers
// never observe a partial object.
type Local struct {
	root string
}

// NewLocal creates a Local store rooted at root, creating the directory if needed.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", root, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	return &Local{root: absRoot}, nil
}

func (l *Local) path(id uuid.UUID) string {
	return filepath.Join(l.root, id.String())
}

// Put streams r to the blob's final path via a temp file + atomic rename.
func (l *Local) Put(ctx context.Context, id uuid.UUID, r io.Reader, size int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dest := l.path(id)
	tmp := dest + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return 0, fmt.Errorf("open tmp %q: %w", tmp, err)
	}

	n, werr := io.Copy(f, r)
	cerr := f.Close()

	if werr != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("stream write: %w", werr)
	}
	if cerr != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("flush: %w", cerr)
	}
	if size >= 0 && n != size {
		os.Remove(tmp)
		return 0, fmt.Errorf("short write: got %d bytes, want %d", n, size)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("rename to %q: %w", dest, err)
	}
	return n, nil
}

// Get opens the blob for sequential reading.
func (l *Local) Get(ctx context.Context, id uuid.UUID) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	f, err := os.Open(l.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("open blob %s: %w", id, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat blob %s: %w", id, err)
	}
	return f, info.Size(), nil
}

// Delete removes the blob, succeeding when it is already absent.
func (l *Local) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(l.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob %s: %w", id, err)
	}
	return nil
}
