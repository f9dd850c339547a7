package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/ybolat/filevault/internal/blob"
	"github.com/ybolat/filevault/internal/directory"
)

type metadataStore interface {
	Create(ctx context.Context, meta File) (File, error)
	List(ctx context.Context, directoryID *uuid.UUID) ([]File, error)
	Get(ctx context.Context, fileID uuid.UUID) (File, error)
	Delete(ctx context.Context, fileID uuid.UUID) (File, error)
}

type directoryIndex interface {
	Get(ctx context.Context, id uuid.UUID) (directory.Directory, error)
}

// Service coordinates the file registry with the blob store so the two never
// diverge durably: metadata is written first inside a transaction, bytes
// second, and the metadata write is compensated when the blob write fails.
type Service struct {
	repo     metadataStore
	dirs     directoryIndex
	blobs    blob.Store
	spoolDir string
}

// NewService constructs a file service. spoolDir holds in-flight uploads.
func NewService(repo metadataStore, dirs directoryIndex, blobs blob.Store, spoolDir string) *Service {
	return &Service{
		repo:     repo,
		dirs:     dirs,
		blobs:    blobs,
		spoolDir: spoolDir,
	}
}

// Upload receives an inbound multipart file targeting directoryID (owner root
// when nil). The stream is spooled to a temp file, the target directory
// validated, metadata committed transactionally, and the bytes moved into the
// blob store. Any failure unwinds every partial effect; the spool file is
// removed on all paths.
func (s *Service) Upload(ctx context.Context, ownerID uuid.UUID, directoryID *uuid.UUID, fileHeader *multipart.FileHeader) (File, error) {
	if fileHeader == nil {
		return File{}, fmt.Errorf("missing file payload")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return File{}, fmt.Errorf("open upload file: %w", err)
	}
	defer src.Close()

	sp, err := newSpool(s.spoolDir, src)
	if err != nil {
		return File{}, err
	}
	defer sp.Cleanup()

	if directoryID != nil {
		if _, err := s.dirs.Get(ctx, *directoryID); err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				return File{}, ErrDirectoryNotFound
			}
			return File{}, fmt.Errorf("validate directory: %w", err)
		}
	}

	meta := File{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		DirectoryID: directoryID,
		Name:        sanitizeFilename(fileHeader.Filename),
		SizeBytes:   sp.size,
	}

	stored, err := s.repo.Create(ctx, meta)
	if err != nil {
		return File{}, err
	}

	r, err := sp.Reader()
	if err != nil {
		return File{}, s.compensate(ctx, stored.ID, err)
	}
	if _, err := s.blobs.Put(ctx, stored.ID, r, sp.size); err != nil {
		return File{}, s.compensate(ctx, stored.ID, fmt.Errorf("store blob: %w", err))
	}

	return stored, nil
}

// compensate deletes the metadata record written before a failed blob write.
// No durable File record may survive without a matching blob.
func (s *Service) compensate(ctx context.Context, fileID uuid.UUID, cause error) error {
	if _, err := s.repo.Delete(ctx, fileID); err != nil && !errors.Is(err, ErrFileNotFound) {
		return fmt.Errorf("%w (compensating metadata delete failed: %v)", cause, err)
	}
	return cause
}

// List returns file metadata for a directory (owner root when nil).
func (s *Service) List(ctx context.Context, directoryID *uuid.UUID) ([]File, error) {
	return s.repo.List(ctx, directoryID)
}

// Get returns metadata for a single file.
func (s *Service) Get(ctx context.Context, fileID uuid.UUID) (File, error) {
	return s.repo.Get(ctx, fileID)
}

// Download retrieves metadata and a reader over the blob contents.
func (s *Service) Download(ctx context.Context, fileID uuid.UUID) (File, io.ReadCloser, error) {
	meta, err := s.repo.Get(ctx, fileID)
	if err != nil {
		return File{}, nil, err
	}

	rc, _, err := s.blobs.Get(ctx, meta.ID)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return File{}, nil, fmt.Errorf("%w: %s", ErrBlobMissing, meta.ID)
		}
		return File{}, nil, fmt.Errorf("fetch blob: %w", err)
	}

	return meta, rc, nil
}

// Delete removes the blob (tolerating its absence) and then the metadata
// record. The metadata removal is never skipped.
func (s *Service) Delete(ctx context.Context, fileID uuid.UUID) error {
	meta, err := s.repo.Get(ctx, fileID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, meta.ID); err != nil {
		return fmt.Errorf("remove blob: %w", err)
	}

	if _, err := s.repo.Delete(ctx, fileID); err != nil {
		return err
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "upload"
	}
	return name
}
