package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// maxPathDepth bounds the ancestor walk. A chain longer than this can only be
// produced by corrupt data and is treated as such.
const maxPathDepth = 1024

type repository interface {
	Create(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID) (Directory, error)
	Get(ctx context.Context, id uuid.UUID) (Directory, error)
	ListByParent(ctx context.Context, parentID *uuid.UUID) ([]Directory, error)
}

// Service maintains the directory forest.
type Service struct {
	repo repository
}

// NewService constructs a directory service.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// Create adds a directory under parentID (root-level when nil). The parent must
// exist and no sibling may carry the same name.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID) (Directory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Directory{}, fmt.Errorf("directory name required")
	}

	if parentID != nil {
		if _, err := s.repo.Get(ctx, *parentID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return Directory{}, ErrParentNotFound
			}
			return Directory{}, err
		}
	}

	return s.repo.Create(ctx, ownerID, name, parentID)
}

// Get returns the directory with the given identifier.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Directory, error) {
	return s.repo.Get(ctx, id)
}

// List returns the directories under parentID, or the root-level set when
// parentID is nil.
func (s *Service) List(ctx context.Context, parentID *uuid.UUID) ([]Directory, error) {
	return s.repo.ListByParent(ctx, parentID)
}

// ResolvePath walks parent references from id up to its root and returns the
// chain root-first. The walk is iterative; a missing ancestor or a cycle is
// reported as ErrBrokenChain.
func (s *Service) ResolvePath(ctx context.Context, id uuid.UUID) ([]PathEntry, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	path := []PathEntry{{ID: current.ID, Name: current.Name}}
	seen := map[uuid.UUID]struct{}{current.ID: {}}

	for current.ParentID != nil {
		if len(path) >= maxPathDepth {
			return nil, fmt.Errorf("%w: depth limit exceeded at %s", ErrBrokenChain, current.ID)
		}

		parent, err := s.repo.Get(ctx, *current.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: missing ancestor %s", ErrBrokenChain, *current.ParentID)
			}
			return nil, err
		}
		if _, dup := seen[parent.ID]; dup {
			return nil, fmt.Errorf("%w: cycle through %s", ErrBrokenChain, parent.ID)
		}

		seen[parent.ID] = struct{}{}
		path = append([]PathEntry{{ID: parent.ID, Name: parent.Name}}, path...)
		current = parent
	}

	return path, nil
}
