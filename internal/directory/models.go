package directory

import (
	"time"

	"github.com/google/uuid"
)

// Directory is a named node in a per-owner forest. A nil ParentID marks a
// root-level directory.
type Directory struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// PathEntry is one ancestor in a root-first directory path.
type PathEntry struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
