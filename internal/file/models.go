package file

import (
	"time"

	"github.com/google/uuid"
)

// File is the metadata record for a stored blob. The identifier doubles as the
// blob store key. A nil DirectoryID places the file at the owner's root,
// outside any named directory. Name is the original uploaded filename and is
// not unique.
type File struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	DirectoryID *uuid.UUID `json:"directory_id"`
	Name        string     `json:"name"`
	SizeBytes   int64      `json:"size_bytes"`
	CreatedAt   time.Time  `json:"created_at"`
}
