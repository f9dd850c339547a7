package directory

import "errors"

var (
	// ErrNotFound signals that the directory could not be located.
	ErrNotFound = errors.New("directory not found")
	// ErrParentNotFound indicates the requested parent directory does not exist.
	ErrParentNotFound = errors.New("parent directory does not exist")
	// ErrNameExists is returned when a sibling with the same name already exists.
	ErrNameExists = errors.New("directory already exists")
	// ErrBrokenChain marks a missing or cyclic ancestor reference. This is data
	// corruption, not a user error.
	ErrBrokenChain = errors.New("broken directory ancestor chain")
)
