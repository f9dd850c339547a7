package file

import "errors"

var (
	// ErrFileNotFound signals that the file could not be located.
	ErrFileNotFound = errors.New("file not found")
	// ErrDirectoryNotFound indicates the upload target directory does not exist.
	ErrDirectoryNotFound = errors.New("directory does not exist")
	// ErrBlobMissing marks a metadata record whose blob is gone. The registry
	// and blob store are kept in step by the upload and delete protocols, so
	// this is storage corruption rather than a user error.
	ErrBlobMissing = errors.New("blob missing for file record")
)
