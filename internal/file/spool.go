package file

import (
	"fmt"
	"io"
	"os"
)

// spool is the temporary holding area for an inbound upload. It exists only
// for the duration of one request and is removed on every path.
type spool struct {
	f    *os.File
	size int64
}

// newSpool drains r into a fresh temp file under dir.
func newSpool(dir string, r io.Reader) (*spool, error) {
	f, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("create spool file: %w", err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("spool upload: %w", err)
	}

	return &spool{f: f, size: n}, nil
}

// Reader rewinds the spool for a full re-read.
func (s *spool) Reader() (io.Reader, error) {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind spool: %w", err)
	}
	return s.f, nil
}

// Cleanup closes and removes the spool file.
func (s *spool) Cleanup() {
	s.f.Close()
	os.Remove(s.f.Name())
}
