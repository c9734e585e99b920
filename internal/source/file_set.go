package source

import (
	"fmt"

	"fortio.org/safecast"
)

// FileSet holds the files spans point into. A pack's files are added in
// pack order, so FileID 0 is the first file of the pack.
type FileSet struct {
	files []*File
}

func NewFileSet() *FileSet { return &FileSet{} }

// Add stores content under path and returns its id. Adding the same path
// twice gives two files.
func (s *FileSet) Add(path string, content []byte) (FileID, error) {
	n, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		return 0, fmt.Errorf("too many files: %w", err)
	}
	f, err := newFile(FileID(n), path, content)
	if err != nil {
		return 0, err
	}
	s.files = append(s.files, f)
	return f.ID, nil
}

// Get returns the file with id, or nil.
func (s *FileSet) Get(id FileID) *File {
	if s == nil || int(id) >= len(s.files) {
		return nil
	}
	return s.files[id]
}

func (s *FileSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.files)
}

// Resolve returns the start and end positions of sp. Spans into unknown
// files resolve to zero positions.
func (s *FileSet) Resolve(sp Span) (start, end Pos) {
	f := s.Get(sp.File)
	if f == nil {
		return Pos{}, Pos{}
	}
	return f.Position(sp.Start), f.Position(sp.End)
}
