package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"

	"fortio.org/safecast"
)

// FileID indexes a file inside its FileSet.
type FileID uint32

// Pos is a 1-based line and column; columns count bytes.
type Pos struct {
	Line uint32
	Col  uint32
}

// File is one source text. Content is stored without a BOM and with CRLF
// line endings folded to LF, so offsets in spans refer to the folded text.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	starts  []uint32 // offset of the first byte of each line
}

var bom = []byte{0xEF, 0xBB, 0xBF}

func newFile(id FileID, path string, content []byte) (*File, error) {
	content = bytes.TrimPrefix(content, bom)
	if bytes.IndexByte(content, '\r') >= 0 {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	}
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return nil, fmt.Errorf("%s: file too large: %w", path, err)
	}
	starts := []uint32{0}
	for off := uint32(0); off < size; off++ {
		if content[off] == '\n' {
			starts = append(starts, off+1)
		}
	}
	return &File{
		ID:      id,
		Path:    filepath.ToSlash(filepath.Clean(path)),
		Content: content,
		starts:  starts,
	}, nil
}

// Lines reports the number of lines; a trailing newline opens an empty last
// line.
func (f *File) Lines() int { return len(f.starts) }

// Position maps a byte offset to a line and column. Offsets past the end are
// clamped.
func (f *File) Position(off uint32) Pos {
	off = min(off, uint32(len(f.Content))) //nolint:gosec // checked in newFile
	// последняя строка, начало которой не дальше off
	i := sort.Search(len(f.starts), func(i int) bool { return f.starts[i] > off }) - 1
	return Pos{Line: uint32(i + 1), Col: off - f.starts[i] + 1} //nolint:gosec // i < len(starts)
}

// Line returns the text of line n (1-based) without its newline, or "" when
// n is out of range.
func (f *File) Line(n uint32) string {
	if f == nil || n == 0 || int(n) > len(f.starts) {
		return ""
	}
	start := f.starts[n-1]
	end := uint32(len(f.Content)) //nolint:gosec // checked in newFile
	if int(n) < len(f.starts) {
		end = f.starts[n] - 1
	}
	return string(f.Content[start:end])
}
