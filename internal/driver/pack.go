package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"hirlower/internal/ast"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

const (
	// PackSchema is bumped whenever the layout of Pack or of the surface tree
	// changes.
	PackSchema uint16 = 1
	// PackExt is the file extension of packs.
	PackExt = ".hlpack"
)

// ErrPackSchema is wrapped when a pack was written by an incompatible version.
var ErrPackSchema = errors.New("unsupported pack schema")

// PackFile is a source file the spans of a pack point into. Files are
// numbered by position: the first one is source.FileID 0.
type PackFile struct {
	Path    string `msgpack:"path"`
	Content []byte `msgpack:"content"`
}

// Pack is the input of one lowering run: an expanded surface crate plus the
// resolutions computed for it.
type Pack struct {
	Schema      uint16           `msgpack:"schema"`
	Name        string           `msgpack:"name"`
	Files       []PackFile       `msgpack:"files"`
	Crate       *ast.Crate       `msgpack:"crate"`
	Resolutions resolve.Snapshot `msgpack:"resolutions"`
}

// NewPack snapshots tbl and bundles it with krate.
func NewPack(name string, krate *ast.Crate, tbl *resolve.Table, files ...PackFile) *Pack {
	return &Pack{
		Schema:      PackSchema,
		Name:        name,
		Files:       files,
		Crate:       krate,
		Resolutions: tbl.Snapshot(),
	}
}

// FileSet loads the pack files as virtual files.
func (p *Pack) FileSet() (*source.FileSet, error) {
	fs := source.NewFileSet()
	for _, f := range p.Files {
		if _, err := fs.Add(f.Path, f.Content); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// Resolver rebuilds the resolution table.
func (p *Pack) Resolver() *resolve.Table {
	return resolve.FromSnapshot(p.Resolutions)
}

// EncodePack writes p in msgpack form.
func EncodePack(w io.Writer, p *Pack) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(p)
}

// DecodePack parses a pack and checks its schema.
func DecodePack(data []byte) (*Pack, error) {
	var p Pack
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}
	if p.Schema != PackSchema {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPackSchema, p.Schema, PackSchema)
	}
	if p.Crate == nil {
		return nil, fmt.Errorf("decode pack: missing crate")
	}
	return &p, nil
}

// WritePack stores p at path, replacing the file atomically.
func WritePack(path string, p *Pack) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".pack-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to remove temp file: %v\n", rmErr)
		}
	}()
	if err := EncodePack(f, p); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode pack: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ExpandPackPaths replaces directories by the packs they contain, sorted for
// a deterministic order. Plain files are kept as given.
func ExpandPackPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !st.IsDir() {
			out = append(out, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, PackExt) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
