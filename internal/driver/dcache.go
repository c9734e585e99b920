package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"hirlower/internal/diag"
	"hirlower/internal/project"
)

// cacheSchema changes whenever CachedResult or the lowering output does.
const cacheSchema uint16 = 2

// CachedResult is what a lowering run leaves behind for the next identical
// run: everything the CLI prints, not the HIR itself.
type CachedResult struct {
	Name        string
	Summary     Summary
	Dump        string
	Diagnostics []diag.Diagnostic
}

// cacheEntry is the on-disk envelope of a CachedResult.
type cacheEntry struct {
	Schema  uint16
	Key     string
	Payload CachedResult
}

// DiskCache keeps CachedResults on disk under the digest of the pack bytes
// and the options. One file per entry, written by rename, so concurrent
// packs never see a partial entry.
type DiskCache struct {
	mu  sync.RWMutex // DropAll против остальных
	dir string
}

// DefaultCacheDir returns $XDG_CACHE_HOME/<app>, falling back to ~/.cache.
func DefaultCacheDir(app string) (string, error) {
	if base := os.Getenv("XDG_CACHE_HOME"); base != "" {
		return filepath.Join(base, app), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", app), nil
}

// OpenDiskCache creates dir if needed.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) entries() string { return filepath.Join(c.dir, "lower") }

func (c *DiskCache) pathFor(key project.Digest) string {
	hex := key.String()
	return filepath.Join(c.entries(), hex[:2], hex+".mp")
}

// Put stores payload under key, replacing any previous entry.
func (c *DiskCache) Put(key project.Digest, payload *CachedResult) error {
	if c == nil {
		return nil
	}
	data, err := msgpack.Marshal(&cacheEntry{Schema: cacheSchema, Key: key.String(), Payload: *payload})
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	path := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return err
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	return nil
}

// Get loads the entry for key into out. A missing entry, or one written by
// another schema, is a miss.
func (c *DiskCache) Get(key project.Digest, out *CachedResult) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.pathFor(key))
	c.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var entry cacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if entry.Schema != cacheSchema || entry.Key != key.String() {
		return false, nil
	}
	*out = entry.Payload
	return true, nil
}

// DropAll removes every entry; the cache stays usable.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.entries())
}
