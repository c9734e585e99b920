package project

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// ConfigFileName is the name of the per-project configuration file.
const ConfigFileName = "hirlower.toml"

// ancestors yields dir and each of its parents up to the filesystem root.
func ancestors(dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			if !yield(dir) {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	}
}

// FindConfig returns the nearest hirlower.toml at or above startDir. A
// directory with that name does not count.
func FindConfig(startDir string) (path string, ok bool, err error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for dir := range ancestors(abs) {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil {
			if info.Mode().IsRegular() {
				return candidate, true, nil
			}
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
	}
	return "", false, nil
}

// FindProjectRoot returns the directory holding the nearest hirlower.toml.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	path, ok, err := FindConfig(startDir)
	if !ok {
		return "", false, err
	}
	return filepath.Dir(path), true, nil
}
