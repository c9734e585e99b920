package diagfmt

import (
	"os"
	"path/filepath"
)

const autoPathLimit = 40

// FormatPath renders path according to mode.
func FormatPath(path string, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if baseDir == "" {
			// Если базовая директория не указана, используем текущую
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := filepath.Rel(baseDir, path); err == nil {
			return filepath.ToSlash(rel)
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAuto:
		if len(path) >= autoPathLimit && filepath.IsAbs(path) {
			return filepath.Base(path)
		}
	}
	return path
}
