package dispatch

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// UniqueName returns base if dir has no entry of that name, otherwise the
// first free "<stem> <n><.ext>" for n = 1, 2, 3... Directories are numbered
// without splitting an extension. Existence is probed on every step and
// nothing is locked, so a concurrent creator can still race the result.
func UniqueName(dir, base string, isDir bool) string {
	if !exists(filepath.Join(dir, base)) {
		return base
	}

	stem, ext := base, ""
	if !isDir {
		stem, ext = splitExt(base)
	}

	for n := 1; ; n++ {
		name := stem + " " + strconv.Itoa(n) + ext
		if !exists(filepath.Join(dir, name)) {
			return name
		}
	}
}

// UniquePath joins dir with UniqueName(dir, base, isDir).
func UniquePath(dir, base string, isDir bool) string {
	return filepath.Join(dir, UniqueName(dir, base, isDir))
}

// splitExt splits at the last dot. A leading dot marks a hidden name, not an
// extension, so ".env" has none.
func splitExt(name string) (stem, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !os.IsNotExist(err)
}
