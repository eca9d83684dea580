package dispatch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// createAttempts bounds retries when another process claims a name first.
const createAttempts = 5

// createFile writes data to a fresh, uniquely named file in dir.
func createFile(dir, name string, data []byte) (string, error) {
	for i := 0; i < createAttempts; i++ {
		dest := UniquePath(dir, name, false)
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", err
		}
		return dest, f.Close()
	}
	return "", fmt.Errorf("could not claim a free name for %q in %s", name, dir)
}

// createDir makes a fresh, uniquely named directory in dir.
func createDir(dir, name string) (string, error) {
	for i := 0; i < createAttempts; i++ {
		dest := UniquePath(dir, name, true)
		err := os.Mkdir(dest, 0o755)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		return dest, nil
	}
	return "", fmt.Errorf("could not claim a free name for %q in %s", name, dir)
}

// movePath moves src into dir under a unique name, copying when src is on
// another device. Moving an entry into the directory it is already in leaves
// it untouched.
func movePath(src, dir string) (string, error) {
	fi, err := os.Lstat(src)
	if err != nil {
		return "", err
	}
	if sameDir(filepath.Dir(src), dir) {
		return src, nil
	}
	dest := UniquePath(dir, filepath.Base(src), fi.IsDir())

	err = os.Rename(src, dest)
	if err == nil {
		return dest, nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return "", err
	}

	if err := copyPath(src, dest); err != nil {
		_ = os.RemoveAll(dest)
		return "", err
	}
	return dest, os.RemoveAll(src)
}

func sameDir(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// copyInto copies src into dir under a unique name.
func copyInto(src, dir string) (string, error) {
	fi, err := os.Lstat(src)
	if err != nil {
		return "", err
	}
	dest := UniquePath(dir, filepath.Base(src), fi.IsDir())
	return dest, copyPath(src, dest)
}

// copyPath copies a file, symlink or directory tree from src to dest.
func copyPath(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dest string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
