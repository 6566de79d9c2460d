package platform

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// CreateSymlink creates link pointing at target. On Windows, when native
// symlinks are unavailable, target is copied to link instead.
func CreateSymlink(target, link string) error {
	err := os.Symlink(target, link)
	if err == nil || runtime.GOOS != "windows" || errors.Is(err, fs.ErrExist) {
		return err
	}

	if cpErr := copyFile(resolveTarget(target, link), link); cpErr != nil {
		return fmt.Errorf("symlink fallback (copy) failed: %w", cpErr)
	}
	return nil
}

// ReplaceSymlink points link at target, replacing an existing symlink or
// file. Directories are never removed.
func ReplaceSymlink(target, link string) error {
	info, err := os.Lstat(link)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%s is a directory", link)
	case err == nil:
		if err := os.Remove(link); err != nil {
			return fmt.Errorf("removing %s: %w", link, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	return CreateSymlink(target, link)
}

// IsSymlinkTo reports whether link is a symlink whose target is target.
func IsSymlinkTo(link, target string) bool {
	got, err := os.Readlink(link)
	return err == nil && got == target
}

// resolveTarget resolves a relative symlink target against the link's
// directory, which is how the OS would interpret it.
func resolveTarget(target, link string) string {
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(filepath.Dir(link), target)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
