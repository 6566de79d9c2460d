package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits. Symlinks are followed.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// WriteFile writes data to path and then forces mode, so the result does not
// depend on the process umask or on the mode of a pre-existing file.
func WriteFile(path string, data []byte, mode os.FileMode) error {
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := Chmod(path, mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	return nil
}

// ModeDiffers reports whether info's permission bits differ from mode. It is
// always false on Windows, where Chmod cannot change them.
func ModeDiffers(info os.FileInfo, mode os.FileMode) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	return info.Mode().Perm() != mode.Perm()
}
