package stage

import (
	"bytes"
	"fmt"
	"os"
)

// BackupPath returns the backup location for path.
func BackupPath(path, suffix string) string {
	return path + suffix
}

// BackupOnce copies the file or directory at path to path+suffix unless that
// backup already exists or path itself does not exist. It reports whether a
// backup was written. An existing backup is never overwritten, so the first
// run's originals survive any number of re-runs.
func BackupOnce(path, suffix string) (bool, error) {
	backup := BackupPath(path, suffix)

	if _, err := os.Stat(backup); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking backup %s: %w", backup, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", path, err)
	}

	if info.IsDir() {
		err = copyDir(path, backup)
	} else {
		err = copyFile(path, backup)
	}
	if err != nil {
		return false, fmt.Errorf("backing up %s: %w", path, err)
	}
	return true, nil
}

// BackupThenOverwrite writes content to dest, first preserving the existing
// dest as dest+suffix when enabled and no backup exists yet. A dest that
// already holds content is left alone, so a file installed by an earlier run
// is never mistaken for a host original.
func BackupThenOverwrite(dest string, content []byte, suffix string, enabled bool) (bool, error) {
	if current, err := os.ReadFile(dest); err == nil && bytes.Equal(current, content) {
		return false, nil
	}

	backedUp := false
	if enabled {
		var err error
		if backedUp, err = BackupOnce(dest, suffix); err != nil {
			return false, err
		}
	}

	if err := os.WriteFile(dest, content, filePerm); err != nil {
		return backedUp, fmt.Errorf("%w: %s: %w", ErrWriteFailed, dest, err)
	}
	return backedUp, nil
}
