package stage

import (
	"fmt"
	"os"
	"strings"
)

// AppendRouteInclude appends statement to the route file at path unless it
// is already present. The file must exist. When backup is enabled the file
// is backed up once before it is modified. It reports whether the file was
// changed and whether a backup was written.
func AppendRouteInclude(path, statement, suffix string, backup bool) (appended, backedUp bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, false, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return false, false, fmt.Errorf("checking %s: %w", path, err)
	}

	if backup {
		if backedUp, err = BackupOnce(path, suffix); err != nil {
			return false, false, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, backedUp, fmt.Errorf("reading %s: %w", path, err)
	}

	content, changed := withRouteInclude(string(data), statement)
	if !changed {
		return false, backedUp, nil
	}

	if err = os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return false, backedUp, fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	return true, backedUp, nil
}

// withRouteInclude returns content with statement appended after a blank
// line, normalizing a missing trailing newline first.
func withRouteInclude(content, statement string) (string, bool) {
	if strings.Contains(content, statement) {
		return content, false
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + statement + "\n", true
}
