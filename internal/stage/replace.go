package stage

import (
	"fmt"
	"os"
	"strings"
)

// ReplaceInFile replaces every occurrence of search with replace in the file
// at path. It reports whether the content changed.
func ReplaceInFile(path, search, replace string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return false, fmt.Errorf("checking %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	updated := strings.ReplaceAll(string(data), search, replace)
	if updated == string(data) {
		return false, nil
	}

	if err = os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	return true, nil
}

// AddViteEntry adds the CMS entry next to the app entry in vite.config.js.
// A config that already lists the CMS entry is left unchanged.
func AddViteEntry(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.Contains(string(data), viteCMSJS) {
		return false, nil
	}
	return ReplaceInFile(path, viteSearch, viteReplace)
}
