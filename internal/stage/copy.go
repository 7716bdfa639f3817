package stage

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// CopyTree copies every file under srcDir in fsys into dst, creating
// directories as needed and overwriting files that already exist.
// It returns the number of files written.
func CopyTree(fsys fs.FS, srcDir, dst string) (int, error) {
	count := 0
	err := fs.WalkDir(fsys, srcDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := relSlash(srcDir, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, dirPerm)
		}

		if err = CopyStub(fsys, p, target); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("copying %s to %s: %w", srcDir, dst, err)
	}
	return count, nil
}

// CopyStub copies a single file from fsys to dst, overwriting dst.
func CopyStub(fsys fs.FS, src, dst string) error {
	data, err := fs.ReadFile(fsys, src)
	if err != nil {
		return fmt.Errorf("reading stub %s: %w", src, err)
	}
	if err = os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dst, err)
	}
	if err = os.WriteFile(dst, data, filePerm); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

// relSlash returns p relative to base for slash-separated fs paths.
func relSlash(base, p string) (string, error) {
	if base == "." || base == "" {
		return p, nil
	}
	if p == base {
		return ".", nil
	}
	prefix := path.Clean(base) + "/"
	if len(p) <= len(prefix) || p[:len(prefix)] != prefix {
		return "", fmt.Errorf("%s is outside %s", p, base)
	}
	return p[len(prefix):], nil
}

// copyFile copies a file on disk from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, copyErr := io.Copy(dstFile, srcFile); copyErr != nil {
		_ = dstFile.Close()
		return fmt.Errorf("copying file: %w", copyErr)
	}

	if closeErr := dstFile.Close(); closeErr != nil {
		return fmt.Errorf("closing destination: %w", closeErr)
	}

	return nil
}

// copyDir recursively copies the directory src on disk to dst.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, dirPerm)
		}
		return copyFile(p, target)
	})
}
