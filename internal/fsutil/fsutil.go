// Package fsutil holds the file primitives shared by sync and mirror.
package fsutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrUnsafePath is returned by SafeJoin for paths that leave their root.
var ErrUnsafePath = errors.New("path escapes root")

// CopyFile copies src to dst with an atomic write, preserving the
// permission bits and modification time of src. Missing parent directories
// of dst are created.
func CopyFile(src, dst string) error {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	// Create temp file in destination directory
	tmpFile, err := os.CreateTemp(filepath.Dir(dst), ".localesync-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}() // cleanup on error

	if _, err := io.Copy(tmpFile, srcFile); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Chmod(srcInfo.Mode().Perm()); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chtimes(tmpPath, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, dst)
}

// CopyTree copies src to dst. A regular file is copied with CopyFile; a
// directory is recreated recursively with its files and symlinks. dst must
// not exist yet for directories to end up as an exact copy.
func CopyTree(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyEntry(src, dst, info.Mode())
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			dirInfo, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, dirInfo.Mode().Perm())
		}

		return copyEntry(path, target, d.Type())
	})
}

func copyEntry(src, dst string, mode fs.FileMode) error {
	if mode&fs.ModeSymlink != 0 {
		link, err := os.Readlink(src)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		return os.Symlink(link, dst)
	}
	return CopyFile(src, dst)
}

// RemovePath removes a file or a whole directory tree. A missing path is
// not an error.
func RemovePath(path string) error {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.RemoveAll(path)
}

// FileHash computes the SHA256 hash of a file
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// SameContent reports whether both files exist and have identical content.
func SameContent(a, b string) bool {
	ha, err := FileHash(a)
	if err != nil {
		return false
	}
	hb, err := FileHash(b)
	if err != nil {
		return false
	}
	return ha == hb
}

// SafeJoin joins rel onto root, rejecting absolute paths and paths that
// climb out of root with "..". The check is lexical: symlinks below root
// are followed like any other path, so a linked locale directory is
// written through rather than shadowed.
func SafeJoin(root, rel string) (string, error) {
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	return filepath.Join(root, rel), nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
