// File: filex.go
// Title: File Utilities
// Description: Filesystem helpers used by property documents and the
//              document registry: existence checks, line reading, atomic
//              writes, extension-filtered directory listing and path
//              normalization against a working directory.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive file utilities
// - 2026-10-19 v0.2.0: Reduced to the operations the property toolkit needs,
//                       atomic writes, structured errors

package filex

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
)

// FileInfo represents extended file information
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
	IsDir   bool
	Ext     string
}

// Exists checks if a file or directory exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsFile checks if the path exists and is a regular file
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir checks if the path exists and is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// GetFileInfo returns extended information about a file
func GetFileInfo(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, wrapPathError(err, "stat failed", "filex.GetFileInfo", path)
	}

	return FileInfo{
		Name:    info.Name(),
		Path:    path,
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
		Ext:     filepath.Ext(info.Name()),
	}, nil
}

// ReadLines reads the file and returns its lines without line terminators.
// Lines have no length limit. A missing file yields an error with
// CodeNotFound.
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, wrapPathError(err, "failed to open file", "filex.ReadLines", path)
	}
	defer file.Close()

	var lines []string
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, wrapPathError(err, "failed to read lines", "filex.ReadLines", path)
		}
	}
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return wrapPathError(err, "failed to create temp file", "filex.WriteFileAtomic", path)
	}
	tmpName := tmp.Name()

	fail := func(err error, msg string) error {
		tmp.Close()
		os.Remove(tmpName)
		return wrapPathError(err, msg, "filex.WriteFileAtomic", path)
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err, "failed to write temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		return fail(err, "failed to set permissions")
	}
	if err := tmp.Sync(); err != nil {
		return fail(err, "failed to sync temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return wrapPathError(err, "failed to close temp file", "filex.WriteFileAtomic", path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return wrapPathError(err, "failed to replace file", "filex.WriteFileAtomic", path)
	}
	return nil
}

// ListFiles returns the regular files directly inside dir whose extension
// equals ext (case-insensitive), sorted by name. An empty ext matches all
// files. Subdirectories are not descended into.
func ListFiles(dir, ext string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, wrapPathError(err, "failed to read directory", "filex.ListFiles", dir)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext != "" && !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}

		info, err := GetFileInfo(filepath.Join(dir, entry.Name()))
		if err != nil || !info.Mode.IsRegular() {
			continue
		}
		files = append(files, info)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// AbsPath resolves path against cwd and cleans it. An absolute path is
// only cleaned; an empty cwd means the process working directory.
func AbsPath(path, cwd string) (string, error) {
	if path == "" {
		return "", mdwerror.New("empty path").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("filex.AbsPath")
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	if cwd == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", wrapPathError(err, "failed to get absolute path", "filex.AbsPath", path)
		}
		return abs, nil
	}

	return filepath.Join(cwd, path), nil
}

// Base returns the last element of the path
func Base(path string) string {
	return filepath.Base(path)
}

// HasExt reports whether path has extension ext (case-insensitive)
func HasExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

func wrapPathError(err error, message, operation, path string) error {
	code := mdwerror.CodeIOError
	if errors.Is(err, fs.ErrNotExist) {
		code = mdwerror.CodeNotFound
	}
	return mdwerror.Wrap(err, message).
		WithCode(code).
		WithOperation(operation).
		WithDetail("path", path)
}
