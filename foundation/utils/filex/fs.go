// File: fs.go
// Title: Filesystem Abstraction
// Description: The FS interface is the boundary between the property
//              toolkit and the host filesystem. OSFS is the default
//              implementation; tests and embedders can substitute their own.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package filex

import "os"

// FS is the set of filesystem operations property documents and the
// registry depend on.
type FS interface {
	// Abs resolves path to a cleaned absolute path
	Abs(path string) (string, error)
	// ReadLines returns the file's lines without terminators
	ReadLines(path string) ([]string, error)
	// WriteFile replaces the file's content
	WriteFile(path string, data []byte) error
	// ListFiles lists files with the given extension directly inside dir
	ListFiles(dir, ext string) ([]string, error)
	// Exists reports whether path exists
	Exists(path string) bool
}

// OSFS implements FS on the host filesystem. Relative paths are resolved
// against Cwd, or the process working directory when Cwd is empty.
type OSFS struct {
	Cwd  string
	Perm os.FileMode
}

// Default returns an OSFS rooted at the process working directory
func Default() OSFS {
	return OSFS{Perm: 0644}
}

// Abs implements FS
func (o OSFS) Abs(path string) (string, error) {
	return AbsPath(path, o.Cwd)
}

// ReadLines implements FS
func (o OSFS) ReadLines(path string) ([]string, error) {
	abs, err := o.Abs(path)
	if err != nil {
		return nil, err
	}
	return ReadLines(abs)
}

// WriteFile implements FS
func (o OSFS) WriteFile(path string, data []byte) error {
	abs, err := o.Abs(path)
	if err != nil {
		return err
	}
	perm := o.Perm
	if perm == 0 {
		perm = 0644
	}
	return WriteFileAtomic(abs, data, perm)
}

// ListFiles implements FS and returns absolute paths
func (o OSFS) ListFiles(dir, ext string) ([]string, error) {
	abs, err := o.Abs(dir)
	if err != nil {
		return nil, err
	}
	infos, err := ListFiles(abs, ext)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(infos))
	for i, info := range infos {
		paths[i] = info.Path
	}
	return paths, nil
}

// Exists implements FS
func (o OSFS) Exists(path string) bool {
	abs, err := o.Abs(path)
	if err != nil {
		return false
	}
	return Exists(abs)
}
