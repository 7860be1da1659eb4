// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     registry
// Description: Document and directory selectors
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package registry

import (
	"fmt"
	"path/filepath"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/properties"
)

// Selector identifies one registered document
type Selector interface {
	fmt.Stringer
	selector()
}

type byName string
type byIndex int
type byRelativePath string
type byAbsolutePath string

// ByName selects the document registered under name
func ByName(name string) Selector { return byName(name) }

// ByIndex selects by insertion position; -1 is the last document
func ByIndex(index int) Selector { return byIndex(index) }

// ByRelativePath selects the document bound to path, resolved against the
// registry's working directory
func ByRelativePath(path string) Selector { return byRelativePath(path) }

// ByAbsolutePath selects the document bound to path
func ByAbsolutePath(path string) Selector { return byAbsolutePath(path) }

func (byName) selector()         {}
func (byIndex) selector()        {}
func (byRelativePath) selector() {}
func (byAbsolutePath) selector() {}

func (s byName) String() string         { return fmt.Sprintf("name=%s", string(s)) }
func (s byIndex) String() string        { return fmt.Sprintf("index=%d", int(s)) }
func (s byRelativePath) String() string { return fmt.Sprintf("relative=%s", string(s)) }
func (s byAbsolutePath) String() string { return fmt.Sprintf("absolute=%s", string(s)) }

// DirSelector identifies one tracked directory
type DirSelector interface {
	fmt.Stringer
	dirSelector()
}

type dirByName string
type dirByPath string

// DirByName selects a tracked directory by its display name
func DirByName(name string) DirSelector { return dirByName(name) }

// DirByPath selects a tracked directory by path
func DirByPath(path string) DirSelector { return dirByPath(path) }

func (dirByName) dirSelector() {}
func (dirByPath) dirSelector() {}

func (s dirByName) String() string { return fmt.Sprintf("name=%s", string(s)) }
func (s dirByPath) String() string { return fmt.Sprintf("path=%s", string(s)) }

// isSoft reports whether a failed lookup with sel yields no result instead
// of an error
func isSoft(sel Selector) bool {
	switch sel.(type) {
	case byRelativePath, byAbsolutePath:
		return true
	default:
		return false
	}
}

// resolve returns the position of the selected document
func (r *Registry) resolve(sel Selector, op string) (int, error) {
	switch s := sel.(type) {
	case byName:
		for i, name := range r.names {
			if name == string(s) {
				return i, nil
			}
		}
		return -1, mdwerror.New("unknown document name").
			WithCode(mdwerror.CodeUnknownName).
			WithOperation(op).
			WithDetail("name", string(s))

	case byIndex:
		n := len(r.names)
		idx := int(s)
		if idx >= n || idx < -n {
			return -1, mdwerror.Newf("index %d out of bounds: max=%d, min=%d", idx, n-1, -n).
				WithCode(mdwerror.CodeIndexOutOfRange).
				WithOperation(op).
				WithDetail("index", idx)
		}
		if idx < 0 {
			idx += n
		}
		return idx, nil

	case byRelativePath:
		return r.resolvePath(string(s), op)

	case byAbsolutePath:
		return r.resolvePath(string(s), op)

	default:
		return -1, mdwerror.New("unsupported selector").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(op)
	}
}

func (r *Registry) resolvePath(path, op string) (int, error) {
	abs, err := r.fs.Abs(path)
	if err != nil {
		return -1, err
	}
	for i, name := range r.names {
		if bound := r.docs[name].Path(); bound != "" && filepath.Clean(bound) == abs {
			return i, nil
		}
	}
	return -1, mdwerror.New("no document bound to path").
		WithCode(mdwerror.CodeNoMatch).
		WithOperation(op).
		WithDetail("path", abs)
}

// lookup resolves sel and maps soft misses to (-1, nil)
func (r *Registry) lookup(sel Selector, op string) (int, error) {
	pos, err := r.resolve(sel, op)
	if err != nil && isSoft(sel) && mdwerror.HasCode(err, mdwerror.CodeNoMatch) {
		return -1, nil
	}
	return pos, err
}

// Resolve returns the selected document. Unlike Get, a path selector that
// matches nothing fails with CodeNoMatch.
func (r *Registry) Resolve(sel Selector) (*properties.Document, error) {
	pos, err := r.resolve(sel, "registry.Resolve")
	if err != nil {
		return nil, err
	}
	return r.docs[r.names[pos]], nil
}

// resolveDir returns the key of the selected directory
func (r *Registry) resolveDir(sel DirSelector, op string) (string, error) {
	switch s := sel.(type) {
	case dirByName:
		for _, key := range r.dirOrder {
			if r.directories[key].name == string(s) {
				return key, nil
			}
		}
	case dirByPath:
		abs, err := r.fs.Abs(string(s))
		if err != nil {
			return "", err
		}
		if _, ok := r.directories[abs]; ok {
			return abs, nil
		}
	default:
		return "", mdwerror.New("unsupported directory selector").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(op)
	}
	return "", mdwerror.New("directory not registered").
		WithCode(mdwerror.CodeDirectoryNotRegistered).
		WithOperation(op).
		WithDetail("directory", sel.String())
}
