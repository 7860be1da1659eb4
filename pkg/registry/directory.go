// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     registry
// Description: Directory tracking: bulk load, rescan and removal
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package registry

import (
	"errors"
	"path/filepath"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/properties"
)

// directory records the files a tracked directory contributed
type directory struct {
	name  string
	path  string
	files []trackedFile
}

type trackedFile struct {
	path string
	doc  *properties.Document
}

// DirectoryInfo describes a tracked directory
type DirectoryInfo struct {
	Name  string
	Path  string
	Files []string
}

// SetDirectory replaces the whole registry with the .properties files
// directly inside path. The registry is left unchanged when the directory
// cannot be listed.
func (r *Registry) SetDirectory(path string) error {
	abs, err := r.fs.Abs(path)
	if err != nil {
		return err
	}
	files, err := r.listDir(abs, "registry.SetDirectory")
	if err != nil {
		return err
	}

	r.reset()
	return r.loadDirectory(abs, filepath.Base(abs), files)
}

// AddDirectory loads the .properties files inside path without dropping
// existing documents. name defaults to the directory's base name. A
// directory already tracked under path, or under the defaulted name, is
// rescanned instead. An explicit name tracked for another path is a
// duplicate.
func (r *Registry) AddDirectory(path, name string) error {
	abs, err := r.fs.Abs(path)
	if err != nil {
		return err
	}
	if _, ok := r.directories[abs]; ok {
		return r.updateDirectory(abs)
	}

	explicit := name != ""
	if !explicit {
		name = filepath.Base(abs)
	}
	for _, key := range r.dirOrder {
		if r.directories[key].name != name {
			continue
		}
		if explicit {
			return mdwerror.New("directory name already in use").
				WithCode(mdwerror.CodeDuplicateEntry).
				WithOperation("registry.AddDirectory").
				WithDetail("name", name).
				WithDetail("directory", key)
		}
		r.logger.Info("directory already loaded, updating", "name", name, "directory", key)
		return r.updateDirectory(key)
	}

	files, err := r.listDir(abs, "registry.AddDirectory")
	if err != nil {
		return err
	}
	return r.loadDirectory(abs, name, files)
}

// RemoveDirectory unregisters every document the directory contributed
// and stops tracking it. The removed documents are returned in order.
func (r *Registry) RemoveDirectory(sel DirSelector) ([]*properties.Document, error) {
	key, err := r.resolveDir(sel, "registry.RemoveDirectory")
	if err != nil {
		return nil, err
	}
	return r.removeDirectory(key), nil
}

// RemoveDirectories removes every tracked directory and its documents.
// Documents added individually stay registered.
func (r *Registry) RemoveDirectories() []*properties.Document {
	var removed []*properties.Document
	keys := append([]string(nil), r.dirOrder...)
	for _, key := range keys {
		removed = append(removed, r.removeDirectory(key)...)
	}
	return removed
}

// UpdateDirectory rescans a tracked directory. New files are loaded and
// added; tracked files are reloaded in place. Tracked files missing from
// disk are reported and their documents keep their last content.
func (r *Registry) UpdateDirectory(sel DirSelector) error {
	key, err := r.resolveDir(sel, "registry.UpdateDirectory")
	if err != nil {
		return err
	}
	return r.updateDirectory(key)
}

// UpdateDirectories rescans every tracked directory
func (r *Registry) UpdateDirectories() error {
	var errs []error
	for _, key := range append([]string(nil), r.dirOrder...) {
		if err := r.updateDirectory(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Directories describes the tracked directories in the order they were
// added
func (r *Registry) Directories() []DirectoryInfo {
	infos := make([]DirectoryInfo, 0, len(r.dirOrder))
	for _, key := range r.dirOrder {
		dir := r.directories[key]
		files := make([]string, len(dir.files))
		for i, f := range dir.files {
			files[i] = f.path
		}
		infos = append(infos, DirectoryInfo{Name: dir.name, Path: dir.path, Files: files})
	}
	return infos
}

func (r *Registry) listDir(abs, op string) ([]string, error) {
	files, err := r.fs.ListFiles(abs, r.ext)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to scan directory").
			WithOperation(op).
			WithDetail("directory", abs)
	}
	return files, nil
}

func (r *Registry) reset() {
	r.names = nil
	r.docs = make(map[string]*properties.Document)
	r.current = ""
	r.directories = make(map[string]*directory)
	r.dirOrder = nil
}

func (r *Registry) loadDirectory(abs, name string, files []string) error {
	timer := r.logger.StartTimer("registry.loadDirectory").WithField("directory", abs)
	defer timer.Stop()

	dir := &directory{name: name, path: abs}
	r.directories[abs] = dir
	r.dirOrder = append(r.dirOrder, abs)

	var errs []error
	for _, file := range files {
		if err := r.addFile(dir, file); err != nil {
			errs = append(errs, err)
		}
	}

	r.logger.Info("directory loaded", "directory", abs, "name", name, "documents", len(dir.files), "failed", len(errs))
	return errors.Join(errs...)
}

// addFile registers file under dir. A document already bound to the file
// but not tracked by any directory is adopted and reloaded.
func (r *Registry) addFile(dir *directory, file string) error {
	if pos, err := r.resolvePath(file, "registry.addFile"); err == nil {
		doc := r.docs[r.names[pos]]
		if r.isTracked(doc) {
			return nil
		}
		dir.files = append(dir.files, trackedFile{path: file, doc: doc})
		return doc.Load(file)
	}

	doc, err := properties.Open(file, r.documentOptions()...)
	if err != nil {
		return err
	}
	if _, err := r.Add(doc, ""); err != nil {
		return err
	}
	dir.files = append(dir.files, trackedFile{path: file, doc: doc})
	return nil
}

func (r *Registry) documentOptions() []properties.Option {
	opts := []properties.Option{
		properties.WithFS(r.fs),
		properties.WithLogger(r.logger),
	}
	return append(opts, r.docOpts...)
}

func (r *Registry) updateDirectory(key string) error {
	dir := r.directories[key]
	files, err := r.listDir(dir.path, "registry.UpdateDirectory")
	if err != nil {
		return err
	}

	onDisk := make(map[string]bool, len(files))
	for _, f := range files {
		onDisk[f] = true
	}

	var errs []error
	tracked := make(map[string]bool, len(dir.files))
	for _, tf := range dir.files {
		tracked[tf.path] = true
		if !onDisk[tf.path] {
			errs = append(errs, mdwerror.New("tracked file no longer exists").
				WithCode(mdwerror.CodeNotFound).
				WithOperation("registry.UpdateDirectory").
				WithDetail("path", tf.path))
			continue
		}
		if err := tf.doc.Load(tf.path); err != nil {
			errs = append(errs, err)
		}
	}

	added := 0
	for _, f := range files {
		if tracked[f] {
			continue
		}
		if err := r.addFile(dir, f); err != nil {
			errs = append(errs, err)
			continue
		}
		added++
	}

	r.logger.Info("directory updated", "directory", dir.path, "added", added, "failed", len(errs))
	return errors.Join(errs...)
}

func (r *Registry) removeDirectory(key string) []*properties.Document {
	dir := r.directories[key]
	files := append([]trackedFile(nil), dir.files...)

	var removed []*properties.Document
	for _, tf := range files {
		for pos, name := range r.names {
			if r.docs[name] == tf.doc {
				removed = append(removed, r.removeAt(pos))
				break
			}
		}
	}

	delete(r.directories, key)
	for i, k := range r.dirOrder {
		if k == key {
			r.dirOrder = append(r.dirOrder[:i], r.dirOrder[i+1:]...)
			break
		}
	}

	r.logger.Info("directory removed", "directory", dir.path, "documents", len(removed))
	return removed
}

func (r *Registry) isTracked(doc *properties.Document) bool {
	for _, key := range r.dirOrder {
		for _, tf := range r.directories[key].files {
			if tf.doc == doc {
				return true
			}
		}
	}
	return false
}

// untrack drops doc from every directory file list
func (r *Registry) untrack(doc *properties.Document) {
	for _, key := range r.dirOrder {
		dir := r.directories[key]
		kept := dir.files[:0]
		for _, tf := range dir.files {
			if tf.doc != doc {
				kept = append(kept, tf)
			}
		}
		dir.files = kept
	}
}
