// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     registry
// Description: Document registry with name, index and path lookup
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package registry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/foundation/utils/filex"
	"github.com/msto63/propkit/pkg/logging"
	"github.com/msto63/propkit/pkg/properties"
)

// autoNamePrefix is the prefix of generated document names
const autoNamePrefix = "prop"

// Registry holds property documents under unique names in insertion order
type Registry struct {
	names []string
	docs  map[string]*properties.Document

	// current is the selected name, empty only when the registry is empty
	current string

	directories map[string]*directory
	dirOrder    []string

	fs      filex.FS
	logger  *logging.Logger
	docOpts []properties.Option
	ext     string

	// pending holds WithDocuments input until construction finishes
	pending []*properties.Document
}

// Option configures a Registry
type Option func(*Registry)

// WithDocuments registers docs with generated names, in order, after the
// other options are applied. Nil entries are skipped.
func WithDocuments(docs ...*properties.Document) Option {
	return func(r *Registry) {
		r.pending = append(r.pending, docs...)
	}
}

// WithFS sets the filesystem used for path resolution and directory scans
func WithFS(fs filex.FS) Option {
	return func(r *Registry) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// WithLogger sets the registry logger
func WithLogger(logger *logging.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDocumentOptions sets the options used to open documents found in
// directories
func WithDocumentOptions(opts ...properties.Option) Option {
	return func(r *Registry) {
		r.docOpts = append(r.docOpts, opts...)
	}
}

// WithExtension sets the file extension picked up from directories
func WithExtension(ext string) Option {
	return func(r *Registry) {
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.ext = ext
	}
}

// New creates a registry
func New(opts ...Option) *Registry {
	r := &Registry{
		docs:        make(map[string]*properties.Document),
		directories: make(map[string]*directory),
		fs:          filex.Default(),
		logger:      logging.New("registry"),
		ext:         properties.Extension,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, doc := range r.pending {
		if doc == nil {
			r.logger.Warn("skipping nil document")
			continue
		}
		if _, err := r.Add(doc, ""); err != nil {
			r.logger.Warn("skipping document", "error", err.Error())
		}
	}
	r.pending = nil
	return r
}

// Add registers doc under name, or under the lowest free propN when name is
// empty, and returns the name used. The first document added becomes
// current.
func (r *Registry) Add(doc *properties.Document, name string) (string, error) {
	if doc == nil {
		return "", mdwerror.New("document is nil").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("registry.Add")
	}
	if existing := r.nameOf(doc); existing != "" {
		return "", mdwerror.New("document already registered").
			WithCode(mdwerror.CodeDuplicateEntry).
			WithOperation("registry.Add").
			WithDetail("name", existing)
	}

	if name == "" {
		name = r.nextName()
	} else if _, ok := r.docs[name]; ok {
		return "", mdwerror.New("document name already in use").
			WithCode(mdwerror.CodeDuplicateEntry).
			WithOperation("registry.Add").
			WithDetail("name", name)
	}

	r.names = append(r.names, name)
	r.docs[name] = doc
	if r.current == "" {
		r.current = name
	}

	r.logger.Debug("document added", "name", name, "path", doc.Path())
	return name, nil
}

// FileSpec names a file for AddFiles. Options apply to that file only, on
// top of the registry's document options.
type FileSpec struct {
	Path    string
	Name    string
	Options []properties.Option
}

// AddFiles opens and registers each file in order. A file that fails to
// open or register is skipped; the failures are returned joined.
func (r *Registry) AddFiles(files ...FileSpec) error {
	var errs []error
	for _, f := range files {
		opts := append(r.documentOptions(), f.Options...)
		doc, err := properties.Open(f.Path, opts...)
		if err == nil {
			_, err = r.Add(doc, f.Name)
		}
		if err != nil {
			errs = append(errs, mdwerror.Wrap(err, "failed to add file").
				WithOperation("registry.AddFiles").
				WithDetail("path", f.Path))
		}
	}
	if len(errs) > 0 {
		r.logger.Warn("some files were not added", "failed", len(errs), "total", len(files))
	}
	return errors.Join(errs...)
}

// nextName probes prop1, prop2, ... for the first unused name
func (r *Registry) nextName() string {
	for n := 1; ; n++ {
		name := autoNamePrefix + strconv.Itoa(n)
		if _, ok := r.docs[name]; !ok {
			return name
		}
	}
}

func (r *Registry) nameOf(doc *properties.Document) string {
	for _, name := range r.names {
		if r.docs[name] == doc {
			return name
		}
	}
	return ""
}

// Get returns the selected document. A path selector without a match
// returns (nil, nil).
func (r *Registry) Get(sel Selector) (*properties.Document, error) {
	pos, err := r.lookup(sel, "registry.Get")
	if err != nil || pos < 0 {
		return nil, err
	}
	return r.docs[r.names[pos]], nil
}

// Select makes the selected document current. A path selector without a
// match leaves the selection unchanged.
func (r *Registry) Select(sel Selector) error {
	pos, err := r.lookup(sel, "registry.Select")
	if err != nil || pos < 0 {
		return err
	}
	r.current = r.names[pos]
	return nil
}

// Remove unregisters the selected document and hands it back to the
// caller with its content intact
func (r *Registry) Remove(sel Selector) (*properties.Document, error) {
	pos, err := r.lookup(sel, "registry.Remove")
	if err != nil || pos < 0 {
		return nil, err
	}
	return r.removeAt(pos), nil
}

// Close writes the selected document to its bound file and clears it. The
// document stays registered under its name and position, so the selection
// is unchanged.
func (r *Registry) Close(sel Selector, comments ...string) error {
	pos, err := r.lookup(sel, "registry.Close")
	if err != nil || pos < 0 {
		return err
	}
	return r.closeAt(pos, "registry.Close", comments)
}

// CloseAll closes every registered document. Failures are collected and do
// not stop the remaining documents.
func (r *Registry) CloseAll(comments ...string) error {
	var errs []error
	for pos := range r.names {
		if err := r.closeAt(pos, "registry.CloseAll", comments); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		r.logger.Warn("close incomplete", "failed", len(errs), "total", len(r.names))
	}
	return errors.Join(errs...)
}

func (r *Registry) closeAt(pos int, op string, comments []string) error {
	name := r.names[pos]
	if err := r.docs[name].Close(comments...); err != nil {
		return mdwerror.Wrap(err, "failed to close document").
			WithOperation(op).
			WithDetail("name", name)
	}
	r.logger.Debug("document closed", "name", name)
	return nil
}

// removeAt drops the document at pos and moves the current pointer: the
// first document hands over to its successor, any other to its
// predecessor
func (r *Registry) removeAt(pos int) *properties.Document {
	name := r.names[pos]
	doc := r.docs[name]

	r.names = append(r.names[:pos], r.names[pos+1:]...)
	delete(r.docs, name)
	r.untrack(doc)

	if r.current == name {
		switch {
		case len(r.names) == 0:
			r.current = ""
		case pos == 0:
			r.current = r.names[0]
		default:
			r.current = r.names[pos-1]
		}
	}

	r.logger.Debug("document removed", "name", name, "current", r.current)
	return doc
}

// Current returns the selected document, or nil when the registry is empty
func (r *Registry) Current() *properties.Document {
	if r.current == "" {
		return nil
	}
	return r.docs[r.current]
}

// CurrentName returns the name of the selected document
func (r *Registry) CurrentName() string {
	return r.current
}

func (r *Registry) currentPos() int {
	for i, name := range r.names {
		if name == r.current {
			return i
		}
	}
	return -1
}

// SwitchUp selects the next document, wrapping to the first
func (r *Registry) SwitchUp() error {
	if len(r.names) == 0 {
		return emptyRegistry("registry.SwitchUp")
	}
	r.current = r.names[(r.currentPos()+1)%len(r.names)]
	return nil
}

// SwitchDown selects the previous document, wrapping to the last
func (r *Registry) SwitchDown() error {
	if len(r.names) == 0 {
		return emptyRegistry("registry.SwitchDown")
	}
	pos := r.currentPos() - 1
	if pos < 0 {
		pos = len(r.names) - 1
	}
	r.current = r.names[pos]
	return nil
}

func emptyRegistry(op string) error {
	return mdwerror.New("registry is empty").
		WithCode(mdwerror.CodeEmptyRegistry).
		WithOperation(op)
}

// ReloadAll reloads every document from its bound file. Failures are
// collected and do not stop the remaining reloads.
func (r *Registry) ReloadAll() error {
	timer := r.logger.StartTimer("registry.ReloadAll").WithField("documents", len(r.names))
	defer timer.Stop()

	var errs []error
	for _, name := range r.names {
		if err := r.docs[name].Reload(); err != nil {
			errs = append(errs, mdwerror.Wrap(err, "reload failed").
				WithOperation("registry.ReloadAll").
				WithDetail("name", name))
		}
	}
	if len(errs) > 0 {
		r.logger.Warn("reload incomplete", "failed", len(errs), "total", len(r.names))
	}
	return errors.Join(errs...)
}

// Names returns the document names in insertion order
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Documents returns the documents in insertion order
func (r *Registry) Documents() []*properties.Document {
	docs := make([]*properties.Document, len(r.names))
	for i, name := range r.names {
		docs[i] = r.docs[name]
	}
	return docs
}

// Len returns the number of registered documents
func (r *Registry) Len() int {
	return len(r.names)
}

// String lists the names with the current one marked by '*'
func (r *Registry) String() string {
	parts := make([]string, len(r.names))
	for i, name := range r.names {
		if name == r.current {
			name += "*"
		}
		parts[i] = name
	}
	return fmt.Sprintf("<registry.Registry documents: [%s] directories: %d>", strings.Join(parts, " "), len(r.dirOrder))
}
