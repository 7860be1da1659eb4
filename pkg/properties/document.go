// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     properties
// Description: Ordered key/value document bound to an optional source file
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package properties

import (
	"fmt"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/foundation/utils/filex"
	"github.com/msto63/propkit/pkg/logging"
)

// Undefined is returned by Get for keys that are not present
const Undefined = "Undefined"

// Entry is a single key/value pair
type Entry struct {
	Key   string
	Value string
}

// Document is an ordered set of properties. It is not safe for concurrent
// use.
type Document struct {
	entries map[string]string
	order   []string

	// path is absolute, or empty when the document is unbound
	path      string
	separator rune
	comment   rune

	fs     filex.FS
	logger *logging.Logger
}

// New creates an empty, unbound document
func New(opts ...Option) *Document {
	s := settings{
		separator: DefaultSeparator,
		comment:   DefaultComment,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.fs == nil {
		s.fs = filex.Default()
	}
	if s.logger == nil {
		s.logger = logging.New("properties")
	}

	return &Document{
		entries:   make(map[string]string),
		separator: s.separator,
		comment:   s.comment,
		fs:        s.fs,
		logger:    s.logger,
	}
}

// Open creates a document and loads path into it. The document is returned
// even when the load fails, so the caller can inspect its unbound state.
func Open(path string, opts ...Option) (*Document, error) {
	doc := New(opts...)
	return doc, doc.Load(path)
}

// Load replaces the content with the file at path. Options override the
// document's separator, comment marker, logger and filesystem. On failure
// the previous content and binding are kept.
func (d *Document) Load(path string, opts ...Option) error {
	s := settings{
		separator: d.separator,
		comment:   d.comment,
		logger:    d.logger,
		fs:        d.fs,
	}
	for _, opt := range opts {
		opt(&s)
	}

	abs, err := s.fs.Abs(path)
	if err != nil {
		return loadFailed(s.logger, path, err)
	}

	lines, err := s.fs.ReadLines(abs)
	if err != nil {
		return loadFailed(s.logger, abs, err)
	}

	result, err := parse(lines, s.separator, s.comment)
	if err != nil {
		return loadFailed(s.logger, abs, err)
	}

	d.logger = s.logger
	d.fs = s.fs
	d.entries = result.entries
	d.order = result.order
	d.path = abs
	d.separator = s.separator
	d.comment = s.comment

	d.logger.Debug("document loaded", "path", abs, "entries", len(d.order))
	return nil
}

func loadFailed(logger *logging.Logger, path string, err error) error {
	wrapped := mdwerror.Wrap(err, "failed to load properties").
		WithOperation("properties.Load").
		WithDetail("path", path)
	logger.LogError(wrapped)
	return wrapped
}

// Reload loads the bound file again with the recorded separator and marker
func (d *Document) Reload() error {
	if d.path == "" {
		return mdwerror.New("no source file bound, cannot reload").
			WithCode(mdwerror.CodeNoSourceBound).
			WithOperation("properties.Reload")
	}
	return d.Load(d.path)
}

// Get returns the value for key, or Undefined
func (d *Document) Get(key string) string {
	if v, ok := d.entries[key]; ok {
		return v
	}
	return Undefined
}

// Lookup returns the value for key and whether it exists
func (d *Document) Lookup(key string) (string, bool) {
	v, ok := d.entries[key]
	return v, ok
}

// Set inserts or overwrites key. The value is stored in its fmt.Sprint form.
func (d *Document) Set(key string, value any) {
	d.set(key, fmt.Sprint(value))
}

func (d *Document) set(key, value string) {
	if _, ok := d.entries[key]; !ok {
		d.order = append(d.order, key)
	}
	d.entries[key] = value
}

// Replace overwrites an existing key. An absent key is only created when
// createIfMissing is set; otherwise nothing changes and false is returned.
func (d *Document) Replace(key string, value any, createIfMissing bool) bool {
	if _, ok := d.entries[key]; !ok && !createIfMissing {
		d.logger.Info("undefined property not replaced", "key", key, "path", d.path)
		return false
	}
	d.Set(key, value)
	return true
}

// Remove deletes key and returns its value
func (d *Document) Remove(key string) (string, error) {
	v, ok := d.entries[key]
	if !ok {
		return "", mdwerror.New("property not found").
			WithCode(mdwerror.CodeKeyNotFound).
			WithOperation("properties.Remove").
			WithDetail("key", key)
	}

	delete(d.entries, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return v, nil
}

// Contains reports whether key is present
func (d *Document) Contains(key string) bool {
	_, ok := d.entries[key]
	return ok
}

// Clone returns a deep copy sharing no mutable state with d
func (d *Document) Clone() *Document {
	entries := make(map[string]string, len(d.entries))
	for k, v := range d.entries {
		entries[k] = v
	}
	order := make([]string, len(d.order))
	copy(order, d.order)

	return &Document{
		entries:   entries,
		order:     order,
		path:      d.path,
		separator: d.separator,
		comment:   d.comment,
		fs:        d.fs,
		logger:    d.logger,
	}
}

// Clear empties the document and unbinds it from its source file
func (d *Document) Clear() {
	d.entries = make(map[string]string)
	d.order = nil
	d.path = ""
}

// Close writes the document to its bound file and clears it. The document
// is left untouched when the write fails.
func (d *Document) Close(comments ...string) error {
	if err := d.Write("", WithComments(comments...)); err != nil {
		return err
	}
	d.Clear()
	return nil
}

// Content returns a copy of the entries
func (d *Document) Content() map[string]string {
	content := make(map[string]string, len(d.entries))
	for k, v := range d.entries {
		content[k] = v
	}
	return content
}

// Keys returns the keys in insertion order
func (d *Document) Keys() []string {
	keys := make([]string, len(d.order))
	copy(keys, d.order)
	return keys
}

// Values returns the values in insertion order
func (d *Document) Values() []string {
	values := make([]string, len(d.order))
	for i, k := range d.order {
		values[i] = d.entries[k]
	}
	return values
}

// Entries returns the key/value pairs in insertion order
func (d *Document) Entries() []Entry {
	entries := make([]Entry, len(d.order))
	for i, k := range d.order {
		entries[i] = Entry{Key: k, Value: d.entries[k]}
	}
	return entries
}

// Len returns the number of entries
func (d *Document) Len() int {
	return len(d.order)
}

// Path returns the bound source file, or "" when unbound
func (d *Document) Path() string {
	return d.path
}

// Separator returns the separator recorded for this document
func (d *Document) Separator() rune {
	return d.separator
}

// Comment returns the comment marker recorded for this document
func (d *Document) Comment() rune {
	return d.comment
}

// String describes the document and its source file
func (d *Document) String() string {
	path := d.path
	if path == "" {
		path = "None"
	}
	return fmt.Sprintf("<properties.Document loaded_file: '%s' entries: %d>", path, len(d.order))
}
