// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     store
// Description: Snapshot persistence for property documents
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/properties"
	"github.com/msto63/propkit/pkg/registry"
)

// Snapshot is a point-in-time copy of a document's entries
type Snapshot struct {
	ID        uuid.UUID          `cbor:"id"`
	Name      string             `cbor:"name"`
	Path      string             `cbor:"path"`
	Separator string             `cbor:"separator"`
	Comment   string             `cbor:"comment"`
	CreatedAt time.Time          `cbor:"created_at"`
	Entries   []properties.Entry `cbor:"entries"`
}

// NewSnapshot captures doc under name
func NewSnapshot(name string, doc *properties.Document) Snapshot {
	return Snapshot{
		ID:        uuid.New(),
		Name:      name,
		Path:      doc.Path(),
		Separator: string(doc.Separator()),
		Comment:   string(doc.Comment()),
		CreatedAt: time.Now().UTC(),
		Entries:   doc.Entries(),
	}
}

// Document rebuilds an unbound document from the snapshot. The recorded
// separator and comment marker are applied before opts.
func (s Snapshot) Document(opts ...properties.Option) *properties.Document {
	base := []properties.Option{
		properties.WithSeparator(firstRune(s.Separator, properties.DefaultSeparator)),
		properties.WithComment(firstRune(s.Comment, properties.DefaultComment)),
	}
	doc := properties.New(append(base, opts...)...)
	for _, e := range s.Entries {
		doc.Set(e.Key, e.Value)
	}
	return doc
}

func firstRune(s string, fallback rune) rune {
	if r, size := utf8.DecodeRuneInString(s); size > 0 {
		return r
	}
	return fallback
}

// Store persists snapshots
type Store interface {
	// Save captures doc under name
	Save(ctx context.Context, name string, doc *properties.Document) (Snapshot, error)
	// Get returns one snapshot
	Get(ctx context.Context, id uuid.UUID) (Snapshot, error)
	// Latest returns the newest snapshot of name
	Latest(ctx context.Context, name string) (Snapshot, error)
	// List returns snapshots newest first; an empty name lists all
	List(ctx context.Context, name string) ([]Snapshot, error)
	// Restore rebuilds the document stored in a snapshot
	Restore(ctx context.Context, id uuid.UUID) (*properties.Document, error)
	// Delete removes one snapshot
	Delete(ctx context.Context, id uuid.UUID) error
	// Close releases the underlying database
	Close() error
}

// Kinds accepted by Open
const (
	KindSQLite = "sqlite"
	KindBolt   = "bolt"
)

// Open opens a store of the given kind at path
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(kind) {
	case KindSQLite:
		return NewSQLiteStore(SQLiteConfig{Path: path})
	case KindBolt:
		return NewBoltStore(BoltConfig{Path: path})
	default:
		return nil, mdwerror.New("unknown store kind").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("store.Open").
			WithDetail("kind", kind)
	}
}

// SnapshotAll saves every document of r under its registry name. Failures
// are collected and do not stop the remaining saves.
func SnapshotAll(ctx context.Context, s Store, r *registry.Registry) ([]Snapshot, error) {
	var (
		saved []Snapshot
		errs  []error
	)
	names := r.Names()
	docs := r.Documents()
	for i, name := range names {
		snap, err := s.Save(ctx, name, docs[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		saved = append(saved, snap)
	}
	return saved, errors.Join(errs...)
}

func notFound(op string, id uuid.UUID) error {
	return mdwerror.New("snapshot not found").
		WithCode(mdwerror.CodeNotFound).
		WithOperation(op).
		WithDetail("id", id.String())
}

func noSnapshots(op, name string) error {
	return mdwerror.New("no snapshots for document").
		WithCode(mdwerror.CodeNotFound).
		WithOperation(op).
		WithDetail("name", name)
}

func dbError(err error, message, op string) error {
	return mdwerror.Wrap(err, message).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(op)
}
