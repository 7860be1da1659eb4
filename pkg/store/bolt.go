// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     store
// Description: bbolt snapshot store with CBOR-encoded records
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/properties"
)

var (
	// documentsBucket holds one nested bucket per document name
	documentsBucket = []byte("documents")
	// indexBucket maps snapshot IDs to their location
	indexBucket = []byte("index")
)

// indexRecord locates a snapshot inside documentsBucket
type indexRecord struct {
	Name string `cbor:"name"`
	Key  []byte `cbor:"key"`
}

// BoltStore implements Store on a bbolt file
type BoltStore struct {
	db  *bbolt.DB
	enc cbor.EncMode
}

// BoltConfig holds configuration for the bbolt store
type BoltConfig struct {
	Path    string
	Timeout time.Duration
}

// NewBoltStore opens or creates the bbolt file
func NewBoltStore(cfg BoltConfig) (*BoltStore, error) {
	if cfg.Path == "" {
		cfg.Path = "./data/snapshots.bolt"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create directory").
			WithCode(mdwerror.CodeIOError).
			WithOperation("store.NewBoltStore").
			WithDetail("path", dir)
	}

	db, err := bbolt.Open(cfg.Path, 0600, &bbolt.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, dbError(err, "failed to open database", "store.NewBoltStore")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(documentsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(indexBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, dbError(err, "failed to create buckets", "store.NewBoltStore")
	}

	// Timestamps keep nanoseconds so ordering survives a round trip
	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		db.Close()
		return nil, dbError(err, "failed to create encoder", "store.NewBoltStore")
	}

	return &BoltStore{db: db, enc: enc}, nil
}

// snapshotKey orders snapshots of a document by creation time
func snapshotKey(snap Snapshot) []byte {
	key := make([]byte, 8, 8+len(snap.ID))
	binary.BigEndian.PutUint64(key, uint64(snap.CreatedAt.UnixNano()))
	return append(key, snap.ID[:]...)
}

// Save implements Store
func (s *BoltStore) Save(ctx context.Context, name string, doc *properties.Document) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	snap := NewSnapshot(name, doc)
	data, err := s.enc.Marshal(snap)
	if err != nil {
		return Snapshot{}, mdwerror.Wrap(err, "failed to encode snapshot").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("store.BoltStore.Save")
	}
	key := snapshotKey(snap)
	idx, err := s.enc.Marshal(indexRecord{Name: name, Key: key})
	if err != nil {
		return Snapshot{}, mdwerror.Wrap(err, "failed to encode index").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("store.BoltStore.Save")
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(documentsBucket).CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		if err := b.Put(key, data); err != nil {
			return err
		}
		return tx.Bucket(indexBucket).Put(snap.ID[:], idx)
	})
	if err != nil {
		return Snapshot{}, dbError(err, "failed to store snapshot", "store.BoltStore.Save")
	}
	return snap, nil
}

// Get implements Store
func (s *BoltStore) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		rec, ok, err := lookupIndex(tx, id)
		if err != nil || !ok {
			return err
		}
		b := tx.Bucket(documentsBucket).Bucket([]byte(rec.Name))
		if b == nil {
			return nil
		}
		data := b.Get(rec.Key)
		if data == nil {
			return nil
		}
		found = true
		return cbor.Unmarshal(data, &snap)
	})
	if err != nil {
		return Snapshot{}, dbError(err, "failed to read snapshot", "store.BoltStore.Get")
	}
	if !found {
		return Snapshot{}, notFound("store.BoltStore.Get", id)
	}
	return snap, nil
}

// Latest implements Store
func (s *BoltStore) Latest(ctx context.Context, name string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(documentsBucket).Bucket([]byte(name))
		if b == nil {
			return nil
		}
		k, v := b.Cursor().Last()
		if k == nil {
			return nil
		}
		found = true
		return cbor.Unmarshal(v, &snap)
	})
	if err != nil {
		return Snapshot{}, dbError(err, "failed to read snapshot", "store.BoltStore.Latest")
	}
	if !found {
		return Snapshot{}, noSnapshots("store.BoltStore.Latest", name)
	}
	return snap, nil
}

// List implements Store
func (s *BoltStore) List(ctx context.Context, name string) ([]Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var snaps []Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		docs := tx.Bucket(documentsBucket)
		collect := func(b *bbolt.Bucket) error {
			return b.ForEach(func(_, v []byte) error {
				var snap Snapshot
				if err := cbor.Unmarshal(v, &snap); err != nil {
					return err
				}
				snaps = append(snaps, snap)
				return nil
			})
		}
		if name != "" {
			if b := docs.Bucket([]byte(name)); b != nil {
				return collect(b)
			}
			return nil
		}
		// Nested buckets report a nil value
		return docs.ForEach(func(k, v []byte) error {
			if v != nil {
				return nil
			}
			return collect(docs.Bucket(k))
		})
	})
	if err != nil {
		return nil, dbError(err, "failed to list snapshots", "store.BoltStore.List")
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
		}
		return bytes.Compare(snaps[i].ID[:], snaps[j].ID[:]) > 0
	})
	return snaps, nil
}

// Restore implements Store
func (s *BoltStore) Restore(ctx context.Context, id uuid.UUID) (*properties.Document, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return snap.Document(), nil
}

// Delete implements Store
func (s *BoltStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	found := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		rec, ok, err := lookupIndex(tx, id)
		if err != nil || !ok {
			return err
		}
		found = true
		if b := tx.Bucket(documentsBucket).Bucket([]byte(rec.Name)); b != nil {
			if err := b.Delete(rec.Key); err != nil {
				return err
			}
		}
		return tx.Bucket(indexBucket).Delete(id[:])
	})
	if err != nil {
		return dbError(err, "failed to delete snapshot", "store.BoltStore.Delete")
	}
	if !found {
		return notFound("store.BoltStore.Delete", id)
	}
	return nil
}

// Close implements Store
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func lookupIndex(tx *bbolt.Tx, id uuid.UUID) (indexRecord, bool, error) {
	var rec indexRecord
	data := tx.Bucket(indexBucket).Get(id[:])
	if data == nil {
		return rec, false, nil
	}
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return rec, false, err
	}
	return rec, true, nil
}
