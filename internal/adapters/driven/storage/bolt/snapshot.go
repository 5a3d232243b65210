// Package bolt provides a bbolt-backed store for index snapshots.
//
// A snapshot is one whole index generation, written in a single transaction.
// Load after a crashed Save therefore yields either the previous complete
// generation or the new one, never a partial mix.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

var (
	bucketSnapshots = []byte("snapshots")
	keyCurrent      = []byte("current")
)

// SnapshotStore persists the active index generation in a bbolt database.
type SnapshotStore struct {
	db   *bbolt.DB
	path string
}

// NewSnapshotStore opens (or creates) the snapshot database under dataDir.
func NewSnapshotStore(dataDir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, "index.db")
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot bucket: %w", err)
	}

	return &SnapshotStore{db: db, path: path}, nil
}

// Save persists a snapshot, replacing any previous one.
func (s *SnapshotStore) Save(ctx context.Context, snap *driven.IndexSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put(keyCurrent, payload)
	})
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or domain.ErrNotFound when none exists.
func (s *SnapshotStore) Load(ctx context.Context) (*driven.IndexSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketSnapshots).Get(keyCurrent); data != nil {
			payload = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if payload == nil {
		return nil, domain.ErrNotFound
	}

	var snap driven.IndexSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return &snap, nil
}

// Close releases the database file.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SnapshotStore) Path() string {
	return s.path
}

