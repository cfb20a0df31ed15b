package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"fxconverter/internal/domain"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var snapshotsBucket = []byte("RateSnapshots")

// SnapshotStore keeps the rate snapshot under a single key in a bbolt file.
type SnapshotStore struct {
	db  *bbolt.DB
	key []byte
}

func Open(filePath string, key string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0770); err != nil {
		return nil, fmt.Errorf("failed to create directory for snapshot database: %w", err)
	}

	db, err := bbolt.Open(filePath, 0660, nil)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(snapshotsBucket); err != nil {
			return fmt.Errorf("could not create bucket: %s, err: %w", string(snapshotsBucket), err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db, key: []byte(key)}, nil
}

func (s *SnapshotStore) Load(_ context.Context) (domain.RateSnapshot, error) {
	var snapshot domain.RateSnapshot

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(snapshotsBucket).Get(s.key)
		if len(data) == 0 {
			return domain.ErrSnapshotNotFound
		}
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return fmt.Errorf("failed to decode snapshot %q: %w", s.key, err)
		}
		return nil
	})
	if err != nil {
		return domain.RateSnapshot{}, err
	}

	return snapshot, nil
}

func (s *SnapshotStore) Save(_ context.Context, snapshot domain.RateSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Put(s.key, data)
	})
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
