package coordcache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/buntdb"
)

// BuntStore implements Store on BuntDB with JSON-encoded entries.
type BuntStore struct {
	db *buntdb.DB
}

// FromMemory creates an in-memory store, the default for the cache front.
func FromMemory() (*BuntStore, error) {
	return NewBuntStore(":memory:")
}

// FromFile creates a file-backed store so cached coordinates survive restarts.
func FromFile(file string) (*BuntStore, error) {
	return NewBuntStore(file)
}

// NewBuntStore opens a BuntDB database at the given path.
func NewBuntStore(sourceFile string) (*BuntStore, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	return &BuntStore{db: db}, nil
}

// Get implements Store.
func (b *BuntStore) Get(key string) (*Entry, error) {
	var entry Entry

	err := b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(key)
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(value), &entry)
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entry: %w", err)
	}

	return &entry, nil
}

// Set implements Store, replacing any prior entry for the key.
func (b *BuntStore) Set(entry *Entry) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		content, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}

		_, _, err = tx.Set(entry.Key, string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to store entry: %w", err)
		}

		return nil
	})
}

// Delete implements Store. Deleting a missing key is a no-op.
func (b *BuntStore) Delete(key string) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil
	}
	return err
}

// All implements Store.
func (b *BuntStore) All() ([]*Entry, error) {
	entries := make([]*Entry, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("", func(_, value string) bool {
			var entry Entry
			if err := json.Unmarshal([]byte(value), &entry); err != nil {
				return true // skip unreadable entries, keep iterating
			}
			entries = append(entries, &entry)
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan entries: %w", err)
	}

	return entries, nil
}

// Close implements Store.
func (b *BuntStore) Close() error {
	return b.db.Close()
}
