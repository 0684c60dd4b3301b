package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// BadgerDB backs the DB interface with an on-disk Badger store. The wallet
// holds it open for the life of the process; Badger's directory lock keeps
// a second instance off the same ledger.
type BadgerDB struct {
	db *badger.DB
}

// NewBadger opens (or creates) a Badger database at path.
func NewBadger(path string) (*BadgerDB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		if isLockContention(err) {
			return nil, fmt.Errorf("database at %s is locked by another process (is another wallet instance running?): %w", path, err)
		}
		return nil, fmt.Errorf("open database at %s: %w", path, err)
	}
	return &BadgerDB{db: db}, nil
}

func isLockContention(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Cannot acquire directory lock") ||
		strings.Contains(msg, "resource temporarily unavailable")
}

func (b *BadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return val, nil
}

func (b *BadgerDB) Put(key, value []byte) error {
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	}); err != nil {
		return fmt.Errorf("badger put: %w", err)
	}
	return nil
}

func (b *BadgerDB) Delete(key []byte) error {
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	}); err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

func (b *BadgerDB) Has(key []byte) (bool, error) {
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("badger has: %w", err)
	}
	return true, nil
}

func (b *BadgerDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			if err := item.Value(func(val []byte) error {
				return fn(key, val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BadgerDB) Close() error {
	return b.db.Close()
}
