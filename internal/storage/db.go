// Package storage provides the key-value store backing the wallet ledger.
package storage

import "errors"

// ErrNotFound is returned by Get when a key does not exist.
var ErrNotFound = errors.New("key not found")

// DB is a flat key-value store. BadgerDB backs it on disk; MemoryDB backs
// it in tests; PrefixDB namespaces either.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach visits every key under prefix in ascending order. The
	// callback gets copies; returning an error stops the walk.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}
