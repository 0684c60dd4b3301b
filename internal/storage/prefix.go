package storage

import "slices"

// PrefixDB namespaces a DB under a fixed key prefix. The ledger gives each
// launcher its own PrefixDB so multiple plot NFTs share one database.
type PrefixDB struct {
	inner  DB
	prefix []byte
}

// NewPrefixDB wraps inner so every key lives under prefix.
func NewPrefixDB(inner DB, prefix []byte) *PrefixDB {
	return &PrefixDB{inner: inner, prefix: slices.Clone(prefix)}
}

func (p *PrefixDB) prefixed(key []byte) []byte {
	return append(slices.Clip(slices.Clone(p.prefix)), key...)
}

func (p *PrefixDB) Get(key []byte) ([]byte, error) {
	return p.inner.Get(p.prefixed(key))
}

func (p *PrefixDB) Put(key, value []byte) error {
	return p.inner.Put(p.prefixed(key), value)
}

func (p *PrefixDB) Delete(key []byte) error {
	return p.inner.Delete(p.prefixed(key))
}

func (p *PrefixDB) Has(key []byte) (bool, error) {
	return p.inner.Has(p.prefixed(key))
}

// ForEach iterates within the namespace. Callbacks see logical keys, with
// the namespace prefix already stripped.
func (p *PrefixDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return p.inner.ForEach(p.prefixed(prefix), func(key, value []byte) error {
		return fn(key[len(p.prefix):], value)
	})
}

// DeleteAll drops every key in the namespace. Keys are collected before
// deleting so the underlying iterator never sees its own mutations.
func (p *PrefixDB) DeleteAll() error {
	var keys [][]byte
	err := p.inner.ForEach(p.prefix, func(key, _ []byte) error {
		keys = append(keys, slices.Clone(key))
		return nil
	})
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := p.inner.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; the outer DB owns the store's lifecycle.
func (p *PrefixDB) Close() error {
	return nil
}
