package storage

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// dbUnderTest runs the shared conformance checks against any DB.
func dbUnderTest(t *testing.T, db DB) {
	t.Helper()

	if _, err := db.Get([]byte("missing")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
	has, err := db.Has([]byte("missing"))
	if err != nil || has {
		t.Errorf("Has missing = %v, %v", has, err)
	}

	if err := db.Put([]byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := db.Get([]byte("k1"))
	if err != nil || !bytes.Equal(got, []byte("v1")) {
		t.Errorf("Get = %q, %v", got, err)
	}

	// Overwrite.
	if err := db.Put([]byte("k1"), []byte("v2")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _ = db.Get([]byte("k1"))
	if !bytes.Equal(got, []byte("v2")) {
		t.Errorf("after overwrite Get = %q", got)
	}

	if err := db.Delete([]byte("k1")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Get([]byte("k1")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get deleted = %v, want ErrNotFound", err)
	}
	// Deleting a missing key is a no-op.
	if err := db.Delete([]byte("k1")); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestMemoryDB(t *testing.T) {
	dbUnderTest(t, NewMemory())
}

func TestBadgerDB(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	defer db.Close()
	dbUnderTest(t, db)
}

func TestPrefixDB(t *testing.T) {
	dbUnderTest(t, NewPrefixDB(NewMemory(), []byte("ns/")))
}

func TestForEach_PrefixAndOrder(t *testing.T) {
	dbs := map[string]DB{
		"memory": NewMemory(),
	}
	badger, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	defer badger.Close()
	dbs["badger"] = badger

	for name, db := range dbs {
		t.Run(name, func(t *testing.T) {
			pairs := map[string]string{
				"a/3": "v3", "a/1": "v1", "a/2": "v2",
				"b/1": "other",
			}
			for k, v := range pairs {
				if err := db.Put([]byte(k), []byte(v)); err != nil {
					t.Fatalf("Put: %v", err)
				}
			}

			var keys []string
			err := db.ForEach([]byte("a/"), func(key, _ []byte) error {
				keys = append(keys, string(key))
				return nil
			})
			if err != nil {
				t.Fatalf("ForEach: %v", err)
			}
			if len(keys) != 3 {
				t.Fatalf("keys = %v, want the three a/ keys", keys)
			}
			// Ascending key order in both implementations.
			for i, want := range []string{"a/1", "a/2", "a/3"} {
				if keys[i] != want {
					t.Errorf("keys[%d] = %q, want %q", i, keys[i], want)
				}
			}

			// A callback error stops iteration and propagates.
			sentinel := fmt.Errorf("stop")
			n := 0
			err = db.ForEach([]byte("a/"), func([]byte, []byte) error {
				n++
				return sentinel
			})
			if !errors.Is(err, sentinel) || n != 1 {
				t.Errorf("early stop: err=%v visits=%d", err, n)
			}
		})
	}
}

func TestPrefixDB_Isolation(t *testing.T) {
	inner := NewMemory()
	a := NewPrefixDB(inner, []byte("a/"))
	b := NewPrefixDB(inner, []byte("b/"))

	if err := a.Put([]byte("key"), []byte("from-a")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := b.Put([]byte("key"), []byte("from-b")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := a.Get([]byte("key"))
	if err != nil || !bytes.Equal(got, []byte("from-a")) {
		t.Errorf("a.Get = %q, %v", got, err)
	}

	// ForEach yields keys with the namespace stripped.
	err = a.ForEach(nil, func(key, value []byte) error {
		if !bytes.Equal(key, []byte("key")) {
			t.Errorf("stripped key = %q", key)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}

	// DeleteAll clears only this namespace.
	if err := a.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if _, err := a.Get([]byte("key")); !errors.Is(err, ErrNotFound) {
		t.Errorf("a survived DeleteAll: %v", err)
	}
	if _, err := b.Get([]byte("key")); err != nil {
		t.Errorf("b was clobbered by a.DeleteAll: %v", err)
	}
}

func TestBadgerDB_Reopen(t *testing.T) {
	dir := t.TempDir()
	db, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	if err := db.Put([]byte("persist"), []byte("yes")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err = NewBadger(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	got, err := db.Get([]byte("persist"))
	if err != nil || !bytes.Equal(got, []byte("yes")) {
		t.Errorf("Get after reopen = %q, %v", got, err)
	}
}
