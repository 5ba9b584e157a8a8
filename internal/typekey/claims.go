package typekey

import (
	"fmt"
	"reflect"
	"sync"
)

// CollisionError reports two distinct types hashing to one Key. Existing and
// Incoming may be equal when the types are function-local declarations with
// the same name.
type CollisionError struct {
	Key      Key
	Existing string
	Incoming string
}

func (e *CollisionError) Error() string {
	if e.Existing == e.Incoming {
		return fmt.Sprintf("type key %s claimed by another type named %s", e.Key, e.Existing)
	}
	return fmt.Sprintf("type key %s claimed by %s, cannot be reused by %s", e.Key, e.Existing, e.Incoming)
}

type claimant struct {
	typ  reflect.Type
	name string
}

type table struct {
	mu     sync.RWMutex
	owners map[Key]claimant
}

func newTable() *table {
	return &table{owners: make(map[Key]claimant)}
}

// claim records t as the owner of key. The first claimant wins and every later
// claimant with a different reflect.Type gets a CollisionError, even when both
// render to the same name.
func (t *table) claim(key Key, typ reflect.Type, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.owners[key]
	if !ok {
		t.owners[key] = claimant{typ: typ, name: name}
		return nil
	}
	if existing.typ != typ {
		return &CollisionError{Key: key, Existing: existing.name, Incoming: name}
	}
	return nil
}

func (t *table) name(key Key) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	owner, ok := t.owners[key]
	return owner.name, ok
}
