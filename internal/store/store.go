package store

import (
	"cmp"
	"slices"
	"sync"

	"github.com/danpasecinic/cubby/internal/ownership"
	"github.com/danpasecinic/cubby/internal/typekey"
)

type slot struct {
	handle any
	holder ownership.Holder
}

func (s *slot) mode() ownership.Mode {
	if s.holder == nil {
		return ownership.Borrowed
	}
	return s.holder.Mode()
}

type Entry struct {
	Key    typekey.Key
	Handle any
	Mode   ownership.Mode
}

// Eviction describes what happened to the holder a write displaced.
type Eviction struct {
	Key       typekey.Key
	Mode      ownership.Mode
	Forfeited bool
	Err       error
}

type Table struct {
	mu    sync.RWMutex
	slots map[typekey.Key]*slot
}

func New() *Table {
	return &Table{
		slots: make(map[typekey.Key]*slot),
	}
}

// Bind stores a borrowed handle. Any holder previously recorded for key is
// dropped: an exclusive owner of the same object forfeits its claim without
// closing it, every other holder is released.
func (t *Table) Bind(key typekey.Key, handle any) *Eviction {
	return t.put(key, &slot{handle: handle})
}

// Install stores holder and binds its handle, displacing any previous holder
// under the same rule as Bind.
func (t *Table) Install(key typekey.Key, holder ownership.Holder) *Eviction {
	return t.put(key, &slot{handle: holder.Handle(), holder: holder})
}

func (t *Table) put(key typekey.Key, next *slot) *Eviction {
	t.mu.Lock()
	prev, exists := t.slots[key]
	t.slots[key] = next
	t.mu.Unlock()

	if !exists || prev.holder == nil {
		return nil
	}

	return evict(key, prev.holder, next.handle)
}

func evict(key typekey.Key, holder ownership.Holder, replacement any) *Eviction {
	ev := &Eviction{Key: key, Mode: holder.Mode()}
	if holder.Mode() == ownership.Exclusive && ownership.SameObject(holder.Handle(), replacement) {
		ev.Forfeited = true
		return ev
	}
	ev.Err = holder.Release()
	return ev
}

func (t *Table) Get(key typekey.Key) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, exists := t.slots[key]
	if !exists {
		return nil, false
	}
	return s.handle, true
}

func (t *Table) Has(key typekey.Key) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, exists := t.slots[key]
	return exists
}

func (t *Table) Mode(key typekey.Key) ownership.Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, exists := t.slots[key]
	if !exists {
		return ownership.None
	}
	return s.mode()
}

func (t *Table) Keys() []typekey.Key {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]typekey.Key, 0, len(t.slots))
	for key := range t.slots {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := make([]Entry, 0, len(t.slots))
	for key, s := range t.slots {
		entries = append(entries, Entry{Key: key, Handle: s.handle, Mode: s.mode()})
	}
	slices.SortFunc(
		entries, func(a, b Entry) int {
			return cmp.Compare(a.Key, b.Key)
		},
	)
	return entries
}

func (t *Table) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.slots)
}

// Drain empties the table and releases every holder it owned, in key order.
func (t *Table) Drain() []Eviction {
	t.mu.Lock()
	slots := t.slots
	t.slots = make(map[typekey.Key]*slot)
	t.mu.Unlock()

	keys := make([]typekey.Key, 0, len(slots))
	for key, s := range slots {
		if s.holder != nil {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	evictions := make([]Eviction, 0, len(keys))
	for _, key := range keys {
		holder := slots[key].holder
		evictions = append(
			evictions, Eviction{
				Key:  key,
				Mode: holder.Mode(),
				Err:  holder.Release(),
			},
		)
	}
	return evictions
}
