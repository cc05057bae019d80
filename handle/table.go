package handle

import (
	"errors"
	"sync"
)

var (
	ErrClosed = errors.New("handle table closed")
	ErrFull   = errors.New("handle table full")
)

// Table is an in-memory handle table with generation tracking.
// Dropped slots go onto a free list and are reused by later Puts;
// the per-slot generation keeps stale IDs from resolving to the
// new occupant.
type Table[T any] struct {
	entries  []entry[T]
	freeList []uint32
	mu       sync.RWMutex
	closed   bool
}

type entry[T any] struct {
	value T
	gen   uint8
	valid bool
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Put stores a value and returns its ID.
func (t *Table[T]) Put(value T) (ID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrClosed
	}

	if len(t.freeList) > 0 {
		idx := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		e := &t.entries[idx]
		e.value = value
		e.valid = true
		return encode(e.gen, idx), nil
	}

	if len(t.entries) >= maxEntries {
		return 0, ErrFull
	}
	t.entries = append(t.entries, entry[T]{value: value, valid: true})
	return encode(0, uint32(len(t.entries)-1)), nil
}

// Get retrieves a value by ID.
func (t *Table[T]) Get(id ID) (T, bool) {
	var zero T
	idx, gen, ok := decode(id)
	if !ok {
		return zero, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(idx) >= len(t.entries) {
		return zero, false
	}
	e := t.entries[idx]
	if !e.valid || e.gen != gen {
		return zero, false
	}
	return e.value, true
}

// Drop removes an entry and returns (value, true) if the ID was live.
// The slot's generation is bumped so the dropped ID stops resolving.
func (t *Table[T]) Drop(id ID) (T, bool) {
	var zero T
	idx, gen, ok := decode(id)
	if !ok {
		return zero, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(idx) >= len(t.entries) {
		return zero, false
	}
	e := &t.entries[idx]
	if !e.valid || e.gen != gen {
		return zero, false
	}

	value := e.value
	e.valid = false
	e.value = zero
	e.gen++
	t.freeList = append(t.freeList, idx)
	return value, true
}

// Len returns the number of live entries.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for i := range t.entries {
		if t.entries[i].valid {
			count++
		}
	}
	return count
}

// Each iterates over all live entries. Return false from fn to stop.
func (t *Table[T]) Each(fn func(ID, T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := range t.entries {
		e := t.entries[i]
		if e.valid {
			if !fn(encode(e.gen, uint32(i)), e.value) {
				break
			}
		}
	}
}

// Close releases all entries and stops accepting operations.
// Values implementing Releaser have Release called once.
func (t *Table[T]) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	var zero T
	for i := range t.entries {
		if t.entries[i].valid {
			if r, ok := any(t.entries[i].value).(Releaser); ok {
				r.Release()
			}
			t.entries[i].valid = false
			t.entries[i].value = zero
		}
	}

	t.entries = nil
	t.freeList = nil
	return nil
}
