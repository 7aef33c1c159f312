package internal

import "github.com/snnfw/neurostore/lib/model"

// --------------------------------------------------------------------------
// Entry
// --------------------------------------------------------------------------

// entry is a slot in the arena. Slots form an intrusive doubly-linked
// list through prev/next indices, avoiding per-entry heap allocations
// and pointer chasing across the heap.
type entry struct {
	id    uint64
	obj   model.Object
	dirty bool
	prev  int
	next  int
	inUse bool
}

// sentinel index marking list ends and unlinked slots
const nilIdx = -1

// --------------------------------------------------------------------------
// LRU
// --------------------------------------------------------------------------

// LRU is a fixed-capacity recency list over an entry arena. The head of
// the list is the most recently used entry, the tail the least recently
// used. An index map provides O(1) lookup by object ID.
//
// Thread-safety: none. The caller must serialize access.
type LRU struct {
	entries []entry
	free    []int
	index   map[uint64]int
	head    int
	tail    int
}

// NewLRU creates an empty recency list with the given fixed capacity
func NewLRU(capacity int) *LRU {
	if capacity < 1 {
		capacity = 1
	}

	free := make([]int, capacity)
	for i := range free {
		free[i] = capacity - 1 - i // pop order: 0, 1, 2, ...
	}

	return &LRU{
		entries: make([]entry, capacity),
		free:    free,
		index:   make(map[uint64]int, capacity),
		head:    nilIdx,
		tail:    nilIdx,
	}
}

// Len returns the number of entries currently held
func (l *LRU) Len() int {
	return len(l.index)
}

// Capacity returns the fixed maximum number of entries
func (l *LRU) Capacity() int {
	return len(l.entries)
}

// Full reports whether an Add would require an eviction first
func (l *LRU) Full() bool {
	return len(l.free) == 0
}

// Contains reports whether an ID is held without touching recency
func (l *LRU) Contains(id uint64) bool {
	_, ok := l.index[id]
	return ok
}

// --------------------------------------------------------------------------
// List manipulation
// --------------------------------------------------------------------------

// unlink removes a slot from the recency list without freeing it
func (l *LRU) unlink(idx int) {
	e := &l.entries[idx]

	if e.prev != nilIdx {
		l.entries[e.prev].next = e.next
	} else {
		l.head = e.next
	}

	if e.next != nilIdx {
		l.entries[e.next].prev = e.prev
	} else {
		l.tail = e.prev
	}

	e.prev = nilIdx
	e.next = nilIdx
}

// pushFront links a slot in as the most recently used entry
func (l *LRU) pushFront(idx int) {
	e := &l.entries[idx]
	e.prev = nilIdx
	e.next = l.head

	if l.head != nilIdx {
		l.entries[l.head].prev = idx
	}
	l.head = idx

	if l.tail == nilIdx {
		l.tail = idx
	}
}

// --------------------------------------------------------------------------
// Operations
// --------------------------------------------------------------------------

// Add inserts an object as the most recently used entry.
// The caller must ensure the list is not full and the ID not present.
func (l *LRU) Add(id uint64, obj model.Object, dirty bool) {
	idx := l.free[len(l.free)-1]
	l.free = l.free[:len(l.free)-1]

	l.entries[idx] = entry{
		id:    id,
		obj:   obj,
		dirty: dirty,
		prev:  nilIdx,
		next:  nilIdx,
		inUse: true,
	}
	l.index[id] = idx
	l.pushFront(idx)
}

// Get returns the object for an ID and promotes it to most recently used
func (l *LRU) Get(id uint64) (model.Object, bool) {
	idx, ok := l.index[id]
	if !ok {
		return nil, false
	}

	if l.head != idx {
		l.unlink(idx)
		l.pushFront(idx)
	}

	return l.entries[idx].obj, true
}

// Peek returns the object for an ID without touching recency
func (l *LRU) Peek(id uint64) (model.Object, bool) {
	idx, ok := l.index[id]
	if !ok {
		return nil, false
	}
	return l.entries[idx].obj, true
}

// Replace swaps the object stored under an existing ID and promotes it.
// Returns false if the ID is not held.
func (l *LRU) Replace(id uint64, obj model.Object, dirty bool) bool {
	idx, ok := l.index[id]
	if !ok {
		return false
	}

	l.entries[idx].obj = obj
	l.entries[idx].dirty = dirty

	if l.head != idx {
		l.unlink(idx)
		l.pushFront(idx)
	}
	return true
}

// SetDirty updates the dirty flag of a held entry.
// Returns false if the ID is not held.
func (l *LRU) SetDirty(id uint64, dirty bool) bool {
	idx, ok := l.index[id]
	if !ok {
		return false
	}
	l.entries[idx].dirty = dirty
	return true
}

// IsDirty reports the dirty flag of a held entry
func (l *LRU) IsDirty(id uint64) (dirty bool, ok bool) {
	idx, found := l.index[id]
	if !found {
		return false, false
	}
	return l.entries[idx].dirty, true
}

// Remove drops an entry and returns its object and dirty flag
func (l *LRU) Remove(id uint64) (model.Object, bool, bool) {
	idx, ok := l.index[id]
	if !ok {
		return nil, false, false
	}

	obj := l.entries[idx].obj
	dirty := l.entries[idx].dirty

	l.unlink(idx)
	l.entries[idx] = entry{prev: nilIdx, next: nilIdx}
	delete(l.index, id)
	l.free = append(l.free, idx)

	return obj, dirty, true
}

// Victim returns the least recently used entry without removing it
func (l *LRU) Victim() (id uint64, obj model.Object, dirty bool, ok bool) {
	if l.tail == nilIdx {
		return 0, nil, false, false
	}
	e := &l.entries[l.tail]
	return e.id, e.obj, e.dirty, true
}

// Range calls fn for every held entry from most to least recently used.
// fn must not mutate the list. Iteration stops when fn returns false.
func (l *LRU) Range(fn func(id uint64, obj model.Object, dirty bool) bool) {
	for idx := l.head; idx != nilIdx; idx = l.entries[idx].next {
		e := &l.entries[idx]
		if !fn(e.id, e.obj, e.dirty) {
			return
		}
	}
}
