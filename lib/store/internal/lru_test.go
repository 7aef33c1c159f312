package internal

import (
	"testing"

	"github.com/snnfw/neurostore/lib/model"
)

func neuron(id uint64) *model.Neuron {
	return model.NewNeuron(id, 50.0, 0.95, 20)
}

func TestAddAndGet(t *testing.T) {
	lru := NewLRU(3)

	if lru.Len() != 0 || lru.Capacity() != 3 {
		t.Fatalf("Expected empty list with capacity 3, got len=%d cap=%d", lru.Len(), lru.Capacity())
	}

	lru.Add(1, neuron(1), false)
	lru.Add(2, neuron(2), true)

	if lru.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", lru.Len())
	}

	obj, ok := lru.Get(1)
	if !ok || obj.ObjectID() != 1 {
		t.Errorf("Expected to find object 1")
	}

	if _, ok := lru.Get(99); ok {
		t.Errorf("Expected object 99 to be absent")
	}
}

func TestVictimOrder(t *testing.T) {
	lru := NewLRU(3)
	lru.Add(1, neuron(1), false)
	lru.Add(2, neuron(2), false)
	lru.Add(3, neuron(3), false)

	// 1 is the oldest
	id, _, _, ok := lru.Victim()
	if !ok || id != 1 {
		t.Errorf("Expected victim 1, got %d", id)
	}

	// Touching 1 makes 2 the oldest
	lru.Get(1)
	id, _, _, _ = lru.Victim()
	if id != 2 {
		t.Errorf("Expected victim 2 after touching 1, got %d", id)
	}

	// Peek must not change recency
	lru.Peek(2)
	id, _, _, _ = lru.Victim()
	if id != 2 {
		t.Errorf("Expected Peek to leave recency untouched, victim is %d", id)
	}

	// Replace promotes like a touch
	lru.Replace(2, neuron(2), true)
	id, _, _, _ = lru.Victim()
	if id != 3 {
		t.Errorf("Expected victim 3 after replacing 2, got %d", id)
	}
}

func TestRemoveAndReuse(t *testing.T) {
	lru := NewLRU(2)
	lru.Add(1, neuron(1), true)
	lru.Add(2, neuron(2), false)

	if !lru.Full() {
		t.Errorf("Expected list to be full")
	}

	obj, dirty, ok := lru.Remove(1)
	if !ok || obj.ObjectID() != 1 || !dirty {
		t.Errorf("Expected to remove dirty object 1")
	}

	if _, _, ok := lru.Remove(1); ok {
		t.Errorf("Expected second removal to fail")
	}

	// The freed slot must be reusable
	lru.Add(3, neuron(3), false)
	if lru.Len() != 2 || !lru.Contains(3) {
		t.Errorf("Expected slot reuse for object 3")
	}

	// Removing the only remaining entries must empty the list cleanly
	lru.Remove(2)
	lru.Remove(3)
	if lru.Len() != 0 {
		t.Errorf("Expected empty list, got %d entries", lru.Len())
	}
	if _, _, _, ok := lru.Victim(); ok {
		t.Errorf("Expected no victim in an empty list")
	}
}

func TestDirtyFlag(t *testing.T) {
	lru := NewLRU(2)
	lru.Add(1, neuron(1), false)

	if dirty, ok := lru.IsDirty(1); !ok || dirty {
		t.Errorf("Expected object 1 to be clean")
	}

	if !lru.SetDirty(1, true) {
		t.Errorf("Expected SetDirty on held entry to succeed")
	}
	if dirty, _ := lru.IsDirty(1); !dirty {
		t.Errorf("Expected object 1 to be dirty")
	}

	if lru.SetDirty(99, true) {
		t.Errorf("Expected SetDirty on missing entry to fail")
	}
	if _, ok := lru.IsDirty(99); ok {
		t.Errorf("Expected IsDirty on missing entry to fail")
	}
}

func TestRangeOrder(t *testing.T) {
	lru := NewLRU(3)
	lru.Add(1, neuron(1), false)
	lru.Add(2, neuron(2), true)
	lru.Add(3, neuron(3), false)
	lru.Get(1) // order now: 1, 3, 2

	var order []uint64
	lru.Range(func(id uint64, _ model.Object, _ bool) bool {
		order = append(order, id)
		return true
	})

	expected := []uint64{1, 3, 2}
	if len(order) != len(expected) {
		t.Fatalf("Expected %d entries, got %d", len(expected), len(order))
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("Expected order %v, got %v", expected, order)
			break
		}
	}

	// Early termination
	count := 0
	lru.Range(func(uint64, model.Object, bool) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Expected iteration to stop after one entry, got %d", count)
	}
}

func TestChurn(t *testing.T) {
	lru := NewLRU(8)

	// Interleave adds, touches and removals and verify the index stays
	// consistent with the list
	for i := uint64(0); i < 1000; i++ {
		if lru.Full() {
			id, _, _, _ := lru.Victim()
			lru.Remove(id)
		}
		lru.Add(i, neuron(i), i%3 == 0)
		lru.Get(i / 2)

		if lru.Len() > lru.Capacity() {
			t.Fatalf("List exceeded capacity: %d > %d", lru.Len(), lru.Capacity())
		}
	}

	// Every indexed entry must be reachable via Range
	seen := 0
	lru.Range(func(id uint64, _ model.Object, _ bool) bool {
		if !lru.Contains(id) {
			t.Errorf("Range yielded unindexed ID %d", id)
		}
		seen++
		return true
	})
	if seen != lru.Len() {
		t.Errorf("Expected %d entries via Range, got %d", lru.Len(), seen)
	}
}
