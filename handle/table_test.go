package handle

import (
	"errors"
	"sync"
	"testing"
)

func TestTable_Basic(t *testing.T) {
	tb := NewTable[string]()

	id, err := tb.Put("test value")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	val, ok := tb.Get(id)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	val, ok = tb.Drop(id)
	if !ok {
		t.Fatal("Drop failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	_, ok = tb.Get(id)
	if ok {
		t.Fatal("Expected Get to fail after Drop")
	}
}

func TestTable_StaleAfterReuse(t *testing.T) {
	tb := NewTable[int]()

	id1, _ := tb.Put(1)
	tb.Drop(id1)

	// The slot is reused, but the old ID must not resolve to the
	// new occupant.
	id2, _ := tb.Put(2)
	if id1 == id2 {
		t.Fatal("Expected reused slot to issue a different ID")
	}

	if _, ok := tb.Get(id1); ok {
		t.Fatal("Stale ID resolved after slot reuse")
	}
	if _, ok := tb.Drop(id1); ok {
		t.Fatal("Stale ID dropped the new occupant")
	}

	val, ok := tb.Get(id2)
	if !ok || val != 2 {
		t.Fatalf("Get(id2) = %v, %v, want 2, true", val, ok)
	}
}

func TestTable_SlotReuse(t *testing.T) {
	tb := NewTable[int]()

	id1, _ := tb.Put(1)
	id2, _ := tb.Put(2)
	id3, _ := tb.Put(3)

	tb.Drop(id2)
	tb.Drop(id1)

	id4, _ := tb.Put(4)
	id5, _ := tb.Put(5)

	// Freed slots should be reused before the table grows.
	if uint32(id4)&slotMask != uint32(id1)&slotMask && uint32(id4)&slotMask != uint32(id2)&slotMask {
		t.Errorf("Expected id4 to reuse a freed slot, got %#x", id4)
	}

	for _, id := range []ID{id3, id4, id5} {
		if _, ok := tb.Get(id); !ok {
			t.Fatalf("ID %#x should be valid", id)
		}
	}
}

func TestTable_DoubleDrop(t *testing.T) {
	tb := NewTable[string]()

	id, _ := tb.Put("once")
	if _, ok := tb.Drop(id); !ok {
		t.Fatal("First Drop failed")
	}
	if _, ok := tb.Drop(id); ok {
		t.Fatal("Second Drop should fail")
	}
}

type releaseCounter struct {
	n *int
}

func (r releaseCounter) Release() { *r.n = *r.n + 1 }

func TestTable_Close(t *testing.T) {
	tb := NewTable[releaseCounter]()

	released := 0
	tb.Put(releaseCounter{n: &released})
	tb.Put(releaseCounter{n: &released})

	if err := tb.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if released != 2 {
		t.Fatalf("Expected 2 releases, got %d", released)
	}

	_, err := tb.Put(releaseCounter{n: &released})
	if !errors.Is(err, ErrClosed) {
		t.Fatal("Expected ErrClosed after Close")
	}

	// Close is idempotent.
	if err := tb.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
	if released != 2 {
		t.Fatalf("Second Close re-released values: %d", released)
	}
}

func TestTable_Concurrent(t *testing.T) {
	tb := NewTable[int]()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h, _ := tb.Put(id)
			tb.Get(h)
			tb.Drop(h)
		}(i)
	}

	wg.Wait()

	if tb.Len() != 0 {
		t.Fatalf("Expected empty table, got Len() == %d", tb.Len())
	}
}

func TestTable_Len(t *testing.T) {
	tb := NewTable[string]()

	if tb.Len() != 0 {
		t.Fatal("Expected Len() == 0 initially")
	}

	id1, _ := tb.Put("a")
	id2, _ := tb.Put("b")
	tb.Put("c")

	if tb.Len() != 3 {
		t.Fatalf("Expected Len() == 3, got %d", tb.Len())
	}

	tb.Drop(id1)
	if tb.Len() != 2 {
		t.Fatalf("Expected Len() == 2, got %d", tb.Len())
	}

	tb.Drop(id2)
	if tb.Len() != 1 {
		t.Fatalf("Expected Len() == 1, got %d", tb.Len())
	}
}

func TestTable_Each(t *testing.T) {
	tb := NewTable[string]()

	tb.Put("a")
	tb.Put("b")
	tb.Put("c")

	count := 0
	tb.Each(func(id ID, value string) bool {
		count++
		return true
	})

	if count != 3 {
		t.Fatalf("Expected to iterate over 3 items, got %d", count)
	}

	// Early termination
	count = 0
	tb.Each(func(id ID, value string) bool {
		count++
		return false
	})

	if count != 1 {
		t.Fatalf("Expected to iterate over 1 item (early term), got %d", count)
	}
}

func TestTable_EachIDsResolve(t *testing.T) {
	tb := NewTable[int]()

	tb.Put(10)
	tb.Put(20)

	tb.Each(func(id ID, value int) bool {
		got, ok := tb.Get(id)
		if !ok || got != value {
			t.Errorf("Each ID %#x did not resolve to %d", id, value)
		}
		return true
	})
}

func TestTable_InvalidID(t *testing.T) {
	tb := NewTable[string]()

	// ID 0 is always invalid
	if _, ok := tb.Get(0); ok {
		t.Fatal("ID 0 should be invalid")
	}
	if _, ok := tb.Drop(0); ok {
		t.Fatal("ID 0 should fail Drop")
	}

	// Never-issued ID
	if _, ok := tb.Get(999); ok {
		t.Fatal("Never-issued ID should be invalid")
	}
}
