package bridge

import (
	"testing"

	"github.com/glintui/glint-bridge/handle"
)

func TestBridge_FillString(t *testing.T) {
	b := New()
	defer b.Close()

	id := b.CreateString("héllo")
	calls := 0
	var got string
	ok, err := b.FillString(id, func(raw []byte) {
		calls++
		got = string(raw)
	})
	if err != nil || !ok {
		t.Fatalf("FillString = %v, %v", ok, err)
	}
	if calls != 1 {
		t.Fatalf("Sink invoked %d times, want 1", calls)
	}
	if got != "héllo" {
		t.Fatalf("Sink received %q, want %q", got, "héllo")
	}
}

func TestBridge_FillString_Coerced(t *testing.T) {
	b := New()
	defer b.Close()

	id := b.CreateInt32(42)
	var got string
	ok, err := b.FillString(id, func(raw []byte) { got = string(raw) })
	if err != nil || !ok {
		t.Fatalf("FillString = %v, %v", ok, err)
	}
	if got != "42" {
		t.Fatalf("Sink received %q, want %q", got, "42")
	}
}

func TestBridge_FillString_Failure(t *testing.T) {
	b := New()
	defer b.Close()

	id := b.CreateList(nil)
	ok, err := b.FillString(id, func([]byte) {
		t.Fatal("Sink invoked on failure")
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Fatal("FillString succeeded for a list")
	}

	b.Delete(id)
	if _, err := b.FillString(id, nil); err == nil {
		t.Fatal("FillString on stale handle succeeded")
	}
}

func TestBridge_ListRoundTrip(t *testing.T) {
	b := New()
	defer b.Close()

	// Build [Int32(1), String("a"), Int32(2)] through the builder.
	e1 := b.CreateInt32(1)
	e2 := b.CreateString("a")
	e3 := b.CreateInt32(2)
	list := b.CreateList(func(l *ListBuilder) {
		for _, id := range []handle.ID{e1, e2, e3} {
			if err := l.Append(id); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
		}
	})

	// The appended handles stay caller-owned.
	for _, id := range []handle.ID{e1, e2, e3} {
		if err := b.Delete(id); err != nil {
			t.Fatalf("Delete of appended element failed: %v", err)
		}
	}

	// Walk it back out: exactly 3 callbacks, in order, each with an
	// owned handle.
	var elems []handle.ID
	ok, err := b.FillList(list, func(elem handle.ID) {
		elems = append(elems, elem)
	})
	if err != nil || !ok {
		t.Fatalf("FillList = %v, %v", ok, err)
	}
	if len(elems) != 3 {
		t.Fatalf("Callback invoked %d times, want 3", len(elems))
	}

	if n, ok, _ := b.FillInt32(elems[0]); !ok || n != 1 {
		t.Errorf("elems[0] = %v, %v, want 1", n, ok)
	}
	var s string
	if ok, _ := b.FillString(elems[1], func(raw []byte) { s = string(raw) }); !ok || s != "a" {
		t.Errorf("elems[1] = %q, %v, want \"a\"", s, ok)
	}
	if n, ok, _ := b.FillInt32(elems[2]); !ok || n != 2 {
		t.Errorf("elems[2] = %v, %v, want 2", n, ok)
	}

	// Element handles are independently owned: delete them all, the
	// list stays usable.
	for _, elem := range elems {
		if err := b.Delete(elem); err != nil {
			t.Fatalf("Delete of element handle failed: %v", err)
		}
	}
	if name := b.TypeName(list); name != "List" {
		t.Fatalf("List TypeName = %q after element deletes", name)
	}

	if err := b.Delete(list); err != nil {
		t.Fatalf("Delete(list) failed: %v", err)
	}
	if b.Live() != 0 {
		t.Fatalf("Live = %d after full cleanup, want 0", b.Live())
	}
}

func TestBridge_FillList_NotAList(t *testing.T) {
	b := New()
	defer b.Close()

	id := b.CreateInt32(5)
	ok, err := b.FillList(id, func(handle.ID) {
		t.Fatal("Callback invoked for a non-list")
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Fatal("FillList succeeded for Int32")
	}
}

func TestBridge_FillList_Nested(t *testing.T) {
	b := New()
	defer b.Close()

	inner := b.CreateList(func(l *ListBuilder) {
		e := b.CreateBool(true)
		defer b.Delete(e)
		l.Append(e)
	})
	outer := b.CreateList(func(l *ListBuilder) {
		l.Append(inner)
	})
	b.Delete(inner)

	var kinds []string
	ok, err := b.FillList(outer, func(elem handle.ID) {
		kinds = append(kinds, b.TypeName(elem))
		b.Delete(elem)
	})
	if err != nil || !ok {
		t.Fatalf("FillList = %v, %v", ok, err)
	}
	if len(kinds) != 1 || kinds[0] != "List" {
		t.Fatalf("Nested kinds = %v, want [List]", kinds)
	}
}

func TestListBuilder_AppendStale(t *testing.T) {
	b := New()
	defer b.Close()

	gone := b.CreateInt32(1)
	b.Delete(gone)

	list := b.CreateList(func(l *ListBuilder) {
		if err := l.Append(gone); err == nil {
			t.Error("Append of stale handle succeeded")
		}
	})

	// The failed append contributed nothing.
	v, err := b.Value(list)
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if n, ok := v.ListLen(); !ok || n != 0 {
		t.Fatalf("ListLen = %d, %v, want 0", n, ok)
	}
}

func TestBridge_CreateList_Empty(t *testing.T) {
	b := New()
	defer b.Close()

	id := b.CreateList(nil)
	if name := b.TypeName(id); name != "List" {
		t.Fatalf("TypeName = %q, want List", name)
	}

	count := 0
	ok, err := b.FillList(id, func(elem handle.ID) { count++ })
	if err != nil || !ok {
		t.Fatalf("FillList = %v, %v", ok, err)
	}
	if count != 0 {
		t.Fatalf("Empty list invoked callback %d times", count)
	}
}
