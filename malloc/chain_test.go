package malloc

import "testing"
import "unsafe"

import s "github.com/bnclabs/gosettings"

func TestNewchain(t *testing.T) {
	ch := NewChain(16, 2, 3, Defaultsettings())
	if len(ch.active) != 1 {
		t.Errorf("expected %v, got %v", 1, len(ch.active))
	} else if ch.reserved != nil {
		t.Errorf("expected no reserved chunk")
	} else if ch.Capacity() != 6 {
		t.Errorf("expected %v, got %v", 6, ch.Capacity())
	} else if ch.Slabsize() != 16 {
		t.Errorf("expected %v, got %v", 16, ch.Slabsize())
	}
	ch.Release()

	// panic cases
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		NewChain(16, 2, 0, Defaultsettings())
	}()
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		NewChain(16, 2, 3, s.Settings{"alignment": 24})
	}()
}

func TestChainGrowthRetire(t *testing.T) {
	ch := NewChain(16, 2, 3, Defaultsettings())
	defer ch.Release()

	ptrs := make([]unsafe.Pointer, 4)
	for i := range ptrs {
		if ptrs[i] = ch.Alloc(); ptrs[i] == nil {
			t.Fatalf("unexpected allocation failure at %v", i)
		}
	}
	if len(ch.active) != 2 {
		t.Fatalf("expected %v, got %v", 2, len(ch.active))
	}
	metaused := ch.metapool.mallocated

	// release every block owned by the second chunk.
	second := ch.active[1]
	for _, ptr := range ptrs {
		if ch.metachunk(ptr) == second {
			if ch.Free(ptr) == false {
				t.Errorf("unexpected free failure")
			}
		}
	}
	if len(ch.active) != 1 {
		t.Errorf("expected %v, got %v", 1, len(ch.active))
	} else if ch.reserved != second {
		t.Errorf("expected the retired chunk in the reserved slot")
	} else if x := ch.metapool.mallocated; x != metaused {
		t.Errorf("expected %v, got %v", metaused, x)
	}

	// the reserved chunk is reused, not freshly built.
	p4, p5 := ch.Alloc(), ch.Alloc()
	if p4 == nil || p5 == nil {
		t.Fatalf("unexpected allocation failure")
	}
	if ch.reserved != nil {
		t.Errorf("expected the reserved chunk to be promoted")
	} else if len(ch.active) != 2 {
		t.Errorf("expected %v, got %v", 2, len(ch.active))
	} else if ch.active[1] != second {
		t.Errorf("expected the promoted chunk at the tail")
	} else if x := ch.metapool.mallocated; x != metaused {
		t.Errorf("expected %v, got %v", metaused, x)
	}
	if ck := ch.metachunk(p4); ck != second {
		t.Errorf("expected %v, got %v", second, ck)
	}
}

func TestChainCap(t *testing.T) {
	ch := NewChain(16, 2, 2, Defaultsettings())
	defer ch.Release()

	ptrs := make([]unsafe.Pointer, 4)
	for i := range ptrs {
		if ptrs[i] = ch.Alloc(); ptrs[i] == nil {
			t.Fatalf("unexpected allocation failure at %v", i)
		}
	}
	if ch.Full() == false {
		t.Errorf("expected full chain")
	}
	if ptr := ch.Alloc(); ptr != nil {
		t.Errorf("expected nil, got %v", ptr)
	}
	if ch.Free(ptrs[0]) == false {
		t.Errorf("unexpected free failure")
	}
	if ptr := ch.Alloc(); ptr == nil {
		t.Errorf("expected an allocation from the chunk with room")
	} else if ptr != ptrs[0] {
		t.Errorf("expected %v, got %v", ptrs[0], ptr)
	}
}

func TestChainMetadata(t *testing.T) {
	ch := NewChain(24, 3, 4, Defaultsettings())
	defer ch.Release()

	for i := 0; i < 12; i++ {
		ptr := ch.Alloc()
		if ptr == nil {
			t.Fatalf("unexpected allocation failure at %v", i)
		}
		ck := ch.metachunk(ptr)
		if ck == nil {
			t.Fatalf("metadata does not name a chunk for %v", ptr)
		}
		if ck.pool.contains(uintptr(ptr)) == false {
			t.Errorf("metadata names a chunk that does not own %v", ptr)
		}
	}
}

func TestChainForeignptr(t *testing.T) {
	ch := NewChain(16, 2, 2, Defaultsettings())
	defer ch.Release()

	ch.Alloc()
	var local [64]byte
	if ch.Free(unsafe.Pointer(&local[0])) == true {
		t.Errorf("expected free to reject a foreign pointer")
	}
	if len(ch.active) != 1 {
		t.Errorf("expected %v, got %v", 1, len(ch.active))
	}

	// panic case
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		ch.Free(nil)
	}()
}

func TestChainUsedmemory(t *testing.T) {
	ch := NewChain(16, 2, 3, Defaultsettings())
	defer ch.Release()

	used := ch.Usedmemory()
	ptrs := make([]unsafe.Pointer, 6)
	for i := range ptrs {
		ptrs[i] = ch.Alloc()
	}
	if x := ch.Usedmemory(); x <= used {
		t.Errorf("expected growth beyond %v, got %v", used, x)
	}
	for _, ptr := range ptrs {
		ch.Free(ptr)
	}
	// every chunk retired but one kept in reserve, the footprint is
	// back to the post construction value.
	if x := ch.Usedmemory(); x != used {
		t.Errorf("expected %v, got %v", used, x)
	}
	if ch.Full() == true {
		t.Errorf("expected free capacity")
	}
}

func TestChainAlignment(t *testing.T) {
	ch := NewChain(10, 4, 4, s.Settings{"alignment": int64(32)})
	defer ch.Release()

	for i := 0; i < 16; i++ {
		ptr := ch.Alloc()
		if ptr == nil {
			t.Fatalf("unexpected allocation failure at %v", i)
		}
		if (uintptr(ptr) & 31) != 0 {
			t.Errorf("pointer %v is not 32 byte aligned", ptr)
		}
	}
}
