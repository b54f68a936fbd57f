package malloc

import "testing"
import "unsafe"

type testnode struct {
	x, y int64
	tag  [16]byte
}

func TestCreateDestroy(t *testing.T) {
	pl := NewPool(int64(unsafe.Sizeof(testnode{})), 2, Defaultsettings())
	defer pl.Release()

	node := Create[testnode](pl)
	if node == nil {
		t.Fatalf("unexpected allocation failure")
	}
	if node.x != 0 || node.y != 0 {
		t.Errorf("expected a zero valued object, got %v", *node)
	}
	node.x, node.y = 10, 20
	node.tag[0] = 'a'

	other := Create[testnode](pl)
	other.x = 30
	if node.x != 10 || node.tag[0] != 'a' {
		t.Errorf("neighbouring object clobbered: %v", *node)
	}

	if ptr := Create[testnode](pl); ptr != nil {
		t.Errorf("expected nil, got %v", ptr)
	}
	if Destroy(pl, node) == false {
		t.Errorf("unexpected destroy failure")
	}
	if Destroy(pl, other) == false {
		t.Errorf("unexpected destroy failure")
	}
	if pl.Full() == true {
		t.Errorf("expected free blocks")
	}
}

func TestCreateChain(t *testing.T) {
	ch := NewChain(int64(unsafe.Sizeof(testnode{})), 2, 3, Defaultsettings())
	defer ch.Release()

	nodes := make([]*testnode, 5)
	for i := range nodes {
		if nodes[i] = Create[testnode](ch); nodes[i] == nil {
			t.Fatalf("unexpected allocation failure at %v", i)
		}
		nodes[i].x = int64(i)
	}
	for i, node := range nodes {
		if node.x != int64(i) {
			t.Errorf("expected %v, got %v", i, node.x)
		}
		if Destroy(ch, node) == false {
			t.Errorf("unexpected destroy failure")
		}
	}
}

func TestAs(t *testing.T) {
	pl := NewPool(16, 1, Defaultsettings())
	defer pl.Release()

	ptr := pl.Alloc()
	value := As[int64](ptr)
	*value = 42
	if x := *As[int64](ptr); x != 42 {
		t.Errorf("expected %v, got %v", 42, x)
	}
}

func TestCreateOversize(t *testing.T) {
	pl := NewPool(8, 2, Defaultsettings())
	defer pl.Release()

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic")
		}
	}()
	Create[testnode](pl)
}
