package malloc

import "testing"

func TestAlignup(t *testing.T) {
	ref := [][3]int64{
		{0, 8, 0}, {1, 8, 8}, {8, 8, 8}, {9, 8, 16},
		{10, 32, 32}, {33, 32, 64}, {64, 64, 64},
	}
	for _, x := range ref {
		if y := alignup(x[0], x[1]); y != x[2] {
			t.Errorf("alignup(%v, %v) expected %v, got %v", x[0], x[1], x[2], y)
		}
	}
}

func TestIspow2(t *testing.T) {
	for _, n := range []int64{1, 2, 4, 8, 1024} {
		if ispow2(n) == false {
			t.Errorf("expected %v to be a power of 2", n)
		}
	}
	for _, n := range []int64{0, -1, 3, 24, 1023} {
		if ispow2(n) == true {
			t.Errorf("expected %v to not be a power of 2", n)
		}
	}
}

func TestCellsizefor(t *testing.T) {
	if x := cellsizefor(1, 8); x != 8 {
		t.Errorf("expected %v, got %v", 8, x)
	}
	if x := cellsizefor(10, 8); x != 16 {
		t.Errorf("expected %v, got %v", 16, x)
	}
	if x := cellsizefor(4, 32); x != 32 {
		t.Errorf("expected %v, got %v", 32, x)
	}
}
