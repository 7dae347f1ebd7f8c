package octree

import "testing"

func TestPackDecodeRoundTrip(t *testing.T) {
	children := []uint32{0, 1, 2, 7, 255, 256, 0xABCD, MaxChild}
	for opacity := 0; opacity <= 255; opacity++ {
		for _, child := range children {
			v := Pack(uint8(opacity), child)
			n := Decode(v)
			if n.Opacity != uint8(opacity) {
				t.Fatalf("Pack(%d, %d): decoded opacity %d", opacity, child, n.Opacity)
			}
			if n.Child != child {
				t.Fatalf("Pack(%d, %d): decoded child %d", opacity, child, n.Child)
			}
			if n.Leaf() != (child == 0) {
				t.Fatalf("Pack(%d, %d): Leaf() = %v", opacity, child, n.Leaf())
			}
			if n.Leaf() != (v < 256) {
				t.Fatalf("Pack(%d, %d): Leaf() disagrees with v < 256", opacity, child)
			}
		}
	}
}

func TestSlot(t *testing.T) {
	// slot = x | y<<1 | z<<2
	cases := []struct {
		x, y, z, want int
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 1},
		{0, 1, 0, 2},
		{1, 1, 0, 3},
		{0, 0, 1, 4},
		{1, 1, 1, 7},
	}
	for _, c := range cases {
		if got := Slot(c.x, c.y, c.z); got != c.want {
			t.Errorf("Slot(%d,%d,%d) = %d, want %d", c.x, c.y, c.z, got, c.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Octree{
		Pack(128, 1), Pack(0, 0), Pack(0, 0), Pack(0, 0),
		Pack(0, 0), Pack(0, 0), Pack(0, 0), Pack(0, 0),
		Pack(255, 0), Pack(255, 0), Pack(255, 0), Pack(255, 0),
		Pack(0, 0), Pack(0, 0), Pack(0, 0), Pack(0, 0),
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid tree rejected: %v", err)
	}

	if err := (Octree{}).Validate(); err == nil {
		t.Error("empty tree accepted")
	}

	ragged := make(Octree, 12)
	if err := ragged.Validate(); err == nil {
		t.Error("non-multiple-of-8 length accepted")
	}

	backward := make(Octree, 16)
	backward[8] = Pack(10, 1) // entry in octant 1 pointing at octant 1
	if err := backward.Validate(); err == nil {
		t.Error("backward child pointer accepted")
	}

	dangling := make(Octree, 8)
	dangling[0] = Pack(10, 3)
	if err := dangling.Validate(); err == nil {
		t.Error("out-of-range child octant accepted")
	}
}

func TestAtPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("At() past the end did not panic")
		}
	}()
	tree := make(Octree, 8)
	tree.At(8)
}

func TestSphereWellFormed(t *testing.T) {
	tree := Sphere(0.4, 4)
	if err := tree.Validate(); err != nil {
		t.Fatalf("Sphere tree invalid: %v", err)
	}
	if tree.Octants() < 2 {
		t.Fatalf("Sphere tree suspiciously small: %d octants", tree.Octants())
	}

	// The cube corners are outside a radius-0.4 sphere, the center
	// region is inside, so the root octant must mix values.
	sawOpaque, sawClear := false, false
	for i := 0; i < OctantSize; i++ {
		n := tree.At(i)
		if n.Opacity > 0 || !n.Leaf() {
			sawOpaque = true
		}
		if n.Opacity < 255 {
			sawClear = true
		}
	}
	if !sawOpaque || !sawClear {
		t.Error("root octant of a boundary-crossing sphere should mix opacity")
	}
}
