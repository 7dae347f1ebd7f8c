// Package octree stores a sparse voxel hierarchy as a flat array of
// packed 32-bit entries, the layout consumed directly by the slice
// sampler and, after upload, by the cast shader.
package octree

import "fmt"

const (
	// OctantSize is the number of entries in one octant group.
	OctantSize = 8

	// MaxChild is the largest octant number the 24-bit child field can hold.
	MaxChild = 1<<24 - 1
)

// Octree is a growable sequence of packed entries. Entries are grouped
// into octants of 8; octant 0 (indices 0-7) is the root. The tree spans
// the unit cube [0,1]^3 in world space.
//
// Entry layout:
//
//	opacity = v & 0xFF      0 transparent .. 255 opaque
//	child   = v >> 8        octant number of the children, 0 = leaf
//
// A branch's child octant number must be strictly greater than the
// octant number containing the entry, so descent always moves forward
// through the array and terminates.
type Octree []uint32

// Node is one decoded entry.
type Node struct {
	Opacity uint8
	Child   uint32 // octant number; entries live at indices 8*Child .. 8*Child+7
}

// Leaf reports whether the node has no children.
func (n Node) Leaf() bool {
	return n.Child == 0
}

// Pack encodes an opacity and a child octant number into one entry.
func Pack(opacity uint8, child uint32) uint32 {
	return uint32(opacity) | child<<8
}

// Decode unpacks a raw entry.
func Decode(v uint32) Node {
	return Node{
		Opacity: uint8(v & 0xFF),
		Child:   v >> 8,
	}
}

// Slot returns the in-octant index of the child cube selected by the
// per-axis half bits. x, y, z must each be 0 or 1.
func Slot(x, y, z int) int {
	return x | y<<1 | z<<2
}

// At decodes the entry at an absolute index. An out-of-range index is
// a programming error and panics via the bounds check.
func (t Octree) At(i int) Node {
	return Decode(t[i])
}

// Octants returns how many complete octant groups the tree holds.
func (t Octree) Octants() int {
	return len(t) / OctantSize
}

// Validate checks the structural invariants: the length is a whole
// number of octants, at least the root exists, and every branch points
// to a later, in-range octant. Well-formedness is a construction-time
// concern; the sampler assumes it and never re-checks.
func (t Octree) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("octree: empty, missing root octant")
	}
	if len(t)%OctantSize != 0 {
		return fmt.Errorf("octree: length %d is not a multiple of %d", len(t), OctantSize)
	}
	octants := t.Octants()
	for i, v := range t {
		n := Decode(v)
		if n.Leaf() {
			continue
		}
		here := i / OctantSize
		if int(n.Child) <= here {
			return fmt.Errorf("octree: entry %d in octant %d points backward to octant %d", i, here, n.Child)
		}
		if int(n.Child) >= octants {
			return fmt.Errorf("octree: entry %d points to octant %d, tree has %d", i, n.Child, octants)
		}
	}
	return nil
}
