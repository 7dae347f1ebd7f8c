// Package slice materializes camera-aligned 8x8x8 samplings of an
// octree's opacity field. One sampling (a "slice") is produced per
// frame on the CPU and handed to the cast shader together with the
// geometry that built it.
package slice

import "github.com/go-gl/mathgl/mgl32"

const (
	// Width is the slice extent along each screen axis.
	Width = 8

	// Len is the total entry count of a slice buffer.
	Len = Width * Width * Width
)

// Slice is one fully populated sampling. Entries hold opacities in
// [0,255], widened to uint32 for direct GPU upload. Out-of-cube
// samples are stored as 0; there is no sparsity.
type Slice [Len]uint32

// Index flattens slice coordinates; x, y, z in [0,8).
func Index(x, y, z int) int {
	return x | y<<3 | z<<6
}

// At reads one entry.
func (s *Slice) At(x, y, z int) uint32 {
	return s[Index(x, y, z)]
}

// Geometry is the (origin, step, depth) triple that, together with the
// octree, fully determines a slice. The caster must receive exactly
// these values or its derived columns decorrelate from the data.
type Geometry struct {
	Origin mgl32.Vec3 // world-space sample position of voxel (0,0,0)
	Step   mgl32.Vec3 // world-space spacing between adjacent samples per axis
	Depth  int        // octree level sampled; voxel side is 1/2^Depth
}
