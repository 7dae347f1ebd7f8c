package slice

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/erikpukinskis/3d-image-renderer/octree"
)

// sqrt3 is the unit-cube diagonal: the worst-case distance a step must
// cover to be sure it leaves the voxel it started in.
var sqrt3 = math32.Sqrt(3)

// StepVector returns the world-space spacing between adjacent slice
// samples along each screen axis for the given view direction and
// octree depth.
//
// The base magnitude sqrt(3)/(2^depth * 8) is one voxel of the target
// depth expressed in world units, spread over the 8-wide slice, scaled
// by the cube diagonal so a step escapes its source voxel even along
// the worst-case direction. Each axis is then stretched by
// sqrt(1 + d1^2 + d2^2), where d1 and d2 are the camera's lateral tilt
// components on the other two axes: a step along one screen axis still
// travels extra world distance when the view is tilted, and without
// the stretch consecutive samples would alias onto one voxel.
// An axis-aligned view has no lateral tilt, so all three components
// collapse to the base magnitude.
func StepVector(dir mgl32.Vec3, depth int) mgl32.Vec3 {
	base := sqrt3 / float32(uint32(1)<<uint(depth)*Width)

	// Lateral tilt: the view direction with its dominant axis removed.
	tilt := dir
	tilt[dominantAxis(dir)] = 0

	tx, ty, tz := tilt.X(), tilt.Y(), tilt.Z()
	return mgl32.Vec3{
		math32.Sqrt(1+ty*ty+tz*tz) * base,
		math32.Sqrt(1+tx*tx+tz*tz) * base,
		math32.Sqrt(1+tx*tx+ty*ty) * base,
	}
}

func dominantAxis(v mgl32.Vec3) int {
	axis := 0
	best := math32.Abs(v.X())
	if a := math32.Abs(v.Y()); a > best {
		axis, best = 1, a
	}
	if a := math32.Abs(v.Z()); a > best {
		axis = 2
	}
	return axis
}

// Sample walks the octree and fills a complete slice anchored at
// origin, stepping by StepVector(dir, depth) along each axis. The
// three per-sample offsets are applied as independent world-axis
// deltas rather than a composed camera basis; the caster inverts the
// same mapping, which is what keeps the two sides consistent.
func Sample(tree octree.Octree, origin, dir mgl32.Vec3, depth int) (*Slice, Geometry) {
	step := StepVector(dir, depth)
	geom := Geometry{Origin: origin, Step: step, Depth: depth}

	s := new(Slice)
	for x := 0; x < Width; x++ {
		for y := 0; y < Width; y++ {
			for z := 0; z < Width; z++ {
				p := mgl32.Vec3{
					origin.X() + float32(x)*step.X(),
					origin.Y() + float32(y)*step.Y(),
					origin.Z() + float32(z)*step.Z(),
				}
				s[Index(x, y, z)] = Opacity(tree, p, depth)
			}
		}
	}
	return s, geom
}

// Opacity samples the octree's opacity field at a world-space point,
// descending to the given depth. Points outside the unit cube are 0.
// A leaf reached before the target depth answers immediately; if the
// descent is still on a branch at the target depth, the branch's own
// packed opacity (the precomputed average of its children) stands in.
func Opacity(tree octree.Octree, p mgl32.Vec3, depth int) uint32 {
	if p.X() < 0 || p.X() > 1 || p.Y() < 0 || p.Y() > 1 || p.Z() < 0 || p.Z() > 1 {
		return 0
	}

	octant := 0
	last := tree.At(0)
	var ox, oy, oz float32

	for d := 0; d < depth; d++ {
		half := 1 / float32(uint32(2)<<uint(d)) // node child size at this level

		// Boundary ties resolve to the upper half on every axis.
		var x, y, z int
		if p.X() >= ox+half {
			x = 1
		}
		if p.Y() >= oy+half {
			y = 1
		}
		if p.Z() >= oz+half {
			z = 1
		}

		n := tree.At(octant*octree.OctantSize + octree.Slot(x, y, z))
		if n.Leaf() {
			return uint32(n.Opacity)
		}
		octant = int(n.Child)
		last = n

		ox += float32(x) * half
		oy += float32(y) * half
		oz += float32(z) * half
	}

	return uint32(last.Opacity)
}
