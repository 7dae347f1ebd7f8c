package octree

import "github.com/chewxy/math32"

// node is the intermediate tree form used while generating procedural
// content. Flattening to the packed array happens breadth-first so
// children always land in later octants.
type node struct {
	opacity  uint8
	children *[8]*node
}

// Sphere voxelizes a solid sphere of the given radius centered in the
// unit cube, subdividing to maxDepth levels. Cells fully inside the
// sphere become opaque leaves, fully outside become transparent
// leaves, and boundary cells subdivide until maxDepth, where they get
// a half opacity. Branch entries carry the average opacity of their
// children so coarse sampling still sees a sensible value.
func Sphere(radius float32, maxDepth int) Octree {
	center := [3]float32{0.5, 0.5, 0.5}
	root := buildSphere(center, radius, [3]float32{0, 0, 0}, 1, maxDepth)
	return flatten(root)
}

func buildSphere(center [3]float32, radius float32, origin [3]float32, size float32, levels int) *node {
	// Distance from the sphere center to the nearest and farthest
	// point of this cell.
	var near, far float32
	for i := 0; i < 3; i++ {
		lo, hi := origin[i], origin[i]+size
		d := clampDist(center[i], lo, hi)
		near += d * d
		f := math32.Max(math32.Abs(center[i]-lo), math32.Abs(center[i]-hi))
		far += f * f
	}
	near = math32.Sqrt(near)
	far = math32.Sqrt(far)

	switch {
	case far <= radius:
		return &node{opacity: 255}
	case near > radius:
		return &node{opacity: 0}
	case levels == 0:
		return &node{opacity: 128}
	}

	n := &node{children: new([8]*node)}
	half := size / 2
	sum := 0
	for z := 0; z < 2; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				o := [3]float32{
					origin[0] + float32(x)*half,
					origin[1] + float32(y)*half,
					origin[2] + float32(z)*half,
				}
				c := buildSphere(center, radius, o, half, levels-1)
				n.children[Slot(x, y, z)] = c
				sum += int(c.opacity)
			}
		}
	}
	n.opacity = uint8(sum / 8)
	return n
}

func clampDist(v, lo, hi float32) float32 {
	if v < lo {
		return lo - v
	}
	if v > hi {
		return v - hi
	}
	return 0
}

// flatten packs the intermediate tree breadth-first. Octant 0 holds
// the root's 8 children; every deeper child group is appended as a
// later octant, which is exactly the ordering Validate requires.
func flatten(root *node) Octree {
	if root.children == nil {
		// Degenerate leaf-only root: one octant, same value everywhere.
		tree := make(Octree, OctantSize)
		for i := range tree {
			tree[i] = Pack(root.opacity, 0)
		}
		return tree
	}

	var tree Octree
	queue := []*[8]*node{root.children}
	emitted := 0

	for len(queue) > 0 {
		oct := queue[0]
		queue = queue[1:]
		base := emitted * OctantSize
		tree = append(tree, make(Octree, OctantSize)...)

		for slot, child := range oct {
			if child.children == nil {
				tree[base+slot] = Pack(child.opacity, 0)
				continue
			}
			// Pending groups occupy the octants right after this one,
			// so the new child lands just past the current queue tail.
			childOctant := uint32(emitted + 1 + len(queue))
			tree[base+slot] = Pack(child.opacity, childOctant)
			queue = append(queue, child.children)
		}
		emitted++
	}
	return tree
}
