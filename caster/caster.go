// Package caster re-derives, for one screen pixel at a time, which
// column of an already-sampled slice the pixel's ray passes through,
// and scans that column for the first opaque voxel. The WGSL fragment
// shader in the shaders package is the production rendition; this
// package is the same procedure in Go, used by tests and the headless
// snapshot path. The two must stay in lockstep.
package caster

import (
	"github.com/go-gl/mathgl/mgl32"

	renderer "github.com/erikpukinskis/3d-image-renderer"
	"github.com/erikpukinskis/3d-image-renderer/core"
	"github.com/erikpukinskis/3d-image-renderer/slice"
)

// Outcome distinguishes the three defined results of a cast. A column
// whose samples are all transparent is not the same thing as a ray
// that never landed in the slice footprint.
type Outcome int

const (
	Outside     Outcome = iota // ray misses the 8x8 footprint
	EmptyColumn                // column scanned, no opaque sample
	Hit
)

// Result is one pixel's cast. X and Y are valid unless the outcome is
// Outside; Z and Opacity only for a Hit.
type Result struct {
	Outcome Outcome
	X, Y    int
	Z       int
	Opacity uint32
}

// Color maps a result onto the configured palette. Hits are the hit
// tint scaled by opacity.
func (r Result) Color() [4]float32 {
	switch r.Outcome {
	case Hit:
		k := float32(r.Opacity) / 255
		c := renderer.HitTint
		return [4]float32{c[0] * k, c[1] * k, c[2] * k, c[3]}
	case EmptyColumn:
		return renderer.Background
	default:
		return renderer.MissColor
	}
}

// Frame is everything one frame's casts share: exactly the uniforms
// the fragment shader sees, with the per-frame transforms folded in.
// Casting is pure; a Frame is safe for concurrent use.
type Frame struct {
	width, height float32
	invProj       mgl32.Mat4

	// Slice geometry in camera space: origin transformed as a point,
	// step as a direction.
	originCam mgl32.Vec3
	stepCam   mgl32.Vec3

	slice *slice.Slice
}

// NewFrame binds a camera snapshot, a slice and its geometry for one
// frame of casting. The geometry must be the values the sampler
// actually used, transmitted verbatim.
func NewFrame(width, height int, cam core.Camera, geom slice.Geometry, s *slice.Slice) *Frame {
	return &Frame{
		width:     float32(width),
		height:    float32(height),
		invProj:   cam.Proj.Inv(),
		originCam: cam.View.Mul4x1(geom.Origin.Vec4(1)).Vec3(),
		stepCam:   cam.View.Mul4x1(geom.Step.Vec4(0)).Vec3(),
		slice:     s,
	}
}

// Cast runs the per-pixel procedure for the pixel at (px, py).
func (f *Frame) Cast(px, py int) Result {
	// Pixel center to NDC, y up.
	nx := (2*(float32(px)+0.5))/f.width - 1
	ny := 1 - (2*(float32(py)+0.5))/f.height

	// Un-project onto the near plane and normalize through the camera
	// origin to get the ray direction in camera space.
	near := f.invProj.Mul4x1(mgl32.Vec4{nx, ny, -1, 1})
	v := near.Vec3().Mul(1 / near.W()).Normalize()

	// The slice's defining plane passes through the transformed origin
	// with the ray's own direction as its normal, so the ray meets it
	// head-on: t = dot(a, v) with no zero denominator and no negative t.
	t := f.originCam.Dot(v)
	p := v.Mul(t)

	// Continuous slice-space index. The z component is never needed:
	// the scan below always covers the 8 stored z samples.
	off := p.Sub(f.originCam)
	ix := off.X() / f.stepCam.X()
	iy := off.Y() / f.stepCam.Y()

	if ix < 0 || ix >= slice.Width || iy < 0 || iy >= slice.Width {
		return Result{Outcome: Outside}
	}
	x, y := int(ix), int(iy) // truncation toward zero; negatives already excluded

	for z := 0; z < slice.Width; z++ {
		if o := f.slice.At(x, y, z); o > 0 {
			return Result{Outcome: Hit, X: x, Y: y, Z: z, Opacity: o}
		}
	}
	return Result{Outcome: EmptyColumn, X: x, Y: y}
}
