// Package renderer holds the shared configuration for the slice
// renderer: camera projection constants and the fixed palette used by
// the cast shader and its CPU mirror. There is exactly one shader
// variant, so these are plain named constants rather than a registry.
package renderer

// Camera projection.
const (
	FieldOfViewDeg = 60.0
	NearPlane      = 0.1
	FarPlane       = 100.0
)

// Default window size for the interactive viewer.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Colors are RGBA in [0,1]. A hit is HitTint scaled by the sampled
// opacity; MissColor marks rays that land outside the slice footprint,
// Background marks in-footprint columns with no opaque sample.
var (
	HitTint    = [4]float32{0.95, 0.87, 0.70, 1}
	MissColor  = [4]float32{0.10, 0.10, 0.14, 1}
	Background = [4]float32{0.02, 0.03, 0.05, 1}
)
