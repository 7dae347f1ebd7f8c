// Package core holds the camera model and the HUD text geometry: the
// pieces the render loop consumes each frame but that own no GPU state.
package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	renderer "github.com/erikpukinskis/3d-image-renderer"
)

// Camera is the immutable per-frame snapshot the sampler and caster
// consume. The input layer mutates CameraState; the core only ever
// sees one of these.
type Camera struct {
	View     mgl32.Mat4
	Proj     mgl32.Mat4
	Position mgl32.Vec3
	Forward  mgl32.Vec3
}

// CameraState is the mutable camera owned by the input layer: a
// position plus two rotation angles, composed into a world transform
// on demand. Orientation changes only through the drag gesture.
type CameraState struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Sensitivity float32

	dragging     bool
	dragX, dragY float64
}

func NewCameraState() *CameraState {
	return &CameraState{
		Position:    mgl32.Vec3{0.5, 0.5, 2.5},
		Sensitivity: 0.004,
	}
}

// GetForward returns the view direction. Yaw and pitch of zero look
// straight down -Z, Y-up.
func (c *CameraState) GetForward() mgl32.Vec3 {
	cp := math32.Cos(c.Pitch)
	return mgl32.Vec3{
		cp * math32.Sin(c.Yaw),
		math32.Sin(c.Pitch),
		-cp * math32.Cos(c.Yaw),
	}
}

func (c *CameraState) GetRight() mgl32.Vec3 {
	return mgl32.Vec3{math32.Cos(c.Yaw), 0, math32.Sin(c.Yaw)}
}

func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	eye := c.Position
	target := eye.Add(c.GetForward())
	return mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
}

// Snapshot freezes the current state into the value the render path
// uses for one whole frame.
func (c *CameraState) Snapshot(aspect float32) Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return Camera{
		View:     c.GetViewMatrix(),
		Proj:     mgl32.Perspective(mgl32.DegToRad(renderer.FieldOfViewDeg), aspect, renderer.NearPlane, renderer.FarPlane),
		Position: c.Position,
		Forward:  c.GetForward(),
	}
}

// BeginDrag starts a pointer-drag gesture at the given cursor
// position. Only one gesture can be active; a second Begin while
// dragging is ignored and reports false.
func (c *CameraState) BeginDrag(x, y float64) bool {
	if c.dragging {
		return false
	}
	c.dragging = true
	c.dragX, c.dragY = x, y
	return true
}

// Drag feeds a cursor move into the active gesture. Moves outside a
// gesture are ignored.
func (c *CameraState) Drag(x, y float64) {
	if !c.dragging {
		return
	}
	dx := float32(x - c.dragX)
	dy := float32(y - c.dragY)
	c.dragX, c.dragY = x, y

	c.Yaw += dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity

	const maxPitch = math32.Pi/2 - 0.01
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}
}

func (c *CameraState) EndDrag() {
	c.dragging = false
}

func (c *CameraState) Dragging() bool {
	return c.dragging
}
