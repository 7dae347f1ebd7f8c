package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardIsUnit(t *testing.T) {
	c := NewCameraState()
	for _, angles := range [][2]float32{{0, 0}, {1.2, 0.4}, {-2.1, -0.9}, {3.0, 1.4}} {
		c.Yaw, c.Pitch = angles[0], angles[1]
		assert.InDelta(t, 1.0, float64(c.GetForward().Len()), 1e-5)
		assert.InDelta(t, 1.0, float64(c.GetRight().Len()), 1e-5)
	}
}

func TestDefaultOrientationLooksDownMinusZ(t *testing.T) {
	c := NewCameraState()
	fwd := c.GetForward()
	assert.InDelta(t, 0, float64(fwd.X()), 1e-6)
	assert.InDelta(t, 0, float64(fwd.Y()), 1e-6)
	assert.InDelta(t, -1, float64(fwd.Z()), 1e-6)
}

func TestSnapshotMatchesState(t *testing.T) {
	c := NewCameraState()
	c.Yaw = 0.3
	cam := c.Snapshot(16.0 / 9.0)

	assert.Equal(t, c.Position, cam.Position)
	assert.Equal(t, c.GetForward(), cam.Forward)
	assert.Equal(t, c.GetViewMatrix(), cam.View)

	// The view matrix must map the camera position to the origin.
	eye := cam.View.Mul4x1(c.Position.Vec4(1))
	assert.InDelta(t, 0, float64(eye.X()), 1e-5)
	assert.InDelta(t, 0, float64(eye.Y()), 1e-5)
	assert.InDelta(t, 0, float64(eye.Z()), 1e-5)
}

func TestSnapshotZeroAspect(t *testing.T) {
	c := NewCameraState()
	cam := c.Snapshot(0)
	require.False(t, cam.Proj.ApproxEqual(mgl32.Mat4{}), "projection should fall back to square aspect")
}

func TestDragGestureExclusive(t *testing.T) {
	c := NewCameraState()

	require.True(t, c.BeginDrag(100, 100))
	assert.True(t, c.Dragging())
	assert.False(t, c.BeginDrag(200, 200), "second gesture must not start while one is active")

	c.Drag(110, 100)
	assert.Greater(t, c.Yaw, float32(0), "rightward drag turns right")

	c.EndDrag()
	assert.False(t, c.Dragging())
	require.True(t, c.BeginDrag(0, 0), "gesture can start again after ending")
}

func TestDragIgnoredWhenInactive(t *testing.T) {
	c := NewCameraState()
	c.Drag(500, 500)
	assert.Zero(t, c.Yaw)
	assert.Zero(t, c.Pitch)
}

func TestDragClampsPitch(t *testing.T) {
	c := NewCameraState()
	c.BeginDrag(0, 0)
	c.Drag(0, 1e6) // drag far down
	assert.Less(t, c.Pitch, float32(0))
	assert.Greater(t, float64(c.Pitch), -1.58)
	c.Drag(0, -2e6) // and far up
	assert.Less(t, float64(c.Pitch), 1.58)
}
