package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikpukinskis/3d-image-renderer/core"
	"github.com/erikpukinskis/3d-image-renderer/octree"
	"github.com/erikpukinskis/3d-image-renderer/slice"
)

func TestSliceOriginCentersFocus(t *testing.T) {
	state := core.NewCameraState()
	state.Yaw = 0.7
	state.Pitch = -0.3
	cam := state.Snapshot(1)

	step := slice.StepVector(cam.Forward, 3)
	origin := sliceOrigin(cam, step, 1.5)

	focus := cam.Position.Add(cam.Forward.Mul(1.5))
	back := origin.Add(step.Mul(slice.Width / 2))
	for axis := 0; axis < 3; axis++ {
		assert.InDelta(t, float64(focus[axis]), float64(back[axis]), 1e-6)
	}
}

func TestAdjustDepthClamps(t *testing.T) {
	a := New(nil, octree.Sphere(0.4, 2), nil)
	a.Depth = 3

	a.AdjustDepth(-100)
	assert.Equal(t, MinDepth, a.Depth)
	a.AdjustDepth(100)
	assert.Equal(t, MaxDepth, a.Depth)
	a.AdjustDepth(-1)
	assert.Equal(t, MaxDepth-1, a.Depth)
}

func TestNewAssignsSession(t *testing.T) {
	tree := octree.Sphere(0.4, 2)
	a := New(nil, tree, nil)
	b := New(nil, tree, nil)
	require.NotEmpty(t, a.SessionID)
	assert.NotEqual(t, a.SessionID, b.SessionID)
	assert.NotNil(t, a.Log, "nil logger must fall back to nop")
}
