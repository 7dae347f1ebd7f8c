package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/erikpukinskis/3d-image-renderer/slice"
)

// BufferManager keeps the cast shader's two inputs resident on the
// device: the frame uniform block and the 512-entry slice buffer.
type BufferManager struct {
	Device *wgpu.Device

	UniformBuf *wgpu.Buffer
	SliceBuf   *wgpu.Buffer

	BindGroup0 *wgpu.BindGroup
}

func NewBufferManager(device *wgpu.Device) *BufferManager {
	return &BufferManager{Device: device}
}

// ensureBuffer grows-or-writes: create the buffer if missing or too
// small, otherwise just write into it. Returns true when the buffer
// was (re)created, which invalidates bind groups referencing it.
func (m *BufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage) bool {
	neededSize := uint64(len(data))
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	current := *buf
	if current != nil && current.GetSize() >= neededSize {
		if len(data) > 0 {
			m.Device.GetQueue().WriteBuffer(current, 0, data)
		}
		return false
	}

	if current != nil {
		current.Release()
	}
	newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name,
		Size:  neededSize,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	*buf = newBuf
	if len(data) > 0 {
		m.Device.GetQueue().WriteBuffer(newBuf, 0, data)
	}
	return true
}

// UpdateFrame uploads the uniforms and slice for one frame. Returns
// true when a buffer was recreated and CreateBindGroup must run again.
func (m *BufferManager) UpdateFrame(view, invProj mgl32.Mat4, width, height uint32, geom slice.Geometry, s *slice.Slice) bool {
	recreated := m.ensureBuffer("FrameUniforms", &m.UniformBuf,
		PackUniforms(view, invProj, width, height, geom.Origin, geom.Step, uint32(geom.Depth)),
		wgpu.BufferUsageUniform)
	recreated = m.ensureBuffer("SliceBuf", &m.SliceBuf, PackSlice(s[:]), wgpu.BufferUsageStorage) || recreated
	return recreated
}

// CreateBindGroup builds bind group 0 for the cast pipeline: the
// uniform block at binding 0, the slice at binding 1.
func (m *BufferManager) CreateBindGroup(pipeline *wgpu.RenderPipeline) {
	if m.BindGroup0 != nil {
		m.BindGroup0.Release()
	}
	bg, err := m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.UniformBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: m.SliceBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		panic(err)
	}
	m.BindGroup0 = bg
}

// Release frees everything the manager owns.
func (m *BufferManager) Release() {
	if m.BindGroup0 != nil {
		m.BindGroup0.Release()
		m.BindGroup0 = nil
	}
	if m.UniformBuf != nil {
		m.UniformBuf.Release()
		m.UniformBuf = nil
	}
	if m.SliceBuf != nil {
		m.SliceBuf.Release()
		m.SliceBuf = nil
	}
}
