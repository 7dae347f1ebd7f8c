// Package gpu owns the WebGPU buffers that feed the cast shader: the
// per-frame uniform block and the slice storage buffer.
package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformsSize is the byte size of the frame uniform block.
const UniformsSize = 176

// PackUniforms serializes the frame uniforms into the WGSL layout the
// cast shader declares:
//
//	struct FrameUniforms {
//	    view: mat4x4<f32>,         // offset   0
//	    inv_proj: mat4x4<f32>,     // offset  64
//	    slice_origin: vec4<f32>,   // offset 128, w unused
//	    slice_step: vec4<f32>,     // offset 144, w unused
//	    resolution: vec2<f32>,     // offset 160
//	    depth: u32,                // offset 168
//	}                              // 176 bytes
//
// Matrices are column-major on both sides, so they copy straight
// through.
func PackUniforms(view, invProj mgl32.Mat4, width, height uint32, origin, step mgl32.Vec3, depth uint32) []byte {
	buf := make([]byte, UniformsSize)

	writeMat := func(offset int, m mgl32.Mat4) {
		for i, v := range m {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
		}
	}
	writeVec3 := func(offset int, v mgl32.Vec3) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v.X()))
		binary.LittleEndian.PutUint32(buf[offset+4:], math.Float32bits(v.Y()))
		binary.LittleEndian.PutUint32(buf[offset+8:], math.Float32bits(v.Z()))
		binary.LittleEndian.PutUint32(buf[offset+12:], 0)
	}

	writeMat(0, view)
	writeMat(64, invProj)
	writeVec3(128, origin)
	writeVec3(144, step)
	binary.LittleEndian.PutUint32(buf[160:], math.Float32bits(float32(width)))
	binary.LittleEndian.PutUint32(buf[164:], math.Float32bits(float32(height)))
	binary.LittleEndian.PutUint32(buf[168:], depth)
	binary.LittleEndian.PutUint32(buf[172:], 0)

	return buf
}

// PackSlice widens nothing: slice entries are already uint32; this
// just lays them out little-endian for the storage buffer.
func PackSlice(entries []uint32) []byte {
	buf := make([]byte, len(entries)*4)
	for i, v := range entries {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}
