package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func f32At(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset : offset+4]))
}

func TestPackUniformsLayout(t *testing.T) {
	view := mgl32.Translate3D(1, 2, 3)
	invProj := mgl32.Perspective(mgl32.DegToRad(60), 1.5, 0.1, 100).Inv()
	origin := mgl32.Vec3{0.1, 0.2, 0.3}
	step := mgl32.Vec3{0.01, 0.02, 0.03}

	buf := PackUniforms(view, invProj, 1280, 720, origin, step, 5)

	if len(buf) != UniformsSize {
		t.Fatalf("buffer is %d bytes, want %d", len(buf), UniformsSize)
	}

	// Matrices copy column-major, element for element.
	for i := 0; i < 16; i++ {
		if got := f32At(buf, i*4); got != view[i] {
			t.Errorf("view[%d] = %g, want %g", i, got, view[i])
		}
		if got := f32At(buf, 64+i*4); got != invProj[i] {
			t.Errorf("inv_proj[%d] = %g, want %g", i, got, invProj[i])
		}
	}

	for i := 0; i < 3; i++ {
		if got := f32At(buf, 128+i*4); got != origin[i] {
			t.Errorf("slice_origin[%d] = %g, want %g", i, got, origin[i])
		}
		if got := f32At(buf, 144+i*4); got != step[i] {
			t.Errorf("slice_step[%d] = %g, want %g", i, got, step[i])
		}
	}
	// vec4 padding lanes are zeroed.
	if binary.LittleEndian.Uint32(buf[140:144]) != 0 || binary.LittleEndian.Uint32(buf[156:160]) != 0 {
		t.Error("vec4 padding lanes must be zero")
	}

	if got := f32At(buf, 160); got != 1280 {
		t.Errorf("resolution.x = %g, want 1280", got)
	}
	if got := f32At(buf, 164); got != 720 {
		t.Errorf("resolution.y = %g, want 720", got)
	}
	if got := binary.LittleEndian.Uint32(buf[168:172]); got != 5 {
		t.Errorf("depth = %d, want 5", got)
	}
}

func TestPackSlice(t *testing.T) {
	entries := []uint32{0, 1, 255, 0xDEADBEEF}
	buf := PackSlice(entries)
	if len(buf) != 16 {
		t.Fatalf("packed %d bytes, want 16", len(buf))
	}
	for i, want := range entries {
		if got := binary.LittleEndian.Uint32(buf[i*4:]); got != want {
			t.Errorf("entry %d = %#x, want %#x", i, got, want)
		}
	}
}
