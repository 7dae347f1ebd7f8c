package core

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// HudVertex matches the text pipeline's vertex layout.
type HudVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

type glyph struct {
	uvMin   [2]float32
	uvMax   [2]float32
	size    [2]float32
	offset  [2]float32
	advance float32
}

// HudText rasterizes the printable ASCII range into a single alpha
// atlas at startup and turns overlay strings into textured quads each
// frame. Purely CPU-side; the app owns the matching GPU texture.
type HudText struct {
	Atlas  *image.Alpha
	glyphs map[rune]glyph
	face   font.Face
}

const hudAtlasSize = 512

func NewHudText(fontPath string, size float64) (*HudText, error) {
	raw, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("hud: read font: %w", err)
	}
	parsed, err := opentype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("hud: parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("hud: create face: %w", err)
	}

	h := &HudText{
		Atlas:  image.NewAlpha(image.Rect(0, 0, hudAtlasSize, hudAtlasSize)),
		glyphs: make(map[rune]glyph),
		face:   face,
	}

	penX, penY, rowH := 2, 2, 0
	for r := rune(32); r < 127; r++ {
		bounds, mask, _, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, ht := mask.Bounds().Dx(), mask.Bounds().Dy()
		if penX+w >= hudAtlasSize {
			penX = 2
			penY += rowH + 4
			rowH = 0
		}
		if penY+ht >= hudAtlasSize {
			break
		}
		draw.Draw(h.Atlas, image.Rect(penX, penY, penX+w, penY+ht), mask, mask.Bounds().Min, draw.Src)

		h.glyphs[r] = glyph{
			uvMin:   [2]float32{float32(penX) / hudAtlasSize, float32(penY) / hudAtlasSize},
			uvMax:   [2]float32{float32(penX+w) / hudAtlasSize, float32(penY+ht) / hudAtlasSize},
			size:    [2]float32{float32(w), float32(ht)},
			offset:  [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			advance: float32(adv) / 64.0,
		}
		penX += w + 4
		if ht > rowH {
			rowH = ht
		}
	}
	return h, nil
}

// Line builds the two-triangle quads for one string anchored at a
// pixel position, emitting clip-space vertices for the given screen.
func (h *HudText) Line(text string, x, y float32, color [4]float32, screenW, screenH int) []HudVertex {
	sw, sh := float32(screenW), float32(screenH)
	ascent := float32(h.face.Metrics().Ascent.Ceil())

	verts := make([]HudVertex, 0, len(text)*6)
	penX := x
	penY := y + ascent

	for _, r := range text {
		g, ok := h.glyphs[r]
		if !ok {
			continue
		}

		x0 := (penX+g.offset[0])/sw*2 - 1
		y0 := 1 - (penY+g.offset[1])/sh*2
		x1 := (penX+g.offset[0]+g.size[0])/sw*2 - 1
		y1 := 1 - (penY+g.offset[1]+g.size[1])/sh*2

		verts = append(verts,
			HudVertex{Pos: [2]float32{x0, y0}, UV: [2]float32{g.uvMin[0], g.uvMin[1]}, Color: color},
			HudVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: color},
			HudVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: color},
			HudVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: color},
			HudVertex{Pos: [2]float32{x1, y1}, UV: [2]float32{g.uvMax[0], g.uvMax[1]}, Color: color},
			HudVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: color},
		)
		penX += g.advance
	}
	return verts
}
