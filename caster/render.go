package caster

import (
	"image"
	"image/color"
	"runtime"
	"sync"
)

// Render casts every pixel of img's bounds against the frame,
// data-parallel across row bands. Pixels are fully independent: each
// goroutine writes only its own rows and there is no other shared
// mutable state, so the image is complete when Render returns.
func (f *Frame) Render(img *image.RGBA) {
	bounds := img.Bounds()
	height := bounds.Dy()

	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}
	if workers < 1 {
		workers = 1
	}
	band := (height + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		y0 := bounds.Min.Y + w*band
		y1 := y0 + band
		if y1 > bounds.Max.Y {
			y1 = bounds.Max.Y
		}
		if y0 >= y1 {
			break
		}

		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := bounds.Min.X; x < bounds.Max.X; x++ {
					img.SetRGBA(x, y, toRGBA(f.Cast(x-bounds.Min.X, y-bounds.Min.Y).Color()))
				}
			}
		}(y0, y1)
	}
	wg.Wait()
}

func toRGBA(c [4]float32) color.RGBA {
	return color.RGBA{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: channel(c[3]),
	}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
