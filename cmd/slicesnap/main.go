// slicesnap renders one frame of the demo volume on the CPU and
// writes it to a PNG. It runs the exact per-pixel procedure the
// fragment shader runs, so it needs no GPU; useful for eyeballing the
// sampler/caster agreement and for CI artifacts.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	renderer "github.com/erikpukinskis/3d-image-renderer"
	"github.com/erikpukinskis/3d-image-renderer/caster"
	"github.com/erikpukinskis/3d-image-renderer/core"
	"github.com/erikpukinskis/3d-image-renderer/octree"
	"github.com/erikpukinskis/3d-image-renderer/slice"
)

func main() {
	out := flag.String("out", "", "Output PNG path (default: slicesnap-<id>.png)")
	size := flag.Int("size", 256, "Cast resolution in pixels (square)")
	scale := flag.Int("scale", 2, "Integer upscale factor for the written image")
	depth := flag.Int("depth", 3, "Octree depth to sample")
	radius := flag.Float64("radius", 0.4, "Radius of the demo sphere")
	levels := flag.Int("levels", 6, "Subdivision levels of the demo sphere")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log := renderer.NewDefaultLogger("slicesnap", *debug)

	if err := run(*out, *size, *scale, *depth, float32(*radius), *levels, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(out string, size, scale, depth int, radius float32, levels int, log renderer.Logger) error {
	tree := octree.Sphere(radius, levels)
	if err := tree.Validate(); err != nil {
		return err
	}
	log.Debugf("demo sphere: %d octants", tree.Octants())

	state := core.NewCameraState()
	cam := state.Snapshot(1)

	step := slice.StepVector(cam.Forward, depth)
	focus := cam.Position.Add(cam.Forward.Mul(1.5))
	origin := focus.Sub(step.Mul(slice.Width / 2))

	s, geom := slice.Sample(tree, origin, cam.Forward, depth)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	caster.NewFrame(size, size, cam, geom, s).Render(img)

	final := image.Image(img)
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, size*scale, size*scale))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		final = dst
	}

	if out == "" {
		out = fmt.Sprintf("slicesnap-%s.png", uuid.NewString())
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if err := png.Encode(f, final); err != nil {
		return fmt.Errorf("encode %s: %w", out, err)
	}
	log.Infof("wrote %s (%dx%d, depth %d)", out, final.Bounds().Dx(), final.Bounds().Dy(), depth)
	return nil
}
