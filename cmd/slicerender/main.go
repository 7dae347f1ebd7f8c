package main

import (
	"flag"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	renderer "github.com/erikpukinskis/3d-image-renderer"
	"github.com/erikpukinskis/3d-image-renderer/app"
	"github.com/erikpukinskis/3d-image-renderer/core"
	"github.com/erikpukinskis/3d-image-renderer/octree"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	depth := flag.Int("depth", 3, "Initial octree depth to sample")
	radius := flag.Float64("radius", 0.4, "Radius of the demo sphere")
	levels := flag.Int("levels", 6, "Subdivision levels of the demo sphere")
	fontPath := flag.String("font", "", "TTF font for the HUD overlay (HUD off when empty)")
	flag.Parse()

	log := renderer.NewDefaultLogger("slicerender", *debug)

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(renderer.DefaultWidth, renderer.DefaultHeight, "Slice Renderer", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	tree := octree.Sphere(float32(*radius), *levels)
	log.Infof("demo sphere: %d octants at %d levels", tree.Octants(), *levels)

	application := app.New(window, tree, log)
	application.Depth = *depth

	if *fontPath != "" {
		hud, err := core.NewHudText(*fontPath, 32)
		if err != nil {
			log.Warnf("HUD unavailable: %v", err)
		} else {
			application.Hud = hud
		}
	}

	if err := application.Init(); err != nil {
		panic(err)
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	// One drag gesture at a time; the camera enforces it, the
	// callbacks just feed it.
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			x, y := w.GetCursorPos()
			application.Camera.BeginDrag(x, y)
		case glfw.Release:
			application.Camera.EndDrag()
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		application.Camera.Drag(x, y)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		if yoff > 0 {
			application.AdjustDepth(1)
		} else if yoff < 0 {
			application.AdjustDepth(-1)
		}
	})

	lastTime := glfw.GetTime()
	for !window.ShouldClose() {
		glfw.PollEvents()

		now := glfw.GetTime()
		dt := float32(now - lastTime)
		lastTime = now
		moveCamera(window, application.Camera, dt)

		application.Update()
		application.Render()
	}
}

const moveSpeed = 0.5 // world units per second

func moveCamera(w *glfw.Window, cam *core.CameraState, dt float32) {
	step := moveSpeed * dt
	if w.GetKey(glfw.KeyW) == glfw.Press {
		cam.Position = cam.Position.Add(cam.GetForward().Mul(step))
	}
	if w.GetKey(glfw.KeyS) == glfw.Press {
		cam.Position = cam.Position.Sub(cam.GetForward().Mul(step))
	}
	if w.GetKey(glfw.KeyA) == glfw.Press {
		cam.Position = cam.Position.Sub(cam.GetRight().Mul(step))
	}
	if w.GetKey(glfw.KeyD) == glfw.Press {
		cam.Position = cam.Position.Add(cam.GetRight().Mul(step))
	}
}
