// Package app is the platform glue around the core: window surface,
// pipelines, per-frame sampling and the draw call. It supplies the
// camera snapshot and consumes the slice buffer; all the algorithmic
// content lives in the octree, slice and caster packages.
package app

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	renderer "github.com/erikpukinskis/3d-image-renderer"
	"github.com/erikpukinskis/3d-image-renderer/core"
	"github.com/erikpukinskis/3d-image-renderer/gpu"
	"github.com/erikpukinskis/3d-image-renderer/octree"
	"github.com/erikpukinskis/3d-image-renderer/shaders"
	"github.com/erikpukinskis/3d-image-renderer/slice"
)

const (
	// MinDepth and MaxDepth bound the scroll-adjustable octree level.
	MinDepth = 0
	MaxDepth = 10
)

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	CastPipeline *wgpu.RenderPipeline
	HudPipeline  *wgpu.RenderPipeline

	Buffers *gpu.BufferManager
	Camera  *core.CameraState
	Tree    octree.Octree

	// Depth is the octree level sampled each frame; FocusDistance is
	// how far along the view direction the slice is centered.
	Depth         int
	FocusDistance float32

	Hud           *core.HudText
	HudBindGroup  *wgpu.BindGroup
	HudVertexBuf  *wgpu.Buffer
	hudAtlasView  *wgpu.TextureView
	hudSampler    *wgpu.Sampler
	hudVertexCnt  uint32
	needBindGroup bool

	SessionID string
	Log       renderer.Logger

	FrameCount     int
	FPS            float64
	FPSTime        float64
	LastRenderTime float64
}

func New(window *glfw.Window, tree octree.Octree, log renderer.Logger) *App {
	if log == nil {
		log = renderer.NewNopLogger()
	}
	return &App{
		Window:        window,
		Camera:        core.NewCameraState(),
		Tree:          tree,
		Depth:         3,
		FocusDistance: 1.5,
		SessionID:     uuid.NewString(),
		Log:           log,
	}
}

func (a *App) Init() error {
	if err := a.Tree.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}

	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("app: request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("app: request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	castMod, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Slice Cast",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.SliceCastWGSL},
	})
	if err != nil {
		return fmt.Errorf("app: cast shader: %w", err)
	}

	a.CastPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Cast Pipeline",
		Vertex: wgpu.VertexState{
			Module:     castMod,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     castMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    a.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("app: cast pipeline: %w", err)
	}

	a.Buffers = gpu.NewBufferManager(a.Device)
	a.needBindGroup = true

	if a.Hud != nil {
		if err := a.setupHudResources(); err != nil {
			a.Log.Warnf("HUD disabled: %v", err)
			a.Hud = nil
		}
	}

	a.Log.Infof("session %s: renderer ready, %d octants, format %v",
		a.SessionID, a.Tree.Octants(), a.Config.Format)
	return nil
}

func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
}

// AdjustDepth moves the sampled octree level by delta, clamped.
func (a *App) AdjustDepth(delta int) {
	d := a.Depth + delta
	if d < MinDepth {
		d = MinDepth
	}
	if d > MaxDepth {
		d = MaxDepth
	}
	if d != a.Depth {
		a.Depth = d
		a.Log.Debugf("depth -> %d", a.Depth)
	}
}

// sliceOrigin centers the 8-wide slice block on the camera's focus
// point, half the slice extent back along every axis.
func sliceOrigin(cam core.Camera, step mgl32.Vec3, focusDistance float32) mgl32.Vec3 {
	focus := cam.Position.Add(cam.Forward.Mul(focusDistance))
	return focus.Sub(step.Mul(slice.Width / 2))
}

// Update runs the producing side of the frame: freeze the camera,
// sample a fresh slice at the current depth, and upload everything the
// fragment stage needs.
func (a *App) Update() {
	aspect := float32(a.Config.Width) / float32(a.Config.Height)
	cam := a.Camera.Snapshot(aspect)

	step := slice.StepVector(cam.Forward, a.Depth)
	origin := sliceOrigin(cam, step, a.FocusDistance)

	s, geom := slice.Sample(a.Tree, origin, cam.Forward, a.Depth)

	recreated := a.Buffers.UpdateFrame(cam.View, cam.Proj.Inv(), a.Config.Width, a.Config.Height, geom, s)
	if recreated || a.needBindGroup {
		a.Buffers.CreateBindGroup(a.CastPipeline)
		a.needBindGroup = false
	}

	if a.Hud != nil {
		a.updateHudVertices(fmt.Sprintf("fps %.1f  depth %d", a.FPS, a.Depth))
	}
}

func (a *App) Render() {
	next, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture: %v", err)
		return
	}
	defer next.Release()

	view, err := next.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("CreateCommandEncoder: %v", err)
		return
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	pass.SetPipeline(a.CastPipeline)
	pass.SetBindGroup(0, a.Buffers.BindGroup0, nil)
	pass.Draw(3, 1, 0, 0)

	if a.Hud != nil && a.hudVertexCnt > 0 && a.HudPipeline != nil {
		pass.SetPipeline(a.HudPipeline)
		pass.SetBindGroup(0, a.HudBindGroup, nil)
		pass.SetVertexBuffer(0, a.HudVertexBuf, 0, a.HudVertexBuf.GetSize())
		pass.Draw(a.hudVertexCnt, 1, 0, 0)
	}

	if err := pass.End(); err != nil {
		a.Log.Errorf("render pass End: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Errorf("encoder Finish: %v", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			a.FrameCount = 0
			a.FPSTime = 0
		}
	}
	a.LastRenderTime = now
}

func (a *App) setupHudResources() error {
	w := a.Hud.Atlas.Bounds().Dx()
	h := a.Hud.Atlas.Bounds().Dy()
	tex, err := a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "HUD Atlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("atlas texture: %w", err)
	}
	a.Queue.WriteTexture(tex.AsImageCopy(), a.Hud.Atlas.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})

	a.hudAtlasView, err = tex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("atlas view: %w", err)
	}

	a.hudSampler, err = a.Device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("sampler: %w", err)
	}

	hudMod, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "HUD Text",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.HudTextWGSL},
	})
	if err != nil {
		return fmt.Errorf("shader: %w", err)
	}

	a.HudPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "HUD Pipeline",
		Vertex: wgpu.VertexState{
			Module:     hudMod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.HudVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     hudMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: a.Config.Format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	a.HudBindGroup, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: a.HudPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: a.hudAtlasView},
			{Binding: 1, Sampler: a.hudSampler},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group: %w", err)
	}
	return nil
}

func (a *App) updateHudVertices(text string) {
	verts := a.Hud.Line(text, 10, 10, [4]float32{1, 1, 0, 1}, int(a.Config.Width), int(a.Config.Height))
	a.hudVertexCnt = uint32(len(verts))
	if len(verts) == 0 {
		return
	}

	size := uint64(len(verts) * int(unsafe.Sizeof(core.HudVertex{})))
	if a.HudVertexBuf == nil || a.HudVertexBuf.GetSize() < size {
		if a.HudVertexBuf != nil {
			a.HudVertexBuf.Release()
		}
		var err error
		a.HudVertexBuf, err = a.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "HUD VB",
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			a.Log.Errorf("HUD vertex buffer: %v", err)
			a.hudVertexCnt = 0
			return
		}
	}
	a.Queue.WriteBuffer(a.HudVertexBuf, 0, unsafe.Slice((*byte)(unsafe.Pointer(&verts[0])), size))
}
