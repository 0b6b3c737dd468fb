package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

var errNoFrame = errors.New("no frame in progress")

// Context is the wgpu backed Device and Surface.
type Context struct {
	instance      *wgpu.Instance
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration

	frame   *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
}

// NewContext creates the surface for a window, acquires an adapter and
// device and configures the surface to width x height. Acquisition blocks.
func NewContext(desc *wgpu.SurfaceDescriptor, width, height int) (*Context, error) {
	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(desc)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Black Hole Device",
	})
	if err != nil {
		adapter.Release()
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}

	caps := surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		device.Release()
		adapter.Release()
		surface.Release()
		instance.Release()
		return nil, errors.New("surface is not supported by the adapter")
	}

	c := &Context{
		instance: instance,
		surface:  surface,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
		surfaceConfig: &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      preferredFormat(caps.Formats),
			Width:       uint32(width),
			Height:      uint32(height),
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   caps.AlphaModes[0],
		},
	}
	c.surface.Configure(c.adapter, c.device, c.surfaceConfig)
	return c, nil
}

// preferredFormat picks an sRGB format when the surface offers one.
func preferredFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb {
			return f
		}
	}
	return formats[0]
}

func (c *Context) Format() wgpu.TextureFormat {
	return c.surfaceConfig.Format
}

// Configure resizes the swapchain. Zero sizes (minimized windows) are ignored.
func (c *Context) Configure(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	c.surfaceConfig.Width = width
	c.surfaceConfig.Height = height
	c.surface.Configure(c.adapter, c.device, c.surfaceConfig)
}

type wgpuBuffer struct {
	buf *wgpu.Buffer
}

func (b *wgpuBuffer) Size() uint64 { return b.buf.GetSize() }
func (b *wgpuBuffer) Release()     { b.buf.Release() }

type wgpuPipeline struct {
	pipeline *wgpu.RenderPipeline
}

func (p *wgpuPipeline) Release() { p.pipeline.Release() }

func unwrapBuffer(buf Buffer) *wgpu.Buffer {
	return buf.(*wgpuBuffer).buf
}

func (c *Context) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (Buffer, error) {
	buf, err := c.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    usage,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBuffer{buf: buf}, nil
}

func (c *Context) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (Buffer, error) {
	buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBuffer{buf: buf}, nil
}

func (c *Context) WriteBuffer(buf Buffer, offset uint64, data []byte) error {
	if offset+uint64(len(data)) > buf.Size() {
		return fmt.Errorf("write of %d bytes at %d overflows buffer of %d bytes", len(data), offset, buf.Size())
	}
	c.queue.WriteBuffer(unwrapBuffer(buf), offset, data)
	return nil
}

var replaceBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
}

func (c *Context) CreateRenderPipeline(desc PipelineDesc) (Pipeline, error) {
	shader, err := c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.ShaderCode},
	})
	if err != nil {
		return nil, fmt.Errorf("shader module: %w", err)
	}
	defer shader.Release()

	blend := replaceBlend
	pipeline, err := c.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: desc.Label,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    desc.Buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    c.surfaceConfig.Format,
					Blend:     &blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return nil, err
	}
	return &wgpuPipeline{pipeline: pipeline}, nil
}

type wgpuPass struct {
	pass *wgpu.RenderPassEncoder
}

func (p *wgpuPass) SetPipeline(pipeline Pipeline) {
	p.pass.SetPipeline(pipeline.(*wgpuPipeline).pipeline)
}

func (p *wgpuPass) SetVertexBuffer(slot uint32, buf Buffer) {
	p.pass.SetVertexBuffer(slot, unwrapBuffer(buf), 0, buf.Size())
}

func (p *wgpuPass) SetIndexBuffer(buf Buffer, format wgpu.IndexFormat) {
	p.pass.SetIndexBuffer(unwrapBuffer(buf), format, 0, buf.Size())
}

func (p *wgpuPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

// BeginFrame acquires the next surface texture and begins a render pass
// that clears it. Acquisition errors are returned unwrapped for
// ClassifySurfaceError.
func (c *Context) BeginFrame(clear wgpu.Color) (RenderPass, error) {
	frame, err := c.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}

	view, err := frame.CreateView(nil)
	if err != nil {
		frame.Release()
		return nil, fmt.Errorf("create view: %w", err)
	}

	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		frame.Release()
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	c.frame, c.view, c.encoder = frame, view, encoder
	c.pass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clear,
		}},
	})
	return &wgpuPass{pass: c.pass}, nil
}

// EndFrame ends the pass, submits the commands and presents.
func (c *Context) EndFrame() error {
	if c.pass == nil {
		return errNoFrame
	}
	defer c.releaseFrame()

	if err := c.pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	cmd, err := c.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()

	c.queue.Submit(cmd)
	c.surface.Present()
	return nil
}

func (c *Context) releaseFrame() {
	c.pass = nil
	if c.encoder != nil {
		c.encoder.Release()
		c.encoder = nil
	}
	if c.view != nil {
		c.view.Release()
		c.view = nil
	}
	if c.frame != nil {
		c.frame.Release()
		c.frame = nil
	}
}

func (c *Context) Release() {
	c.releaseFrame()
	c.queue.Release()
	c.device.Release()
	c.adapter.Release()
	c.surface.Release()
	c.instance.Release()
}
