package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// Vertex represents a vertex with position and texture coordinates
type Vertex struct {
	Position [2]float32
	TexCoord [2]float32
}

// QuadInfo matches the shader uniform
type QuadInfo struct {
	OffsetX float32
	OffsetY float32
	ScaleX  float32
	ScaleY  float32
}

// FrameTexture holds the GPU copy of the composed window image
type FrameTexture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Width   uint32
	Height  uint32
}

// Renderer presents CPU-composed frames through WebGPU
type Renderer struct {
	device          *wgpu.Device
	queue           *wgpu.Queue
	surface         *wgpu.Surface
	adapter         *wgpu.Adapter
	swapChain       *wgpu.SwapChain
	swapChainFormat wgpu.TextureFormat
	pipeline        *wgpu.RenderPipeline
	sampler         *wgpu.Sampler
	bindGroupLayout *wgpu.BindGroupLayout

	vertexBuffer  *wgpu.Buffer
	indexBuffer   *wgpu.Buffer
	uniformBuffer *wgpu.Buffer

	frame     *FrameTexture
	bindGroup *wgpu.BindGroup

	width  uint32
	height uint32
}

// NewRenderer creates a new WebGPU renderer
func NewRenderer(adapter *wgpu.Adapter, device *wgpu.Device, queue *wgpu.Queue, surface *wgpu.Surface, width, height uint32) (*Renderer, error) {
	r := &Renderer{
		adapter: adapter,
		device:  device,
		queue:   queue,
		surface: surface,
		width:   width,
		height:  height,
	}

	if err := r.init(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) init() error {
	// Get preferred format
	r.swapChainFormat = r.surface.GetPreferredFormat(r.adapter)

	var err error
	r.swapChain, err = r.createSwapChain(r.width, r.height)
	if err != nil {
		return fmt.Errorf("swap chain creation failed: %w", err)
	}

	shader, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "quad_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: QuadShader},
	})
	if err != nil {
		return fmt.Errorf("shader creation failed: %w", err)
	}
	defer shader.Release()

	// Nearest filtering keeps one pixel outlines crisp
	r.sampler, err = r.device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:   wgpu.AddressMode_ClampToEdge,
		AddressModeV:   wgpu.AddressMode_ClampToEdge,
		AddressModeW:   wgpu.AddressMode_ClampToEdge,
		MagFilter:      wgpu.FilterMode_Nearest,
		MinFilter:      wgpu.FilterMode_Nearest,
		MipmapFilter:   wgpu.MipmapFilterMode_Nearest,
		MaxAnisotrophy: 1,
	})
	if err != nil {
		return fmt.Errorf("sampler creation failed: %w", err)
	}

	r.bindGroupLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "frame_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStage_Vertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingType_Uniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStage_Fragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingType_Filtering},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStage_Fragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleType_Float,
					ViewDimension: wgpu.TextureViewDimension_2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group layout creation failed: %w", err)
	}

	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "frame_pipeline_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout creation failed: %w", err)
	}
	defer pipelineLayout.Release()

	r.pipeline, err = r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "frame_pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
				StepMode:    wgpu.VertexStepMode_Vertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormat_Float32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormat_Float32x2, Offset: 8, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    r.swapChainFormat,
				Blend:     &wgpu.BlendState_Replace,
				WriteMask: wgpu.ColorWriteMask_All,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopology_TriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline creation failed: %w", err)
	}

	return r.createQuad()
}

func (r *Renderer) createSwapChain(width, height uint32) (*wgpu.SwapChain, error) {
	return r.device.CreateSwapChain(r.surface, &wgpu.SwapChainDescriptor{
		Usage:       wgpu.TextureUsage_RenderAttachment,
		Format:      r.swapChainFormat,
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentMode_Fifo,
	})
}

// createQuad uploads the static full-window quad
func (r *Renderer) createQuad() error {
	vertices := []Vertex{
		{Position: [2]float32{0, 0}, TexCoord: [2]float32{0, 0}},
		{Position: [2]float32{1, 0}, TexCoord: [2]float32{1, 0}},
		{Position: [2]float32{1, 1}, TexCoord: [2]float32{1, 1}},
		{Position: [2]float32{0, 1}, TexCoord: [2]float32{0, 1}},
	}
	var err error
	r.vertexBuffer, err = r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "vertex_buffer",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsage_Vertex,
	})
	if err != nil {
		return fmt.Errorf("vertex buffer creation failed: %w", err)
	}

	indices := []uint16{0, 1, 2, 0, 2, 3}
	r.indexBuffer, err = r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "index_buffer",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsage_Index,
	})
	if err != nil {
		return fmt.Errorf("index buffer creation failed: %w", err)
	}

	// unit quad (0..1) to clip space, y flipped so texture row 0 is on top
	info := QuadInfo{OffsetX: -1, OffsetY: 1, ScaleX: 2, ScaleY: -2}
	r.uniformBuffer, err = r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "quad_uniform",
		Contents: wgpu.ToBytes([]QuadInfo{info}),
		Usage:    wgpu.BufferUsage_Uniform,
	})
	if err != nil {
		return fmt.Errorf("uniform buffer creation failed: %w", err)
	}
	return nil
}

func (r *Renderer) createFrameTexture(width, height uint32) (*FrameTexture, error) {
	texture, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "frame_texture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension_2D,
		Format:        wgpu.TextureFormat_RGBA8UnormSrgb,
		Usage:         wgpu.TextureUsage_TextureBinding | wgpu.TextureUsage_CopyDst,
	})
	if err != nil {
		return nil, err
	}

	view, err := texture.CreateView(&wgpu.TextureViewDescriptor{
		Format:          wgpu.TextureFormat_RGBA8UnormSrgb,
		Dimension:       wgpu.TextureViewDimension_2D,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspect_All,
	})
	if err != nil {
		texture.Release()
		return nil, err
	}

	return &FrameTexture{Texture: texture, View: view, Width: width, Height: height}, nil
}

// upload copies img into the frame texture, recreating it on size change
func (r *Renderer) upload(img *image.RGBA) error {
	w, h := uint32(img.Bounds().Dx()), uint32(img.Bounds().Dy())

	if r.frame == nil || r.frame.Width != w || r.frame.Height != h {
		r.releaseFrame()

		frame, err := r.createFrameTexture(w, h)
		if err != nil {
			return fmt.Errorf("frame texture creation failed: %w", err)
		}
		r.frame = frame

		r.bindGroup, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "frame_bind_group",
			Layout: r.bindGroupLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: r.uniformBuffer, Size: uint64(unsafe.Sizeof(QuadInfo{}))},
				{Binding: 1, Sampler: r.sampler},
				{Binding: 2, TextureView: frame.View},
			},
		})
		if err != nil {
			return fmt.Errorf("bind group creation failed: %w", err)
		}
	}

	r.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: r.frame.Texture, MipLevel: 0, Origin: wgpu.Origin3D{}, Aspect: wgpu.TextureAspect_All},
		img.Pix,
		&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: uint32(img.Stride), RowsPerImage: h},
		&wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	return nil
}

// Present uploads img when it is not nil and draws the current frame
func (r *Renderer) Present(img *image.RGBA) error {
	if img != nil && !img.Bounds().Empty() {
		if err := r.upload(img); err != nil {
			return err
		}
	}

	view, err := r.swapChain.GetCurrentTextureView()
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{})
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOp_Clear,
			StoreOp:    wgpu.StoreOp_Store,
			ClearValue: wgpu.Color{R: 1, G: 1, B: 1, A: 1},
		}},
	})

	if r.bindGroup != nil {
		pass.SetPipeline(r.pipeline)
		pass.SetVertexBuffer(0, r.vertexBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(r.indexBuffer, wgpu.IndexFormat_Uint16, 0, wgpu.WholeSize)
		pass.SetBindGroup(0, r.bindGroup, nil)
		pass.DrawIndexed(6, 1, 0, 0, 0)
	}

	pass.End()

	cmdBuffer, err := encoder.Finish(&wgpu.CommandBufferDescriptor{})
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	r.queue.Submit(cmdBuffer)
	r.swapChain.Present()

	return nil
}

// Resize handles window resize
func (r *Renderer) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	r.width = width
	r.height = height

	if r.swapChain != nil {
		r.swapChain.Release()
	}

	var err error
	r.swapChain, err = r.createSwapChain(width, height)
	if err != nil {
		return fmt.Errorf("swap chain recreation failed: %w", err)
	}
	return nil
}

func (r *Renderer) releaseFrame() {
	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}
	if r.frame != nil {
		r.frame.View.Release()
		r.frame.Texture.Release()
		r.frame = nil
	}
}

// Release frees all GPU resources
func (r *Renderer) Release() {
	r.releaseFrame()

	for _, b := range []*wgpu.Buffer{r.vertexBuffer, r.indexBuffer, r.uniformBuffer} {
		if b != nil {
			b.Release()
		}
	}
	if r.bindGroupLayout != nil {
		r.bindGroupLayout.Release()
	}
	if r.pipeline != nil {
		r.pipeline.Release()
	}
	if r.sampler != nil {
		r.sampler.Release()
	}
	if r.swapChain != nil {
		r.swapChain.Release()
	}
}
