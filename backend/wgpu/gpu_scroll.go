//go:build !nogpu

// Package wgpu provides GPU-accelerated scrolling using WebGPU.
package wgpu

import (
	_ "embed"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/types"
)

//go:embed shaders/scroll.wgsl
var scrollShaderWGSL string

// scrollWorkgroupSize is the workgroup size of both kernel entry
// points. Must match @workgroup_size in scroll.wgsl.
const scrollWorkgroupSize = 64

// GPUScrollConfig is the GPU-compatible scroll descriptor.
// Must match the Config struct in scroll.wgsl.
type GPUScrollConfig struct {
	SrcX    uint32 // Source window left, in texels
	SrcY    uint32 // Source window top
	DstX    uint32 // Destination window left
	DstY    uint32 // Destination window top
	Width   uint32 // Window width in texels
	Height  uint32 // Window height in texels
	Stride  uint32 // Buffer stride in texels
	Padding uint32 // Padding for alignment
}

// GPUScroller runs the scroll relocation kernel on the GPU.
//
// Note: full GPU dispatch needs buffer-handle binding that the HAL
// does not expose yet. The pipeline infrastructure is created and
// verified; the data move itself runs the shader's access pattern on
// the CPU until dispatch lands.
type GPUScroller struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue

	// Compute pipelines, one per kernel entry point
	gatherPipeline  hal.ComputePipeline
	scatterPipeline hal.ComputePipeline

	// Shader module (cached)
	shaderModule hal.ShaderModule

	// Pipeline layout and bind group layouts
	pipelineLayout   hal.PipelineLayout
	inputBindLayout  hal.BindGroupLayout
	outputBindLayout hal.BindGroupLayout

	// Compiled SPIR-V (cached for verification)
	spirvCode []uint32

	// State
	initialized bool
	shaderReady bool
}

var _ Scroller = (*GPUScroller)(nil)

// NewGPUScroller creates a GPU scroller on device and queue.
// Returns an error if the kernel cannot be compiled or the pipelines
// cannot be created.
func NewGPUScroller(device hal.Device, queue hal.Queue) (*GPUScroller, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("gpu_scroll: device and queue are required")
	}

	r := &GPUScroller{
		device: device,
		queue:  queue,
	}

	if err := r.init(); err != nil {
		r.Destroy()
		return nil, err
	}

	return r, nil
}

// init initializes GPU resources (pipelines, layouts).
func (r *GPUScroller) init() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Compile WGSL to SPIR-V
	spirvBytes, err := naga.Compile(scrollShaderWGSL)
	if err != nil {
		return fmt.Errorf("gpu_scroll: failed to compile shader: %w", err)
	}

	// Convert bytes to uint32 slice for SPIR-V
	r.spirvCode = make([]uint32, len(spirvBytes)/4)
	for i := range r.spirvCode {
		r.spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	r.shaderReady = true

	// Create shader module
	shaderModule, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "scroll_shader",
		Source: hal.ShaderSource{
			SPIRV: r.spirvCode,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu_scroll: failed to create shader module: %w", err)
	}
	r.shaderModule = shaderModule

	if err := r.createBindGroupLayouts(); err != nil {
		return err
	}
	if err := r.createPipelineLayout(); err != nil {
		return err
	}
	if err := r.createPipelines(); err != nil {
		return err
	}

	r.initialized = true
	return nil
}

// createBindGroupLayouts creates the bind group layouts for the pipeline.
func (r *GPUScroller) createBindGroupLayouts() error {
	// Input bind group layout (group 0): config + read-only pixels
	inputLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "scroll_input_layout",
		Entries: []types.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type:           types.BufferBindingTypeUniform,
					MinBindingSize: 32, // sizeof(Config)
				},
			},
			{
				Binding:    1,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeReadOnlyStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu_scroll: failed to create input bind group layout: %w", err)
	}
	r.inputBindLayout = inputLayout

	// Output bind group layout (group 1): written pixels
	outputLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "scroll_output_layout",
		Entries: []types.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu_scroll: failed to create output bind group layout: %w", err)
	}
	r.outputBindLayout = outputLayout

	return nil
}

// createPipelineLayout creates the pipeline layout.
func (r *GPUScroller) createPipelineLayout() error {
	layout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "scroll_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.inputBindLayout, r.outputBindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu_scroll: failed to create pipeline layout: %w", err)
	}
	r.pipelineLayout = layout
	return nil
}

// createPipelines creates the compute pipelines.
func (r *GPUScroller) createPipelines() error {
	gatherPipeline, err := r.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "scroll_gather_pipeline",
		Layout: r.pipelineLayout,
		Compute: hal.ComputeState{
			Module:     r.shaderModule,
			EntryPoint: "cs_scroll_gather",
		},
	})
	if err != nil {
		return fmt.Errorf("gpu_scroll: failed to create gather pipeline: %w", err)
	}
	r.gatherPipeline = gatherPipeline

	scatterPipeline, err := r.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "scroll_scatter_pipeline",
		Layout: r.pipelineLayout,
		Compute: hal.ComputeState{
			Module:     r.shaderModule,
			EntryPoint: "cs_scroll_scatter",
		},
	})
	if err != nil {
		return fmt.Errorf("gpu_scroll: failed to create scatter pipeline: %w", err)
	}
	r.scatterPipeline = scatterPipeline

	return nil
}

// Scroll moves the window at (x, y) of size width x height by (dx, dy).
func (r *GPUScroller) Scroll(img *image.RGBA, x, y, width, height, dx, dy int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return fmt.Errorf("gpu_scroll: scroller not initialized")
	}
	if img == nil {
		return fmt.Errorf("gpu_scroll: nil image")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gpu_scroll: invalid window %dx%d", width, height)
	}
	win := image.Rect(x, y, x+width, y+height)
	if !win.In(img.Bounds()) {
		return fmt.Errorf("gpu_scroll: window %v outside image bounds %v", win, img.Bounds())
	}

	src, dst, ok := scrollWindows(x, y, width, height, dx, dy)
	if !ok {
		return nil
	}

	// Stage the kernel descriptor (validates the conversion).
	cfg := buildScrollConfig(img, src, dst)
	_ = configToBytes(cfg)
	_ = dispatchGroups(int(cfg.Width * cfg.Height))

	// Dispatch needs buffer binding the HAL does not expose yet; run
	// the shader's access pattern on the CPU.
	scrollRows(img, dst, dx, dy)

	return nil
}

// buildScrollConfig packs the scroll windows into the kernel's
// Config layout, with coordinates rebased to the image origin.
func buildScrollConfig(img *image.RGBA, src, dst image.Rectangle) GPUScrollConfig {
	org := img.Rect.Min
	return GPUScrollConfig{
		SrcX:   uint32(src.Min.X - org.X),
		SrcY:   uint32(src.Min.Y - org.Y),
		DstX:   uint32(dst.Min.X - org.X),
		DstY:   uint32(dst.Min.Y - org.Y),
		Width:  uint32(dst.Dx()),
		Height: uint32(dst.Dy()),
		Stride: uint32(img.Stride / 4),
	}
}

// dispatchGroups returns the number of workgroups needed for texels
// invocations.
func dispatchGroups(texels int) uint32 {
	return uint32((texels + scrollWorkgroupSize - 1) / scrollWorkgroupSize)
}

// IsInitialized returns whether the scroller is initialized.
func (r *GPUScroller) IsInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// IsShaderReady returns whether the shader compiled successfully.
func (r *GPUScroller) IsShaderReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shaderReady
}

// SPIRVCode returns the compiled SPIR-V code (for debugging/verification).
func (r *GPUScroller) SPIRVCode() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.spirvCode
}

// Destroy releases all GPU resources.
func (r *GPUScroller) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.device == nil {
		return
	}

	if r.gatherPipeline != nil {
		r.device.DestroyComputePipeline(r.gatherPipeline)
		r.gatherPipeline = nil
	}
	if r.scatterPipeline != nil {
		r.device.DestroyComputePipeline(r.scatterPipeline)
		r.scatterPipeline = nil
	}

	if r.pipelineLayout != nil {
		r.device.DestroyPipelineLayout(r.pipelineLayout)
		r.pipelineLayout = nil
	}

	if r.inputBindLayout != nil {
		r.device.DestroyBindGroupLayout(r.inputBindLayout)
		r.inputBindLayout = nil
	}
	if r.outputBindLayout != nil {
		r.device.DestroyBindGroupLayout(r.outputBindLayout)
		r.outputBindLayout = nil
	}

	if r.shaderModule != nil {
		r.device.DestroyShaderModule(r.shaderModule)
		r.shaderModule = nil
	}

	r.initialized = false
}

// Byte serialization helpers (for GPU buffer upload)

func writeUint32(buf []byte, offset int, val uint32) {
	buf[offset] = byte(val)
	buf[offset+1] = byte(val >> 8)
	buf[offset+2] = byte(val >> 16)
	buf[offset+3] = byte(val >> 24)
}

func configToBytes(cfg GPUScrollConfig) []byte {
	buf := make([]byte, 32)
	writeUint32(buf, 0, cfg.SrcX)
	writeUint32(buf, 4, cfg.SrcY)
	writeUint32(buf, 8, cfg.DstX)
	writeUint32(buf, 12, cfg.DstY)
	writeUint32(buf, 16, cfg.Width)
	writeUint32(buf, 20, cfg.Height)
	writeUint32(buf, 24, cfg.Stride)
	writeUint32(buf, 28, cfg.Padding)
	return buf
}
