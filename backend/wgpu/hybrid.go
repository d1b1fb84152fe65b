//go:build !nogpu

// Package wgpu provides GPU-accelerated scrolling using WebGPU.
package wgpu

import (
	"image"
	"log"
	"sync"

	"github.com/gogpu/wgpu/hal"
)

// DefaultGPUAreaThreshold is the minimum window area in pixels to use
// the GPU. Below this threshold, CPU is typically faster due to GPU
// dispatch overhead.
const DefaultGPUAreaThreshold = 1 << 16

// HybridScroller automatically selects between GPU and CPU scrolling
// based on workload size and GPU availability.
type HybridScroller struct {
	mu sync.RWMutex

	// GPU scroller (nil if not available)
	gpu *GPUScroller

	// CPU fallback
	cpu *CPUScroller

	// Configuration
	areaThreshold int  // Minimum window area for GPU
	gpuAvailable  bool // Whether GPU is available
}

var _ Scroller = (*HybridScroller)(nil)

// HybridScrollerConfig configures the hybrid scroller.
type HybridScrollerConfig struct {
	// Device and Queue for GPU operations (nil to use CPU only)
	Device hal.Device
	Queue  hal.Queue

	// AreaThreshold is the minimum window area to use GPU (0 = use default)
	AreaThreshold int

	// ForceGPU uses GPU even for small workloads (for testing)
	ForceGPU bool

	// ForceCPU disables GPU entirely (for testing/fallback)
	ForceCPU bool
}

// NewHybridScroller creates a scroller that automatically selects
// between GPU and CPU based on workload.
func NewHybridScroller(config HybridScrollerConfig) *HybridScroller {
	h := &HybridScroller{
		cpu:           NewCPUScroller(),
		areaThreshold: config.AreaThreshold,
	}

	if h.areaThreshold <= 0 {
		h.areaThreshold = DefaultGPUAreaThreshold
	}

	// Try to create the GPU scroller if not forced to CPU
	if !config.ForceCPU && config.Device != nil && config.Queue != nil {
		gpu, err := NewGPUScroller(config.Device, config.Queue)
		if err != nil {
			log.Printf("wgpu: GPU scroller unavailable, using CPU: %v", err)
		} else {
			h.gpu = gpu
			h.gpuAvailable = true
			log.Println("wgpu: GPU scroll kernel enabled")
		}
	}

	if config.ForceGPU && h.gpuAvailable {
		h.areaThreshold = 0
	}

	return h
}

// Scroll moves the window, automatically selecting GPU or CPU.
func (h *HybridScroller) Scroll(img *image.RGBA, x, y, width, height, dx, dy int) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.shouldUseGPU(width * height) {
		if err := h.gpu.Scroll(img, x, y, width, height, dx, dy); err != nil {
			log.Printf("wgpu: GPU scroll failed, falling back to CPU: %v", err)
			// Fall through to CPU fallback below
		} else {
			return nil
		}
	}

	return h.cpu.Scroll(img, x, y, width, height, dx, dy)
}

// shouldUseGPU determines if GPU should be used for this workload.
func (h *HybridScroller) shouldUseGPU(area int) bool {
	if !h.gpuAvailable || h.gpu == nil {
		return false
	}
	return area >= h.areaThreshold
}

// IsGPUAvailable returns whether GPU scrolling is available.
func (h *HybridScroller) IsGPUAvailable() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.gpuAvailable
}

// AreaThreshold returns the current GPU workload threshold.
func (h *HybridScroller) AreaThreshold() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.areaThreshold
}

// Destroy releases all resources.
func (h *HybridScroller) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.gpu != nil {
		h.gpu.Destroy()
		h.gpu = nil
	}
	h.gpuAvailable = false
}

// CheckGPUComputeSupport checks if GPU compute shaders are supported.
// This can be used to determine if GPU scrolling is viable before
// creating a scroller.
func CheckGPUComputeSupport(device hal.Device) bool {
	if device == nil {
		return false
	}

	// TODO: query DownlevelCapabilities.Flags once the HAL exposes it

	return true
}
