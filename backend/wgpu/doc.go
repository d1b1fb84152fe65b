// Package wgpu provides a GPU-accelerated scroll backend using gogpu/wgpu.
//
// The backing store's in-place scroll is a large overlapping window
// move: the dominant cost of a small viewport change. This package
// offloads that move to a WGSL compute kernel running on the gogpu/wgpu
// Pure Go WebGPU implementation (Vulkan, Metal, or DX12 depending on
// the platform), with a CPU row-move fallback when no device is
// available.
//
// # Architecture Overview
//
//	Store.Update -> Updater (decorator) -> HybridScroller -> GPUScroller | CPUScroller
//
// Key components:
//
//   - Updater: wraps any backingstore.Updater and reroutes InPlaceScroll
//     for buffers that expose host pixels
//   - HybridScroller: selects GPU or CPU per call based on window area
//     and device availability
//   - GPUScroller: compiles shaders/scroll.wgsl through naga and owns
//     the compute pipeline lifecycle on the HAL device
//   - CPUScroller: overlap-safe row moves, also the whole story under
//     the nogpu build tag
//
// # Scroll Kernel
//
// Overlapping in-place moves cannot be parallelized directly, so the
// kernel runs in two passes over a scratch buffer: cs_scroll_gather
// copies the source window out, cs_scroll_scatter writes it back at
// the destination. Both passes share one uniform Config descriptor
// and a 64-wide workgroup.
//
// # Usage
//
//	scroller := wgpu.NewHybridScroller(wgpu.HybridScrollerConfig{
//	    Device: device,
//	    Queue:  queue,
//	})
//	up, err := wgpu.NewUpdater(softwareUpdater, scroller)
//	store := backingstore.New(up)
//
// Building with -tags nogpu strips the GPU path entirely; construct
// the Updater with NewCPUScroller instead.
package wgpu
