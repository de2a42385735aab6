// Package system probes the host to size the frame pipeline and provides
// buffer reuse for frame bitmaps.
package system

import (
	"log"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// OptimalWorkers picks a frame-builder worker count: one per logical CPU,
// capped so that the in-flight RGBA frames fit comfortably in available
// memory. Each worker holds roughly one frame plus compositing scratch.
func OptimalWorkers(width, height int) int {
	workers := runtime.NumCPU()
	if counts, err := cpu.Counts(true); err == nil && counts > 0 {
		workers = counts
	}

	frameBytes := uint64(width) * uint64(height) * 4
	if frameBytes == 0 {
		return 1
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		// Keep total frame memory under a quarter of what is available;
		// x3 covers the frame, its layers and the reorder window slot.
		budget := vm.Available / 4
		byMemory := int(budget / (frameBytes * 3))
		if byMemory < workers {
			if byMemory < 1 {
				byMemory = 1
			}
			log.Printf("[!] Limiting workers to %d (available memory %d MB)", byMemory, vm.Available/1024/1024)
			workers = byMemory
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}
