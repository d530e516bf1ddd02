//go:build amd64 && !purego

// Package sse2 registers the blocked kernels for SSE2-capable CPUs.
package sse2

import (
	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/blocked"
	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "sse2",
		SIMDLevel: cpu.SIMDSSE2,
		Priority:  10,
		Kernels:   blocked.Kernels(),
	})
}
