//go:build arm64 && !purego

// Package neon registers the blocked kernels for NEON-capable CPUs.
package neon

import (
	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/blocked"
	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "neon",
		SIMDLevel: cpu.SIMDNEON,
		Priority:  10,
		Kernels:   blocked.Kernels(),
	})
}
