//go:build arm64 && !purego

package stream

import (
	"sync"
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"
	"github.com/onewordstudios/audiodsp/internal/testutil"
)

func resetKernelDispatchForTest() {
	kernelsImpl = registry.Kernels{}
	kernelsName = ""
	kernelsInitOnce = sync.Once{}
}

func TestKernelDispatch_ARM64Modes(t *testing.T) {
	tests := []struct {
		name     string
		features cpu.Features
		wantImpl string
	}{
		{
			name: "generic-forced",
			features: cpu.Features{
				ForceGeneric: true,
				Architecture: "arm64",
			},
			wantImpl: "generic",
		},
		{
			name: "neon",
			features: cpu.Features{
				HasNEON:      true,
				Architecture: "arm64",
			},
			wantImpl: "neon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu.SetForcedFeatures(tt.features)
			resetKernelDispatchForTest()

			defer func() {
				cpu.ResetDetection()
				resetKernelDispatchForTest()
			}()

			entry := registry.Global.Lookup(cpu.DetectFeatures())
			if entry == nil {
				t.Fatal("Lookup returned nil")
			}
			if entry.Name != tt.wantImpl {
				t.Fatalf("expected %q, got %q", tt.wantImpl, entry.Name)
			}

			const ch, frames = 2, 32
			input := testutil.DeterministicNoise(1, 1, frames*ch)
			for _, tc := range filterCases() {
				blocked := tc.build(ch)
				scalar := tc.build(ch)
				got := make([]float64, frames*ch)
				want := make([]float64, frames*ch)
				blocked.Calculate(1, input, got, frames)
				stepAll(scalar, 1, input, want, frames)

				for i := range got {
					if !almostEqual(got[i], want[i], eps) {
						t.Fatalf("%s sample %d: %q kernel %v, scalar %v",
							tc.name, i, tt.wantImpl, got[i], want[i])
					}
				}
			}

			if kernelsName != tt.wantImpl {
				t.Fatalf("bound kernel %q, want %q", kernelsName, tt.wantImpl)
			}
		})
	}
}
