//go:build purego

package stream

import (
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"
)

func TestKernelDispatch_PuregoUsesGeneric(t *testing.T) {
	entry := registry.Global.Lookup(cpu.Features{
		Architecture: "amd64",
		ForceGeneric: true,
	})
	if entry == nil {
		t.Fatal("Lookup returned nil")
	}
	if entry.Name != "generic" {
		t.Fatalf("expected generic implementation in purego, got %q", entry.Name)
	}
}
