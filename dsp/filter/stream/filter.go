package stream

import (
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"
	"github.com/onewordstudios/audiodsp/dsp/poly"
)

// Filter is the contract shared by OnePole, TwoPole, PoleZero and FIR.
// It captures the streaming surface only; stability-checked preset
// setters live on the concrete types because their signatures differ.
//
// Input and output buffers are interleaved, frame-major: sample i of
// channel c lives at index i*Channels()+c. Calculate requires
// len(input) and len(output) of at least frames*Channels(), and input
// and output must not overlap: the feed-forward filters read input
// samples back after the corresponding output has been written.
type Filter interface {
	// Channels reports the number of interleaved channels.
	Channels() int

	// SetChannels reconfigures the channel count and clears all
	// delay lines. It panics if channels < 1.
	SetChannels(channels int)

	// SetCoeff installs feed-forward (b) and feedback (a)
	// coefficients, normalizing both by a[0] when present. Missing
	// coefficients take their pass-through defaults. Delay lines are
	// cleared. No stability check is performed.
	SetCoeff(bvals, avals []float64)

	// BCoeff returns a copy of the feed-forward coefficients,
	// [b0, b1, ...].
	BCoeff() []float64

	// ACoeff returns a copy of the feedback coefficients,
	// [1, a1, ...].
	ACoeff() []float64

	// SetTransfer installs the transfer function p(z)/q(z), keeping
	// only the coefficients the filter's order supports. Delay lines
	// are cleared. No stability check is performed.
	SetTransfer(p, q poly.Polynomial)

	// Numerator returns the numerator of the transfer function.
	Numerator() poly.Polynomial

	// Denominator returns the denominator of the transfer function.
	Denominator() poly.Polynomial

	// Step processes a single frame. input and output hold
	// Channels() samples each. Recursive filters emit output delayed
	// by their feedback order.
	Step(gain float64, input, output []float64)

	// Calculate processes frames interleaved frames of input into
	// output, scaling the input by gain. State carries over, so
	// splitting a stream across Calculate calls at any frame
	// boundary yields the same samples as a single call.
	Calculate(gain float64, input, output []float64, frames int)

	// Flush drains the pending delayed output into output and clears
	// the delay lines, returning the number of frames written: the
	// filter's feedback order for recursive filters, 0 for FIR.
	Flush(output []float64) int

	// Clear zeroes all delay lines without touching coefficients.
	Clear()

	// Response evaluates the transfer function at the given
	// normalized frequency (cycles per sample, 0.5 = Nyquist).
	Response(frequency float64) complex128
}

var (
	_ Filter = (*OnePole)(nil)
	_ Filter = (*TwoPole)(nil)
	_ Filter = (*PoleZero)(nil)
	_ Filter = (*FIR)(nil)
)

var (
	kernelsImpl     registry.Kernels
	kernelsName     string
	kernelsInitOnce sync.Once
)

// activeKernels binds the kernel backend on first use, choosing the
// highest-priority registry entry the running CPU supports.
func activeKernels() *registry.Kernels {
	kernelsInitOnce.Do(initKernels)
	return &kernelsImpl
}

func initKernels() {
	entry := registry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		panic("stream: no filter kernels registered (missing generic fallback?)")
	}
	kernelsImpl = entry.Kernels
	kernelsName = entry.Name
}
