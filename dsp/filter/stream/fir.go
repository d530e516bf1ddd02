package stream

import (
	"github.com/onewordstudios/audiodsp/dsp/buffer"
	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"
	"github.com/onewordstudios/audiodsp/dsp/poly"
)

// FIR is a purely feed-forward filter of arbitrary order, implementing
// the convolution-style difference equation
//
//	y[n] = gain*(b0*x[n] + b1*x[n-1] + ... + bk*x[n-k])
//
// Having no feedback, it is unconditionally stable and accepts any
// coefficient vector. The delay line holds the last k gained input
// frames per channel; unlike the recursive filters, the output is not
// delayed, so Flush writes nothing and reports 0 frames. A new filter
// is an identity (pass-through) filter.
//
// FIR is not safe for concurrent use.
type FIR struct {
	channels int
	kernel   registry.FIRKernel
	inns     *buffer.Buffer
}

// NewFIR returns a pass-through filter for the given number of
// interleaved channels. It panics if channels < 1.
func NewFIR(channels int) *FIR {
	if channels < 1 {
		panic("stream: channel count must be positive")
	}
	f := &FIR{
		channels: channels,
		inns:     buffer.New(0),
	}
	f.kernel.B0 = 1
	f.recompute()
	return f
}

// recompute resizes and clears the input delay line for the current tap
// order and channel count.
func (f *FIR) recompute() {
	f.inns.Reset(len(f.kernel.B) * f.channels)
}

// Channels reports the number of interleaved channels.
func (f *FIR) Channels() int { return f.channels }

// SetChannels reconfigures the channel count, invalidating and clearing
// the delay line. It panics if channels < 1.
func (f *FIR) SetChannels(channels int) {
	if channels < 1 {
		panic("stream: channel count must be positive")
	}
	f.channels = channels
	f.recompute()
}

// setTaps stores bvals/a0 with the delayed taps in delay-line order,
// oldest stored input first: the kernel's B[j] multiplies x[n-(k-j)]
// for order k, so B[k-1] holds b1 and B[0] holds bk.
func (f *FIR) setTaps(bvals []float64, a0 float64) {
	order := 0
	if len(bvals) > 0 {
		order = len(bvals) - 1
	}
	f.kernel.B0 = 0
	if len(bvals) > 0 {
		f.kernel.B0 = bvals[0] / a0
	}
	f.kernel.B = make([]float64, order)
	for i := 0; i < order; i++ {
		f.kernel.B[order-1-i] = bvals[i+1] / a0
	}
	f.recompute()
}

// SetBCoeff installs the coefficient vector [b0, b1, ..., bk], resizing
// the delay line to k frames per channel. An empty vector yields the
// zero filter.
func (f *FIR) SetBCoeff(bvals []float64) {
	f.setTaps(bvals, 1)
}

// SetCoeff installs the coefficient vector normalized by avals[0].
// Feedback coefficients beyond avals[0] have no meaning for a
// feed-forward filter and are ignored.
func (f *FIR) SetCoeff(bvals, avals []float64) {
	a0 := 1.0
	if len(avals) > 0 {
		a0 = avals[0]
	}
	f.setTaps(bvals, a0)
}

// BCoeff returns the feed-forward coefficients [b0, b1, ..., bk].
func (f *FIR) BCoeff() []float64 {
	order := len(f.kernel.B)
	out := make([]float64, order+1)
	out[0] = f.kernel.B0
	for i := 0; i < order; i++ {
		out[i+1] = f.kernel.B[order-1-i]
	}
	return out
}

// ACoeff returns the feedback coefficients, always [1].
func (f *FIR) ACoeff() []float64 {
	return []float64{1}
}

// SetTransfer installs the transfer function p(z)/q(z). Only the
// leading denominator coefficient is meaningful for a feed-forward
// filter; the rest of q is ignored.
func (f *FIR) SetTransfer(p, q poly.Polynomial) {
	f.SetCoeff(p, q)
}

// Numerator returns the transfer function numerator [b0, b1, ..., bk].
func (f *FIR) Numerator() poly.Polynomial {
	return poly.Polynomial(f.BCoeff())
}

// Denominator returns the transfer function denominator, always [1].
func (f *FIR) Denominator() poly.Polynomial {
	return poly.Polynomial{1}
}

// Response evaluates the transfer function on the unit circle at the
// given normalized frequency.
func (f *FIR) Response(frequency float64) complex128 {
	return f.Numerator().Response(frequency)
}

// Step filters a single frame and shifts the gained input into the
// delay line. Unlike the recursive filters, the output frame is y[n]
// itself, with no delay.
func (f *FIR) Step(gain float64, input, output []float64) {
	inns := f.inns.Samples()
	ch := f.channels
	order := len(f.kernel.B)
	gb0 := gain * f.kernel.B0

	for c := 0; c < ch; c++ {
		y := gb0 * input[c]
		for j, b := range f.kernel.B {
			y += b * inns[j*ch+c]
		}
		output[c] = y
	}
	if order == 0 {
		return
	}
	copy(inns, inns[ch:])
	for c := 0; c < ch; c++ {
		inns[(order-1)*ch+c] = gain * input[c]
	}
}

// Calculate filters frames interleaved frames of input into output.
// The largest multiple-of-4 prefix runs on the channel-specialized
// kernel backend; the remainder falls back to the scalar step so the
// result matches per-frame stepping regardless of the path taken.
func (f *FIR) Calculate(gain float64, input, output []float64, frames int) {
	valid := frames &^ 3
	if valid > 0 {
		k := activeKernels()
		inns := f.inns.Samples()
		ch := f.channels
		switch ch {
		case 4, 8:
			k.FIRFrame(&f.kernel, gain, inns, input, output, valid, ch)
		default:
			for c := 0; c < ch; c++ {
				var hist []float64
				if len(inns) > 0 {
					hist = inns[c:]
				}
				k.FIRLane(&f.kernel, gain, hist, input[c:], output[c:], valid, ch)
			}
		}
	}
	for i := valid; i < frames; i++ {
		base := i * f.channels
		f.Step(gain, input[base:base+f.channels], output[base:base+f.channels])
	}
}

// Flush clears the delay line and reports 0 frames written: a
// feed-forward filter holds no pending output. It exists so generic
// callers can treat every filter type uniformly.
func (f *FIR) Flush(output []float64) int {
	f.inns.Zero()
	return 0
}

// Clear zeroes the delay line without touching the coefficients.
func (f *FIR) Clear() {
	f.inns.Zero()
}
