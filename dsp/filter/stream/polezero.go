package stream

import (
	"math"

	"github.com/onewordstudios/audiodsp/dsp/buffer"
	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"
	"github.com/onewordstudios/audiodsp/dsp/poly"
)

// PoleZero is a first-order filter with one pole and one zero,
// implementing the difference equation
//
//	y[n] = gain*(b0*x[n] + b1*x[n-1]) - a1*y[n-1]
//
// The extra zero makes it the right shape for highpass, allpass and
// DC-blocking filters, each available as a preset setter.
//
// The filter keeps two delay lines: the pending delayed output (as in
// OnePole) and the previous gained input feeding the zero term. The
// output of Step and Calculate is delayed by one sample. A new filter
// is an identity (pass-through) filter.
//
// PoleZero is not safe for concurrent use.
type PoleZero struct {
	channels int
	kernel   registry.PoleZeroKernel
	outs     *buffer.Buffer
	inns     *buffer.Buffer
}

// NewPoleZero returns a pass-through pole-zero filter for the given
// number of interleaved channels. It panics if channels < 1.
func NewPoleZero(channels int) *PoleZero {
	if channels < 1 {
		panic("stream: channel count must be positive")
	}
	f := &PoleZero{
		channels: channels,
		outs:     buffer.New(channels),
		inns:     buffer.New(channels),
	}
	f.kernel.B0 = 1
	f.recompute()
	return f
}

// recompute refreshes the block-recursion structures from the current
// coefficients and clears both delay lines. The recursion matches
// OnePole; the zero only changes the feed-forward terms.
func (f *PoleZero) recompute() {
	k := &f.kernel
	k.F[0] = 1
	for j := 1; j < 4; j++ {
		k.F[j] = -k.A1 * k.F[j-1]
	}
	for j := 0; j < 4; j++ {
		k.C[j] = -k.A1 * k.F[j]
	}
	f.outs.Reset(f.channels)
	f.inns.Reset(f.channels)
}

// Channels reports the number of interleaved channels.
func (f *PoleZero) Channels() int { return f.channels }

// SetChannels reconfigures the channel count, invalidating and clearing
// both delay lines. It panics if channels < 1.
func (f *PoleZero) SetChannels(channels int) {
	if channels < 1 {
		panic("stream: channel count must be positive")
	}
	f.channels = channels
	f.recompute()
}

// SetCoeff installs b0 = bvals[0], b1 = bvals[1] and a1 = avals[1], all
// normalized by avals[0]. Missing coefficients default to the identity
// filter before normalization. No stability check is performed; the
// caller is trusted.
func (f *PoleZero) SetCoeff(bvals, avals []float64) {
	a0 := 1.0
	if len(avals) > 0 {
		a0 = avals[0]
	}
	b0 := 1.0
	if len(bvals) > 0 {
		b0 = bvals[0]
	}
	f.kernel.B0 = b0 / a0
	f.kernel.B1 = 0
	if len(bvals) > 1 {
		f.kernel.B1 = bvals[1] / a0
	}
	f.kernel.A1 = 0
	if len(avals) > 1 {
		f.kernel.A1 = avals[1] / a0
	}
	f.recompute()
}

// SetBCoeff sets both feed-forward coefficients.
func (f *PoleZero) SetBCoeff(b0, b1 float64) {
	f.kernel.B0 = b0
	f.kernel.B1 = b1
	f.recompute()
}

// SetACoeff sets the first-order feedback coefficient. No stability
// check is performed.
func (f *PoleZero) SetACoeff(a1 float64) {
	f.kernel.A1 = a1
	f.recompute()
}

// BCoeff returns the feed-forward coefficients [b0, b1].
func (f *PoleZero) BCoeff() []float64 {
	return []float64{f.kernel.B0, f.kernel.B1}
}

// ACoeff returns the feedback coefficients [1, a1].
func (f *PoleZero) ACoeff() []float64 {
	return []float64{1, f.kernel.A1}
}

// SetHighpass configures a first-order highpass at the given normalized
// cutoff frequency, with an exact zero at DC.
func (f *PoleZero) SetHighpass(frequency float64) {
	b0 := 1 / (frequency*2*math.Pi + 1)
	f.kernel.B0 = b0
	f.kernel.B1 = -b0
	f.kernel.A1 = -b0
	f.recompute()
}

// SetAllpass configures a first-order allpass with the given
// coefficient. An allpass has unity gain at every frequency and only
// shifts phase. It returns ErrUnstableCoefficient, leaving the filter
// unchanged, if |coefficient| >= 1.
func (f *PoleZero) SetAllpass(coefficient float64) error {
	if math.Abs(coefficient) >= 1 {
		return ErrUnstableCoefficient
	}
	f.kernel.B0 = coefficient
	f.kernel.B1 = 1
	f.kernel.A1 = coefficient
	f.recompute()
	return nil
}

// SetBlockZero configures a DC-blocking filter: a zero fixed at z = 1
// with the pole at the given position, normally just below 1. The
// closer the pole sits to the zero, the narrower the notch at DC. It
// returns ErrUnstablePole, leaving the filter unchanged, if |pole| >= 1.
func (f *PoleZero) SetBlockZero(pole float64) error {
	if math.Abs(pole) >= 1 {
		return ErrUnstablePole
	}
	f.kernel.B0 = 1
	f.kernel.B1 = -1
	f.kernel.A1 = -pole
	f.recompute()
	return nil
}

// SetTransfer installs the transfer function p(z)/q(z), keeping the
// orders this filter supports: b0 = p[0]/q[0], b1 = p[1]/q[0] and
// a1 = q[1]/q[0].
func (f *PoleZero) SetTransfer(p, q poly.Polynomial) {
	f.SetCoeff(p, q)
}

// Numerator returns the transfer function numerator [b0, b1].
func (f *PoleZero) Numerator() poly.Polynomial {
	return poly.Polynomial{f.kernel.B0, f.kernel.B1}
}

// Denominator returns the transfer function denominator [1, a1].
func (f *PoleZero) Denominator() poly.Polynomial {
	return poly.Polynomial{1, f.kernel.A1}
}

// Response evaluates the transfer function on the unit circle at the
// given normalized frequency.
func (f *PoleZero) Response(frequency float64) complex128 {
	return f.Numerator().Response(frequency) / f.Denominator().Response(frequency)
}

// Step filters a single frame, emitting the pending delayed frame and
// storing the gained input for the next zero term.
func (f *PoleZero) Step(gain float64, input, output []float64) {
	outs := f.outs.Samples()
	inns := f.inns.Samples()
	for c := 0; c < f.channels; c++ {
		gx := gain * input[c]
		output[c] = outs[c]
		outs[c] = f.kernel.B0*gx + f.kernel.B1*inns[c] - f.kernel.A1*outs[c]
		inns[c] = gx
	}
}

// Calculate filters frames interleaved frames of input into output.
// The largest multiple-of-4 prefix runs on the channel-specialized
// kernel backend; the remainder falls back to the scalar step so the
// result matches per-frame stepping regardless of the path taken. The
// delayed-input term straddles block boundaries: the first frame of a
// block reads the stored input from the previous block's tail.
func (f *PoleZero) Calculate(gain float64, input, output []float64, frames int) {
	valid := frames &^ 3
	if valid > 0 {
		k := activeKernels()
		outs := f.outs.Samples()
		inns := f.inns.Samples()
		ch := f.channels
		switch ch {
		case 4, 8:
			k.PoleZeroFrame(&f.kernel, gain, outs, inns, input, output, valid, ch)
		default:
			for c := 0; c < ch; c++ {
				outs[c], inns[c] = k.PoleZeroLane(&f.kernel, gain, outs[c], inns[c], input[c:], output[c:], valid, ch)
			}
		}
	}
	for i := valid; i < frames; i++ {
		base := i * f.channels
		f.Step(gain, input[base:base+f.channels], output[base:base+f.channels])
	}
}

// Flush writes the pending delayed output frame to output and clears
// both delay lines, returning the number of frames written (always 1).
// The stored input is discarded, not written: it has already been
// consumed by the pending output.
func (f *PoleZero) Flush(output []float64) int {
	n := f.outs.Drain(output) / f.channels
	f.inns.Zero()
	return n
}

// Clear zeroes both delay lines without touching the coefficients.
func (f *PoleZero) Clear() {
	f.outs.Zero()
	f.inns.Zero()
}
