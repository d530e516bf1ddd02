package stream

import (
	"math"

	"github.com/onewordstudios/audiodsp/dsp/buffer"
	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"
	"github.com/onewordstudios/audiodsp/dsp/poly"
)

// OnePole is a first-order recursive filter implementing the difference
// equation
//
//	y[n] = gain*b0*x[n] - a1*y[n-1]
//
// It is the standard building block for first-order lowpass filters and
// is significantly cheaper than a general IIR filter of the same effect.
//
// To support real-time streaming, the output of Step and Calculate is
// delayed by one sample; the pending sample per channel is available
// through Flush. A new filter is an identity (pass-through) filter.
//
// OnePole is not safe for concurrent use.
type OnePole struct {
	channels int
	kernel   registry.OnePoleKernel
	outs     *buffer.Buffer
}

// NewOnePole returns a pass-through first-order filter for the given
// number of interleaved channels. It panics if channels < 1.
func NewOnePole(channels int) *OnePole {
	if channels < 1 {
		panic("stream: channel count must be positive")
	}
	f := &OnePole{
		channels: channels,
		outs:     buffer.New(channels),
	}
	f.kernel.B0 = 1
	f.recompute()
	return f
}

// recompute refreshes the block-recursion structures from the current
// coefficients and clears the delay line. Every setter funnels through
// here so that coefficients and derived state change as a unit.
func (f *OnePole) recompute() {
	k := &f.kernel
	k.F[0] = 1
	for j := 1; j < 4; j++ {
		k.F[j] = -k.A1 * k.F[j-1]
	}
	for j := 0; j < 4; j++ {
		k.C[j] = -k.A1 * k.F[j]
	}
	f.outs.Reset(f.channels)
}

// Channels reports the number of interleaved channels.
func (f *OnePole) Channels() int { return f.channels }

// SetChannels reconfigures the channel count, invalidating and clearing
// the delay line. It panics if channels < 1.
func (f *OnePole) SetChannels(channels int) {
	if channels < 1 {
		panic("stream: channel count must be positive")
	}
	f.channels = channels
	f.recompute()
}

// SetCoeff installs the coefficients b0 = bvals[0] and a1 = avals[1],
// normalized by avals[0]. Missing coefficients default to the identity
// filter (b0 = 1, a1 = 0) before normalization. No stability check is
// performed; the caller is trusted.
func (f *OnePole) SetCoeff(bvals, avals []float64) {
	a0 := 1.0
	if len(avals) > 0 {
		a0 = avals[0]
	}
	b0 := 1.0
	if len(bvals) > 0 {
		b0 = bvals[0]
	}
	f.kernel.B0 = b0 / a0
	f.kernel.A1 = 0
	if len(avals) > 1 {
		f.kernel.A1 = avals[1] / a0
	}
	f.recompute()
}

// SetBCoeff sets the zero-order feed-forward coefficient.
func (f *OnePole) SetBCoeff(b0 float64) {
	f.kernel.B0 = b0
	f.recompute()
}

// SetACoeff sets the first-order feedback coefficient. No stability
// check is performed.
func (f *OnePole) SetACoeff(a1 float64) {
	f.kernel.A1 = a1
	f.recompute()
}

// BCoeff returns the feed-forward coefficients [b0].
func (f *OnePole) BCoeff() []float64 {
	return []float64{f.kernel.B0}
}

// ACoeff returns the feedback coefficients [1, a1].
func (f *OnePole) ACoeff() []float64 {
	return []float64{1, f.kernel.A1}
}

// SetLowpass configures the filter as a single-pole lowpass with the
// given normalized cutoff frequency (frequency/sample rate). The
// coefficients follow from the bilinear transform of an RC lowpass and
// give exactly unity gain at DC.
func (f *OnePole) SetLowpass(frequency float64) {
	t := frequency * 2 * math.Pi
	f.kernel.B0 = t / (t + 1)
	f.kernel.A1 = f.kernel.B0 - 1
	f.recompute()
}

// SetPole places the filter pole on the real axis of the z-plane and
// normalizes for a maximum gain of one: unity at DC for a positive pole
// (lowpass) and unity at Nyquist for a negative pole (highpass). It
// returns ErrUnstablePole, leaving the filter unchanged, if |pole| >= 1.
func (f *OnePole) SetPole(pole float64) error {
	if math.Abs(pole) >= 1 {
		return ErrUnstablePole
	}
	f.kernel.A1 = -pole
	f.kernel.B0 = 1 - math.Abs(pole)
	f.recompute()
	return nil
}

// SetTransfer installs the transfer function p(z)/q(z), keeping the
// orders this filter supports: b0 = p[0]/q[0] and a1 = q[1]/q[0].
func (f *OnePole) SetTransfer(p, q poly.Polynomial) {
	f.SetCoeff(p, q)
}

// Numerator returns the transfer function numerator [b0].
func (f *OnePole) Numerator() poly.Polynomial {
	return poly.Polynomial{f.kernel.B0}
}

// Denominator returns the transfer function denominator [1, a1].
func (f *OnePole) Denominator() poly.Polynomial {
	return poly.Polynomial{1, f.kernel.A1}
}

// Response evaluates the transfer function on the unit circle at the
// given normalized frequency.
func (f *OnePole) Response(frequency float64) complex128 {
	return f.Numerator().Response(frequency) / f.Denominator().Response(frequency)
}

// Step filters a single frame. input and output each hold Channels()
// samples. The emitted frame is the one pending from the previous call;
// the freshly computed frame replaces it in the delay line.
func (f *OnePole) Step(gain float64, input, output []float64) {
	outs := f.outs.Samples()
	gb0 := gain * f.kernel.B0
	for c := 0; c < f.channels; c++ {
		output[c] = outs[c]
		outs[c] = gb0*input[c] - f.kernel.A1*outs[c]
	}
}

// Calculate filters frames interleaved frames of input into output.
// The largest multiple-of-4 prefix runs on the channel-specialized
// kernel backend; the remainder falls back to the scalar step so the
// result matches per-frame stepping regardless of the path taken.
func (f *OnePole) Calculate(gain float64, input, output []float64, frames int) {
	valid := frames &^ 3
	if valid > 0 {
		k := activeKernels()
		outs := f.outs.Samples()
		switch f.channels {
		case 4, 8:
			k.OnePoleFrame(&f.kernel, gain, outs, input, output, valid, f.channels)
		default:
			for c := 0; c < f.channels; c++ {
				outs[c] = k.OnePoleLane(&f.kernel, gain, outs[c], input[c:], output[c:], valid, f.channels)
			}
		}
	}
	for i := valid; i < frames; i++ {
		base := i * f.channels
		f.Step(gain, input[base:base+f.channels], output[base:base+f.channels])
	}
}

// Flush writes the pending delayed frame to output and clears the delay
// line, returning the number of frames written (always 1).
func (f *OnePole) Flush(output []float64) int {
	return f.outs.Drain(output) / f.channels
}

// Clear zeroes the delay line without touching the coefficients.
func (f *OnePole) Clear() {
	f.outs.Zero()
}
