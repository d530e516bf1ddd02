package stream

import (
	"math"
	"math/cmplx"

	"github.com/onewordstudios/audiodsp/dsp/buffer"
	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"
	"github.com/onewordstudios/audiodsp/dsp/poly"
)

// TwoPole is a second-order recursive filter implementing the
// difference equation
//
//	y[n] = gain*b0*x[n] - a1*y[n-1] - a2*y[n-2]
//
// Placing a complex-conjugate pole pair inside the unit circle turns it
// into a resonance (bandpass) filter, the role it usually plays.
//
// The output of Step and Calculate is delayed by two samples; the two
// pending frames per channel are available through Flush. A new filter
// is an identity (pass-through) filter.
//
// TwoPole is not safe for concurrent use.
type TwoPole struct {
	channels int
	kernel   registry.TwoPoleKernel
	outs     *buffer.Buffer
}

// NewTwoPole returns a pass-through second-order filter for the given
// number of interleaved channels. It panics if channels < 1.
func NewTwoPole(channels int) *TwoPole {
	if channels < 1 {
		panic("stream: channel count must be positive")
	}
	f := &TwoPole{
		channels: channels,
		outs:     buffer.New(2 * channels),
	}
	f.kernel.B0 = 1
	f.recompute()
	return f
}

// recompute refreshes the block-recursion structures from the current
// coefficients and clears the delay line. F is the impulse propagation
// of the homogeneous recursion; the carried outputs y[n-1] and y[n-2]
// propagate through shifted and a2-scaled copies of the same sequence.
func (f *TwoPole) recompute() {
	k := &f.kernel
	k.F[0] = 1
	k.F[1] = -k.A1
	k.F[2] = -k.A1*k.F[1] - k.A2*k.F[0]
	k.F[3] = -k.A1*k.F[2] - k.A2*k.F[1]
	f4 := -k.A1*k.F[3] - k.A2*k.F[2]

	k.C1[0], k.C1[1], k.C1[2], k.C1[3] = k.F[1], k.F[2], k.F[3], f4
	for j := 0; j < 4; j++ {
		k.C2[j] = -k.A2 * k.F[j]
	}
	f.outs.Reset(2 * f.channels)
}

// Channels reports the number of interleaved channels.
func (f *TwoPole) Channels() int { return f.channels }

// SetChannels reconfigures the channel count, invalidating and clearing
// the delay line. It panics if channels < 1.
func (f *TwoPole) SetChannels(channels int) {
	if channels < 1 {
		panic("stream: channel count must be positive")
	}
	f.channels = channels
	f.recompute()
}

// SetCoeff installs b0 = bvals[0], a1 = avals[1] and a2 = avals[2], all
// normalized by avals[0]. Missing coefficients default to the identity
// filter before normalization. No stability check is performed; the
// caller is trusted.
func (f *TwoPole) SetCoeff(bvals, avals []float64) {
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
	f.kernel.A2 = 0
	if len(avals) > 2 {
		f.kernel.A2 = avals[2] / a0
	}
	f.recompute()
}

// SetBCoeff sets the zero-order feed-forward coefficient.
func (f *TwoPole) SetBCoeff(b0 float64) {
	f.kernel.B0 = b0
	f.recompute()
}

// SetACoeff sets both feedback coefficients. No stability check is
// performed.
func (f *TwoPole) SetACoeff(a1, a2 float64) {
	f.kernel.A1 = a1
	f.kernel.A2 = a2
	f.recompute()
}

// BCoeff returns the feed-forward coefficients [b0].
func (f *TwoPole) BCoeff() []float64 {
	return []float64{f.kernel.B0}
}

// ACoeff returns the feedback coefficients [1, a1, a2].
func (f *TwoPole) ACoeff() []float64 {
	return []float64{1, f.kernel.A1, f.kernel.A2}
}

// SetResonance places a complex-conjugate pole pair at the given radius
// and normalized center frequency. With normalize set, the gain is
// rescaled so the magnitude response at that frequency is exactly unity,
// computed by evaluating the denominator's frequency response at the
// single point. It returns ErrUnstableRadius, leaving the filter
// unchanged, if radius is outside [0, 1).
func (f *TwoPole) SetResonance(frequency, radius float64, normalize bool) error {
	if radius < 0 || radius >= 1 {
		return ErrUnstableRadius
	}
	f.kernel.A2 = radius * radius
	f.kernel.A1 = -2 * radius * math.Cos(2*math.Pi*frequency)
	if normalize {
		q := poly.Polynomial{1, f.kernel.A1, f.kernel.A2}
		f.kernel.B0 = cmplx.Abs(q.Response(frequency))
	}
	f.recompute()
	return nil
}

// SetPoles places both poles on the real axis of the z-plane and resets
// the gain to one. It returns ErrUnstablePole, leaving the filter
// unchanged, if either |pole| >= 1.
func (f *TwoPole) SetPoles(pole1, pole2 float64) error {
	if math.Abs(pole1) >= 1 || math.Abs(pole2) >= 1 {
		return ErrUnstablePole
	}
	f.kernel.A1 = -pole1 - pole2
	f.kernel.A2 = pole1 * pole2
	f.kernel.B0 = 1
	f.recompute()
	return nil
}

// SetTransfer installs the transfer function p(z)/q(z), keeping the
// orders this filter supports: b0 = p[0]/q[0], a1 = q[1]/q[0] and
// a2 = q[2]/q[0].
func (f *TwoPole) SetTransfer(p, q poly.Polynomial) {
	f.SetCoeff(p, q)
}

// Numerator returns the transfer function numerator [b0].
func (f *TwoPole) Numerator() poly.Polynomial {
	return poly.Polynomial{f.kernel.B0}
}

// Denominator returns the transfer function denominator [1, a1, a2].
func (f *TwoPole) Denominator() poly.Polynomial {
	return poly.Polynomial{1, f.kernel.A1, f.kernel.A2}
}

// Response evaluates the transfer function on the unit circle at the
// given normalized frequency.
func (f *TwoPole) Response(frequency float64) complex128 {
	return f.Numerator().Response(frequency) / f.Denominator().Response(frequency)
}

// Step filters a single frame. The delay line holds two frames per
// channel, older first; the emitted frame is the older pending one.
func (f *TwoPole) Step(gain float64, input, output []float64) {
	outs := f.outs.Samples()
	gb0 := gain * f.kernel.B0
	ch := f.channels
	for c := 0; c < ch; c++ {
		output[c] = outs[c]
		y := gb0*input[c] - f.kernel.A1*outs[ch+c] - f.kernel.A2*outs[c]
		outs[c] = outs[ch+c]
		outs[ch+c] = y
	}
}

// Calculate filters frames interleaved frames of input into output.
// The largest multiple-of-4 prefix runs on the channel-specialized
// kernel backend; the remainder falls back to the scalar step so the
// result matches per-frame stepping regardless of the path taken.
func (f *TwoPole) Calculate(gain float64, input, output []float64, frames int) {
	valid := frames &^ 3
	if valid > 0 {
		k := activeKernels()
		outs := f.outs.Samples()
		ch := f.channels
		switch ch {
		case 4, 8:
			k.TwoPoleFrame(&f.kernel, gain, outs, input, output, valid, ch)
		default:
			for c := 0; c < ch; c++ {
				outs[c], outs[ch+c] = k.TwoPoleLane(&f.kernel, gain, outs[c], outs[ch+c], input[c:], output[c:], valid, ch)
			}
		}
	}
	for i := valid; i < frames; i++ {
		base := i * f.channels
		f.Step(gain, input[base:base+f.channels], output[base:base+f.channels])
	}
}

// Flush writes the two pending delayed frames to output, older first,
// and clears the delay line, returning the number of frames written
// (always 2).
func (f *TwoPole) Flush(output []float64) int {
	return f.outs.Drain(output) / f.channels
}

// Clear zeroes the delay line without touching the coefficients.
func (f *TwoPole) Clear() {
	f.outs.Zero()
}
