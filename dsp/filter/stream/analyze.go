package stream

import (
	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// ImpulseResponse captures the first n samples of f's impulse response
// by streaming an impulse through the filter on its first channel. The
// real-time output delay of recursive filters is compensated, so the
// result starts at h[0]. The filter's delay lines are cleared before
// and after; coefficients are untouched.
func ImpulseResponse(f Filter, n int) []float64 {
	if n <= 0 {
		return nil
	}
	ch := f.Channels()
	delay := len(f.ACoeff()) - 1
	total := n + delay

	f.Clear()
	in := make([]float64, total*ch)
	out := make([]float64, total*ch)
	in[0] = 1
	f.Calculate(1, in, out, total)
	f.Clear()

	ir := make([]float64, n)
	for i := range ir {
		ir[i] = out[(i+delay)*ch]
	}
	return ir
}

// MagnitudeSpectrum returns the magnitude response of f sampled at
// size FFT bins, from DC up to and including Nyquist (size/2+1 values).
// It is the empirical counterpart of Response: the filter's impulse
// response is captured and transformed, so the result reflects what the
// streaming paths actually compute. size must be a supported FFT length
// (a power of two).
func MagnitudeSpectrum(f Filter, size int) ([]float64, error) {
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, err
	}

	ir := ImpulseResponse(f, size)
	in := make([]complex128, size)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, err
	}

	half := size/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)
	for i := 0; i < half; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}
	mag := make([]float64, half)
	vecmath.Magnitude(mag, re, im)
	return mag, nil
}
