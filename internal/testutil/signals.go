package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Interleave packs equal-length per-channel signals into a single
// frame-major buffer: sample i of channel c lands at index
// i*len(chans)+c.
func Interleave(chans ...[]float64) []float64 {
	if len(chans) == 0 {
		return nil
	}
	frames := len(chans[0])
	out := make([]float64, frames*len(chans))
	for c, data := range chans {
		for i, v := range data {
			out[i*len(chans)+c] = v
		}
	}
	return out
}

// Deinterleave splits a frame-major interleaved buffer into its
// per-channel signals.
func Deinterleave(data []float64, channels int) [][]float64 {
	if channels <= 0 {
		return nil
	}
	frames := len(data) / channels
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
		for i := 0; i < frames; i++ {
			out[c][i] = data[i*channels+c]
		}
	}
	return out
}
