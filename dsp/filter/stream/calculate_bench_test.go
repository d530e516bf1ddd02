package stream

import (
	"fmt"
	"testing"

	"github.com/onewordstudios/audiodsp/internal/testutil"
)

const benchFrames = 1024

func benchInput(channels int) []float64 {
	return testutil.DeterministicNoise(1, 1, benchFrames*channels)
}

func benchCalculate(b *testing.B, build func(ch int) Filter) {
	for _, ch := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("ch=%d", ch), func(b *testing.B) {
			f := build(ch)
			input := benchInput(ch)
			output := make([]float64, benchFrames*ch)

			b.SetBytes(int64(benchFrames * ch * 8))
			b.ReportAllocs()
			b.ResetTimer()
			for range b.N {
				f.Calculate(1, input, output, benchFrames)
			}
		})
	}
}

func BenchmarkOnePoleCalculate(b *testing.B) {
	benchCalculate(b, func(ch int) Filter {
		f := NewOnePole(ch)
		f.SetLowpass(0.1)
		return f
	})
}

func BenchmarkTwoPoleCalculate(b *testing.B) {
	benchCalculate(b, func(ch int) Filter {
		f := NewTwoPole(ch)
		if err := f.SetResonance(0.1, 0.95, true); err != nil {
			b.Fatal(err)
		}
		return f
	})
}

func BenchmarkPoleZeroCalculate(b *testing.B) {
	benchCalculate(b, func(ch int) Filter {
		f := NewPoleZero(ch)
		if err := f.SetBlockZero(0.99); err != nil {
			b.Fatal(err)
		}
		return f
	})
}

func BenchmarkFIRCalculate(b *testing.B) {
	for _, taps := range []int{4, 16, 64} {
		b.Run(fmt.Sprintf("taps=%d", taps), func(b *testing.B) {
			bvals := make([]float64, taps)
			for i := range bvals {
				bvals[i] = 1 / float64(taps)
			}
			f := NewFIR(2)
			f.SetBCoeff(bvals)
			input := benchInput(2)
			output := make([]float64, benchFrames*2)

			b.SetBytes(int64(benchFrames * 2 * 8))
			b.ReportAllocs()
			b.ResetTimer()
			for range b.N {
				f.Calculate(1, input, output, benchFrames)
			}
		})
	}
}

// BenchmarkOnePoleStep measures the scalar per-frame path for
// comparison against the blocked Calculate.
func BenchmarkOnePoleStep(b *testing.B) {
	f := NewOnePole(2)
	f.SetLowpass(0.1)
	input := benchInput(2)
	output := make([]float64, benchFrames*2)

	b.SetBytes(int64(benchFrames * 2 * 8))
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		stepAll(f, 1, input, output, benchFrames)
	}
}
