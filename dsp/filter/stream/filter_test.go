package stream

import (
	"math"
	"testing"

	"github.com/onewordstudios/audiodsp/internal/testutil"
)

// tolerance for comparing the blocked kernels against the scalar step.
// The blocked paths reorder additions, so exact equality is not expected.
const eps = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// filterCase builds one configured filter of each type for the
// contract-level tests. The coefficient choices are arbitrary but
// stable and exercise every term of each difference equation.
type filterCase struct {
	name       string
	flushCount int
	build      func(channels int) Filter
}

func filterCases() []filterCase {
	return []filterCase{
		{"OnePole", 1, func(ch int) Filter {
			f := NewOnePole(ch)
			f.SetCoeff([]float64{0.3}, []float64{1, -0.4})
			return f
		}},
		{"TwoPole", 2, func(ch int) Filter {
			f := NewTwoPole(ch)
			f.SetCoeff([]float64{0.7}, []float64{1, -0.5, 0.2})
			return f
		}},
		{"PoleZero", 1, func(ch int) Filter {
			f := NewPoleZero(ch)
			f.SetCoeff([]float64{0.9, -0.9}, []float64{1, -0.8})
			return f
		}},
		{"FIR", 0, func(ch int) Filter {
			f := NewFIR(ch)
			f.SetBCoeff([]float64{0.5, 0.25, -0.125, 0.0625, 0.375})
			return f
		}},
	}
}

// stepAll runs the scalar per-frame path over a whole block.
func stepAll(f Filter, gain float64, input, output []float64, frames int) {
	ch := f.Channels()
	for i := 0; i < frames; i++ {
		f.Step(gain, input[i*ch:(i+1)*ch], output[i*ch:(i+1)*ch])
	}
}

func TestCalculateMatchesStep(t *testing.T) {
	channelCounts := []int{1, 2, 3, 4, 5, 8}
	frameCounts := []int{1, 3, 4, 7, 8, 16, 21, 64}

	for _, tc := range filterCases() {
		t.Run(tc.name, func(t *testing.T) {
			for _, ch := range channelCounts {
				for _, frames := range frameCounts {
					input := testutil.DeterministicNoise(42, 1, frames*ch)

					blocked := tc.build(ch)
					scalar := tc.build(ch)
					got := make([]float64, frames*ch)
					want := make([]float64, frames*ch)

					blocked.Calculate(0.8, input, got, frames)
					stepAll(scalar, 0.8, input, want, frames)

					for i := range got {
						if !almostEqual(got[i], want[i], eps) {
							t.Fatalf("ch=%d frames=%d sample %d: calculate %v, step %v",
								ch, frames, i, got[i], want[i])
						}
					}
				}
			}
		})
	}
}

func TestCalculateCarriesStateAcrossBlocks(t *testing.T) {
	const ch, frames = 2, 48

	for _, tc := range filterCases() {
		t.Run(tc.name, func(t *testing.T) {
			input := testutil.DeterministicNoise(7, 1, frames*ch)

			whole := tc.build(ch)
			want := make([]float64, frames*ch)
			whole.Calculate(1, input, want, frames)

			// Re-filter the same stream split at every possible
			// boundary, including degenerate empty halves.
			for cut := 0; cut <= frames; cut++ {
				split := tc.build(ch)
				got := make([]float64, frames*ch)
				split.Calculate(1, input[:cut*ch], got[:cut*ch], cut)
				split.Calculate(1, input[cut*ch:], got[cut*ch:], frames-cut)

				for i := range got {
					if !almostEqual(got[i], want[i], eps) {
						t.Fatalf("cut=%d sample %d: split %v, whole %v", cut, i, got[i], want[i])
					}
				}
			}
		})
	}
}

func TestClearThenZeroInputIsSilent(t *testing.T) {
	const ch, frames = 3, 32

	for _, tc := range filterCases() {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.build(ch)
			noise := testutil.DeterministicNoise(3, 1, frames*ch)
			scratch := make([]float64, frames*ch)
			f.Calculate(1, noise, scratch, frames)

			f.Clear()

			in := make([]float64, frames*ch)
			out := make([]float64, frames*ch)
			f.Calculate(1, in, out, frames)
			for i, v := range out {
				if v != 0 {
					t.Fatalf("sample %d: got %v after clear, want 0", i, v)
				}
			}
		})
	}
}

func TestFlushFrameCounts(t *testing.T) {
	const ch = 2

	for _, tc := range filterCases() {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.build(ch)
			noise := testutil.DeterministicNoise(11, 1, 8*ch)
			scratch := make([]float64, 8*ch)
			f.Calculate(1, noise, scratch, 8)

			out := make([]float64, tc.flushCount*ch)
			if n := f.Flush(out); n != tc.flushCount {
				t.Fatalf("Flush reported %d frames, want %d", n, tc.flushCount)
			}

			// Flush also clears: a zero block must now stay zero.
			in := make([]float64, 4*ch)
			res := make([]float64, 4*ch)
			f.Calculate(1, in, res, 4)
			for i, v := range res {
				if v != 0 {
					t.Fatalf("sample %d: got %v after flush, want 0", i, v)
				}
			}
		})
	}
}

// Flush must drain exactly what Step would have produced next with
// zero further input.
func TestFlushDrainsStoredHistory(t *testing.T) {
	const ch = 2

	for _, tc := range filterCases() {
		if tc.flushCount == 0 {
			continue
		}
		t.Run(tc.name, func(t *testing.T) {
			noise := testutil.DeterministicNoise(23, 1, 12*ch)
			scratch := make([]float64, 12*ch)

			flushed := tc.build(ch)
			flushed.Calculate(1, noise, scratch, 12)
			got := make([]float64, tc.flushCount*ch)
			flushed.Flush(got)

			stepped := tc.build(ch)
			stepped.Calculate(1, noise, scratch, 12)
			zero := make([]float64, ch)
			want := make([]float64, tc.flushCount*ch)
			for i := 0; i < tc.flushCount; i++ {
				stepped.Step(1, zero, want[i*ch:(i+1)*ch])
			}

			testutil.RequireInterleavedNearlyEqual(t, got, want, ch, eps)
		})
	}
}

// A freshly constructed filter is the identity, up to its output delay.
func TestNewFilterIsPassThrough(t *testing.T) {
	builders := []struct {
		name  string
		build func(ch int) Filter
	}{
		{"OnePole", func(ch int) Filter { return NewOnePole(ch) }},
		{"TwoPole", func(ch int) Filter { return NewTwoPole(ch) }},
		{"PoleZero", func(ch int) Filter { return NewPoleZero(ch) }},
		{"FIR", func(ch int) Filter { return NewFIR(ch) }},
	}

	for _, tc := range builders {
		t.Run(tc.name, func(t *testing.T) {
			const frames = 16
			f := tc.build(1)
			delay := len(f.ACoeff()) - 1

			input := testutil.DeterministicNoise(5, 1, frames)
			out := make([]float64, frames)
			f.Calculate(1, input, out, frames)

			for i := delay; i < frames; i++ {
				if !almostEqual(out[i], input[i-delay], eps) {
					t.Fatalf("sample %d: got %v, want %v", i, out[i], input[i-delay])
				}
			}
		})
	}
}

// Channels are processed independently: filtering an interleaved buffer
// equals filtering each channel with its own single-channel filter.
func TestChannelsIndependent(t *testing.T) {
	const frames = 40

	left := testutil.DeterministicSine(0.05, 1, 1, frames)
	right := testutil.Impulse(frames, 3)
	input := testutil.Interleave(left, right)

	for _, tc := range filterCases() {
		t.Run(tc.name, func(t *testing.T) {
			stereo := tc.build(2)
			out := make([]float64, 2*frames)
			stereo.Calculate(1, input, out, frames)
			gotLeft, gotRight := testutil.Deinterleave(out, 2)[0], testutil.Deinterleave(out, 2)[1]

			monoL := tc.build(1)
			wantLeft := make([]float64, frames)
			monoL.Calculate(1, left, wantLeft, frames)

			monoR := tc.build(1)
			wantRight := make([]float64, frames)
			monoR.Calculate(1, right, wantRight, frames)

			testutil.RequireSliceNearlyEqual(t, gotLeft, wantLeft, eps)
			testutil.RequireSliceNearlyEqual(t, gotRight, wantRight, eps)
		})
	}
}

func TestSetChannelsPanicsOnZero(t *testing.T) {
	for _, tc := range filterCases() {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.build(2)
			defer func() {
				if recover() == nil {
					t.Fatal("SetChannels(0) did not panic")
				}
			}()
			f.SetChannels(0)
		})
	}
}

func TestSetChannelsResetsState(t *testing.T) {
	for _, tc := range filterCases() {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.build(2)
			noise := testutil.DeterministicNoise(9, 1, 16)
			scratch := make([]float64, 16)
			f.Calculate(1, noise, scratch, 8)

			f.SetChannels(3)
			if f.Channels() != 3 {
				t.Fatalf("Channels() = %d, want 3", f.Channels())
			}

			in := make([]float64, 12)
			out := make([]float64, 12)
			f.Calculate(1, in, out, 4)
			for i, v := range out {
				if v != 0 {
					t.Fatalf("sample %d: stale history survived SetChannels: %v", i, v)
				}
			}
		})
	}
}
