// Package registry selects filter kernel implementations by CPU feature
// level. Backends register kernel sets at init time; the stream package
// looks up the highest-priority set supported by the detected CPU.
package registry

import (
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// OnePoleKernel holds the precomputed block-recursion structures for a
// first-order filter y[n] = gain*b0*x[n] - a1*y[n-1].
//
// C[j] = (-a1)^(j+1) propagates the carried output j+1 steps forward.
// F[j] = (-a1)^j is the first column of the triangular update matrix:
// within a 4-frame block, input u[i] contributes u[i]*F[j-i] to output j.
type OnePoleKernel struct {
	B0, A1 float64
	C      [4]float64
	F      [4]float64
}

// TwoPoleKernel holds the precomputed block-recursion structures for a
// second-order filter y[n] = gain*b0*x[n] - a1*y[n-1] - a2*y[n-2].
//
// C2 and C1 propagate the two carried outputs y[n-2] and y[n-1] across
// the block. F is the impulse-propagation sequence of the recursion
// (F[0]=1, F[1]=-a1, F[j]=-a1*F[j-1]-a2*F[j-2]), forming the triangular
// update matrix.
type TwoPoleKernel struct {
	B0, A1, A2 float64
	C2, C1     [4]float64
	F          [4]float64
}

// PoleZeroKernel holds the precomputed block-recursion structures for
// y[n] = gain*(b0*x[n] + b1*x[n-1]) - a1*y[n-1]. The recursion matches
// OnePoleKernel; B1 adds the feed-forward delayed-input term.
type PoleZeroKernel struct {
	B0, B1, A1 float64
	C          [4]float64
	F          [4]float64
}

// FIRKernel holds the tap set for y[n] = gain*(b0*x[n] + ... + bk*x[n-k]).
// B is ordered to match the delay line, oldest stored input first:
// B[j] multiplies x[n-(order-j)] where order = len(B).
type FIRKernel struct {
	B0 float64
	B  []float64
}

// Lane kernels process one channel of an interleaved buffer: src and dst
// are offset to the channel and advanced by stride per frame. The frame
// count is always a multiple of 4; Calculate handles the remainder with
// the scalar step. Outputs are delayed by the filter's feedback order and
// the carried state is returned for the next block.
type (
	// OnePoleLaneFn carries one delayed output per lane.
	OnePoleLaneFn func(k *OnePoleKernel, gain, carry float64, src, dst []float64, frames, stride int) float64

	// TwoPoleLaneFn carries two delayed outputs per lane (y[n-2], y[n-1]).
	TwoPoleLaneFn func(k *TwoPoleKernel, gain, prev2, prev1 float64, src, dst []float64, frames, stride int) (float64, float64)

	// PoleZeroLaneFn carries one delayed output and one stored gained
	// input per lane.
	PoleZeroLaneFn func(k *PoleZeroKernel, gain, pout, pinn float64, src, dst []float64, frames, stride int) (float64, float64)

	// FIRLaneFn reads and rewrites the lane's delay line hist, which is
	// offset to the channel and strided like src: hist[j*stride] holds
	// the gained input x[n0-(order-j)].
	FIRLaneFn func(k *FIRKernel, gain float64, hist, src, dst []float64, frames, stride int)
)

// Frame kernels process whole interleaved frames of width channels
// (width 4 or 8), using the delayed-frame recursion where the previous
// output frame seeds the next. State slices use the same frame-major
// layout as the filters' delay lines.
type (
	OnePoleFrameFn  func(k *OnePoleKernel, gain float64, outs, src, dst []float64, frames, width int)
	TwoPoleFrameFn  func(k *TwoPoleKernel, gain float64, outs, src, dst []float64, frames, width int)
	PoleZeroFrameFn func(k *PoleZeroKernel, gain float64, outs, inns, src, dst []float64, frames, width int)
	FIRFrameFn      func(k *FIRKernel, gain float64, hist, src, dst []float64, frames, width int)
)

// Kernels is one complete kernel set covering all four filter types.
type Kernels struct {
	OnePoleLane   OnePoleLaneFn
	OnePoleFrame  OnePoleFrameFn
	TwoPoleLane   TwoPoleLaneFn
	TwoPoleFrame  TwoPoleFrameFn
	PoleZeroLane  PoleZeroLaneFn
	PoleZeroFrame PoleZeroFrameFn
	FIRLane       FIRLaneFn
	FIRFrame      FIRFrameFn
}

// OpEntry is one registered kernel set.
type OpEntry struct {
	Name      string
	SIMDLevel cpu.SIMDLevel
	Priority  int
	Kernels   Kernels
}

// OpRegistry stores available implementations.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
	sorted  bool
}

// Global is the default filter kernel registry.
var Global = &OpRegistry{}

// Register adds an implementation entry.
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority implementation supported by features.
func (r *OpRegistry) Lookup(features cpu.Features) *OpEntry {
	r.mu.Lock()
	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		entry := &r.entries[i]
		if cpu.Supports(features, entry.SIMDLevel) {
			return entry
		}
	}

	return nil
}

func (r *OpRegistry) sortByPriority() {
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}

// ListEntries returns a copy of entries for tests/debugging.
func (r *OpRegistry) ListEntries() []OpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]OpEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Reset clears all entries. Intended for tests.
func (r *OpRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.sorted = false
}
