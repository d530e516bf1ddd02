// Package stream provides real-time streaming filters for interleaved
// multi-channel audio: [OnePole] (first-order lowpass), [TwoPole]
// (resonance), [PoleZero] (highpass, allpass, DC blocker) and [FIR]
// (general feed-forward convolution).
//
// The four types share a structural contract, [Filter], rather than any
// embedding relationship. Each filter owns its delay lines and carries
// recursive state across block boundaries, so streaming a signal in
// chunks of any size is bit-equivalent to filtering it in one call.
// To keep that property in real time, the recursive filters emit output
// delayed by their feedback order (one sample for OnePole and PoleZero,
// two for TwoPole); Flush drains the pending tail.
//
// Block processing dispatches to channel-count-specialized routines and,
// within each lane, to a kernel backend chosen by CPU feature level: a
// scalar reference implementation and blocked kernels that unroll the
// recursion four frames ahead via precomputed carry/matrix structures.
// Both produce identical results up to float rounding.
//
// Filters are not safe for concurrent use: they sit on the audio
// callback path and take no locks. Confine each instance to one
// goroutine.
package stream
