// Package buffer provides reusable float64 sample storage for DSP state.
//
// Filters use Buffer for their delay lines: storage that is reallocated
// when a filter is reconfigured and zeroed when it is cleared, without
// churning the garbage collector on the audio path. Pool offers scratch
// buffers for transient work such as FFT staging.
package buffer
