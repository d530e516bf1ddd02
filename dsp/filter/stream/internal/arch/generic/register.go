// Package generic registers the scalar reference kernels. These follow
// the filter difference equations one frame at a time and serve as the
// correctness oracle for the blocked backends.
package generic

import (
	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		Kernels: registry.Kernels{
			OnePoleLane:   onePoleLane,
			OnePoleFrame:  onePoleFrame,
			TwoPoleLane:   twoPoleLane,
			TwoPoleFrame:  twoPoleFrame,
			PoleZeroLane:  poleZeroLane,
			PoleZeroFrame: poleZeroFrame,
			FIRLane:       firLane,
			FIRFrame:      firFrame,
		},
	})
}

func onePoleLane(k *registry.OnePoleKernel, gain, carry float64, src, dst []float64, frames, stride int) float64 {
	gb0 := gain * k.B0
	idx := 0
	for i := 0; i < frames; i++ {
		x := src[idx]
		dst[idx] = carry
		carry = gb0*x - k.A1*carry
		idx += stride
	}
	return carry
}

func onePoleFrame(k *registry.OnePoleKernel, gain float64, outs, src, dst []float64, frames, width int) {
	gb0 := gain * k.B0
	for i := 0; i < frames; i++ {
		base := i * width
		for c := 0; c < width; c++ {
			x := src[base+c]
			dst[base+c] = outs[c]
			outs[c] = gb0*x - k.A1*outs[c]
		}
	}
}

func twoPoleLane(k *registry.TwoPoleKernel, gain, prev2, prev1 float64, src, dst []float64, frames, stride int) (float64, float64) {
	gb0 := gain * k.B0
	idx := 0
	for i := 0; i < frames; i++ {
		x := src[idx]
		dst[idx] = prev2
		y := gb0*x - k.A1*prev1 - k.A2*prev2
		prev2 = prev1
		prev1 = y
		idx += stride
	}
	return prev2, prev1
}

func twoPoleFrame(k *registry.TwoPoleKernel, gain float64, outs, src, dst []float64, frames, width int) {
	gb0 := gain * k.B0
	for i := 0; i < frames; i++ {
		base := i * width
		for c := 0; c < width; c++ {
			x := src[base+c]
			dst[base+c] = outs[c]
			y := gb0*x - k.A1*outs[width+c] - k.A2*outs[c]
			outs[c] = outs[width+c]
			outs[width+c] = y
		}
	}
}

func poleZeroLane(k *registry.PoleZeroKernel, gain, pout, pinn float64, src, dst []float64, frames, stride int) (float64, float64) {
	idx := 0
	for i := 0; i < frames; i++ {
		gx := gain * src[idx]
		dst[idx] = pout
		pout = k.B0*gx + k.B1*pinn - k.A1*pout
		pinn = gx
		idx += stride
	}
	return pout, pinn
}

func poleZeroFrame(k *registry.PoleZeroKernel, gain float64, outs, inns, src, dst []float64, frames, width int) {
	for i := 0; i < frames; i++ {
		base := i * width
		for c := 0; c < width; c++ {
			gx := gain * src[base+c]
			dst[base+c] = outs[c]
			outs[c] = k.B0*gx + k.B1*inns[c] - k.A1*outs[c]
			inns[c] = gx
		}
	}
}

func firLane(k *registry.FIRKernel, gain float64, hist, src, dst []float64, frames, stride int) {
	order := len(k.B)
	gb0 := gain * k.B0

	if order == 0 {
		idx := 0
		for i := 0; i < frames; i++ {
			dst[idx] = gb0 * src[idx]
			idx += stride
		}
		return
	}

	idx := 0
	for i := 0; i < frames; i++ {
		y := gb0 * src[idx]
		for j, b := range k.B {
			// Tap j multiplies the input delayed by order-j samples,
			// which lives in the delay line until the block catches up.
			d := order - j
			if i >= d {
				y += b * (gain * src[idx-d*stride])
			} else {
				y += b * hist[(j+i)*stride]
			}
		}
		dst[idx] = y
		idx += stride
	}

	updateFIRHist(k, gain, hist, src, frames, stride)
}

// updateFIRHist rewrites the lane delay line with the last `order` gained
// inputs after a block has been processed.
func updateFIRHist(k *registry.FIRKernel, gain float64, hist, src []float64, frames, stride int) {
	order := len(k.B)
	if frames >= order {
		for j := 0; j < order; j++ {
			hist[j*stride] = gain * src[(frames-order+j)*stride]
		}
		return
	}
	for j := 0; j < order-frames; j++ {
		hist[j*stride] = hist[(j+frames)*stride]
	}
	for j := order - frames; j < order; j++ {
		hist[j*stride] = gain * src[(frames-order+j)*stride]
	}
}

func firFrame(k *registry.FIRKernel, gain float64, hist, src, dst []float64, frames, width int) {
	for c := 0; c < width; c++ {
		var lane []float64
		if len(hist) > 0 {
			lane = hist[c:]
		}
		firLane(k, gain, lane, src[c:], dst[c:], frames, width)
	}
}
