// Package blocked implements the matrix-precomputed block kernels.
//
// A recursive filter cannot be vectorized directly because output n
// depends on output n-1. Unrolling the recursion four steps expresses
// four consecutive outputs as one carry propagation (powers of the
// feedback coefficients) plus a triangular matrix applied to the four
// feed-forward terms, so a whole 4-frame block is computed from values
// known at block entry. The last lane seeds the next block's carry.
//
// These kernels are written in plain Go for the 128-bit feature levels
// (SSE2, NEON); wider levels showed no gain for this recursion depth.
// TODO: replace the inner loops with explicit asm kernels.
package blocked

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/onewordstudios/audiodsp/dsp/buffer"
	"github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"
)

// Kernels returns the blocked kernel set registered by the 128-bit
// backends.
func Kernels() registry.Kernels {
	return registry.Kernels{
		OnePoleLane:   onePoleLane,
		OnePoleFrame:  onePoleFrame,
		TwoPoleLane:   twoPoleLane,
		TwoPoleFrame:  twoPoleFrame,
		PoleZeroLane:  poleZeroLane,
		PoleZeroFrame: poleZeroFrame,
		FIRLane:       firLane,
		FIRFrame:      firFrame,
	}
}

var scratchPool = buffer.NewPool()

func onePoleLane(k *registry.OnePoleKernel, gain, carry float64, src, dst []float64, frames, stride int) float64 {
	gb0 := gain * k.B0
	idx := 0
	for i := 0; i < frames; i += 4 {
		u0 := gb0 * src[idx]
		u1 := gb0 * src[idx+stride]
		u2 := gb0 * src[idx+2*stride]
		u3 := gb0 * src[idx+3*stride]

		// Carry propagation plus the triangular update matrix.
		y0 := carry*k.C[0] + u0
		y1 := carry*k.C[1] + u0*k.F[1] + u1
		y2 := carry*k.C[2] + u0*k.F[2] + u1*k.F[1] + u2
		y3 := carry*k.C[3] + u0*k.F[3] + u1*k.F[2] + u2*k.F[1] + u3

		// Output is delayed one sample: shift the lane right and emit
		// the carried value first.
		dst[idx] = carry
		dst[idx+stride] = y0
		dst[idx+2*stride] = y1
		dst[idx+3*stride] = y2

		carry = y3
		idx += 4 * stride
	}
	return carry
}

func onePoleFrame(k *registry.OnePoleKernel, gain float64, outs, src, dst []float64, frames, width int) {
	gb0 := gain * k.B0
	na1 := -k.A1

	switch width {
	case 4:
		o0, o1, o2, o3 := outs[0], outs[1], outs[2], outs[3]
		for i := 0; i < frames; i++ {
			base := i * 4
			t0 := gb0*src[base] + na1*o0
			t1 := gb0*src[base+1] + na1*o1
			t2 := gb0*src[base+2] + na1*o2
			t3 := gb0*src[base+3] + na1*o3
			dst[base] = o0
			dst[base+1] = o1
			dst[base+2] = o2
			dst[base+3] = o3
			o0, o1, o2, o3 = t0, t1, t2, t3
		}
		outs[0], outs[1], outs[2], outs[3] = o0, o1, o2, o3
	case 8:
		for i := 0; i < frames; i++ {
			base := i * 8
			for c := 0; c < 8; c += 4 {
				t0 := gb0*src[base+c] + na1*outs[c]
				t1 := gb0*src[base+c+1] + na1*outs[c+1]
				t2 := gb0*src[base+c+2] + na1*outs[c+2]
				t3 := gb0*src[base+c+3] + na1*outs[c+3]
				dst[base+c] = outs[c]
				dst[base+c+1] = outs[c+1]
				dst[base+c+2] = outs[c+2]
				dst[base+c+3] = outs[c+3]
				outs[c], outs[c+1], outs[c+2], outs[c+3] = t0, t1, t2, t3
			}
		}
	default:
		for i := 0; i < frames; i++ {
			base := i * width
			for c := 0; c < width; c++ {
				t := gb0*src[base+c] + na1*outs[c]
				dst[base+c] = outs[c]
				outs[c] = t
			}
		}
	}
}

func twoPoleLane(k *registry.TwoPoleKernel, gain, prev2, prev1 float64, src, dst []float64, frames, stride int) (float64, float64) {
	gb0 := gain * k.B0
	idx := 0
	for i := 0; i < frames; i += 4 {
		u0 := gb0 * src[idx]
		u1 := gb0 * src[idx+stride]
		u2 := gb0 * src[idx+2*stride]
		u3 := gb0 * src[idx+3*stride]

		// Both carried outputs propagate through the block; the
		// feed-forward terms go through the triangular matrix built
		// from the recursion's impulse sequence F.
		y0 := prev2*k.C2[0] + prev1*k.C1[0] + u0
		y1 := prev2*k.C2[1] + prev1*k.C1[1] + u0*k.F[1] + u1
		y2 := prev2*k.C2[2] + prev1*k.C1[2] + u0*k.F[2] + u1*k.F[1] + u2
		y3 := prev2*k.C2[3] + prev1*k.C1[3] + u0*k.F[3] + u1*k.F[2] + u2*k.F[1] + u3

		// Output is delayed two samples.
		dst[idx] = prev2
		dst[idx+stride] = prev1
		dst[idx+2*stride] = y0
		dst[idx+3*stride] = y1

		prev2, prev1 = y2, y3
		idx += 4 * stride
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
	for i := 0; i < frames; i += 4 {
		gx0 := gain * src[idx]
		gx1 := gain * src[idx+stride]
		gx2 := gain * src[idx+2*stride]
		gx3 := gain * src[idx+3*stride]

		// Feed-forward terms: the first lane's delayed input still
		// lives in the previous block's tail (pinn); the rest come
		// from this block's head.
		u0 := k.B0*gx0 + k.B1*pinn
		u1 := k.B0*gx1 + k.B1*gx0
		u2 := k.B0*gx2 + k.B1*gx1
		u3 := k.B0*gx3 + k.B1*gx2

		y0 := pout*k.C[0] + u0
		y1 := pout*k.C[1] + u0*k.F[1] + u1
		y2 := pout*k.C[2] + u0*k.F[2] + u1*k.F[1] + u2
		y3 := pout*k.C[3] + u0*k.F[3] + u1*k.F[2] + u2*k.F[1] + u3

		dst[idx] = pout
		dst[idx+stride] = y0
		dst[idx+2*stride] = y1
		dst[idx+3*stride] = y2

		pout = y3
		pinn = gx3
		idx += 4 * stride
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

// firLane computes the convolution tap by tap over the whole block with
// vector scale/accumulate passes when the lane is contiguous, falling
// back to the scalar loop for strided lanes.
func firLane(k *registry.FIRKernel, gain float64, hist, src, dst []float64, frames, stride int) {
	if stride == 1 {
		firConv(k, gain, hist, src[:frames], dst[:frames], frames, 1)
		return
	}

	order := len(k.B)
	gb0 := gain * k.B0
	idx := 0
	for i := 0; i < frames; i++ {
		y := gb0 * src[idx]
		for j, b := range k.B {
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

// firFrame treats the interleaved block as one flat signal: a delay of d
// frames is a delay of d*width samples, so the same tap-by-tap vector
// convolution applies across all channels at once.
func firFrame(k *registry.FIRKernel, gain float64, hist, src, dst []float64, frames, width int) {
	flat := frames * width
	firConv(k, gain, hist, src[:flat], dst[:flat], flat, width)
}

// firConv runs the vector convolution over a contiguous signal of n
// samples where one frame of tap delay spans `width` samples. hist holds
// order*width gained samples, oldest first.
func firConv(k *registry.FIRKernel, gain float64, hist, src, dst []float64, n, width int) {
	order := len(k.B)

	if order == 0 {
		vecmath.ScaleBlock(dst, src, gain*k.B0)
		return
	}

	scratch := scratchPool.Get(2 * n)
	defer scratchPool.Put(scratch)
	gsrc := scratch.Samples()[:n]
	tmp := scratch.Samples()[n:]

	vecmath.ScaleBlock(gsrc, src, gain)
	vecmath.ScaleBlock(dst, gsrc, k.B0)

	for j, b := range k.B {
		if b == 0 {
			continue
		}
		d := (order - j) * width
		head := d
		if head > n {
			head = n
		}
		for q := 0; q < head; q++ {
			dst[q] += b * hist[j*width+q]
		}
		if n > d {
			m := n - d
			vecmath.ScaleBlock(tmp[:m], gsrc[:m], b)
			vecmath.AddBlockInPlace(dst[d:n], tmp[:m])
		}
	}

	histLen := order * width
	if n >= histLen {
		copy(hist[:histLen], gsrc[n-histLen:])
		return
	}
	copy(hist, hist[n:histLen])
	copy(hist[histLen-n:histLen], gsrc)
}
