// Package poly provides polynomials in z^-1 for digital filter
// transfer functions.
//
// A digital filter is defined by a z-domain transfer function
//
//	H(z) = p(z)/q(z)
//
// where p and q are polynomials in z^-1. Cascading two filters multiplies
// their transfer functions, so a filter chain can be collapsed into a
// single filter by multiplying numerators and denominators.
package poly

import (
	"math"
	"math/cmplx"
)

// Polynomial is a polynomial in z^-1. Index k holds the coefficient of
// z^-k, so P[0] is the constant term. A nil or empty polynomial is zero.
type Polynomial []float64

// Degree returns the degree of the polynomial, ignoring trailing zero
// coefficients. The zero polynomial has degree 0.
func (p Polynomial) Degree() int {
	for k := len(p) - 1; k > 0; k-- {
		if p[k] != 0 {
			return k
		}
	}
	return 0
}

// At returns the coefficient of z^-k, or 0 when k is out of range.
func (p Polynomial) At(k int) float64 {
	if k < 0 || k >= len(p) {
		return 0
	}
	return p[k]
}

// Mul returns the product p*q. The product of two transfer-function
// numerators (or denominators) is the numerator (or denominator) of the
// cascaded filter.
func (p Polynomial) Mul(q Polynomial) Polynomial {
	if len(p) == 0 || len(q) == 0 {
		return nil
	}
	out := make(Polynomial, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		for j, b := range q {
			out[i+j] += a * b
		}
	}
	return out
}

// Add returns the sum p+q.
func (p Polynomial) Add(q Polynomial) Polynomial {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(Polynomial, n)
	copy(out, p)
	for i, b := range q {
		out[i] += b
	}
	return out
}

// Scale returns p with every coefficient multiplied by k.
func (p Polynomial) Scale(k float64) Polynomial {
	out := make(Polynomial, len(p))
	for i, a := range p {
		out[i] = a * k
	}
	return out
}

// Eval evaluates the polynomial at the given value of z^-1 using
// Horner's method.
func (p Polynomial) Eval(zinv complex128) complex128 {
	var acc complex128
	for k := len(p) - 1; k >= 0; k-- {
		acc = acc*zinv + complex(p[k], 0)
	}
	return acc
}

// Response evaluates the polynomial on the unit circle at the given
// normalized frequency (frequency divided by sample rate, in [0, 0.5]).
func (p Polynomial) Response(frequency float64) complex128 {
	return p.Eval(cmplx.Exp(complex(0, -2*math.Pi*frequency)))
}
