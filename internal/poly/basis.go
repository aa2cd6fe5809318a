// Package poly implements the polynomial RGB->RGB color model: monomial
// feature expansion, ridge-regression fitting, and blended application.
package poly

import "gonum.org/v1/gonum/mat"

// Exponent is a monomial term R^A * G^B * B^C.
type Exponent struct {
	A int `json:"a"`
	B int `json:"b"`
	C int `json:"c"`
}

// Degree returns the total degree of the monomial.
func (e Exponent) Degree() int {
	return e.A + e.B + e.C
}

// Basis enumerates all exponent triples with total degree 0..maxDegree.
// The order is load-bearing: it defines the coefficient matrix layout and
// must be reproduced identically when a persisted model is reloaded.
// Degrees ascend; within a degree A descends, then B descends.
func Basis(maxDegree int) []Exponent {
	var exps []Exponent
	for deg := 0; deg <= maxDegree; deg++ {
		for a := deg; a >= 0; a-- {
			for b := deg - a; b >= 0; b-- {
				exps = append(exps, Exponent{A: a, B: b, C: deg - a - b})
			}
		}
	}
	return exps
}

// ipow computes v^n for small non-negative integer exponents.
func ipow(v float64, n int) float64 {
	out := 1.0
	for i := 0; i < n; i++ {
		out *= v
	}
	return out
}

// Features builds the N x len(basis) design matrix for a flat pixel buffer
// (interleaved RGB triples). Column j holds R^Aj * G^Bj * B^Cj per pixel.
func Features(pix []float64, basis []Exponent) *mat.Dense {
	n := len(pix) / 3
	phi := mat.NewDense(n, len(basis), nil)
	for i := 0; i < n; i++ {
		r, g, b := pix[i*3], pix[i*3+1], pix[i*3+2]
		for j, e := range basis {
			phi.Set(i, j, ipow(r, e.A)*ipow(g, e.B)*ipow(b, e.C))
		}
	}
	return phi
}
