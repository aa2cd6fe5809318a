package poly

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when the ridge normal-equations matrix cannot be
// solved at the requested degree and lambda. Callers should raise lambda or
// skip the degenerate combination.
var ErrSingular = errors.New("singular normal-equations matrix")

// FitRidge solves the regularized normal equations (Phi^T Phi + lambda*I')w = Phi^T y
// independently for each output channel and returns the P x 3 coefficient
// matrix as a flat row-major slice. I' is the identity with its first diagonal
// entry zeroed so the constant basis term is never regularized.
func FitRidge(x, y []float64, basis []Exponent, lambda float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("sample count mismatch: %d vs %d pixels", len(x)/3, len(y)/3)
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("no training pixels")
	}

	phi := Features(x, basis)
	p := len(basis)

	var gram mat.Dense
	gram.Mul(phi.T(), phi)
	for j := 1; j < p; j++ {
		gram.Set(j, j, gram.At(j, j)+lambda)
	}

	n := len(y) / 3
	coefs := make([]float64, p*3)
	rhs := mat.NewVecDense(p, nil)
	targets := mat.NewVecDense(n, nil)
	for c := 0; c < 3; c++ {
		for i := 0; i < n; i++ {
			targets.SetVec(i, y[i*3+c])
		}
		rhs.MulVec(phi.T(), targets)

		var w mat.VecDense
		if err := w.SolveVec(&gram, rhs); err != nil {
			return nil, fmt.Errorf("%w: degree basis of %d features, lambda %g: %v",
				ErrSingular, p, lambda, err)
		}
		for j := 0; j < p; j++ {
			coefs[j*3+c] = w.AtVec(j)
		}
	}
	return coefs, nil
}
