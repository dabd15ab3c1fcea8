// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numgrad implements the central-difference Jacobian fallback used
// to validate analytic provider gradients and, for the reprojection
// provider, as the gradient itself (the reprojection residual is
// numerically differentiated to sidestep the quaternion-rotation chain
// rule). Grounded on gosl's num.Jacobian(&Jtri, Ffcn, x, fx, w) helper
// used by NlSolver.CheckJ.
package numgrad

import "math"

// Eps is the default central-difference step.
const Eps = 1e-6

// ResidualFunc evaluates a residual vector at x, in the shape of gosl's
// fun.Vv callback signature.
type ResidualFunc func(x []float64) []float64

// Provider is the minimal surface numgrad needs from a residual provider:
// enough to perturb only the columns it owns. ele.Provider satisfies this
// interface structurally.
type Provider interface {
	ResidualCount() int
	VariableIndices() []int
	ComputeResiduals(x []float64) []float64
}

// Jacobian computes the central-difference Jacobian of f at x with respect
// to every entry of x (dense, r x len(x)). eps<=0 uses Eps.
func Jacobian(f ResidualFunc, x []float64, r int, eps float64) [][]float64 {
	if eps <= 0 {
		eps = Eps
	}
	n := len(x)
	jac := make([][]float64, r)
	for i := range jac {
		jac[i] = make([]float64, n)
	}
	xp := append([]float64(nil), x...)
	for col := 0; col < n; col++ {
		orig := xp[col]
		xp[col] = orig + eps
		fPlus := f(xp)
		xp[col] = orig - eps
		fMinus := f(xp)
		xp[col] = orig
		for row := 0; row < r; row++ {
			d := (fPlus[row] - fMinus[row]) / (2 * eps)
			if !isFinite(d) {
				d = 0
			}
			jac[row][col] = d
		}
	}
	return jac
}

// ProviderJacobian computes the central-difference local Jacobian (r x k,
// k=len(p.VariableIndices())) of a provider, perturbing only the columns it
// owns in the full parameter vector x.
func ProviderJacobian(p Provider, x []float64, eps float64) [][]float64 {
	if eps <= 0 {
		eps = Eps
	}
	r := p.ResidualCount()
	vars := p.VariableIndices()
	jac := make([][]float64, r)
	for i := range jac {
		jac[i] = make([]float64, len(vars))
	}
	xp := append([]float64(nil), x...)
	for local, col := range vars {
		orig := xp[col]
		xp[col] = orig + eps
		fPlus := p.ComputeResiduals(xp)
		xp[col] = orig - eps
		fMinus := p.ComputeResiduals(xp)
		xp[col] = orig
		for row := 0; row < r; row++ {
			d := (fPlus[row] - fMinus[row]) / (2 * eps)
			if !isFinite(d) {
				d = 0
			}
			jac[row][local] = d
		}
	}
	return jac
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
