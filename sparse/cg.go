// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// breakdownTol guards against division by a near-zero pᵀAp, mirroring the
// breakdown check in gosl's num.NlSolver inner loop.
const breakdownTol = 1e-30

// Result is the common return record shared by CG, PCG and DampedPCG.
type Result struct {
	X          []float64
	Iterations int
	ResidNorm  float64
	Converged  bool
}

// CG solves the SPD system A·x=b with classical (unpreconditioned)
// conjugate gradients. x0 may be nil (zero initial guess). maxIters <= 0
// defaults to 2n; tol <= 0 defaults to 1e-10.
func CG(a *CSR, b []float64, x0 []float64, maxIters int, tol float64) *Result {
	n := len(b)
	if a.Rows != n || a.Cols != n {
		chk.Panic("sparse: CG: dimension mismatch: A is %dx%d, b has %d entries", a.Rows, a.Cols, n)
	}
	if maxIters <= 0 {
		maxIters = 2 * n
	}
	if tol <= 0 {
		tol = 1e-10
	}

	x := make([]float64, n)
	if x0 != nil {
		copy(x, x0)
	}

	r := vecSub(b, a.MatVec(x))
	p := append([]float64(nil), r...)
	rsOld := vecDot(r, r)

	res := &Result{X: x, ResidNorm: math.Sqrt(rsOld)}
	if res.ResidNorm < tol {
		res.Converged = true
		return res
	}

	it := 0
	for ; it < maxIters; it++ {
		ap := a.MatVec(p)
		pAp := vecDot(p, ap)
		if math.Abs(pAp) < breakdownTol {
			break
		}
		alpha := rsOld / pAp
		for i := range x {
			x[i] += alpha * p[i]
			r[i] -= alpha * ap[i]
		}
		rsNew := vecDot(r, r)
		rn := math.Sqrt(rsNew)
		if rn < tol {
			res.Iterations = it + 1
			res.ResidNorm = rn
			res.Converged = true
			return res
		}
		beta := rsNew / rsOld
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rsOld = rsNew
	}
	res.Iterations = it
	res.ResidNorm = math.Sqrt(rsOld)
	res.Converged = res.ResidNorm < tol
	return res
}

// PCG solves A·x=b with Jacobi-preconditioned conjugate gradients: the
// preconditioner M=diag(A) is applied as z=M⁻¹r, treating |diag|<1e-15 as 1.
func PCG(a *CSR, b []float64, x0 []float64, maxIters int, tol float64) *Result {
	n := len(b)
	if a.Rows != n || a.Cols != n {
		chk.Panic("sparse: PCG: dimension mismatch: A is %dx%d, b has %d entries", a.Rows, a.Cols, n)
	}
	if maxIters <= 0 {
		maxIters = 2 * n
	}
	if tol <= 0 {
		tol = 1e-10
	}

	diag := a.GetDiagonal()
	minv := make([]float64, n)
	for i, d := range diag {
		if math.Abs(d) < 1e-15 {
			minv[i] = 1
		} else {
			minv[i] = 1 / d
		}
	}

	x := make([]float64, n)
	if x0 != nil {
		copy(x, x0)
	}

	r := vecSub(b, a.MatVec(x))
	res := &Result{X: x, ResidNorm: vecNorm(r)}
	if res.ResidNorm < tol {
		res.Converged = true
		return res
	}

	z := vecMulEl(minv, r)
	p := append([]float64(nil), z...)
	rzOld := vecDot(r, z)

	it := 0
	for ; it < maxIters; it++ {
		ap := a.MatVec(p)
		pAp := vecDot(p, ap)
		if math.Abs(pAp) < breakdownTol {
			break
		}
		alpha := rzOld / pAp
		for i := range x {
			x[i] += alpha * p[i]
			r[i] -= alpha * ap[i]
		}
		rn := vecNorm(r)
		if rn < tol {
			res.Iterations = it + 1
			res.ResidNorm = rn
			res.Converged = true
			return res
		}
		z = vecMulEl(minv, r)
		rzNew := vecDot(r, z)
		beta := rzNew / rzOld
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
		rzOld = rzNew
	}
	res.Iterations = it
	res.ResidNorm = vecNorm(r)
	res.Converged = res.ResidNorm < tol
	return res
}

// DampedPCG solves (A+λI)·x=b by forming A+λI via AddDiagonal and
// delegating to PCG.
func DampedPCG(a *CSR, lambda float64, b []float64, x0 []float64, maxIters int, tol float64) *Result {
	damped := a.AddDiagonal(lambda)
	return PCG(damped, b, x0, maxIters, tol)
}

func vecSub(a, b []float64) []float64 {
	r := make([]float64, len(a))
	for i := range a {
		r[i] = a[i] - b[i]
	}
	return r
}

func vecDot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func vecNorm(a []float64) float64 {
	return math.Sqrt(vecDot(a, a))
}

func vecMulEl(a, b []float64) []float64 {
	r := make([]float64, len(a))
	for i := range a {
		r[i] = a[i] * b[i]
	}
	return r
}
