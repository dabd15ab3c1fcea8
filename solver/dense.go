// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/mat"
)

// DenseOptions controls the reference dense Levenberg-Marquardt solver.
// Zero-valued fields fall back to the documented defaults.
type DenseOptions struct {
	MaxIterations   int
	Tolerance       float64
	GradientTol     float64
	InitialDamping  float64
	IncreaseFactor  float64
	DecreaseFactor  float64
	MinDamping      float64
	MaxDamping      float64
	Verbose         bool
}

// DefaultDenseOptions returns the documented defaults.
func DefaultDenseOptions() DenseOptions {
	return DenseOptions{
		MaxIterations:  500,
		Tolerance:      1e-8,
		GradientTol:    1e-8,
		InitialDamping: 1e-3,
		IncreaseFactor: 10,
		DecreaseFactor: 0.1,
		MinDamping:     1e-10,
		MaxDamping:     1e10,
	}
}

func (o DenseOptions) withDefaults() DenseOptions {
	d := DefaultDenseOptions()
	if o.MaxIterations > 0 {
		d.MaxIterations = o.MaxIterations
	}
	if o.Tolerance > 0 {
		d.Tolerance = o.Tolerance
	}
	if o.GradientTol > 0 {
		d.GradientTol = o.GradientTol
	}
	if o.InitialDamping > 0 {
		d.InitialDamping = o.InitialDamping
	}
	if o.IncreaseFactor > 0 {
		d.IncreaseFactor = o.IncreaseFactor
	}
	if o.DecreaseFactor > 0 {
		d.DecreaseFactor = o.DecreaseFactor
	}
	if o.MinDamping > 0 {
		d.MinDamping = o.MinDamping
	}
	if o.MaxDamping > 0 {
		d.MaxDamping = o.MaxDamping
	}
	d.Verbose = o.Verbose
	return d
}

// Result is the outcome of a Levenberg-Marquardt run, shared by both the
// dense and sparse solvers.
type Result struct {
	Converged   bool
	Iterations  int
	InitialCost float64
	FinalCost   float64
	X           []float64
	Stalled     bool
	Diverged    bool
}

// SolveDense runs the reference dense Levenberg-Marquardt loop, using a
// Cholesky factorization (gonum/mat.Cholesky) for the damped
// normal-equations inner solve. Grounded on gosl's num.NlSolver outer
// Newton loop (scaling vector, tabular convergence logging via io.Pf).
func (s *System) SolveDense(opts DenseOptions) Result {
	o := opts.withDefaults()
	n := s.NCols()
	x := append([]float64(nil), s.x...)
	cost := s.ComputeCost(x)
	res := Result{InitialCost: cost, X: x}

	lambda := o.InitialDamping
	if o.Verbose {
		io.Pf("\n%4s%23s%23s%23s\n", "it", "cost", "|JtR|", "lambda")
	}
	for it := 0; it < o.MaxIterations; it++ {
		res.Iterations = it
		jac := s.ComputeFullJacobian(x)
		r := s.ComputeAllResiduals(x)

		jtj := matMulJtJ(jac, n)
		jtr := matMulJtR(jac, r, n)

		gnorm := vecNorm(jtr)
		if o.Verbose {
			io.Pf("%4d%23.15e%23.15e%23.15e\n", it, cost, gnorm, lambda)
		}
		if gnorm < o.GradientTol {
			res.Converged = true
			break
		}

		accepted := false
		for retry := 0; retry < 10; retry++ {
			lhs := mat.NewSymDense(n, nil)
			for i := 0; i < n; i++ {
				for j := i; j < n; j++ {
					v := jtj[i][j]
					if i == j {
						v += lambda
					}
					lhs.SetSym(i, j, v)
				}
			}
			rhs := mat.NewVecDense(n, negate(jtr))

			var chol mat.Cholesky
			ok := chol.Factorize(lhs)
			if !ok {
				lambda = utl.Min(lambda*o.IncreaseFactor, o.MaxDamping)
				continue
			}
			var step mat.VecDense
			if err := chol.SolveVecTo(&step, rhs); err != nil {
				lambda = utl.Min(lambda*o.IncreaseFactor, o.MaxDamping)
				continue
			}

			trial := make([]float64, n)
			for i := range trial {
				trial[i] = x[i] + step.AtVec(i)
			}
			trialCost := s.ComputeCost(trial)
			if trialCost < cost {
				if cost-trialCost < o.Tolerance*cost {
					res.Converged = true
				}
				x = trial
				cost = trialCost
				lambda = utl.Max(lambda*o.DecreaseFactor, o.MinDamping)
				accepted = true
				break
			}
			lambda = utl.Min(lambda*o.IncreaseFactor, o.MaxDamping)
		}
		if !accepted {
			res.Stalled = true
			break
		}
		if res.Converged {
			break
		}
	}
	res.FinalCost = cost
	res.X = x
	return res
}

func matMulJtJ(j [][]float64, n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	for _, row := range j {
		for a, va := range row {
			if va == 0 {
				continue
			}
			for b, vb := range row {
				out[a][b] += va * vb
			}
		}
	}
	return out
}

func matMulJtR(j [][]float64, r []float64, n int) []float64 {
	out := make([]float64, n)
	for ri, row := range j {
		rv := r[ri]
		if rv == 0 {
			continue
		}
		for c, v := range row {
			out[c] += v * rv
		}
	}
	return out
}

func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}
