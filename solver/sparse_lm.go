// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/mfagerlund/rotera/sparse"
)

// catastrophicGradientNorm aborts the solve rather than chase a gradient
// this far from convergence; it signals an unrecoverable blow-up.
const catastrophicGradientNorm = 1e12

// gradientRescaleNorm keeps the gradient in a range the damped PCG inner
// solve stays well-conditioned for.
const gradientRescaleNorm = 1e6

// SparseOptions controls the production sparse Levenberg-Marquardt solver.
// Zero-valued fields fall back to the dense solver's defaults.
type SparseOptions struct {
	MaxIterations  int
	Tolerance      float64
	GradientTol    float64
	InitialDamping float64
	IncreaseFactor float64
	DecreaseFactor float64
	MinDamping     float64
	MaxDamping     float64
	CGMaxIters     int // 0 => 2n
	Verbose        bool
}

func (o SparseOptions) withDefaults(n int) SparseOptions {
	d := DefaultDenseOptions()
	out := SparseOptions{
		MaxIterations:  d.MaxIterations,
		Tolerance:      d.Tolerance,
		GradientTol:    d.GradientTol,
		InitialDamping: d.InitialDamping,
		IncreaseFactor: d.IncreaseFactor,
		DecreaseFactor: d.DecreaseFactor,
		MinDamping:     d.MinDamping,
		MaxDamping:     d.MaxDamping,
		CGMaxIters:     2 * n,
	}
	if o.MaxIterations > 0 {
		out.MaxIterations = o.MaxIterations
	}
	if o.Tolerance > 0 {
		out.Tolerance = o.Tolerance
	}
	if o.GradientTol > 0 {
		out.GradientTol = o.GradientTol
	}
	if o.InitialDamping > 0 {
		out.InitialDamping = o.InitialDamping
	}
	if o.IncreaseFactor > 0 {
		out.IncreaseFactor = o.IncreaseFactor
	}
	if o.DecreaseFactor > 0 {
		out.DecreaseFactor = o.DecreaseFactor
	}
	if o.MinDamping > 0 {
		out.MinDamping = o.MinDamping
	}
	if o.MaxDamping > 0 {
		out.MaxDamping = o.MaxDamping
	}
	if o.CGMaxIters > 0 {
		out.CGMaxIters = o.CGMaxIters
	}
	out.Verbose = o.Verbose
	return out
}

// SolveSparse runs the production sparse Levenberg-Marquardt loop: sparse
// J, JtJ via sparse.CSR.ComputeJtJ, damped PCG for the inner solve,
// catastrophic-gradient bailout and gradient rescaling. Grounded on
// gosl's num.NlSolver outer loop and its tabular io.Pf convergence
// messages.
func (s *System) SolveSparse(opts SparseOptions) Result {
	n := s.NCols()
	o := opts.withDefaults(n)
	x := append([]float64(nil), s.x...)
	cost := s.ComputeCost(x)
	res := Result{InitialCost: cost, X: x}

	lambda := o.InitialDamping
	if o.Verbose {
		io.Pf("\n%4s%23s%23s%23s\n", "it", "cost", "|JtR|", "lambda")
	}
	for it := 0; it < o.MaxIterations; it++ {
		res.Iterations = it
		j := s.BuildSparseJacobian(x)
		r := s.ComputeAllResiduals(x)
		jtj := j.ComputeJtJ()
		jtr := j.MatVecT(r)
		for i := range jtr {
			jtr[i] = -jtr[i]
		}

		gnorm := vecNorm(jtr)
		if o.Verbose {
			io.Pf("%4d%23.15e%23.15e%23.15e\n", it, cost, gnorm, lambda)
		}
		if gnorm > catastrophicGradientNorm {
			res.Diverged = true
			io.Pf("rotera/solver: catastrophic gradient norm %.3e, aborting\n", gnorm)
			break
		}
		if gnorm > gradientRescaleNorm {
			scale := gradientRescaleNorm / gnorm
			for i := range jtr {
				jtr[i] *= scale
			}
			gnorm = gradientRescaleNorm
		}
		if gnorm < o.GradientTol {
			res.Converged = true
			break
		}

		cgMax := o.CGMaxIters
		if cgMax <= 0 {
			cgMax = 2 * n
		}

		accepted := false
		stepConverged := false
		for retry := 0; retry < 10; retry++ {
			cgRes := sparse.DampedPCG(jtj, lambda, jtr, nil, cgMax, o.Tolerance)
			if vecNorm(cgRes.X) < o.Tolerance {
				res.Converged = true
				accepted = true
				stepConverged = true
				break
			}
			trial := make([]float64, n)
			for i := range trial {
				trial[i] = x[i] + cgRes.X[i]
			}
			trialCost := s.ComputeCost(trial)
			if trialCost < cost {
				x = trial
				cost = trialCost
				lambda = utl.Max(lambda*o.DecreaseFactor, o.MinDamping)
				accepted = true
				break
			}
			lambda = utl.Min(lambda*o.IncreaseFactor, o.MaxDamping)
		}
		if stepConverged {
			break
		}
		if !accepted {
			res.Stalled = true
			io.Pf(". . . sparse LM stalled after 10 retries at iteration %d\n", it)
			break
		}
		if cost < o.Tolerance*o.Tolerance {
			res.Converged = true
			break
		}
	}
	res.FinalCost = cost
	res.X = x
	return res
}
