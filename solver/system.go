// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements the sparse Jacobian builder, the optimization
// system container, and the dense and sparse Levenberg-Marquardt outer
// loops. It is the optimization-core analogue of
// gofem's fem.Domain assembly loop (walking elements in order, building a
// triplet, converting to CSR) combined with gosl's num.NlSolver outer
// Newton iteration (scaling, breakdown guards, tabular convergence
// logging).
package solver

import (
	"math"

	"github.com/mfagerlund/rotera/ele"
	"github.com/mfagerlund/rotera/sparse"
)

// System holds an ordered list of residual providers, the current
// parameter vector, and a cached provider->row-offset mapping rebuilt
// whenever the provider list changes.
type System struct {
	providers []ele.Provider
	rowOffset []int
	nrows     int
	x         []float64
}

// NewSystem builds a system from providers (in insertion order) and an
// initial parameter vector. The row-offset mapping is computed once here.
func NewSystem(providers []ele.Provider, x []float64) *System {
	s := &System{providers: providers, x: append([]float64(nil), x...)}
	s.rebuildOffsets()
	return s
}

func (s *System) rebuildOffsets() {
	s.rowOffset = make([]int, len(s.providers))
	offset := 0
	for i, p := range s.providers {
		s.rowOffset[i] = offset
		offset += p.ResidualCount()
	}
	s.nrows = offset
}

// X returns the live parameter vector (not a copy); callers that need to
// mutate x for a trial step should copy it first.
func (s *System) X() []float64 { return s.x }

// SetX replaces the parameter vector in place.
func (s *System) SetX(x []float64) {
	copy(s.x, x)
}

// NRows is the total residual count, Σr over all providers.
func (s *System) NRows() int { return s.nrows }

// NCols is the length of x.
func (s *System) NCols() int { return len(s.x) }

// ComputeAllResiduals concatenates every provider's residuals in
// insertion order.
func (s *System) ComputeAllResiduals(x []float64) []float64 {
	out := make([]float64, s.nrows)
	for i, p := range s.providers {
		r := p.ComputeResiduals(x)
		copy(out[s.rowOffset[i]:], r)
	}
	return out
}

// ComputeCost returns ½‖r‖² at x.
func (s *System) ComputeCost(x []float64) float64 {
	r := s.ComputeAllResiduals(x)
	return 0.5 * dot(r, r)
}

// ComputeRMS returns √(‖r‖²/length) at x.
func (s *System) ComputeRMS(x []float64) float64 {
	r := s.ComputeAllResiduals(x)
	if len(r) == 0 {
		return 0
	}
	return math.Sqrt(dot(r, r) / float64(len(r)))
}

// ComputeFullJacobian builds the dense r x n Jacobian, used only by the
// dense solver and by tests.
func (s *System) ComputeFullJacobian(x []float64) [][]float64 {
	jac := make([][]float64, s.nrows)
	for i := range jac {
		jac[i] = make([]float64, len(x))
	}
	for pi, p := range s.providers {
		local := p.ComputeJacobian(x)
		vars := p.VariableIndices()
		offset := s.rowOffset[pi]
		for li, row := range local {
			for lj, v := range row {
				jac[offset+li][vars[lj]] = v
			}
		}
	}
	return jac
}

// BuildSparseJacobian walks providers in insertion order emitting triplets
// (o+i, v[j], J[i][j]) for each provider's nonzero local Jacobian entries,
// then builds the CSR.
func (s *System) BuildSparseJacobian(x []float64) *sparse.CSR {
	t := sparse.NewTriplet(s.nrows, len(x), s.nrows*6)
	for pi, p := range s.providers {
		local := p.ComputeJacobian(x)
		vars := p.VariableIndices()
		offset := s.rowOffset[pi]
		for li, row := range local {
			for lj, v := range row {
				if v != 0 {
					t.Put(offset+li, vars[lj], v)
				}
			}
		}
	}
	return t.Build()
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func vecNorm(v []float64) float64 { return math.Sqrt(dot(v, v)) }
