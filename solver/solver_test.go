// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/mfagerlund/rotera/ele"
)

// quadProvider implements a trivial r = x - target provider, used to
// ground the seed "quadratic fit" scenario.
type quadProvider struct {
	idx    []int
	target []float64
}

func (p *quadProvider) ID() string              { return "quad" }
func (p *quadProvider) ResidualCount() int       { return len(p.target) }
func (p *quadProvider) VariableIndices() []int   { return p.idx }
func (p *quadProvider) ComputeResiduals(x []float64) []float64 {
	r := make([]float64, len(p.target))
	for i, idx := range p.idx {
		r[i] = x[idx] - p.target[i]
	}
	return r
}
func (p *quadProvider) ComputeJacobian(x []float64) [][]float64 {
	n := len(p.idx)
	j := make([][]float64, n)
	for i := range j {
		j[i] = make([]float64, n)
		j[i][i] = 1
	}
	return j
}

var _ ele.Provider = (*quadProvider)(nil)

func TestSystemCostAndResiduals(tst *testing.T) {
	chk.PrintTitle("system: cost/residuals/rms")
	p := &quadProvider{idx: []int{0, 1}, target: []float64{3, 4}}
	s := NewSystem([]ele.Provider{p}, []float64{0, 0})
	r := s.ComputeAllResiduals(s.X())
	chk.Scalar(tst, "r0", 1e-15, r[0], -3)
	chk.Scalar(tst, "r1", 1e-15, r[1], -4)
	chk.Scalar(tst, "cost", 1e-12, s.ComputeCost(s.X()), 12.5)
}

func TestBuildSparseJacobianMatchesDense(tst *testing.T) {
	chk.PrintTitle("solver: sparse jacobian matches dense")
	p := &quadProvider{idx: []int{0, 1}, target: []float64{3, 4}}
	s := NewSystem([]ele.Provider{p}, []float64{1, 1})
	dense := s.ComputeFullJacobian(s.X())
	sp := s.BuildSparseJacobian(s.X())
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			chk.Scalar(tst, "jac", 1e-15, sp.Get(i, j), dense[i][j])
		}
	}
}

func TestSolveDenseQuadraticFit(tst *testing.T) {
	chk.PrintTitle("solver: dense LM on quadratic fit seed scenario")
	p := &quadProvider{idx: []int{0, 1}, target: []float64{3, 4}}
	s := NewSystem([]ele.Provider{p}, []float64{0, 0})
	res := s.SolveDense(DefaultDenseOptions())
	if !res.Converged {
		tst.Fatal("expected convergence")
	}
	chk.Scalar(tst, "x0", 1e-6, res.X[0], 3)
	chk.Scalar(tst, "x1", 1e-6, res.X[1], 4)
	if res.FinalCost > 1e-10 {
		tst.Fatalf("expected final cost < 1e-10, got %e", res.FinalCost)
	}
}

func TestSolveSparseQuadraticFit(tst *testing.T) {
	chk.PrintTitle("solver: sparse LM on quadratic fit seed scenario")
	p := &quadProvider{idx: []int{0, 1}, target: []float64{3, 4}}
	s := NewSystem([]ele.Provider{p}, []float64{0, 0})
	res := s.SolveSparse(SparseOptions{})
	if !res.Converged {
		tst.Fatal("expected convergence")
	}
	chk.Scalar(tst, "x0", 1e-4, res.X[0], 3)
	chk.Scalar(tst, "x1", 1e-4, res.X[1], 4)
}

func TestDenseAndSparseAgree(tst *testing.T) {
	chk.PrintTitle("solver: dense vs sparse final cost agreement")
	p := &quadProvider{idx: []int{0, 1}, target: []float64{3, 4}}
	sd := NewSystem([]ele.Provider{p}, []float64{-5, 8})
	ss := NewSystem([]ele.Provider{p}, []float64{-5, 8})
	rd := sd.SolveDense(DefaultDenseOptions())
	rs := ss.SolveSparse(SparseOptions{})
	rel := (rd.FinalCost - rs.FinalCost)
	if rel < 0 {
		rel = -rel
	}
	if rel > 1e-3*(rd.FinalCost+1e-12) {
		tst.Fatalf("dense/sparse cost mismatch: %e vs %e", rd.FinalCost, rs.FinalCost)
	}
}

// rosenbrockProvider implements residuals (1-x, 10(y-x^2)), the seed
// "Rosenbrock" scenario.
type rosenbrockProvider struct{}

func (rosenbrockProvider) ID() string            { return "rosenbrock" }
func (rosenbrockProvider) ResidualCount() int     { return 2 }
func (rosenbrockProvider) VariableIndices() []int { return []int{0, 1} }
func (rosenbrockProvider) ComputeResiduals(x []float64) []float64 {
	return []float64{1 - x[0], 10 * (x[1] - x[0]*x[0])}
}
func (rosenbrockProvider) ComputeJacobian(x []float64) [][]float64 {
	return [][]float64{
		{-1, 0},
		{-20 * x[0], 10},
	}
}

var _ ele.Provider = rosenbrockProvider{}

func TestSolveDenseRosenbrock(tst *testing.T) {
	chk.PrintTitle("solver: dense LM on Rosenbrock seed scenario")
	s := NewSystem([]ele.Provider{rosenbrockProvider{}}, []float64{-1, 1})
	res := s.SolveDense(DefaultDenseOptions())
	if !res.Converged {
		tst.Fatal("expected convergence")
	}
	chk.Scalar(tst, "x", 1e-4, res.X[0], 1)
	chk.Scalar(tst, "y", 1e-4, res.X[1], 1)
}

// circleFitProvider fits an unknown center (x[0],x[1]) and radius x[2] to
// n fixed sample points, the seed "circle fit" scenario.
type circleFitProvider struct {
	samples [][2]float64
}

func (circleFitProvider) ID() string            { return "circle-fit" }
func (p circleFitProvider) ResidualCount() int  { return len(p.samples) }
func (circleFitProvider) VariableIndices() []int { return []int{0, 1, 2} }
func (p circleFitProvider) ComputeResiduals(x []float64) []float64 {
	cx, cy, r := x[0], x[1], x[2]
	out := make([]float64, len(p.samples))
	for i, s := range p.samples {
		dx, dy := s[0]-cx, s[1]-cy
		out[i] = math.Sqrt(dx*dx+dy*dy) - r
	}
	return out
}
func (p circleFitProvider) ComputeJacobian(x []float64) [][]float64 {
	cx, cy := x[0], x[1]
	jac := make([][]float64, len(p.samples))
	for i, s := range p.samples {
		dx, dy := s[0]-cx, s[1]-cy
		n := math.Sqrt(dx*dx + dy*dy)
		if n < 1e-12 {
			jac[i] = []float64{0, 0, -1}
			continue
		}
		jac[i] = []float64{-dx / n, -dy / n, -1}
	}
	return jac
}

var _ ele.Provider = circleFitProvider{}

func TestSolveDenseCircleFit(tst *testing.T) {
	chk.PrintTitle("solver: dense LM on circle fit seed scenario")
	samples := make([][2]float64, 8)
	for i := range samples {
		theta := 2 * math.Pi * float64(i) / float64(len(samples))
		samples[i] = [2]float64{5 + 3*math.Cos(theta), 5 + 3*math.Sin(theta)}
	}
	s := NewSystem([]ele.Provider{circleFitProvider{samples: samples}}, []float64{0, 0, 1})
	res := s.SolveDense(DefaultDenseOptions())
	if !res.Converged {
		tst.Fatal("expected convergence")
	}
	chk.Scalar(tst, "cx", 1e-4, res.X[0], 5)
	chk.Scalar(tst, "cy", 1e-4, res.X[1], 5)
	chk.Scalar(tst, "r", 1e-4, res.X[2], 3)
}

func TestZeroCostIdempotence(tst *testing.T) {
	chk.PrintTitle("solver: zero-cost idempotence")
	p := &quadProvider{idx: []int{0, 1}, target: []float64{3, 4}}
	s := NewSystem([]ele.Provider{p}, []float64{3, 4})
	res := s.SolveSparse(SparseOptions{})
	if res.Iterations > 1 {
		tst.Fatalf("expected 0 or 1 iterations at zero cost, got %d", res.Iterations)
	}
	chk.Scalar(tst, "x0", 1e-12, res.X[0], 3)
	chk.Scalar(tst, "x1", 1e-12, res.X[1], 4)
}
