// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// identity3 builds the 3x3 identity matrix via Triplet.
func identity3() *CSR {
	t := NewTriplet(3, 3, 3)
	t.Put(0, 0, 1)
	t.Put(1, 1, 1)
	t.Put(2, 2, 1)
	return t.Build()
}

func TestTripletCoalescesDuplicates(tst *testing.T) {

	chk.PrintTitle("triplet coalesces duplicates")

	t := NewTriplet(2, 2, 4)
	t.Put(0, 0, 1)
	t.Put(0, 0, 2) // should sum to 3
	t.Put(1, 1, 1e-20) // should be elided
	a := t.Build()

	chk.Scalar(tst, "A[0][0]", 1e-15, a.Get(0, 0), 3)
	chk.Scalar(tst, "A[1][1]", 1e-15, a.Get(1, 1), 0)
	if a.NNZ() != 1 {
		tst.Fatalf("expected 1 nonzero, got %d", a.NNZ())
	}
}

func TestMatVecIdentity(tst *testing.T) {

	chk.PrintTitle("identity matvec")

	a := identity3()
	x := []float64{1, 2, 3}
	y := a.MatVec(x)
	for i := range x {
		chk.Scalar(tst, "y", 1e-15, y[i], x[i])
	}
}

func TestMatVecTMatchesTranspose(tst *testing.T) {

	chk.PrintTitle("matvecT vs dense transpose")

	t := NewTriplet(2, 3, 4)
	t.Put(0, 0, 1)
	t.Put(0, 2, 2)
	t.Put(1, 1, 3)
	a := t.Build()

	x := []float64{5, 7}
	y := a.MatVecT(x)
	// dense: Aᵀ = [[1,0],[0,3],[2,0]]
	chk.Scalar(tst, "y0", 1e-15, y[0], 5)
	chk.Scalar(tst, "y1", 1e-15, y[1], 21)
	chk.Scalar(tst, "y2", 1e-15, y[2], 10)
}

func TestComputeJtJSymmetric(tst *testing.T) {

	chk.PrintTitle("JtJ symmetry")

	t := NewTriplet(3, 2, 6)
	t.Put(0, 0, 1)
	t.Put(0, 1, 2)
	t.Put(1, 0, 3)
	t.Put(2, 1, 4)
	j := t.Build()

	jtj := j.ComputeJtJ()
	for i := 0; i < jtj.Rows; i++ {
		for k := 0; k < jtj.Cols; k++ {
			chk.Scalar(tst, "symmetric", 1e-15, jtj.Get(i, k), jtj.Get(k, i))
		}
	}
}

func TestAddDiagonal(tst *testing.T) {

	chk.PrintTitle("add diagonal")

	a := identity3()
	d := a.AddDiagonal(0.5)
	for i := 0; i < 3; i++ {
		chk.Scalar(tst, "diag", 1e-15, d.Get(i, i), 1.5)
	}
}

func TestBuilderRejectsOutOfOrder(tst *testing.T) {

	chk.PrintTitle("builder rejects out-of-order insertion")

	defer func() {
		if r := recover(); r == nil {
			tst.Fatal("expected panic on out-of-order insertion")
		}
	}()
	b := NewBuilder(2, 2, 4)
	b.Put(0, 1, 1)
	b.Put(0, 0, 1) // out of order: column must strictly increase
}

func TestBuilderMatchesTriplet(tst *testing.T) {

	chk.PrintTitle("builder matches triplet for in-order input")

	tr := NewTriplet(2, 2, 4)
	tr.Put(0, 0, 1)
	tr.Put(0, 1, 2)
	tr.Put(1, 1, 3)
	want := tr.Build()

	b := NewBuilder(2, 2, 4)
	b.Put(0, 0, 1)
	b.Put(0, 1, 2)
	b.Put(1, 1, 3)
	got := b.Build()

	for i := 0; i < 2; i++ {
		for k := 0; k < 2; k++ {
			chk.Scalar(tst, "entry", 1e-15, got.Get(i, k), want.Get(i, k))
		}
	}
}

func TestCGSolvesIdentity(tst *testing.T) {

	chk.PrintTitle("CG on identity")

	a := identity3()
	b := []float64{1, 2, 3}
	res := CG(a, b, nil, 0, 1e-12)
	if !res.Converged {
		tst.Fatal("CG did not converge on identity system")
	}
	for i := range b {
		chk.Scalar(tst, "x", 1e-9, res.X[i], b[i])
	}
}

func TestPCGSolvesDiagonal(tst *testing.T) {

	chk.PrintTitle("PCG on diagonal system")

	t := NewTriplet(3, 3, 3)
	t.Put(0, 0, 4)
	t.Put(1, 1, 9)
	t.Put(2, 2, 2)
	a := t.Build()
	b := []float64{4, 18, 4}

	res := PCG(a, b, nil, 0, 1e-12)
	if !res.Converged {
		tst.Fatal("PCG did not converge")
	}
	chk.Scalar(tst, "x0", 1e-8, res.X[0], 1)
	chk.Scalar(tst, "x1", 1e-8, res.X[1], 2)
	chk.Scalar(tst, "x2", 1e-8, res.X[2], 2)
}

func TestDampedPCGAddsLambda(tst *testing.T) {

	chk.PrintTitle("damped PCG")

	a := identity3() // (I+λI)x=b => x=b/(1+λ)
	b := []float64{2, 2, 2}
	res := DampedPCG(a, 1.0, b, nil, 0, 1e-12)
	if !res.Converged {
		tst.Fatal("damped PCG did not converge")
	}
	for i := range b {
		chk.Scalar(tst, "x", 1e-8, res.X[i], 1)
	}
}
