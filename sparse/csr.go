// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparse implements a compressed-sparse-row matrix and the
// conjugate-gradient family of linear solvers the Levenberg-Marquardt
// normal equations need. It has no knowledge of residual providers or the
// optimization system; it is pure linear algebra, the way gofem's
// la.Triplet/la.CCMatrix pair is pure linear algebra with no FEM knowledge.
package sparse

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// zeroTol is the threshold below which an assembled coefficient is elided,
// per spec.md §3's CSR invariant.
const zeroTol = 1e-15

// CSR is a compressed-sparse-row matrix. Row i's entries lie at indices
// [RowPointers[i], RowPointers[i+1]) of ColIndices/Values, with columns
// strictly increasing within each row.
type CSR struct {
	Rows, Cols  int
	RowPointers []int
	ColIndices  []int
	Values      []float64
}

// entry is a coordinate triplet used during construction.
type entry struct {
	row, col int
	val      float64
}

// Triplet accumulates (row, col, value) coordinates; duplicates are summed
// when Build is called. This is the unordered counterpart to Builder below,
// grounded on la.Triplet's Init/Put/two-phase lifecycle in fem/essenbcs.go.
type Triplet struct {
	rows, cols int
	entries    []entry
}

// NewTriplet allocates a Triplet for an rows x cols matrix, pre-sizing the
// entry buffer to nnzHint (mirrors la.Triplet.Init(rows, cols, nnzHint)).
func NewTriplet(rows, cols, nnzHint int) *Triplet {
	return &Triplet{rows: rows, cols: cols, entries: make([]entry, 0, nnzHint)}
}

// Put appends one coordinate triplet. Out-of-range indices are a caller bug.
func (t *Triplet) Put(row, col int, val float64) {
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		chk.Panic("sparse: Triplet.Put: index (%d,%d) out of range for %dx%d matrix", row, col, t.rows, t.cols)
	}
	t.entries = append(t.entries, entry{row, col, val})
}

// Build sorts by (row, col), coalesces duplicates by summing, drops
// near-zero sums, and emits the CSR form.
func (t *Triplet) Build() *CSR {
	sort.Slice(t.entries, func(i, j int) bool {
		if t.entries[i].row != t.entries[j].row {
			return t.entries[i].row < t.entries[j].row
		}
		return t.entries[i].col < t.entries[j].col
	})

	rowPtr := make([]int, t.rows+1)
	cols := make([]int, 0, len(t.entries))
	vals := make([]float64, 0, len(t.entries))

	i := 0
	for row := 0; row < t.rows; row++ {
		rowPtr[row] = len(cols)
		for i < len(t.entries) && t.entries[i].row == row {
			col := t.entries[i].col
			sum := t.entries[i].val
			i++
			for i < len(t.entries) && t.entries[i].row == row && t.entries[i].col == col {
				sum += t.entries[i].val
				i++
			}
			if absf(sum) >= zeroTol {
				cols = append(cols, col)
				vals = append(vals, sum)
			}
		}
	}
	rowPtr[t.rows] = len(cols)

	return &CSR{Rows: t.rows, Cols: t.cols, RowPointers: rowPtr, ColIndices: cols, Values: vals}
}

// NNZ returns the number of structural nonzeros.
func (a *CSR) NNZ() int {
	return len(a.Values)
}

// MatVec computes y = A·x.
func (a *CSR) MatVec(x []float64) []float64 {
	if len(x) != a.Cols {
		chk.Panic("sparse: MatVec: dimension mismatch: x has %d entries, A has %d columns", len(x), a.Cols)
	}
	y := make([]float64, a.Rows)
	for row := 0; row < a.Rows; row++ {
		var sum float64
		for k := a.RowPointers[row]; k < a.RowPointers[row+1]; k++ {
			sum += a.Values[k] * x[a.ColIndices[k]]
		}
		y[row] = sum
	}
	return y
}

// MatVecT computes y = Aᵀ·x by scattering row-by-row into the output.
func (a *CSR) MatVecT(x []float64) []float64 {
	if len(x) != a.Rows {
		chk.Panic("sparse: MatVecT: dimension mismatch: x has %d entries, A has %d rows", len(x), a.Rows)
	}
	y := make([]float64, a.Cols)
	for row := 0; row < a.Rows; row++ {
		xi := x[row]
		if xi == 0 {
			continue
		}
		for k := a.RowPointers[row]; k < a.RowPointers[row+1]; k++ {
			y[a.ColIndices[k]] += a.Values[k] * xi
		}
	}
	return y
}

// Get performs a binary search within row i for column j; returns 0 if absent.
func (a *CSR) Get(i, j int) float64 {
	lo, hi := a.RowPointers[i], a.RowPointers[i+1]
	for lo < hi {
		mid := (lo + hi) / 2
		c := a.ColIndices[mid]
		switch {
		case c == j:
			return a.Values[mid]
		case c < j:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

// GetDiagonal returns the dense diagonal, length min(Rows,Cols).
func (a *CSR) GetDiagonal() []float64 {
	n := a.Rows
	if a.Cols < n {
		n = a.Cols
	}
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = a.Get(i, i)
	}
	return d
}

// AddDiagonal returns a new CSR equal to A with λ added to each in-range
// diagonal entry (i < min(Rows,Cols)), used to form the LM normal-equation
// matrix JᵀJ + λI.
func (a *CSR) AddDiagonal(lambda float64) *CSR {
	n := a.Rows
	if a.Cols < n {
		n = a.Cols
	}
	t := NewTriplet(a.Rows, a.Cols, a.NNZ()+n)
	for row := 0; row < a.Rows; row++ {
		for k := a.RowPointers[row]; k < a.RowPointers[row+1]; k++ {
			col := a.ColIndices[k]
			val := a.Values[k]
			if row == col && row < n {
				val += lambda
			}
			t.Put(row, col, val)
		}
		if row < n && a.Get(row, row) == 0 {
			t.Put(row, row, lambda)
		}
	}
	return t.Build()
}

// ComputeJtJ returns the symmetric CSR product JᵀJ, assembling both
// triangles by iterating over all ordered pairs of non-zeros in each row of
// J and accumulating each product at (col_a, col_b); since both (a,b) and
// (b,a) are visited, every off-diagonal product lands in both triangles.
func (j *CSR) ComputeJtJ() *CSR {
	t := NewTriplet(j.Cols, j.Cols, j.NNZ()*4)
	for row := 0; row < j.Rows; row++ {
		lo, hi := j.RowPointers[row], j.RowPointers[row+1]
		for a := lo; a < hi; a++ {
			ca, va := j.ColIndices[a], j.Values[a]
			for b := lo; b < hi; b++ {
				cb, vb := j.ColIndices[b], j.Values[b]
				t.Put(ca, cb, va*vb)
			}
		}
	}
	return t.Build()
}

// ToDense returns a dense row-major representation, used only by the dense
// solver and tests.
func (a *CSR) ToDense() [][]float64 {
	d := make([][]float64, a.Rows)
	for i := range d {
		d[i] = make([]float64, a.Cols)
	}
	for row := 0; row < a.Rows; row++ {
		for k := a.RowPointers[row]; k < a.RowPointers[row+1]; k++ {
			d[row][a.ColIndices[k]] = a.Values[k]
		}
	}
	return d
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
