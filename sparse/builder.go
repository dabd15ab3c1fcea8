// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import "github.com/cpmech/gosl/chk"

// Builder accepts entries in row-major order: rows must be non-decreasing,
// and within a row columns must strictly increase. Unlike Triplet, it
// never sorts, so it rejects out-of-order insertion instead of silently
// coping with it. The solver's sparse Jacobian assembly uses Triplet, not
// Builder, since provider columns do not arrive in increasing order.
type Builder struct {
	rows, cols  int
	rowPointers []int
	colIndices  []int
	values      []float64
	curRow      int
	curCol      int
	started     bool
}

// NewBuilder allocates a Builder for an rows x cols matrix, pre-sizing the
// value buffers to nnzHint.
func NewBuilder(rows, cols, nnzHint int) *Builder {
	return &Builder{
		rows:        rows,
		cols:        cols,
		rowPointers: make([]int, 0, rows+1),
		colIndices:  make([]int, 0, nnzHint),
		values:      make([]float64, 0, nnzHint),
	}
}

// Put appends one entry. row must be >= the row of the previous Put; within
// the same row, col must be strictly greater than the previous col.
// Near-zero values (|v| < 1e-15) are elided, per spec.md §3.
func (b *Builder) Put(row, col int, val float64) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		chk.Panic("sparse: Builder.Put: index (%d,%d) out of range for %dx%d matrix", row, col, b.rows, b.cols)
	}
	if b.started {
		if row < b.curRow || (row == b.curRow && col <= b.curCol) {
			chk.Panic("sparse: Builder.Put: out-of-order insertion at (%d,%d) after (%d,%d)", row, col, b.curRow, b.curCol)
		}
	}
	for r := b.curRowCountStart(); r <= row; r++ {
		b.rowPointers = append(b.rowPointers, len(b.colIndices))
	}
	b.curRow, b.curCol, b.started = row, col, true
	if absf(val) < zeroTol {
		return
	}
	b.colIndices = append(b.colIndices, col)
	b.values = append(b.values, val)
}

// curRowCountStart returns the next row index that needs a RowPointers entry
// opened, accounting for rows with no entries at all.
func (b *Builder) curRowCountStart() int {
	return len(b.rowPointers)
}

// Build finalizes the CSR matrix.
func (b *Builder) Build() *CSR {
	for r := len(b.rowPointers); r <= b.rows; r++ {
		b.rowPointers = append(b.rowPointers, len(b.colIndices))
	}
	return &CSR{Rows: b.rows, Cols: b.cols, RowPointers: b.rowPointers, ColIndices: b.colIndices, Values: b.values}
}
