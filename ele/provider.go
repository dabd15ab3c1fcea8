// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ele implements the residual-provider catalog: one type per
// constraint kind, each owning a set of columns in the global parameter
// vector and able to compute its own residual vector and local Jacobian
// block. The package is named ele, the same as gofem's finite-element
// package, because a Provider fills exactly the architectural slot an
// ele.Element fills there: AddToRhs/AddToKb at an element-owned row
// offset becomes ComputeResiduals/ComputeJacobian at a provider-owned
// VariableIndices mapping.
package ele

import "github.com/mfagerlund/rotera/geom"

// Provider is the contract every residual kind satisfies (spec.md §3).
type Provider interface {
	// ID is a stable, human-readable identifier for diagnostics.
	ID() string

	// ResidualCount returns r, the number of rows this provider
	// contributes to the global residual vector.
	ResidualCount() int

	// VariableIndices returns the k columns of the global parameter
	// vector this provider reads. Every entry of ComputeJacobian's
	// returned matrix corresponds to (local_row, VariableIndices[local_col]).
	VariableIndices() []int

	// ComputeResiduals returns the r-length residual vector at the full
	// parameter vector x.
	ComputeResiduals(x []float64) []float64

	// ComputeJacobian returns the r x k local Jacobian at x.
	ComputeJacobian(x []float64) [][]float64
}

// PointVars is the triple of column indices a world point's (x,y,z)
// occupies in the global parameter vector; free-variable columns and
// locked-axis constant-slot columns look identical to a provider.
type PointVars [3]int

// vec3At reads the 3D point currently stored at idx's columns of x.
func vec3At(x []float64, idx PointVars) geom.Vec3 {
	return geom.V3(x[idx[0]], x[idx[1]], x[idx[2]])
}

// skew returns the skew-symmetric (cross-product) matrix of v, such that
// skew(v)*w == v.Cross(w).
func skew(v geom.Vec3) [3][3]float64 {
	return [3][3]float64{
		{0, -v.Z, v.Y},
		{v.Z, 0, -v.X},
		{-v.Y, v.X, 0},
	}
}

// matVec multiplies a 3x3 matrix by a Vec3.
func matVec(m [3][3]float64, v geom.Vec3) geom.Vec3 {
	a := v.Array()
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*a[0] + m[i][1]*a[1] + m[i][2]*a[2]
	}
	return geom.V3(out[0], out[1], out[2])
}

// subMat returns a-b element-wise.
func subMat(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j] - b[i][j]
		}
	}
	return out
}

// negMat returns -a.
func negMat(a [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = -a[i][j]
		}
	}
	return out
}

// scaleMat returns a*s.
func scaleMat(a [3][3]float64, s float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j] * s
		}
	}
	return out
}

// isFinite3 reports whether all three components of v are finite.
func isFinite3(v geom.Vec3) bool {
	return isFiniteF(v.X) && isFiniteF(v.Y) && isFiniteF(v.Z)
}

func isFiniteF(v float64) bool {
	return v == v && v-v == 0 // false for NaN and +-Inf
}

// appendRow3 writes g's three components into row of a pre-sized jac, at
// the three consecutive local columns starting at colOffset.
func appendRow3(jac [][]float64, row int, colOffset int, g geom.Vec3) {
	jac[row][colOffset+0] = g.X
	jac[row][colOffset+1] = g.Y
	jac[row][colOffset+2] = g.Z
}

func addRow3(jac [][]float64, row int, colOffset int, g geom.Vec3) {
	jac[row][colOffset+0] += g.X
	jac[row][colOffset+1] += g.Y
	jac[row][colOffset+2] += g.Z
}

func addMat3(jac [][]float64, rowOffset, colOffset int, m [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			jac[rowOffset+i][colOffset+j] += m[i][j]
		}
	}
}

func newJac(r, k int) [][]float64 {
	jac := make([][]float64, r)
	for i := range jac {
		jac[i] = make([]float64, k)
	}
	return jac
}
