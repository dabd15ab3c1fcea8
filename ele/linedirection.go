// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/mfagerlund/rotera/geom"

// Axis enumerates a principal direction.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Plane enumerates a principal plane.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

// directionAndGrad returns dir=(b-a)/‖b-a‖ and the Jacobian of dir's three
// components w.r.t. a and b: d(dir)/d(b) = (I - dir⊗dir)/n,
// d(dir)/d(a) = -d(dir)/d(b).
func directionAndGrad(a, b geom.Vec3) (dir geom.Vec3, dDirDA, dDirDB [3][3]float64) {
	diff := b.Sub(a)
	n := diff.Norm()
	if n < distTol {
		return geom.Vec3{}, [3][3]float64{}, [3][3]float64{}
	}
	dir = diff.Scale(1 / n)
	da := dir.Array()
	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			delta := 0.0
			if i == j {
				delta = 1
			}
			m[i][j] = (delta - da[i]*da[j]) / n
		}
	}
	return dir, negMat(m), m
}

// LineDirectionAxis constrains a line's direction to lie along a principal
// axis: the two components of the normalized direction orthogonal to that
// axis are driven to zero.
type LineDirectionAxis struct {
	Id   string
	A, B PointVars
	Axis Axis
}

var _ Provider = (*LineDirectionAxis)(nil)

func (p *LineDirectionAxis) ID() string         { return p.Id }
func (p *LineDirectionAxis) ResidualCount() int { return 2 }
func (p *LineDirectionAxis) VariableIndices() []int {
	return []int{p.A[0], p.A[1], p.A[2], p.B[0], p.B[1], p.B[2]}
}

// orthoRowsForAxis returns the two row indices (into the 3-component direction
// vector) orthogonal to axis.
func orthoRowsForAxis(axis Axis) [2]int {
	switch axis {
	case AxisX:
		return [2]int{1, 2}
	case AxisY:
		return [2]int{0, 2}
	default:
		return [2]int{0, 1}
	}
}

func (p *LineDirectionAxis) ComputeResiduals(x []float64) []float64 {
	a, b := vec3At(x, p.A), vec3At(x, p.B)
	dir, _, _ := directionAndGrad(a, b)
	da := dir.Array()
	rows := orthoRowsForAxis(p.Axis)
	return []float64{da[rows[0]] * lineScale, da[rows[1]] * lineScale}
}

func (p *LineDirectionAxis) ComputeJacobian(x []float64) [][]float64 {
	a, b := vec3At(x, p.A), vec3At(x, p.B)
	_, dDirDA, dDirDB := directionAndGrad(a, b)
	rows := orthoRowsForAxis(p.Axis)
	jac := newJac(2, 6)
	for local, row := range rows {
		for j := 0; j < 3; j++ {
			jac[local][j] = dDirDA[row][j] * lineScale
			jac[local][3+j] = dDirDB[row][j] * lineScale
		}
	}
	return jac
}

// LineDirectionPlane constrains a line's direction to lie within a
// principal plane: the single direction component orthogonal to that plane
// is driven to zero.
type LineDirectionPlane struct {
	Id    string
	A, B  PointVars
	Plane Plane
}

var _ Provider = (*LineDirectionPlane)(nil)

func (p *LineDirectionPlane) ID() string         { return p.Id }
func (p *LineDirectionPlane) ResidualCount() int { return 1 }
func (p *LineDirectionPlane) VariableIndices() []int {
	return []int{p.A[0], p.A[1], p.A[2], p.B[0], p.B[1], p.B[2]}
}

func orthoRowForPlane(pl Plane) int {
	switch pl {
	case PlaneXY:
		return 2
	case PlaneXZ:
		return 1
	default:
		return 0
	}
}

func (p *LineDirectionPlane) ComputeResiduals(x []float64) []float64 {
	a, b := vec3At(x, p.A), vec3At(x, p.B)
	dir, _, _ := directionAndGrad(a, b)
	da := dir.Array()
	return []float64{da[orthoRowForPlane(p.Plane)] * lineScale}
}

func (p *LineDirectionPlane) ComputeJacobian(x []float64) [][]float64 {
	a, b := vec3At(x, p.A), vec3At(x, p.B)
	_, dDirDA, dDirDB := directionAndGrad(a, b)
	row := orthoRowForPlane(p.Plane)
	jac := newJac(1, 6)
	for j := 0; j < 3; j++ {
		jac[0][j] = dDirDA[row][j] * lineScale
		jac[0][3+j] = dDirDB[row][j] * lineScale
	}
	return jac
}
