// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// lineScale is the unit-alignment factor applied to line-geometry
// providers so their pull is comparable to reprojection's pixel scale
// (spec.md §4.4).
const lineScale = 100.0

// LineLength constrains a line's endpoint distance to a target length,
// scaled by lineScale.
type LineLength struct {
	Id     string
	A, B   PointVars
	Target float64
}

var _ Provider = (*LineLength)(nil)

func (p *LineLength) ID() string         { return p.Id }
func (p *LineLength) ResidualCount() int { return 1 }
func (p *LineLength) VariableIndices() []int {
	return []int{p.A[0], p.A[1], p.A[2], p.B[0], p.B[1], p.B[2]}
}

func (p *LineLength) ComputeResiduals(x []float64) []float64 {
	a, b := vec3At(x, p.A), vec3At(x, p.B)
	d, _, _ := distanceGrad(a, b)
	return []float64{(d - p.Target) * lineScale}
}

func (p *LineLength) ComputeJacobian(x []float64) [][]float64 {
	a, b := vec3At(x, p.A), vec3At(x, p.B)
	_, gA, gB := distanceGrad(a, b)
	jac := newJac(1, 6)
	appendRow3(jac, 0, 0, gA.Scale(lineScale))
	appendRow3(jac, 0, 3, gB.Scale(lineScale))
	return jac
}
