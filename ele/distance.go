// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/mfagerlund/rotera/geom"

// distTol guards against dividing by a near-zero distance (spec.md §8's
// "Line length with zero distance returns a numerically stable residual").
const distTol = 1e-12

// Distance constrains ‖pB-pA‖ to a target length.
type Distance struct {
	Id     string
	A, B   PointVars
	Target float64
}

var _ Provider = (*Distance)(nil)

func (p *Distance) ID() string         { return p.Id }
func (p *Distance) ResidualCount() int { return 1 }
func (p *Distance) VariableIndices() []int {
	return []int{p.A[0], p.A[1], p.A[2], p.B[0], p.B[1], p.B[2]}
}

func (p *Distance) ComputeResiduals(x []float64) []float64 {
	a, b := vec3At(x, p.A), vec3At(x, p.B)
	d := b.Sub(a).Norm()
	return []float64{d - p.Target}
}

func (p *Distance) ComputeJacobian(x []float64) [][]float64 {
	a, b := vec3At(x, p.A), vec3At(x, p.B)
	_, gA, gB := distanceGrad(a, b)
	jac := newJac(1, 6)
	appendRow3(jac, 0, 0, gA)
	appendRow3(jac, 0, 3, gB)
	return jac
}

// distanceGrad returns ‖b-a‖ and the gradient of that distance w.r.t. a and
// b; the gradient is the zero vector when a and b coincide, per spec.md §8.
func distanceGrad(a, b geom.Vec3) (dist float64, gA, gB geom.Vec3) {
	diff := b.Sub(a)
	dist = diff.Norm()
	if dist < distTol {
		return dist, geom.Vec3{}, geom.Vec3{}
	}
	unit := diff.Scale(1 / dist)
	return dist, unit.Scale(-1), unit
}
