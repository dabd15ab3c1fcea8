// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/mfagerlund/rotera/geom"

// crossScale is the unit-alignment factor for cross-product-based
// collinearity providers (spec.md §4.4).
const crossScale = 10.0

// crossResidual returns r=u×v and its Jacobian w.r.t. u and v:
// u×v = S(u)v = -S(v)u, so dr/du=-S(v), dr/dv=S(u).
func crossResidual(u, v geom.Vec3) (r geom.Vec3, dru, drv [3][3]float64) {
	r = u.Cross(v)
	dru = negMat(skew(v))
	drv = skew(u)
	return
}

// CoincidentPoint constrains a third point p to lie on the infinite line
// through A and B: (p-A)×(B-A) must vanish.
type CoincidentPoint struct {
	Id      string
	A, B, P PointVars
}

var _ Provider = (*CoincidentPoint)(nil)

func (p *CoincidentPoint) ID() string         { return p.Id }
func (p *CoincidentPoint) ResidualCount() int { return 3 }
func (p *CoincidentPoint) VariableIndices() []int {
	return []int{p.A[0], p.A[1], p.A[2], p.B[0], p.B[1], p.B[2], p.P[0], p.P[1], p.P[2]}
}

func (p *CoincidentPoint) ComputeResiduals(x []float64) []float64 {
	a, b, pt := vec3At(x, p.A), vec3At(x, p.B), vec3At(x, p.P)
	u := pt.Sub(a)
	v := b.Sub(a)
	r, _, _ := crossResidual(u, v)
	return []float64{r.X * crossScale, r.Y * crossScale, r.Z * crossScale}
}

func (p *CoincidentPoint) ComputeJacobian(x []float64) [][]float64 {
	a, b, pt := vec3At(x, p.A), vec3At(x, p.B), vec3At(x, p.P)
	u := pt.Sub(a)
	v := b.Sub(a)
	_, dru, drv := crossResidual(u, v)
	// u=p-a, v=b-a: dr/dp=dru (du/dp=I); dr/db=drv (dv/db=I);
	// dr/da = -dru - drv (du/da=-I, dv/da=-I).
	jac := newJac(3, 9)
	addMat3(jac, 0, 0, scaleMat(subMat(negMat(dru), drv), crossScale))
	addMat3(jac, 0, 3, scaleMat(drv, crossScale))
	addMat3(jac, 0, 6, scaleMat(dru, crossScale))
	return jac
}

// Collinear constrains three points to lie on a common line:
// (p1-p0)×(p2-p0) must vanish.
type Collinear struct {
	Id           string
	P0, P1, P2 PointVars
}

var _ Provider = (*Collinear)(nil)

func (p *Collinear) ID() string         { return p.Id }
func (p *Collinear) ResidualCount() int { return 3 }
func (p *Collinear) VariableIndices() []int {
	return []int{p.P0[0], p.P0[1], p.P0[2], p.P1[0], p.P1[1], p.P1[2], p.P2[0], p.P2[1], p.P2[2]}
}

func (p *Collinear) ComputeResiduals(x []float64) []float64 {
	p0, p1, p2 := vec3At(x, p.P0), vec3At(x, p.P1), vec3At(x, p.P2)
	u := p1.Sub(p0)
	v := p2.Sub(p0)
	r, _, _ := crossResidual(u, v)
	return []float64{r.X * crossScale, r.Y * crossScale, r.Z * crossScale}
}

func (p *Collinear) ComputeJacobian(x []float64) [][]float64 {
	p0, p1, p2 := vec3At(x, p.P0), vec3At(x, p.P1), vec3At(x, p.P2)
	u := p1.Sub(p0)
	v := p2.Sub(p0)
	_, dru, drv := crossResidual(u, v)
	jac := newJac(3, 9)
	addMat3(jac, 0, 0, scaleMat(subMat(negMat(dru), drv), crossScale)) // p0
	addMat3(jac, 0, 3, scaleMat(dru, crossScale))                     // p1
	addMat3(jac, 0, 6, scaleMat(drv, crossScale))                     // p2
	return jac
}
