// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/mfagerlund/rotera/geom"

// Coplanar constrains four points to lie on a common plane via the
// normalized scalar triple product of the three edge vectors from p0.
type Coplanar struct {
	Id                 string
	P0, P1, P2, P3 PointVars
}

var _ Provider = (*Coplanar)(nil)

func (p *Coplanar) ID() string         { return p.Id }
func (p *Coplanar) ResidualCount() int { return 1 }
func (p *Coplanar) VariableIndices() []int {
	return []int{
		p.P0[0], p.P0[1], p.P0[2],
		p.P1[0], p.P1[1], p.P1[2],
		p.P2[0], p.P2[1], p.P2[2],
		p.P3[0], p.P3[1], p.P3[2],
	}
}

func coplanarResidualAndGrad(p0, p1, p2, p3 geom.Vec3) (r float64, g0, g1, g2, g3 geom.Vec3) {
	v1 := p1.Sub(p0)
	v2 := p2.Sub(p0)
	v3 := p3.Sub(p0)
	n1, n2, n3 := v1.Norm(), v2.Norm(), v3.Norm()
	d := n1 * n2 * n3
	num := v1.Dot(v2.Cross(v3))
	if d < 1e-15 {
		return 0, geom.Vec3{}, geom.Vec3{}, geom.Vec3{}, geom.Vec3{}
	}
	r = num / d

	// dN/dv1 = v2×v3, dN/dv2 = v3×v1, dN/dv3 = v1×v2 (cyclic scalar
	// triple-product identity).
	dNdv1 := v2.Cross(v3)
	dNdv2 := v3.Cross(v1)
	dNdv3 := v1.Cross(v2)

	// dD/dvi = unit(vi) * (product of the other two norms).
	var dDdv1, dDdv2, dDdv3 geom.Vec3
	if n1 > 1e-15 {
		dDdv1 = v1.Scale(1 / n1).Scale(n2 * n3)
	}
	if n2 > 1e-15 {
		dDdv2 = v2.Scale(1 / n2).Scale(n1 * n3)
	}
	if n3 > 1e-15 {
		dDdv3 = v3.Scale(1 / n3).Scale(n1 * n2)
	}

	d2 := d * d
	dr1 := dNdv1.Scale(d).Sub(dDdv1.Scale(num)).Scale(1 / d2)
	dr2 := dNdv2.Scale(d).Sub(dDdv2.Scale(num)).Scale(1 / d2)
	dr3 := dNdv3.Scale(d).Sub(dDdv3.Scale(num)).Scale(1 / d2)

	g1, g2, g3 = dr1, dr2, dr3
	g0 = dr1.Add(dr2).Add(dr3).Scale(-1)

	if !isFiniteF(r) {
		r, g0, g1, g2, g3 = 0, geom.Vec3{}, geom.Vec3{}, geom.Vec3{}, geom.Vec3{}
	}
	if !isFinite3(g0) || !isFinite3(g1) || !isFinite3(g2) || !isFinite3(g3) {
		g0, g1, g2, g3 = geom.Vec3{}, geom.Vec3{}, geom.Vec3{}, geom.Vec3{}
	}
	return
}

func (p *Coplanar) ComputeResiduals(x []float64) []float64 {
	p0, p1, p2, p3 := vec3At(x, p.P0), vec3At(x, p.P1), vec3At(x, p.P2), vec3At(x, p.P3)
	r, _, _, _, _ := coplanarResidualAndGrad(p0, p1, p2, p3)
	return []float64{r}
}

func (p *Coplanar) ComputeJacobian(x []float64) [][]float64 {
	p0, p1, p2, p3 := vec3At(x, p.P0), vec3At(x, p.P1), vec3At(x, p.P2), vec3At(x, p.P3)
	_, g0, g1, g2, g3 := coplanarResidualAndGrad(p0, p1, p2, p3)
	jac := newJac(1, 12)
	appendRow3(jac, 0, 0, g0)
	appendRow3(jac, 0, 3, g1)
	appendRow3(jac, 0, 6, g2)
	appendRow3(jac, 0, 9, g3)
	return jac
}
