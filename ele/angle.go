// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"

	"github.com/mfagerlund/rotera/geom"
)

// angleAndGrad returns angle(u,v)=acos(u·v/(‖u‖‖v‖)) and its gradient
// w.r.t. u and v. The gradient is the zero vector when u or v is
// degenerate or when the configuration is at a singular point of acos
// (sin(angle) ~ 0), matching the coplanar/line-direction "zero out
// non-finite rows" convention.
func angleAndGrad(u, v geom.Vec3) (angle float64, gU, gV geom.Vec3) {
	nu, nv := u.Norm(), v.Norm()
	if nu < 1e-15 || nv < 1e-15 {
		return 0, geom.Vec3{}, geom.Vec3{}
	}
	c := u.Dot(v) / (nu * nv)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	angle = math.Acos(c)

	s := math.Sqrt(1 - c*c)
	if s < 1e-9 {
		return angle, geom.Vec3{}, geom.Vec3{}
	}

	// dc/du = v/(nu*nv) - (u·v)*u/(nu^3*nv)
	dot := u.Dot(v)
	dcdu := v.Scale(1 / (nu * nv)).Sub(u.Scale(dot / (nu * nu * nu * nv)))
	dcdv := u.Scale(1 / (nu * nv)).Sub(v.Scale(dot / (nu * nv * nv * nv)))

	dAngleDc := -1 / s
	gU = dcdu.Scale(dAngleDc)
	gV = dcdv.Scale(dAngleDc)
	return
}

// Angle constrains the angle at vertex between rays to pA and pC.
type Angle struct {
	Id          string
	A, Vertex, C PointVars
	Target      float64
}

var _ Provider = (*Angle)(nil)

func (p *Angle) ID() string         { return p.Id }
func (p *Angle) ResidualCount() int { return 1 }
func (p *Angle) VariableIndices() []int {
	return []int{p.A[0], p.A[1], p.A[2], p.Vertex[0], p.Vertex[1], p.Vertex[2], p.C[0], p.C[1], p.C[2]}
}

func (p *Angle) ComputeResiduals(x []float64) []float64 {
	a, vert, c := vec3At(x, p.A), vec3At(x, p.Vertex), vec3At(x, p.C)
	u := a.Sub(vert)
	v := c.Sub(vert)
	ang, _, _ := angleAndGrad(u, v)
	return []float64{ang - p.Target}
}

func (p *Angle) ComputeJacobian(x []float64) [][]float64 {
	a, vert, c := vec3At(x, p.A), vec3At(x, p.Vertex), vec3At(x, p.C)
	u := a.Sub(vert)
	v := c.Sub(vert)
	_, gU, gV := angleAndGrad(u, v)
	jac := newJac(1, 9)
	// u=a-vertex, v=c-vertex
	appendRow3(jac, 0, 0, gU)                      // dr/da = gU
	appendRow3(jac, 0, 3, gU.Add(gV).Scale(-1))    // dr/dvertex = -(gU+gV)
	appendRow3(jac, 0, 6, gV)                      // dr/dc = gV
	return jac
}
