// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/mfagerlund/rotera/geom"

// FixedPoint pulls a world point towards a fixed target, one residual per
// axis. The adapter emits one for every world point whose three axes are
// all locked, holding that point's constant slots at the locked values.
type FixedPoint struct {
	Id     string
	P      PointVars
	Target geom.Vec3
}

var _ Provider = (*FixedPoint)(nil)

func (p *FixedPoint) ID() string         { return p.Id }
func (p *FixedPoint) ResidualCount() int { return 3 }
func (p *FixedPoint) VariableIndices() []int {
	return []int{p.P[0], p.P[1], p.P[2]}
}

func (p *FixedPoint) ComputeResiduals(x []float64) []float64 {
	v := vec3At(x, p.P)
	return []float64{v.X - p.Target.X, v.Y - p.Target.Y, v.Z - p.Target.Z}
}

func (p *FixedPoint) ComputeJacobian(x []float64) [][]float64 {
	jac := newJac(3, 3)
	jac[0][0] = 1
	jac[1][1] = 1
	jac[2][2] = 1
	return jac
}
