// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/mfagerlund/rotera/geom"
	"github.com/mfagerlund/rotera/numgrad"
)

// DefaultVanishingWeight is the weight applied to a VanishingLine residual
// when the caller does not override it (spec.md §4.4).
const DefaultVanishingWeight = 0.02

// PrincipalAxis names which world axis a vanishing-line observation
// constrains.
type PrincipalAxis int

const (
	PrincipalX PrincipalAxis = iota
	PrincipalY
	PrincipalZ
)

func (a PrincipalAxis) vec() geom.Vec3 {
	switch a {
	case PrincipalX:
		return geom.V3(1, 0, 0)
	case PrincipalY:
		return geom.V3(0, 1, 0)
	default:
		return geom.V3(0, 0, 1)
	}
}

// VanishingLine constrains a camera's orientation so that a principal world
// axis, rotated into camera space, aligns with an observed vanishing-point
// direction in the image. Like Reprojection, its Jacobian is taken
// numerically because it shares the same quaternion-rotation chain.
type VanishingLine struct {
	Id         string
	Quat       QuatVars
	FocalIdx   int // -1 if focal length is not an optimized variable
	Intr       Intrinsics
	Axis       PrincipalAxis
	VpU, VpV   float64
	Weight     float64
}

var _ Provider = (*VanishingLine)(nil)

func (p *VanishingLine) ID() string         { return p.Id }
func (p *VanishingLine) ResidualCount() int { return 1 }

func (p *VanishingLine) VariableIndices() []int {
	idx := []int{p.Quat[0], p.Quat[1], p.Quat[2], p.Quat[3]}
	if p.FocalIdx >= 0 {
		idx = append(idx, p.FocalIdx)
	}
	return idx
}

func (p *VanishingLine) weight() float64 {
	if p.Weight == 0 {
		return DefaultVanishingWeight
	}
	return p.Weight
}

func (p *VanishingLine) ComputeResiduals(x []float64) []float64 {
	q := geom.Quaternion{W: x[p.Quat[0]], X: x[p.Quat[1]], Y: x[p.Quat[2]], Z: x[p.Quat[3]]}
	var fOverride float64
	hasOverride := p.FocalIdx >= 0
	if hasOverride {
		fOverride = x[p.FocalIdx]
	}
	fx, fy := p.Intr.fxfy(fOverride, hasOverride)

	predicted := q.RotateVector(p.Axis.vec()).Normalize()
	observed := geom.V3((p.VpU-p.Intr.Cx)/fx, -(p.VpV-p.Intr.Cy)/fy, 1).Normalize()

	cosAngle := predicted.Dot(observed)
	if cosAngle > 1 {
		cosAngle = 1
	} else if cosAngle < -1 {
		cosAngle = -1
	}
	return []float64{p.weight() * (1 - cosAngle)}
}

func (p *VanishingLine) ComputeJacobian(x []float64) [][]float64 {
	return numgrad.ProviderJacobian(p, x, numgrad.Eps)
}
