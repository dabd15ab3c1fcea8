// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/mfagerlund/rotera/geom"
	"github.com/mfagerlund/rotera/numgrad"
)

// behindCameraPenalty is the fixed residual emitted when a point projects
// behind the camera (camZ <= 0), per spec.md §4.4 step 4.
const behindCameraPenalty = 1000.0

// Intrinsics holds a camera's internal calibration, as described in
// spec.md §3. Skew is carried for completeness but, as in the source
// reprojection formula (§4.4), does not enter the projection equations.
type Intrinsics struct {
	FocalLength          float64
	AspectRatio          float64
	Cx, Cy               float64
	Skew                 float64
	K1, K2, K3           float64
	P1, P2               float64
}

// fxfy returns (fx,fy) given an optional overriding focal length (used when
// the focal length is itself an optimized variable).
func (in Intrinsics) fxfy(focalOverride float64, hasOverride bool) (fx, fy float64) {
	f := in.FocalLength
	if hasOverride {
		f = focalOverride
	}
	return f, f * in.AspectRatio
}

// project runs the precise reprojection formulation of spec.md §4.4 steps
// 1-7 and reports whether the point was behind the camera.
func project(p, camPos geom.Vec3, q geom.Quaternion, in Intrinsics, fx, fy float64, zReflected bool) (u, v float64, behind bool) {
	t := p.Sub(camPos)
	rotated := q.RotateVector(t)
	camX, camY, camZ := rotated.X, rotated.Y, rotated.Z
	if zReflected {
		camX, camY, camZ = -camX, -camY, -camZ
	}
	if camZ <= 0 {
		return behindCameraPenalty, behindCameraPenalty, true
	}
	nx := camX / camZ
	ny := camY / camZ
	r2 := nx*nx + ny*ny
	radial := 1 + in.K1*r2 + in.K2*r2*r2 + in.K3*r2*r2*r2
	tangX := 2*in.P1*nx*ny + in.P2*(r2+2*nx*nx)
	tangY := in.P1*(r2+2*ny*ny) + 2*in.P2*nx*ny
	dx := nx*radial + tangX
	dy := ny*radial + tangY
	u = fx*dx + in.Cx
	v = in.Cy - fy*dy // vertical axis flipped; preserved verbatim per spec.md §9
	return u, v, false
}

// Reprojection is the residual between a world point's modeled pixel
// location and its observed pixel location. Per spec.md §4.4, its
// Jacobian is computed with central differences rather than a closed-form
// chain rule through the quaternion rotation.
type Reprojection struct {
	Id         string
	Point      PointVars
	CamPos     PointVars
	Quat       QuatVars
	FocalIdx   int // -1 if the focal length is not an optimized variable
	Intr       Intrinsics
	ZReflected bool
	ObsU, ObsV float64
}

var _ Provider = (*Reprojection)(nil)

func (p *Reprojection) ID() string         { return p.Id }
func (p *Reprojection) ResidualCount() int { return 2 }

func (p *Reprojection) VariableIndices() []int {
	idx := []int{
		p.Point[0], p.Point[1], p.Point[2],
		p.CamPos[0], p.CamPos[1], p.CamPos[2],
		p.Quat[0], p.Quat[1], p.Quat[2], p.Quat[3],
	}
	if p.FocalIdx >= 0 {
		idx = append(idx, p.FocalIdx)
	}
	return idx
}

func (p *Reprojection) ComputeResiduals(x []float64) []float64 {
	pt := vec3At(x, p.Point)
	cam := vec3At(x, p.CamPos)
	q := geom.Quaternion{W: x[p.Quat[0]], X: x[p.Quat[1]], Y: x[p.Quat[2]], Z: x[p.Quat[3]]}
	var fOverride float64
	hasOverride := p.FocalIdx >= 0
	if hasOverride {
		fOverride = x[p.FocalIdx]
	}
	fx, fy := p.Intr.fxfy(fOverride, hasOverride)
	u, v, behind := project(pt, cam, q, p.Intr, fx, fy, p.ZReflected)
	if behind {
		return []float64{behindCameraPenalty, behindCameraPenalty}
	}
	return []float64{u - p.ObsU, v - p.ObsV}
}

func (p *Reprojection) ComputeJacobian(x []float64) [][]float64 {
	return numgrad.ProviderJacobian(p, x, numgrad.Eps)
}
