// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/mfagerlund/rotera/geom"
)

// checkAnalyticVsNumeric verifies a provider's closed-form Jacobian against
// a central-difference Jacobian, per spec.md §8's testable property.
func checkAnalyticVsNumeric(tst *testing.T, p Provider, x []float64, tol float64) {
	ana := p.ComputeJacobian(x)
	num := (&NumericalProvider{Base: p, Eps: 1e-6}).ComputeJacobian(x)
	for i := range ana {
		for j := range ana[i] {
			chk.AnaNum(tst, p.ID(), tol, ana[i][j], num[i][j], false)
		}
	}
}

func TestDistanceJacobian(tst *testing.T) {
	chk.PrintTitle("Distance: analytic vs numeric")
	x := []float64{0, 0, 0, 3, 4, 0}
	p := &Distance{Id: "d0", A: PointVars{0, 1, 2}, B: PointVars{3, 4, 5}, Target: 1.0}
	r := p.ComputeResiduals(x)
	chk.Scalar(tst, "residual", 1e-12, r[0], 4.0) // dist=5, target=1 => 4
	checkAnalyticVsNumeric(tst, p, x, 1e-6)
}

func TestFixedPointJacobian(tst *testing.T) {
	chk.PrintTitle("FixedPoint: analytic vs numeric")
	x := []float64{1, 2, 3}
	p := &FixedPoint{Id: "f0", P: PointVars{0, 1, 2}, Target: geom.V3(1, 1, 1)}
	checkAnalyticVsNumeric(tst, p, x, 1e-6)
}

func TestLineLengthZeroDistanceIsStable(tst *testing.T) {
	chk.PrintTitle("LineLength: zero distance stability")
	x := []float64{1, 1, 1, 1, 1, 1}
	p := &LineLength{Id: "ll", A: PointVars{0, 1, 2}, B: PointVars{3, 4, 5}, Target: 2.0}
	r := p.ComputeResiduals(x)
	chk.Scalar(tst, "residual", 1e-12, r[0], -200.0) // (0-2)*100
	j := p.ComputeJacobian(x)
	for _, row := range j {
		for _, v := range row {
			chk.Scalar(tst, "jac", 1e-12, v, 0)
		}
	}
}

func TestLineDirectionAxisJacobian(tst *testing.T) {
	chk.PrintTitle("LineDirectionAxis: analytic vs numeric")
	x := []float64{0, 0, 0, 1, 0.2, 0.1}
	p := &LineDirectionAxis{Id: "ldx", A: PointVars{0, 1, 2}, B: PointVars{3, 4, 5}, Axis: AxisX}
	checkAnalyticVsNumeric(tst, p, x, 1e-6)
}

func TestLineDirectionPlaneJacobian(tst *testing.T) {
	chk.PrintTitle("LineDirectionPlane: analytic vs numeric")
	x := []float64{0, 0, 0, 1, 0.5, 0.1}
	p := &LineDirectionPlane{Id: "ldp", A: PointVars{0, 1, 2}, B: PointVars{3, 4, 5}, Plane: PlaneXY}
	checkAnalyticVsNumeric(tst, p, x, 1e-6)
}

func TestCoincidentPointJacobian(tst *testing.T) {
	chk.PrintTitle("CoincidentPoint: analytic vs numeric")
	x := []float64{0, 0, 0, 2, 0, 0, 1, 0.1, 0}
	p := &CoincidentPoint{Id: "cp", A: PointVars{0, 1, 2}, B: PointVars{3, 4, 5}, P: PointVars{6, 7, 8}}
	checkAnalyticVsNumeric(tst, p, x, 1e-6)
}

func TestCollinearJacobian(tst *testing.T) {
	chk.PrintTitle("Collinear: analytic vs numeric")
	x := []float64{0, 0, 0, 1, 0.05, 0, 2, 0.1, 0}
	p := &Collinear{Id: "col", P0: PointVars{0, 1, 2}, P1: PointVars{3, 4, 5}, P2: PointVars{6, 7, 8}}
	checkAnalyticVsNumeric(tst, p, x, 1e-6)
}

func TestCoplanarJacobian(tst *testing.T) {
	chk.PrintTitle("Coplanar: analytic vs numeric")
	x := []float64{0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0.01}
	p := &Coplanar{Id: "cop", P0: PointVars{0, 1, 2}, P1: PointVars{3, 4, 5}, P2: PointVars{6, 7, 8}, P3: PointVars{9, 10, 11}}
	checkAnalyticVsNumeric(tst, p, x, 1e-5)
}

func TestCoplanarDegenerateIsZeroNotNaN(tst *testing.T) {
	chk.PrintTitle("Coplanar: degenerate (three coincident points) gives zero, not NaN")
	// p1==p0==p2, so v1 and v2 are zero vectors: the scalar triple
	// product and its norms are zero/zero.
	x := []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 5, 5, 5}
	p := &Coplanar{Id: "cop-deg", P0: PointVars{0, 1, 2}, P1: PointVars{3, 4, 5}, P2: PointVars{6, 7, 8}, P3: PointVars{9, 10, 11}}
	r := p.ComputeResiduals(x)
	chk.Scalar(tst, "residual", 1e-15, r[0], 0)
	j := p.ComputeJacobian(x)
	for _, row := range j {
		for _, v := range row {
			if v != v { // NaN check
				tst.Fatal("coplanar jacobian contains NaN on degenerate input")
			}
		}
	}
}

func TestAngleJacobian(tst *testing.T) {
	chk.PrintTitle("Angle: analytic vs numeric")
	x := []float64{1, 0, 0, 0, 0, 0, 0, 1, 0}
	p := &Angle{Id: "ang", A: PointVars{0, 1, 2}, Vertex: PointVars{3, 4, 5}, C: PointVars{6, 7, 8}, Target: 1.5708}
	checkAnalyticVsNumeric(tst, p, x, 1e-5)
}

func TestParallelJacobian(tst *testing.T) {
	chk.PrintTitle("Parallel: analytic vs numeric")
	x := []float64{0, 0, 0, 1, 0.1, 0, 5, 5, 5, 6, 5.05, 5}
	p := &Parallel{Id: "par", A1: PointVars{0, 1, 2}, B1: PointVars{3, 4, 5}, A2: PointVars{6, 7, 8}, B2: PointVars{9, 10, 11}}
	checkAnalyticVsNumeric(tst, p, x, 1e-5)
}

func TestPerpendicularJacobian(tst *testing.T) {
	chk.PrintTitle("Perpendicular: analytic vs numeric")
	x := []float64{0, 0, 0, 1, 0.1, 0, 5, 5, 5, 5, 6, 5.1}
	p := &Perpendicular{Id: "perp", A1: PointVars{0, 1, 2}, B1: PointVars{3, 4, 5}, A2: PointVars{6, 7, 8}, B2: PointVars{9, 10, 11}}
	checkAnalyticVsNumeric(tst, p, x, 1e-5)
}

func TestEqualDistancesJacobian(tst *testing.T) {
	chk.PrintTitle("EqualDistances: analytic vs numeric")
	x := []float64{0, 0, 0, 1, 0, 0, 10, 0, 0, 11.1, 0, 0, 20, 0, 0, 21.2, 0, 0}
	p := &EqualDistances{Id: "eqd", Pairs: []PointPair{
		{A: PointVars{0, 1, 2}, B: PointVars{3, 4, 5}},
		{A: PointVars{6, 7, 8}, B: PointVars{9, 10, 11}},
		{A: PointVars{12, 13, 14}, B: PointVars{15, 16, 17}},
	}}
	checkAnalyticVsNumeric(tst, p, x, 1e-6)
}

func TestEqualAnglesJacobian(tst *testing.T) {
	chk.PrintTitle("EqualAngles: analytic vs numeric")
	x := []float64{
		1, 0, 0, 0, 0, 0, 0, 1, 0,
		10, 0, 0, 9, 0, 0, 9, 0.9, 0,
	}
	p := &EqualAngles{Id: "eqa", Triplets: []AnglePoints{
		{A: PointVars{0, 1, 2}, Vertex: PointVars{3, 4, 5}, C: PointVars{6, 7, 8}},
		{A: PointVars{9, 10, 11}, Vertex: PointVars{12, 13, 14}, C: PointVars{15, 16, 17}},
	}}
	checkAnalyticVsNumeric(tst, p, x, 1e-5)
}

func TestQuatNormJacobian(tst *testing.T) {
	chk.PrintTitle("QuatNorm: analytic vs numeric")
	x := []float64{0.9, 0.1, 0.2, 0.3}
	p := &QuatNorm{Id: "qn", Q: QuatVars{0, 1, 2, 3}}
	checkAnalyticVsNumeric(tst, p, x, 1e-6)
}

func TestReprojectionIdentityCameraZeroResidual(tst *testing.T) {
	chk.PrintTitle("Reprojection: identity camera exact match")
	// point at (0,0,10), identity camera at origin, observation at (cx,cy)
	x := []float64{0, 0, 10, 0, 0, 0, 1, 0, 0, 0}
	p := &Reprojection{
		Id:     "rp",
		Point:  PointVars{0, 1, 2},
		CamPos: PointVars{3, 4, 5},
		Quat:   QuatVars{6, 7, 8, 9},
		FocalIdx: -1,
		Intr:   Intrinsics{FocalLength: 1000, AspectRatio: 1, Cx: 960, Cy: 540},
		ObsU:   960,
		ObsV:   540,
	}
	r := p.ComputeResiduals(x)
	chk.Scalar(tst, "ru", 1e-9, r[0], 0)
	chk.Scalar(tst, "rv", 1e-9, r[1], 0)

	j := p.ComputeJacobian(x)
	if len(j) != 2 || len(j[0]) != 10 {
		tst.Fatalf("unexpected jacobian shape %dx%d", len(j), len(j[0]))
	}
}

func TestReprojectionBehindCamera(tst *testing.T) {
	chk.PrintTitle("Reprojection: behind-camera penalty")
	// point behind the camera: camZ will be negative.
	x := []float64{0, 0, -10, 0, 0, 0, 1, 0, 0, 0}
	p := &Reprojection{
		Id:     "rp-behind",
		Point:  PointVars{0, 1, 2},
		CamPos: PointVars{3, 4, 5},
		Quat:   QuatVars{6, 7, 8, 9},
		FocalIdx: -1,
		Intr:   Intrinsics{FocalLength: 1000, AspectRatio: 1, Cx: 960, Cy: 540},
		ObsU:   960,
		ObsV:   540,
	}
	r := p.ComputeResiduals(x)
	chk.Scalar(tst, "ru", 1e-12, r[0], 1000)
	chk.Scalar(tst, "rv", 1e-12, r[1], 1000)
}

func TestVanishingLineAlignedIsZero(tst *testing.T) {
	chk.PrintTitle("VanishingLine: aligned observation gives zero residual")
	// identity quaternion: Z axis stays (0,0,1) in camera space.
	intr := Intrinsics{FocalLength: 1000, AspectRatio: 1, Cx: 960, Cy: 540}
	// observed VP direction ((vpU-cx)/fx, -(vpV-cy)/fy, 1) equals (0,0,1)
	// when the VP sits at the principal point: vpU = cx, vpV = cy.
	x := []float64{1, 0, 0, 0}
	p := &VanishingLine{
		Id:       "vl",
		Quat:     QuatVars{0, 1, 2, 3},
		FocalIdx: -1,
		Intr:     intr,
		Axis:     PrincipalZ,
		VpU:      960,
		VpV:      540,
		Weight:   1.0,
	}
	r := p.ComputeResiduals(x)
	chk.Scalar(tst, "residual", 1e-9, r[0], 0)
}
