// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"math"
	"strconv"

	"github.com/cpmech/gosl/rnd"
)

// gaussianNoise draws one N(0, sigma) sample via Box-Muller from gosl's
// uniform rnd.Float64. The heavier rnd.VarData/rnd.GetDistribution
// machinery inp/sim.go uses is built for named, configurable random
// *parameters* (adjustable simulation inputs); synthetic test scenes only
// need raw Gaussian pixel jitter, so the plain uniform sampler is enough.
func gaussianNoise(sigma float64) float64 {
	if sigma <= 0 {
		return 0
	}
	u1 := rnd.Float64(1e-12, 1.0)
	u2 := rnd.Float64(0, 1.0)
	return sigma * math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// CircleScene builds a "circle fit" seed scenario: n points sampled
// uniformly on a circle of the given center and radius.
func CircleScene(n int, cx, cy, radius float64) []WorldPoint {
	pts := make([]WorldPoint, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = WorldPoint{
			ID:        idFor("circle", i),
			Effective: [3]float64{cx + radius*math.Cos(theta), cy + radius*math.Sin(theta), 0},
		}
	}
	return pts
}

// DistanceChainScene builds a "distance chain" seed scenario: n points on
// a line at the given spacing with Gaussian jitter, the first point fixed
// at the origin, and one distance constraint of target spacing between
// each pair of neighbours.
func DistanceChainScene(n int, spacing, jitterSigma float64) ([]WorldPoint, []Constraint) {
	pts := make([]WorldPoint, n)
	cons := make([]Constraint, 0, n-1)
	for i := 0; i < n; i++ {
		x := float64(i)*spacing + gaussianNoise(jitterSigma)
		y := gaussianNoise(jitterSigma)
		z := gaussianNoise(jitterSigma)
		pts[i] = WorldPoint{ID: idFor("chain", i), Effective: [3]float64{x, y, z}}
		if i == 0 {
			pts[i].Locks = [3]Axis3{{Locked: true, Value: 0}, {Locked: true, Value: 0}, {Locked: true, Value: 0}}
			pts[i].Effective = [3]float64{0, 0, 0}
		}
		if i > 0 {
			cons = append(cons, Constraint{
				ID:        idFor("chain-dist", i-1),
				Kind:      ConstraintDistance,
				IsEnabled: true,
				PA:        pts[i-1].ID,
				PB:        pts[i].ID,
				Target:    spacing,
			})
		}
	}
	return pts, cons
}

// TwoViewBundleScene builds a "two-view bundle" seed scenario: n world
// points observed by two cameras with known ground-truth pose and Gaussian
// pixel noise. The returned points' Effective positions and the cameras'
// poses are the ground truth the observations were projected from; no
// perturbed initial guesses are produced.
func TwoViewBundleScene(n int, pixelNoiseSigma float64) (points []WorldPoint, cameras []Camera, obs []ImagePoint) {
	intr := Intrinsics{FocalLength: 1000, AspectRatio: 1, Cx: 960, Cy: 540}
	cameras = []Camera{
		{ID: "cam0", Name: "left", ImageWidth: 1920, ImageHeight: 1080, Intr: intr,
			Ext: Extrinsics{Position: [3]float64{0, 0, 0}, Quat: [4]float64{1, 0, 0, 0}}},
		{ID: "cam1", Name: "right", ImageWidth: 1920, ImageHeight: 1080, Intr: intr,
			Ext: Extrinsics{Position: [3]float64{1, 0, 0}, Quat: [4]float64{1, 0, 0, 0}}},
	}
	points = make([]WorldPoint, n)
	for i := 0; i < n; i++ {
		gx := float64(i%5) - 2
		gy := float64(i/5) - 1
		gz := 10 + gaussianNoise(0.1)
		points[i] = WorldPoint{
			ID:        idFor("bundle", i),
			Effective: [3]float64{gx, gy, gz},
		}
	}
	for ci := range cameras {
		for pi := range points {
			u, v := projectPinholeApprox(points[pi].Effective, cameras[ci], intr)
			obs = append(obs, ImagePoint{
				ID:         idFor("obs", ci*n+pi),
				CameraID:   cameras[ci].ID,
				PointID:    points[pi].ID,
				U:          u + gaussianNoise(pixelNoiseSigma),
				V:          v + gaussianNoise(pixelNoiseSigma),
				Visible:    true,
				Confidence: 1,
			})
		}
	}
	return points, cameras, obs
}

// projectPinholeApprox is a minimal identity-orientation pinhole
// projection used only to seed synthetic observations; it does not
// implement distortion or arbitrary rotation (ele.Reprojection does).
func projectPinholeApprox(p [3]float64, cam Camera, intr Intrinsics) (u, v float64) {
	dx := p[0] - cam.Ext.Position[0]
	dy := p[1] - cam.Ext.Position[1]
	dz := p[2] - cam.Ext.Position[2]
	if dz <= 0 {
		return 1000, 1000
	}
	u = intr.FocalLength*(dx/dz) + intr.Cx
	v = intr.Cy - intr.FocalLength*intr.AspectRatio*(dy/dz)
	return u, v
}

func idFor(prefix string, i int) string {
	return prefix + "-" + strconv.Itoa(i)
}
