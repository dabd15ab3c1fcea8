// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package adapter translates scene entities into layout allocations and
// residual providers, runs the solve, and writes results back into the
// entities (spec.md §4.8). It is the optimization core's analogue of
// gofem's fem.Domain.SetStage: walk the input description once to build
// equations/providers, solve, then push results back into host state.
package adapter

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/mfagerlund/rotera/ele"
	"github.com/mfagerlund/rotera/geom"
	"github.com/mfagerlund/rotera/layout"
	"github.com/mfagerlund/rotera/scene"
	"github.com/mfagerlund/rotera/solver"
)

// Result is what Run returns: the solver outcome plus any provider-level
// issues that were skipped rather than treated as fatal.
type Result struct {
	Solve       solver.Result
	SkippedLogs []string
}

// Run performs the three passes of spec.md §4.8 against proj and returns
// the solve result. On success, Run writes optimized values back into
// proj's world points and cameras; on failure (non-converged or
// diverged), entities are left untouched.
func Run(proj *scene.Project, opts scene.Options) Result {
	lay := layout.New()
	var res Result

	// Pass 1: layout.
	pointIdx := make(map[string]layout.PointIndices, len(proj.WorldPoints))
	for _, p := range proj.WorldPoints {
		var locks [3]layout.AxisLock
		var init [3]float64
		for axis := 0; axis < 3; axis++ {
			locks[axis] = layout.AxisLock{Locked: p.Locks[axis].Locked, Value: p.Locks[axis].Value}
			init[axis] = p.Effective[axis]
		}
		pointIdx[p.ID] = lay.AddPoint(layout.PointSpec{ID: p.ID, Locks: locks, Init: init})
	}
	camIdx := make(map[string]layout.CameraIndices, len(proj.Cameras))
	for _, c := range proj.Cameras {
		camIdx[c.ID] = lay.AddCamera(layout.CameraSpec{
			ID:                 c.ID,
			OptimizePose:       opts.OptimizePose,
			PoseLocked:         c.PoseLocked,
			OptimizeIntrinsics: opts.OptimizeIntrinsics,
			InitPosition:       c.Ext.Position,
			InitQuat:           c.Ext.Quat,
			InitFocal:          c.Intr.FocalLength,
		})
	}

	// Pass 2: providers.
	var providers []ele.Provider
	skip := func(format string, args ...interface{}) {
		msg := io.Sf(format, args...)
		res.SkippedLogs = append(res.SkippedLogs, msg)
		io.Pfred("rotera/adapter: skipping provider: %s\n", msg)
	}

	pointVars := func(id string) (ele.PointVars, bool) {
		idx, ok := pointIdx[id]
		if !ok {
			return ele.PointVars{}, false
		}
		return ele.PointVars{idx[0], idx[1], idx[2]}, true
	}

	// A fully locked point's constant slots are held at the locked values
	// by a FixedPoint residual, so the solver cannot move them.
	for _, p := range proj.WorldPoints {
		if p.Locks[0].Locked && p.Locks[1].Locked && p.Locks[2].Locked {
			pv, _ := pointVars(p.ID)
			target := geom.V3(p.Locks[0].Value, p.Locks[1].Value, p.Locks[2].Value)
			providers = append(providers, &ele.FixedPoint{Id: p.ID + ":fixed", P: pv, Target: target})
		}
	}

	for _, ln := range proj.Lines {
		a, okA := pointVars(ln.A)
		b, okB := pointVars(ln.B)
		if !okA || !okB {
			skip("line %q references a missing point", ln.ID)
			continue
		}
		switch ln.Direction {
		case scene.DirX:
			providers = append(providers, &ele.LineDirectionAxis{Id: ln.ID + ":dirx", A: a, B: b, Axis: ele.AxisX})
		case scene.DirY:
			providers = append(providers, &ele.LineDirectionAxis{Id: ln.ID + ":diry", A: a, B: b, Axis: ele.AxisY})
		case scene.DirZ:
			providers = append(providers, &ele.LineDirectionAxis{Id: ln.ID + ":dirz", A: a, B: b, Axis: ele.AxisZ})
		case scene.DirXY:
			providers = append(providers, &ele.LineDirectionPlane{Id: ln.ID + ":planexy", A: a, B: b, Plane: ele.PlaneXY})
		case scene.DirXZ:
			providers = append(providers, &ele.LineDirectionPlane{Id: ln.ID + ":planexz", A: a, B: b, Plane: ele.PlaneXZ})
		case scene.DirYZ:
			providers = append(providers, &ele.LineDirectionPlane{Id: ln.ID + ":planeyz", A: a, B: b, Plane: ele.PlaneYZ})
		}
		if ln.HasTargetLength {
			providers = append(providers, &ele.LineLength{Id: ln.ID + ":length", A: a, B: b, Target: ln.TargetLength})
		}
		for _, cpID := range ln.CoincidentPoints {
			p, ok := pointVars(cpID)
			if !ok {
				skip("line %q coincident point %q is missing", ln.ID, cpID)
				continue
			}
			providers = append(providers, &ele.CoincidentPoint{Id: ln.ID + ":coincident:" + cpID, A: a, B: b, P: p})
		}
	}

	for _, cam := range proj.Cameras {
		idx := camIdx[cam.ID]
		if idx.HasPose {
			q := ele.QuatVars{idx.Quat[0], idx.Quat[1], idx.Quat[2], idx.Quat[3]}
			providers = append(providers, &ele.QuatNorm{Id: cam.ID + ":quatnorm", Q: q})
		}
	}

	for _, obs := range proj.ImagePoints {
		cam := findCamera(proj, obs.CameraID)
		pt, okP := pointVars(obs.PointID)
		if cam == nil || !okP {
			skip("image point %q references a missing camera or point", obs.ID)
			continue
		}
		idx, ok := camIdx[cam.ID]
		if !ok || !idx.HasPose {
			skip("image point %q: camera %q has no assigned pose variables", obs.ID, cam.ID)
			continue
		}
		providers = append(providers, &ele.Reprojection{
			Id:         obs.ID + ":reprojection",
			Point:      pt,
			CamPos:     ele.PointVars{idx.Position[0], idx.Position[1], idx.Position[2]},
			Quat:       ele.QuatVars{idx.Quat[0], idx.Quat[1], idx.Quat[2], idx.Quat[3]},
			FocalIdx:   idx.FocalIdx,
			Intr:       toEleIntrinsics(cam.Intr),
			ZReflected: cam.ZReflected,
			ObsU:       obs.U,
			ObsV:       obs.V,
		})
	}

	for _, c := range proj.Constraints {
		if !c.IsEnabled {
			continue
		}
		switch c.Kind {
		case scene.ConstraintDistance:
			pa, okA := pointVars(c.PA)
			pb, okB := pointVars(c.PB)
			if !okA || !okB {
				skip("constraint %q references a missing point", c.ID)
				continue
			}
			providers = append(providers, &ele.Distance{Id: c.ID, A: pa, B: pb, Target: c.Target})
		case scene.ConstraintAngle:
			pa, okA := pointVars(c.PA)
			pv, okV := pointVars(c.Vertex)
			pc, okC := pointVars(c.PC)
			if !okA || !okV || !okC {
				skip("constraint %q references a missing point", c.ID)
				continue
			}
			providers = append(providers, &ele.Angle{Id: c.ID, A: pa, Vertex: pv, C: pc, Target: c.Target})
		case scene.ConstraintCoplanar:
			p0, ok0 := pointVars(c.P0)
			p1, ok1 := pointVars(c.P1)
			p2, ok2 := pointVars(c.P2)
			p3, ok3 := pointVars(c.P3)
			if !ok0 || !ok1 || !ok2 || !ok3 {
				skip("constraint %q references a missing point", c.ID)
				continue
			}
			providers = append(providers, &ele.Coplanar{Id: c.ID, P0: p0, P1: p1, P2: p2, P3: p3})
		}
	}

	for _, v := range proj.Vanishing {
		cam := findCamera(proj, v.CameraID)
		if cam == nil {
			skip("vanishing observation %q references a missing camera", v.ID)
			continue
		}
		idx, ok := camIdx[cam.ID]
		if !ok || !idx.HasPose {
			skip("vanishing observation %q: camera %q has no assigned pose variables", v.ID, cam.ID)
			continue
		}
		providers = append(providers, &ele.VanishingLine{
			Id:       v.ID,
			Quat:     ele.QuatVars{idx.Quat[0], idx.Quat[1], idx.Quat[2], idx.Quat[3]},
			FocalIdx: idx.FocalIdx,
			Intr:     toEleIntrinsics(cam.Intr),
			Axis:     toEleAxis(v.Axis),
			VpU:      v.VpU,
			VpV:      v.VpV,
			Weight:   v.Weight,
		})
	}

	// Pass 3: solve.
	sys := solver.NewSystem(providers, lay.Initial())
	solveOpts := solver.SparseOptions{
		MaxIterations:  opts.MaxIterations,
		Tolerance:      opts.Tolerance,
		GradientTol:    opts.GradientTolerance,
		InitialDamping: opts.InitialDamping,
		IncreaseFactor: opts.IncreaseFactor,
		DecreaseFactor: opts.DecreaseFactor,
		MinDamping:     opts.MinDamping,
		MaxDamping:     opts.MaxDamping,
		Verbose:        opts.Verbose,
	}
	res.Solve = sys.SolveSparse(solveOpts)

	if res.Solve.Converged {
		writeBack(proj, lay, pointIdx, camIdx, res.Solve.X)
	}
	return res
}

func writeBack(proj *scene.Project, lay *layout.Layout, pointIdx map[string]layout.PointIndices, camIdx map[string]layout.CameraIndices, x []float64) {
	for _, p := range proj.WorldPoints {
		idx := pointIdx[p.ID]
		for axis := 0; axis < 3; axis++ {
			if p.Locks[axis].Locked {
				p.OptimizedXYZ[axis] = p.Locks[axis].Value
			} else {
				p.OptimizedXYZ[axis] = x[idx[axis]]
			}
		}
	}
	for _, c := range proj.Cameras {
		idx := camIdx[c.ID]
		if !idx.HasPose {
			continue
		}
		for axis := 0; axis < 3; axis++ {
			c.Ext.Position[axis] = x[idx.Position[axis]]
		}
		q := normalizeQuat([4]float64{x[idx.Quat[0]], x[idx.Quat[1]], x[idx.Quat[2]], x[idx.Quat[3]]})
		c.Ext.Quat = q
		if idx.FocalIdx >= 0 {
			c.Intr.FocalLength = x[idx.FocalIdx]
		}
	}
}

func normalizeQuat(q [4]float64) [4]float64 {
	n := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
	if n < 1e-30 {
		return [4]float64{1, 0, 0, 0}
	}
	s := 1 / math.Sqrt(n)
	return [4]float64{q[0] * s, q[1] * s, q[2] * s, q[3] * s}
}

func findCamera(proj *scene.Project, id string) *scene.Camera {
	for _, c := range proj.Cameras {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func toEleIntrinsics(in scene.Intrinsics) ele.Intrinsics {
	return ele.Intrinsics{
		FocalLength: in.FocalLength,
		AspectRatio: in.AspectRatio,
		Cx:          in.Cx,
		Cy:          in.Cy,
		Skew:        in.Skew,
		K1:          in.K1,
		K2:          in.K2,
		K3:          in.K3,
		P1:          in.P1,
		P2:          in.P2,
	}
}

func toEleAxis(a scene.PrincipalAxisName) ele.PrincipalAxis {
	switch a {
	case scene.PrincipalAxisX:
		return ele.PrincipalX
	case scene.PrincipalAxisY:
		return ele.PrincipalY
	default:
		return ele.PrincipalZ
	}
}
