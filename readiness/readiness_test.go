// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readiness

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/mfagerlund/rotera/scene"
)

func TestCheckEmptyProject(tst *testing.T) {
	chk.PrintTitle("readiness: empty project")
	rep := Check(&scene.Project{})
	if rep.Status != StatusEmpty {
		tst.Fatalf("expected empty, got %s", rep.Status)
	}
}

func TestCheckNoCameraIsError(tst *testing.T) {
	chk.PrintTitle("readiness: no optimizable camera is an error")
	proj := &scene.Project{
		WorldPoints: []*scene.WorldPoint{{ID: "p0"}},
	}
	rep := Check(proj)
	if rep.Status != StatusError {
		tst.Fatalf("expected error, got %s", rep.Status)
	}
}

func TestCheckReadyProject(tst *testing.T) {
	chk.PrintTitle("readiness: well-formed project is ready")
	proj := &scene.Project{
		WorldPoints: []*scene.WorldPoint{{ID: "p0"}},
		Cameras:     []*scene.Camera{{ID: "cam0"}, {ID: "cam1"}},
		ImagePoints: []*scene.ImagePoint{
			{ID: "o0", CameraID: "cam0", PointID: "p0", Visible: true},
			{ID: "o1", CameraID: "cam1", PointID: "p0", Visible: true},
		},
	}
	rep := Check(proj)
	if rep.Status != StatusReady {
		tst.Fatalf("expected ready, got %s: %+v", rep.Status, rep.Issues)
	}
}

func TestCheckDeletedReferenceIsError(tst *testing.T) {
	chk.PrintTitle("readiness: constraint referencing a deleted point is an error")
	proj := &scene.Project{
		WorldPoints: []*scene.WorldPoint{{ID: "p0"}},
		Cameras:     []*scene.Camera{{ID: "cam0"}},
		Constraints: []*scene.Constraint{{ID: "c0", Kind: scene.ConstraintDistance, IsEnabled: true, PA: "p0", PB: "ghost", Target: 1}},
	}
	rep := Check(proj)
	if rep.Status != StatusError {
		tst.Fatalf("expected error, got %s", rep.Status)
	}
}
