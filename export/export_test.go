// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package export

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/mfagerlund/rotera/scene"
)

func TestBuildNullsFreeAxes(tst *testing.T) {
	chk.PrintTitle("export: free axes are null, locked axes carry their locked values")
	proj := &scene.Project{
		WorldPoints: []*scene.WorldPoint{{
			ID:           "p0",
			Locks:        [3]scene.Axis3{{Locked: true, Value: 1}, {}, {}},
			OptimizedXYZ: [3]float64{1, 2, 3},
		}},
	}
	dto := Build(proj, "2026-07-31T00:00:00Z")
	wp := dto.WorldPoints[0]
	if wp.X == nil || *wp.X != 1 {
		tst.Fatal("expected locked axis X to carry its locked value 1")
	}
	if wp.Y != nil {
		tst.Fatal("expected free axis Y to be nil")
	}
	chk.IntAssert(dto.Stats.WorldPointCount, 1)
}

func TestBuildGroupsImagePointsByCamera(tst *testing.T) {
	chk.PrintTitle("export: image points grouped by camera")
	proj := &scene.Project{
		ImagePoints: []*scene.ImagePoint{
			{ID: "o0", CameraID: "cam0", PointID: "p0", U: 1, V: 2},
			{ID: "o1", CameraID: "cam1", PointID: "p1", U: 3, V: 4},
			{ID: "o2", CameraID: "cam0", PointID: "p2", U: 5, V: 6},
		},
	}
	dto := Build(proj, "2026-07-31T00:00:00Z")
	chk.IntAssert(len(dto.ImagePoints), 2)
	chk.IntAssert(len(dto.ImagePoints[0].Points), 2)
	chk.IntAssert(len(dto.ImagePoints[1].Points), 1)
}
