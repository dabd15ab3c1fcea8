// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestCircleScene(tst *testing.T) {
	chk.PrintTitle("scene: circle fit seed")
	pts := CircleScene(8, 5, 5, 3)
	chk.IntAssert(len(pts), 8)
	for _, p := range pts {
		dx := p.Effective[0] - 5
		dy := p.Effective[1] - 5
		r := dx*dx + dy*dy
		chk.Scalar(tst, "r^2", 1e-9, r, 9)
	}
}

func TestDistanceChainScene(tst *testing.T) {
	chk.PrintTitle("scene: distance chain seed")
	pts, cons := DistanceChainScene(10, 1.0, 0.3)
	chk.IntAssert(len(pts), 10)
	chk.IntAssert(len(cons), 9)
	if !pts[0].Locks[0].Locked || !pts[0].Locks[1].Locked || !pts[0].Locks[2].Locked {
		tst.Fatal("expected first point fully locked at origin")
	}
	for _, c := range cons {
		chk.Scalar(tst, "target", 1e-15, c.Target, 1.0)
	}
}

func TestTwoViewBundleScene(tst *testing.T) {
	chk.PrintTitle("scene: two-view bundle seed")
	pts, cams, obs := TwoViewBundleScene(10, 0.3)
	chk.IntAssert(len(pts), 10)
	chk.IntAssert(len(cams), 2)
	chk.IntAssert(len(obs), 20)
}
