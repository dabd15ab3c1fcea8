// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout allocates the global parameter vector x: it is the
// optimization core's analogue of gofem's node/dof equation numbering in
// fem/domain.go (there, each node's active dofs are walked in order and
// given the next equation number; here, each world point's free axes and
// each camera's pose/intrinsic components are walked in order and given
// the next column of x).
package layout

import "github.com/cpmech/gosl/chk"

// AxisLock tells layout whether a world-point axis is free (and thus gets
// a column of x) or locked to a fixed value (and thus gets a constant slot
// instead: a column of x written once with the locked value).
type AxisLock struct {
	Locked bool
	Value  float64
}

// PointSpec is the input a caller supplies per world point: per-axis lock
// state and the preferred initial value for each axis (the previously
// optimized coordinate if available, else the locked/effective value).
type PointSpec struct {
	ID    string
	Locks [3]AxisLock
	Init  [3]float64
}

// CameraSpec is the input a caller supplies per camera.
type CameraSpec struct {
	ID                 string
	OptimizePose       bool
	PoseLocked         bool
	OptimizeIntrinsics bool
	InitPosition       [3]float64
	InitQuat           [4]float64
	InitFocal          float64
}

// PointIndices is the full (x,y,z) index triple layout assigns a world
// point. Free axes point at real variable columns, locked axes point at
// constant-slot columns, and a provider cannot tell the difference.
type PointIndices [3]int

// CameraIndices is the full set of columns layout assigns a camera: a
// position triple, a quaternion quadruple, and an optional focal-length
// index (-1 when the camera's focal length is not itself a variable).
type CameraIndices struct {
	Position [3]int
	Quat     [4]int
	HasPose  bool
	FocalIdx int
}

// Layout accumulates index assignments and the initial-value array in
// insertion order (spec.md §5: "variable indices are assigned in
// layout-insertion order... stable across iterations").
type Layout struct {
	initial    []float64
	points     map[string]PointIndices
	pointOrder []string
	cameras    map[string]CameraIndices
	camOrder   []string
}

// New returns an empty layout.
func New() *Layout {
	return &Layout{
		points:  make(map[string]PointIndices),
		cameras: make(map[string]CameraIndices),
	}
}

// Len returns the current length of x (including constant slots).
func (l *Layout) Len() int { return len(l.initial) }

// Initial returns a copy of the initial-value array assembled so far.
func (l *Layout) Initial() []float64 {
	out := make([]float64, len(l.initial))
	copy(out, l.initial)
	return out
}

func (l *Layout) append(v float64) int {
	l.initial = append(l.initial, v)
	return len(l.initial) - 1
}

// AddPoint allocates indices for a world point: each axis, in (x,y,z)
// order, gets the next column of x; a free axis's column holds its initial
// value, a locked axis's column is a constant slot holding the locked value.
func (l *Layout) AddPoint(p PointSpec) PointIndices {
	if _, exists := l.points[p.ID]; exists {
		chk.Panic("layout: point %q added twice", p.ID)
	}
	var idx PointIndices
	for axis := 0; axis < 3; axis++ {
		lock := p.Locks[axis]
		if lock.Locked {
			idx[axis] = l.append(lock.Value)
		} else {
			idx[axis] = l.append(p.Init[axis])
		}
	}
	l.points[p.ID] = idx
	l.pointOrder = append(l.pointOrder, p.ID)
	return idx
}

// AddCamera allocates indices for a camera per spec.md §4.3: if
// optimize_pose and not pose_locked, 3 position components then 4
// quaternion components; if optimize_intrinsics, a focal length column.
func (l *Layout) AddCamera(c CameraSpec) CameraIndices {
	if _, exists := l.cameras[c.ID]; exists {
		chk.Panic("layout: camera %q added twice", c.ID)
	}
	var idx CameraIndices
	idx.FocalIdx = -1
	if c.OptimizePose && !c.PoseLocked {
		for axis := 0; axis < 3; axis++ {
			idx.Position[axis] = l.append(c.InitPosition[axis])
		}
		for k := 0; k < 4; k++ {
			idx.Quat[k] = l.append(c.InitQuat[k])
		}
		idx.HasPose = true
	}
	if c.OptimizeIntrinsics {
		idx.FocalIdx = l.append(c.InitFocal)
	}
	l.cameras[c.ID] = idx
	l.camOrder = append(l.camOrder, c.ID)
	return idx
}

// Point looks up a previously added world point's indices.
func (l *Layout) Point(id string) (PointIndices, bool) {
	idx, ok := l.points[id]
	return idx, ok
}

// MustPoint looks up a world point's indices, failing fast (invalid
// construction, spec.md §7) if the point was never added.
func (l *Layout) MustPoint(id string) PointIndices {
	idx, ok := l.points[id]
	if !ok {
		chk.Panic("layout: unknown point %q", id)
	}
	return idx
}

// Camera looks up a previously added camera's indices.
func (l *Layout) Camera(id string) (CameraIndices, bool) {
	idx, ok := l.cameras[id]
	return idx, ok
}

// MustCamera looks up a camera's indices, failing fast if the camera was
// never added.
func (l *Layout) MustCamera(id string) CameraIndices {
	idx, ok := l.cameras[id]
	if !ok {
		chk.Panic("layout: unknown camera %q", id)
	}
	return idx
}

// PointOrder returns point IDs in insertion order.
func (l *Layout) PointOrder() []string {
	out := make([]string, len(l.pointOrder))
	copy(out, l.pointOrder)
	return out
}

// CameraOrder returns camera IDs in insertion order.
func (l *Layout) CameraOrder() []string {
	out := make([]string, len(l.camOrder))
	copy(out, l.camOrder)
	return out
}
