// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "math"

// Quaternion is a Hamilton quaternion (w,x,y,z) used to represent a camera's
// orientation. The convention throughout this package is active rotation of
// a vector by q: v' = q·v·q⁻¹.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity returns the identity rotation.
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// Vec returns the vector (imaginary) part of q.
func (q Quaternion) Vec() Vec3 {
	return Vec3{q.X, q.Y, q.Z}
}

// NormSquared returns qw²+qx²+qy²+qz².
func (q Quaternion) NormSquared() float64 {
	return q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z
}

// Norm returns ‖q‖.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.NormSquared())
}

// Normalize returns q/‖q‖, same fallback-to-identity behaviour as
// ahrs.State.normalize for a degenerate quaternion.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n < 1e-15 {
		return Identity()
	}
	return Quaternion{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// RotateVector applies q·v·q⁻¹ to v using the nested-cross-product form
// (avoids building a 3x3 rotation matrix):
//
//	qc    = q_xyz × v
//	dc    = q_xyz × qc
//	v_rot = v + 2w·qc + 2·dc
func (q Quaternion) RotateVector(v Vec3) Vec3 {
	qxyz := q.Vec()
	qc := qxyz.Cross(v)
	dc := qxyz.Cross(qc)
	return v.Add(qc.Scale(2 * q.W)).Add(dc.Scale(2))
}

// Array returns the components as [w,x,y,z].
func (q Quaternion) Array() [4]float64 {
	return [4]float64{q.W, q.X, q.Y, q.Z}
}

// FromArray builds a Quaternion from a 4-element slice in [w,x,y,z] order.
func FromArray(a []float64) Quaternion {
	return Quaternion{W: a[0], X: a[1], Y: a[2], Z: a[3]}
}
