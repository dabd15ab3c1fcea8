// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom implements the 3D vector and quaternion primitives shared
// by every residual provider and by the variable layout.
package geom

import "math"

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// V3 builds a Vec3 from three components.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns a+b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a-b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns a*s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Dot returns a·b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns a×b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Norm returns ‖a‖.
func (a Vec3) Norm() float64 {
	return math.Sqrt(a.Dot(a))
}

// Normalize returns a/‖a‖. Returns the zero vector if ‖a‖ is near zero.
func (a Vec3) Normalize() Vec3 {
	n := a.Norm()
	if n < 1e-15 {
		return Vec3{}
	}
	return a.Scale(1 / n)
}

// Array returns the components as a [3]float64, in (x,y,z) order.
func (a Vec3) Array() [3]float64 {
	return [3]float64{a.X, a.Y, a.Z}
}

// FromArray builds a Vec3 from a 3-element slice, ignoring any extra entries.
func FromArray(a []float64) Vec3 {
	return Vec3{X: a[0], Y: a[1], Z: a[2]}
}
