// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// QuatVars is the 4-tuple of column indices a camera's orientation
// quaternion (w,x,y,z) occupies in the global parameter vector.
type QuatVars [4]int

// QuatNorm pulls a camera's orientation quaternion towards unit norm
// during the iteration; write-back renormalizes exactly (spec.md §8).
type QuatNorm struct {
	Id string
	Q  QuatVars
}

var _ Provider = (*QuatNorm)(nil)

func (p *QuatNorm) ID() string         { return p.Id }
func (p *QuatNorm) ResidualCount() int { return 1 }
func (p *QuatNorm) VariableIndices() []int {
	return []int{p.Q[0], p.Q[1], p.Q[2], p.Q[3]}
}

func (p *QuatNorm) ComputeResiduals(x []float64) []float64 {
	w, qx, qy, qz := x[p.Q[0]], x[p.Q[1]], x[p.Q[2]], x[p.Q[3]]
	return []float64{w*w + qx*qx + qy*qy + qz*qz - 1}
}

func (p *QuatNorm) ComputeJacobian(x []float64) [][]float64 {
	w, qx, qy, qz := x[p.Q[0]], x[p.Q[1]], x[p.Q[2]], x[p.Q[3]]
	return [][]float64{{2 * w, 2 * qx, 2 * qy, 2 * qz}}
}
