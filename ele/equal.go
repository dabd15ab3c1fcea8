// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/mfagerlund/rotera/geom"

// PointPair is one endpoint pair for an EqualDistances provider.
type PointPair struct {
	A, B PointVars
}

// EqualDistances drives n-1 pairwise distances to match the first pair's
// distance: residual_i = dist(pair[i+1]) - dist(pair[0]).
type EqualDistances struct {
	Id    string
	Pairs []PointPair
}

var _ Provider = (*EqualDistances)(nil)

func (p *EqualDistances) ID() string         { return p.Id }
func (p *EqualDistances) ResidualCount() int { return len(p.Pairs) - 1 }

func (p *EqualDistances) VariableIndices() []int {
	idx := make([]int, 0, 6*len(p.Pairs))
	for _, pr := range p.Pairs {
		idx = append(idx, pr.A[0], pr.A[1], pr.A[2], pr.B[0], pr.B[1], pr.B[2])
	}
	return idx
}

func (p *EqualDistances) ComputeResiduals(x []float64) []float64 {
	base, _, _ := distanceGrad(vec3At(x, p.Pairs[0].A), vec3At(x, p.Pairs[0].B))
	r := make([]float64, len(p.Pairs)-1)
	for i := 1; i < len(p.Pairs); i++ {
		d, _, _ := distanceGrad(vec3At(x, p.Pairs[i].A), vec3At(x, p.Pairs[i].B))
		r[i-1] = d - base
	}
	return r
}

func (p *EqualDistances) ComputeJacobian(x []float64) [][]float64 {
	n := len(p.Pairs)
	r := n - 1
	jac := newJac(r, 6*n)
	_, gA0, gB0 := distanceGrad(vec3At(x, p.Pairs[0].A), vec3At(x, p.Pairs[0].B))
	for i := 1; i < n; i++ {
		_, gAi, gBi := distanceGrad(vec3At(x, p.Pairs[i].A), vec3At(x, p.Pairs[i].B))
		row := i - 1
		addRow3(jac, row, 6*i, gAi)
		addRow3(jac, row, 6*i+3, gBi)
		addRow3(jac, row, 0, gA0.Scale(-1))
		addRow3(jac, row, 3, gB0.Scale(-1))
	}
	return jac
}

// AnglePoints is one (pA, vertex, pC) triplet for an EqualAngles provider.
type AnglePoints struct {
	A, Vertex, C PointVars
}

// EqualAngles drives n-1 angles to match the first triplet's angle.
type EqualAngles struct {
	Id       string
	Triplets []AnglePoints
}

var _ Provider = (*EqualAngles)(nil)

func (p *EqualAngles) ID() string         { return p.Id }
func (p *EqualAngles) ResidualCount() int { return len(p.Triplets) - 1 }

func (p *EqualAngles) VariableIndices() []int {
	idx := make([]int, 0, 9*len(p.Triplets))
	for _, t := range p.Triplets {
		idx = append(idx, t.A[0], t.A[1], t.A[2], t.Vertex[0], t.Vertex[1], t.Vertex[2], t.C[0], t.C[1], t.C[2])
	}
	return idx
}

func tripletAngle(x []float64, t AnglePoints) (angle float64, gA, gVertex, gC geom.Vec3) {
	a, vert, c := vec3At(x, t.A), vec3At(x, t.Vertex), vec3At(x, t.C)
	u := a.Sub(vert)
	v := c.Sub(vert)
	ang, gU, gV := angleAndGrad(u, v)
	return ang, gU, gU.Add(gV).Scale(-1), gV
}

func (p *EqualAngles) ComputeResiduals(x []float64) []float64 {
	base, _, _, _ := tripletAngle(x, p.Triplets[0])
	r := make([]float64, len(p.Triplets)-1)
	for i := 1; i < len(p.Triplets); i++ {
		ang, _, _, _ := tripletAngle(x, p.Triplets[i])
		r[i-1] = ang - base
	}
	return r
}

func (p *EqualAngles) ComputeJacobian(x []float64) [][]float64 {
	n := len(p.Triplets)
	r := n - 1
	jac := newJac(r, 9*n)
	_, gA0, gV0, gC0 := tripletAngle(x, p.Triplets[0])
	for i := 1; i < n; i++ {
		_, gAi, gVi, gCi := tripletAngle(x, p.Triplets[i])
		row := i - 1
		addRow3(jac, row, 9*i, gAi)
		addRow3(jac, row, 9*i+3, gVi)
		addRow3(jac, row, 9*i+6, gCi)
		addRow3(jac, row, 0, gA0.Scale(-1))
		addRow3(jac, row, 3, gV0.Scale(-1))
		addRow3(jac, row, 6, gC0.Scale(-1))
	}
	return jac
}
