// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/mfagerlund/rotera/geom"

// dirTol is the direction-length guard below which Parallel/Perpendicular
// report a zero residual row rather than dividing by a near-zero norm.
const dirTol = 1e-12

// Parallel constrains two lines' (unnormalized) direction vectors to be
// parallel: (d1×d2)/(‖d1‖‖d2‖) must vanish.
type Parallel struct {
	Id               string
	A1, B1, A2, B2 PointVars
}

var _ Provider = (*Parallel)(nil)

func (p *Parallel) ID() string         { return p.Id }
func (p *Parallel) ResidualCount() int { return 3 }
func (p *Parallel) VariableIndices() []int {
	return []int{
		p.A1[0], p.A1[1], p.A1[2], p.B1[0], p.B1[1], p.B1[2],
		p.A2[0], p.A2[1], p.A2[2], p.B2[0], p.B2[1], p.B2[2],
	}
}

func parallelResidualAndGrad(d1, d2 geom.Vec3) (r geom.Vec3, dRdD1, dRdD2 [3][3]float64) {
	n1, n2 := d1.Norm(), d2.Norm()
	if n1 < dirTol || n2 < dirTol {
		return geom.Vec3{}, [3][3]float64{}, [3][3]float64{}
	}
	denom := n1 * n2
	c := d1.Cross(d2)
	r = c.Scale(1 / denom)

	dCdD1 := negMat(skew(d2))
	dCdD2 := skew(d1)
	dDenomDD1 := d1.Scale(n2 / n1) // gradient row of denom w.r.t. d1
	dDenomDD2 := d2.Scale(n1 / n2)

	carr := c.Array()
	d2sq := denom * denom
	for i := 0; i < 3; i++ {
		dd1 := dDenomDD1.Array()
		dd2 := dDenomDD2.Array()
		for j := 0; j < 3; j++ {
			dRdD1[i][j] = (dCdD1[i][j]*denom - carr[i]*dd1[j]) / d2sq
			dRdD2[i][j] = (dCdD2[i][j]*denom - carr[i]*dd2[j]) / d2sq
		}
	}
	return
}

func (p *Parallel) ComputeResiduals(x []float64) []float64 {
	a1, b1, a2, b2 := vec3At(x, p.A1), vec3At(x, p.B1), vec3At(x, p.A2), vec3At(x, p.B2)
	d1, d2 := b1.Sub(a1), b2.Sub(a2)
	r, _, _ := parallelResidualAndGrad(d1, d2)
	return []float64{r.X, r.Y, r.Z}
}

func (p *Parallel) ComputeJacobian(x []float64) [][]float64 {
	a1, b1, a2, b2 := vec3At(x, p.A1), vec3At(x, p.B1), vec3At(x, p.A2), vec3At(x, p.B2)
	d1, d2 := b1.Sub(a1), b2.Sub(a2)
	_, dRdD1, dRdD2 := parallelResidualAndGrad(d1, d2)
	jac := newJac(3, 12)
	addMat3(jac, 0, 0, negMat(dRdD1)) // dA1 = -dR/dd1
	addMat3(jac, 0, 3, dRdD1)         // dB1 = +dR/dd1
	addMat3(jac, 0, 6, negMat(dRdD2)) // dA2
	addMat3(jac, 0, 9, dRdD2)         // dB2
	return jac
}

// Perpendicular constrains two lines' direction vectors to be
// perpendicular: (d1·d2)/(‖d1‖‖d2‖) must vanish.
type Perpendicular struct {
	Id               string
	A1, B1, A2, B2 PointVars
}

var _ Provider = (*Perpendicular)(nil)

func (p *Perpendicular) ID() string         { return p.Id }
func (p *Perpendicular) ResidualCount() int { return 1 }
func (p *Perpendicular) VariableIndices() []int {
	return []int{
		p.A1[0], p.A1[1], p.A1[2], p.B1[0], p.B1[1], p.B1[2],
		p.A2[0], p.A2[1], p.A2[2], p.B2[0], p.B2[1], p.B2[2],
	}
}

func perpResidualAndGrad(d1, d2 geom.Vec3) (r float64, gD1, gD2 geom.Vec3) {
	n1, n2 := d1.Norm(), d2.Norm()
	if n1 < dirTol || n2 < dirTol {
		return 0, geom.Vec3{}, geom.Vec3{}
	}
	dot := d1.Dot(d2)
	denom := n1 * n2
	r = dot / denom
	gD1 = d2.Scale(1 / denom).Sub(d1.Scale(dot / (n1 * n1 * denom)))
	gD2 = d1.Scale(1 / denom).Sub(d2.Scale(dot / (n2 * n2 * denom)))
	return
}

func (p *Perpendicular) ComputeResiduals(x []float64) []float64 {
	a1, b1, a2, b2 := vec3At(x, p.A1), vec3At(x, p.B1), vec3At(x, p.A2), vec3At(x, p.B2)
	d1, d2 := b1.Sub(a1), b2.Sub(a2)
	r, _, _ := perpResidualAndGrad(d1, d2)
	return []float64{r}
}

func (p *Perpendicular) ComputeJacobian(x []float64) [][]float64 {
	a1, b1, a2, b2 := vec3At(x, p.A1), vec3At(x, p.B1), vec3At(x, p.A2), vec3At(x, p.B2)
	d1, d2 := b1.Sub(a1), b2.Sub(a2)
	_, gD1, gD2 := perpResidualAndGrad(d1, d2)
	jac := newJac(1, 12)
	appendRow3(jac, 0, 0, gD1.Scale(-1))
	appendRow3(jac, 0, 3, gD1)
	appendRow3(jac, 0, 6, gD2.Scale(-1))
	appendRow3(jac, 0, 9, gD2)
	return jac
}
