// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/mfagerlund/rotera/numgrad"

// NumericalProvider wraps any Provider and replaces its Jacobian with a
// central-difference approximation, used to validate analytic providers
// against spec.md §8's "Numerical vs analytical Jacobian" property. This is
// the §4.4/§4.9 "numerical_provider wrapper".
type NumericalProvider struct {
	Base Provider
	Eps  float64
}

var _ Provider = (*NumericalProvider)(nil)

func (p *NumericalProvider) ID() string                     { return p.Base.ID() + ":numerical" }
func (p *NumericalProvider) ResidualCount() int              { return p.Base.ResidualCount() }
func (p *NumericalProvider) VariableIndices() []int          { return p.Base.VariableIndices() }
func (p *NumericalProvider) ComputeResiduals(x []float64) []float64 {
	return p.Base.ComputeResiduals(x)
}

func (p *NumericalProvider) ComputeJacobian(x []float64) [][]float64 {
	return numgrad.ProviderJacobian(p.Base, x, p.Eps)
}
