// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rotera is the sparse Levenberg-Marquardt optimization core for
// photogrammetry/bundle-adjustment projects (spec.md §1-§2). It exposes
// three entry points (spec.md §6): Optimize, CheckReadiness, and
// ExportToOptimizationDTO.
package rotera

import (
	"github.com/mfagerlund/rotera/adapter"
	"github.com/mfagerlund/rotera/export"
	"github.com/mfagerlund/rotera/readiness"
	"github.com/mfagerlund/rotera/scene"
)

// OptimizeResult is spec.md §6.1's result record.
type OptimizeResult struct {
	Converged   bool
	Iterations  int
	InitialCost float64
	FinalCost   float64
}

// Optimize runs the full adapter pipeline of spec.md §4.8 against proj:
// layout, provider construction, sparse Levenberg-Marquardt solve, and
// write-back on success. Entities are left untouched if the solve does
// not converge (spec.md §7's "write-back only runs on success").
func Optimize(proj *scene.Project, opts scene.Options) OptimizeResult {
	res := adapter.Run(proj, opts)
	return OptimizeResult{
		Converged:   res.Solve.Converged,
		Iterations:  res.Solve.Iterations,
		InitialCost: res.Solve.InitialCost,
		FinalCost:   res.Solve.FinalCost,
	}
}

// CheckReadiness runs the pre-flight check of spec.md §4.9 without
// solving.
func CheckReadiness(proj *scene.Project) readiness.Report {
	return readiness.Check(proj)
}

// ExportToOptimizationDTO serializes proj into the self-contained DTO of
// spec.md §6.3.
func ExportToOptimizationDTO(proj *scene.Project, exportedAt string) export.DTO {
	return export.Build(proj, exportedAt)
}
