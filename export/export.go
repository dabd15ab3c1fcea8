// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package export serializes a project into the self-contained DTO of
// spec.md §6.3, following gofem's inp.Simulation JSON-tagged
// configuration convention (encoding/json struct tags, no custom codec).
package export

import "github.com/mfagerlund/rotera/scene"

// WorldPointDTO is a world point with null slots (via pointer) for free
// axes, matching spec.md §6.3's "xyz with null slots for free axes".
type WorldPointDTO struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	X          *float64    `json:"x"`
	Y          *float64    `json:"y"`
	Z          *float64    `json:"z"`
	Color      string      `json:"color"`
	Visible    bool        `json:"visible"`
}

// LineDTO mirrors scene.Line for export.
type LineDTO struct {
	ID               string   `json:"id"`
	A                string   `json:"a"`
	B                string   `json:"b"`
	Direction        string   `json:"direction"`
	TargetLength     *float64 `json:"target_length,omitempty"`
	Tolerance        float64  `json:"tolerance,omitempty"`
	CoincidentPoints []string `json:"coincident_points,omitempty"`
}

// CameraDTO mirrors scene.Camera for export.
type CameraDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	ImageWidth  int               `json:"image_width"`
	ImageHeight int               `json:"image_height"`
	Intrinsics  scene.Intrinsics  `json:"intrinsics"`
	Extrinsics  scene.Extrinsics  `json:"extrinsics"`
	ZReflected  bool              `json:"z_reflected"`
	PoseLocked  bool              `json:"pose_locked"`
}

// ImagePointDTO is one observation, grouped by camera in DTO.ImagePoints.
type ImagePointDTO struct {
	PointID string  `json:"point_id"`
	U       float64 `json:"u"`
	V       float64 `json:"v"`
}

// CameraObservationsDTO groups observations by camera.
type CameraObservationsDTO struct {
	CameraID string          `json:"camera_id"`
	Points   []ImagePointDTO `json:"points"`
}

// ConstraintDTO is a tagged constraint record.
type ConstraintDTO struct {
	ID     string                 `json:"id"`
	Kind   string                 `json:"kind"`
	Params map[string]interface{} `json:"params"`
}

// Stats is the DTO's summary-statistics block.
type Stats struct {
	WorldPointCount  int `json:"world_point_count"`
	LineCount        int `json:"line_count"`
	CameraCount      int `json:"camera_count"`
	ImagePointCount  int `json:"image_point_count"`
	ConstraintCount  int `json:"constraint_count"`
}

// DTO is the complete self-contained export record of spec.md §6.3.
type DTO struct {
	Version       string                  `json:"version"`
	ExportedAt    string                  `json:"exported_at"`
	WorldPoints   []WorldPointDTO         `json:"world_points"`
	Lines         []LineDTO               `json:"lines"`
	Cameras       []CameraDTO             `json:"cameras"`
	ImagePoints   []CameraObservationsDTO `json:"image_points"`
	Constraints   []ConstraintDTO         `json:"constraints"`
	Stats         Stats                   `json:"stats"`
}

// dtoVersion is the DTO schema version this package emits.
const dtoVersion = "1.0"

// Build assembles a DTO from proj. exportedAt is passed in by the caller
// (an RFC3339 timestamp) rather than stamped internally, keeping this
// package's output deterministic and testable.
func Build(proj *scene.Project, exportedAt string) DTO {
	dto := DTO{Version: dtoVersion, ExportedAt: exportedAt}

	for _, p := range proj.WorldPoints {
		wp := WorldPointDTO{ID: p.ID, Name: p.Name, Color: p.Color, Visible: p.Visible}
		axes := [3]**float64{&wp.X, &wp.Y, &wp.Z}
		for axis := 0; axis < 3; axis++ {
			if p.Locks[axis].Locked {
				v := p.Locks[axis].Value
				*axes[axis] = &v
			}
		}
		dto.WorldPoints = append(dto.WorldPoints, wp)
	}

	for _, ln := range proj.Lines {
		dl := LineDTO{
			ID:               ln.ID,
			A:                ln.A,
			B:                ln.B,
			Direction:        string(ln.Direction),
			Tolerance:        ln.LengthTolerance,
			CoincidentPoints: ln.CoincidentPoints,
		}
		if ln.HasTargetLength {
			v := ln.TargetLength
			dl.TargetLength = &v
		}
		dto.Lines = append(dto.Lines, dl)
	}

	for _, c := range proj.Cameras {
		dto.Cameras = append(dto.Cameras, CameraDTO{
			ID: c.ID, Name: c.Name, ImageWidth: c.ImageWidth, ImageHeight: c.ImageHeight,
			Intrinsics: c.Intr, Extrinsics: c.Ext, ZReflected: c.ZReflected, PoseLocked: c.PoseLocked,
		})
	}

	grouped := make(map[string][]ImagePointDTO)
	var camOrder []string
	seen := make(map[string]bool)
	for _, obs := range proj.ImagePoints {
		if !seen[obs.CameraID] {
			seen[obs.CameraID] = true
			camOrder = append(camOrder, obs.CameraID)
		}
		grouped[obs.CameraID] = append(grouped[obs.CameraID], ImagePointDTO{PointID: obs.PointID, U: obs.U, V: obs.V})
	}
	for _, camID := range camOrder {
		dto.ImagePoints = append(dto.ImagePoints, CameraObservationsDTO{CameraID: camID, Points: grouped[camID]})
	}

	for _, c := range proj.Constraints {
		cd := ConstraintDTO{ID: c.ID, Kind: string(c.Kind), Params: map[string]interface{}{}}
		switch c.Kind {
		case scene.ConstraintDistance:
			cd.Params["pa"], cd.Params["pb"], cd.Params["target"] = c.PA, c.PB, c.Target
		case scene.ConstraintAngle:
			cd.Params["pa"], cd.Params["vertex"], cd.Params["pc"], cd.Params["target"] = c.PA, c.Vertex, c.PC, c.Target
		case scene.ConstraintCoplanar:
			cd.Params["p0"], cd.Params["p1"], cd.Params["p2"], cd.Params["p3"] = c.P0, c.P1, c.P2, c.P3
		}
		dto.Constraints = append(dto.Constraints, cd)
	}

	dto.Stats = Stats{
		WorldPointCount: len(proj.WorldPoints),
		LineCount:       len(proj.Lines),
		CameraCount:     len(proj.Cameras),
		ImagePointCount: len(proj.ImagePoints),
		ConstraintCount: len(proj.Constraints),
	}
	return dto
}
