// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene holds the domain entities the optimization core operates
// on: world points, cameras, lines, tagged constraints, image points, and
// vanishing-line observations. Struct tags follow gofem's
// inp.Simulation JSON-configuration convention.
package scene

// Axis3 is a per-axis lock: a world-point coordinate is either free or
// locked to a fixed value.
type Axis3 struct {
	Locked bool    `json:"locked"`
	Value  float64 `json:"value"`
}

// WorldPoint is a 3D point participating in constraints and reprojection.
type WorldPoint struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Effective     [3]float64 `json:"effective_xyz"`
	Locks         [3]Axis3   `json:"locks"`
	OptimizedXYZ  [3]float64 `json:"optimized_xyz"`
	Color         string     `json:"color"`
	Visible       bool       `json:"visible"`
}

// Intrinsics mirrors ele.Intrinsics in the entity layer's own vocabulary,
// so the scene package does not need to import ele.
type Intrinsics struct {
	FocalLength float64 `json:"focal_length"`
	AspectRatio float64 `json:"aspect_ratio"`
	Cx          float64 `json:"cx"`
	Cy          float64 `json:"cy"`
	Skew        float64 `json:"skew"`
	K1          float64 `json:"k1"`
	K2          float64 `json:"k2"`
	K3          float64 `json:"k3"`
	P1          float64 `json:"p1"`
	P2          float64 `json:"p2"`
}

// Extrinsics is a camera's position and orientation.
type Extrinsics struct {
	Position [3]float64 `json:"position"`
	Quat     [4]float64 `json:"quat"` // (w,x,y,z)
}

// Camera is a calibrated viewpoint.
type Camera struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	ImageWidth   int        `json:"image_width"`
	ImageHeight  int        `json:"image_height"`
	Intr         Intrinsics `json:"intrinsics"`
	Ext          Extrinsics `json:"extrinsics"`
	ZReflected   bool       `json:"z_reflected"`
	PoseLocked   bool       `json:"pose_locked"`
}

// ImagePoint is an observed pixel location of a world point in a camera.
type ImagePoint struct {
	ID         string  `json:"id"`
	CameraID   string  `json:"camera_id"`
	PointID    string  `json:"point_id"`
	U, V       float64 `json:"u_v"`
	Visible    bool    `json:"visible"`
	Confidence float64 `json:"confidence"` // in [0,1]
}

// DirectionKind names a line's optional direction constraint.
type DirectionKind string

const (
	DirFree DirectionKind = "free"
	DirX    DirectionKind = "x"
	DirY    DirectionKind = "y"
	DirZ    DirectionKind = "z"
	DirXY   DirectionKind = "xy"
	DirXZ   DirectionKind = "xz"
	DirYZ   DirectionKind = "yz"
)

// Line is two endpoint world points plus optional direction/length
// constraints and coincident points.
type Line struct {
	ID               string        `json:"id"`
	A, B             string        `json:"a_b"` // world point ids
	Direction        DirectionKind `json:"direction"`
	TargetLength     float64       `json:"target_length"`
	HasTargetLength  bool          `json:"has_target_length"`
	LengthTolerance  float64       `json:"length_tolerance"`
	CoincidentPoints []string      `json:"coincident_points"` // world point ids
}

// ConstraintKind tags the variant of a standalone Constraint entity.
type ConstraintKind string

const (
	ConstraintDistance ConstraintKind = "distance"
	ConstraintAngle    ConstraintKind = "angle"
	ConstraintCoplanar ConstraintKind = "coplanar"
)

// Constraint is a standalone, tagged constraint entity. Only the fields
// relevant to Kind are meaningful.
type Constraint struct {
	ID        string         `json:"id"`
	Kind      ConstraintKind `json:"kind"`
	IsEnabled bool           `json:"is_enabled"`

	// distance
	PA, PB string  `json:"pa_pb"`
	Target float64 `json:"target"`

	// angle (reuses PA as one ray endpoint)
	Vertex string `json:"vertex"`
	PC     string `json:"pc"`

	// coplanar
	P0, P1, P2, P3 string `json:"p0_p1_p2_p3"`
}

// PrincipalAxisName names a world axis for a vanishing-line observation.
type PrincipalAxisName string

const (
	PrincipalAxisX PrincipalAxisName = "x"
	PrincipalAxisY PrincipalAxisName = "y"
	PrincipalAxisZ PrincipalAxisName = "z"
)

// VanishingObservation is a principal axis plus an observed vanishing
// point in a given camera.
type VanishingObservation struct {
	ID       string            `json:"id"`
	CameraID string            `json:"camera_id"`
	Axis     PrincipalAxisName `json:"axis"`
	VpU, VpV float64           `json:"vp_u_v"`
	Weight   float64           `json:"weight"`
}

// Options configures a single optimize(...) run.
type Options struct {
	MaxIterations      int     `json:"max_iterations"`
	Tolerance          float64 `json:"tolerance"`
	GradientTolerance  float64 `json:"gradient_tolerance"`
	OptimizePose       bool    `json:"optimize_pose"`
	OptimizeIntrinsics bool    `json:"optimize_intrinsics"`
	Verbose            bool    `json:"verbose"`
	InitialDamping     float64 `json:"initial_damping"`
	IncreaseFactor     float64 `json:"increase_factor"`
	DecreaseFactor     float64 `json:"decrease_factor"`
	MinDamping         float64 `json:"min_damping"`
	MaxDamping         float64 `json:"max_damping"`
}

// DefaultOptions returns the documented option defaults.
func DefaultOptions() Options {
	return Options{
		MaxIterations:      500,
		Tolerance:          1e-8,
		GradientTolerance:  1e-8,
		OptimizePose:       true,
		OptimizeIntrinsics: false,
		InitialDamping:     1e-3,
		IncreaseFactor:     10,
		DecreaseFactor:     0.1,
		MinDamping:         1e-10,
		MaxDamping:         1e10,
	}
}

// Project bundles everything the optimization core, the readiness
// checker, and the export pipeline operate on.
type Project struct {
	WorldPoints []*WorldPoint
	Lines       []*Line
	Cameras     []*Camera
	ImagePoints []*ImagePoint
	Constraints []*Constraint
	Vanishing   []*VanishingObservation
}
