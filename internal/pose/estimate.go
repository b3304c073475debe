// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package pose

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/relabs-tech/novatel_pose/internal/gps"
)

// DefaultFrameID is the reference frame attached to estimates unless the
// session is configured otherwise.
const DefaultFrameID = "base_link"

// Point is a position in the local frame, meters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Estimate is the pose-with-covariance handed to the sink. Covariances are
// 6x6 row-major over (x, y, z, roll, pitch, yaw).
type Estimate struct {
	Stamp   time.Time `json:"stamp"` // processing time
	FrameID string    `json:"frame_id"`

	// Receiver time from the sentence header, kept alongside Stamp.
	ReceiverTime  time.Time `json:"receiver_time"`
	Week          int       `json:"week"`
	SecondsOfWeek float64   `json:"seconds_of_week"`

	MissionID string `json:"mission_id"`
	Source    string `json:"source"` // log name the fix came from

	Position        Point              `json:"position"`
	Covariance      [Dim * Dim]float64 `json:"covariance"`
	TwistCovariance [Dim * Dim]float64 `json:"twist_covariance"`
}

// Assemble builds the estimate for one fix. It has no side effects.
func Assemble(off Offset, fix gps.Fix, frameID string, stamp time.Time) Estimate {
	return Estimate{
		Stamp:           stamp,
		FrameID:         frameID,
		ReceiverTime:    fix.ReceiverTime(),
		Week:            fix.Week,
		SecondsOfWeek:   fix.SecondsOfWeek,
		MissionID:       off.Origin.MissionID,
		Source:          fix.Message,
		Position:        Point{X: off.X, Y: off.Y, Z: 0},
		Covariance:      Flatten(PoseCovariance(fix.SigmaEasting, fix.SigmaNorthing)),
		TwistCovariance: Flatten(TwistCovariance()),
	}
}

// PoseCovarianceMatrix returns the pose covariance as a matrix.
func (e Estimate) PoseCovarianceMatrix() *mat.SymDense {
	return Unflatten(e.Covariance)
}
