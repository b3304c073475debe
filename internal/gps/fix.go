// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"math"
	"time"
)

// Fix is a single decoded receiver solution expressed in UTM, whatever
// sentence it came from. Geodetic solutions are projected before they
// become a Fix.
type Fix struct {
	Message string `json:"message"` // sentence name, e.g. "BESTUTMA"

	Status SolutionStatus `json:"status"`
	Type   SolutionType   `json:"type"`

	Zone       int    `json:"zone"`        // UTM longitudinal zone, 1..60
	ZoneLetter string `json:"zone_letter"` // UTM latitude band

	Easting  float64 `json:"easting"`  // meters
	Northing float64 `json:"northing"` // meters
	Height   float64 `json:"height"`   // meters above mean sea level

	SigmaEasting  float64 `json:"sigma_easting"`  // standard deviation, meters
	SigmaNorthing float64 `json:"sigma_northing"` // standard deviation, meters
	SigmaHeight   float64 `json:"sigma_height"`   // standard deviation, meters

	Week          int     `json:"week"`            // GPS reference week from the header
	SecondsOfWeek float64 `json:"seconds_of_week"` // seconds into the week
	Satellites    int     `json:"satellites"`      // satellites used in the solution
}

// Trustworthy reports whether the fix passes the solution quality gate.
func (f Fix) Trustworthy() bool {
	return f.Status == SolComputed && f.Type == OmniSTARHP
}

// Northern reports whether the fix lies in a northern latitude band (N-X).
// Southern bands carry the 10,000,000 m false northing.
func (f Fix) Northern() bool {
	return f.ZoneLetter >= "N"
}

// Epoch is the start of GPS week 0.
var Epoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

const weekDuration = 7 * 24 * time.Hour

// ReceiverTime converts the header's GPS week and seconds-of-week to a
// time.Time. Leap seconds are not applied, so the result is GPS time
// labelled as UTC.
func (f Fix) ReceiverTime() time.Time {
	return WeekTime(f.Week, f.SecondsOfWeek)
}

// WeekTime returns the instant sow seconds into GPS week.
func WeekTime(week int, sow float64) time.Time {
	d := time.Duration(math.Round(sow * float64(time.Second)))
	return Epoch.AddDate(0, 0, 7*week).Add(d)
}

// WeekOf splits t into GPS week and seconds of week, ignoring leap seconds.
// It is the inverse of WeekTime.
func WeekOf(t time.Time) (int, float64) {
	d := t.Sub(Epoch)
	w := int(d / weekDuration)
	sow := (d - time.Duration(w)*weekDuration).Seconds()
	return w, sow
}
