// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

// Quality is the signal-quality summary taken from the NMEA GGA sentences
// the receiver interleaves with its NovAtel logs. It is published for
// monitoring only; it never feeds the pose.
type Quality struct {
	Time       string  `json:"time"`        // e.g. "12:34:56.0000"
	FixQuality string  `json:"fix_quality"` // "0" invalid, "1" GPS, "2" DGPS, ...
	Satellites int64   `json:"satellites"`
	HDOP       float64 `json:"hdop"`
	AltitudeM  float64 `json:"altitude_m"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
}

// ParseQuality decodes a single NMEA line. ok is false for valid sentences
// that carry no quality information (anything other than GGA).
func ParseQuality(line string) (q Quality, ok bool, err error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return Quality{}, false, fmt.Errorf("nmea: missing '$'")
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return Quality{}, false, fmt.Errorf("nmea: %w", err)
	}

	switch sentence.DataType() {
	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		return Quality{
			Time:       m.Time.String(),
			FixQuality: m.FixQuality,
			Satellites: m.NumSatellites,
			HDOP:       m.HDOP,
			AltitudeM:  m.Altitude,
			Latitude:   m.Latitude,
			Longitude:  m.Longitude,
		}, true, nil
	default:
		// RMC, GSA, GSV and friends are accepted but ignored.
		return Quality{}, false, nil
	}
}
