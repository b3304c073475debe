// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package novatel

import (
	"fmt"

	"github.com/relabs-tech/novatel_pose/internal/gps"
)

// BESTUTMA payload indices (OEM4/OEMV firmware).
const (
	utmZoneNumber     = 2
	utmZoneLetter     = 3
	utmNorthing       = 4
	utmEasting        = 5
	utmHeight         = 6
	utmSigmaNorthing  = 9
	utmSigmaEasting   = 10
	utmSigmaHeight    = 11
	utmSolutionSVs    = 16
	bestUTMFieldCount = 23
)

// BestUTM is the layout of the BESTUTMA log: best available position
// projected to UTM.
var BestUTM = Layout{
	Name:          "BESTUTMA",
	HeaderFields:  HeaderFields,
	PayloadFields: bestUTMFieldCount,
	Parse:         parseBestUTM,
}

func parseBestUTM(_ Header, p []string) (gps.Fix, error) {
	var (
		fix gps.Fix
		err error
	)

	if fix.Zone, err = parseInt("zone number", p[utmZoneNumber]); err != nil {
		return gps.Fix{}, err
	}
	if fix.Zone < 1 || fix.Zone > 60 {
		return gps.Fix{}, fmt.Errorf("%w: zone number %d outside 1..60", ErrInvalidFieldValue, fix.Zone)
	}
	if !validZoneLetter(p[utmZoneLetter]) {
		return gps.Fix{}, fmt.Errorf("%w: zone letter %q", ErrInvalidFieldValue, p[utmZoneLetter])
	}
	fix.ZoneLetter = p[utmZoneLetter]

	if fix.Northing, err = parseFinite("northing", p[utmNorthing]); err != nil {
		return gps.Fix{}, err
	}
	if fix.Easting, err = parseFinite("easting", p[utmEasting]); err != nil {
		return gps.Fix{}, err
	}
	if fix.Height, err = parseFinite("height", p[utmHeight]); err != nil {
		return gps.Fix{}, err
	}
	if fix.SigmaNorthing, err = parseSigma("northing sigma", p[utmSigmaNorthing]); err != nil {
		return gps.Fix{}, err
	}
	if fix.SigmaEasting, err = parseSigma("easting sigma", p[utmSigmaEasting]); err != nil {
		return gps.Fix{}, err
	}
	if fix.SigmaHeight, err = parseSigma("height sigma", p[utmSigmaHeight]); err != nil {
		return gps.Fix{}, err
	}
	if fix.Satellites, err = parseInt("solution satellites", p[utmSolutionSVs]); err != nil {
		return gps.Fix{}, err
	}

	return fix, nil
}

// validZoneLetter accepts the UTM latitude bands C..X (I and O unused).
func validZoneLetter(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return c >= 'C' && c <= 'X' && c != 'I' && c != 'O'
}
