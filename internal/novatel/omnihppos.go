// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package novatel

import (
	"fmt"

	UTM "github.com/im7mortal/UTM"

	"github.com/relabs-tech/novatel_pose/internal/gps"
)

// OMNIHPPOSA payload indices.
const (
	geoLatitude       = 2
	geoLongitude      = 3
	geoHeight         = 4
	geoSigmaLatitude  = 7
	geoSigmaLongitude = 8
	geoSigmaHeight    = 9
	geoSolutionSVs    = 14
	omniHPFieldCount  = 21
)

// OmniHPPos is the layout of the OMNIHPPOSA log: OmniSTAR HP geodetic
// position. The solution is projected to UTM so it shares the BESTUTMA
// representation.
var OmniHPPos = Layout{
	Name:          "OMNIHPPOSA",
	HeaderFields:  HeaderFields,
	PayloadFields: omniHPFieldCount,
	Parse:         parseOmniHPPos,
}

func parseOmniHPPos(_ Header, p []string) (gps.Fix, error) {
	var (
		fix gps.Fix
		err error
	)

	// UTM is undefined beyond these latitudes.
	lat, err := parseRange("latitude", p[geoLatitude], -80, 84)
	if err != nil {
		return gps.Fix{}, err
	}
	lon, err := parseRange("longitude", p[geoLongitude], -180, 180)
	if err != nil {
		return gps.Fix{}, err
	}
	if fix.Height, err = parseFinite("height", p[geoHeight]); err != nil {
		return gps.Fix{}, err
	}

	// Latitude/longitude sigmas are reported in meters, so they map
	// directly onto northing/easting.
	if fix.SigmaNorthing, err = parseSigma("latitude sigma", p[geoSigmaLatitude]); err != nil {
		return gps.Fix{}, err
	}
	if fix.SigmaEasting, err = parseSigma("longitude sigma", p[geoSigmaLongitude]); err != nil {
		return gps.Fix{}, err
	}
	if fix.SigmaHeight, err = parseSigma("height sigma", p[geoSigmaHeight]); err != nil {
		return gps.Fix{}, err
	}
	if fix.Satellites, err = parseInt("solution satellites", p[geoSolutionSVs]); err != nil {
		return gps.Fix{}, err
	}

	// northern=true would replace the band letter with "N"; the false
	// northing is applied from the latitude sign either way.
	fix.Easting, fix.Northing, fix.Zone, fix.ZoneLetter, err = UTM.FromLatLon(lat, lon, false)
	if err != nil {
		return gps.Fix{}, fmt.Errorf("%w: utm projection: %v", ErrInvalidFieldValue, err)
	}

	return fix, nil
}
