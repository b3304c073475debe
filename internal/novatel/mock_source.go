// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package novatel

import (
	"math"
	"strconv"
	"time"

	"github.com/relabs-tech/novatel_pose/internal/gps"
)

type mockSource struct {
	start    time.Time
	now      func() time.Time
	easting  float64
	northing float64
}

// NewMockSource creates a mock receiver that emits trustworthy BESTUTMA
// logs tracing a 10 m circle around (easting, northing), one revolution per
// minute. Useful for bench tests without an antenna.
func NewMockSource(easting, northing float64) Source {
	return newMockSource(easting, northing, time.Now)
}

func newMockSource(easting, northing float64, now func() time.Time) *mockSource {
	return &mockSource{start: now(), now: now, easting: easting, northing: northing}
}

func (m *mockSource) Next() (string, error) {
	t := m.now()
	elapsed := t.Sub(m.start).Seconds()
	angle := 2 * math.Pi * elapsed / 60

	week, sow := gps.WeekOf(t)

	header := []string{
		"BESTUTMA", "COM1", "0", "50.0", "FINESTEERING",
		strconv.Itoa(week), strconv.FormatFloat(math.Floor(sow*1000)/1000, 'f', 3, 64),
		"00000000", "eb16", "6302",
	}
	payload := []string{
		"SOL_COMPUTED", "OMNISTAR_HP", "17", "T",
		ftoa(m.northing+10*math.Sin(angle)),
		ftoa(m.easting+10*math.Cos(angle)),
		"284.4611", "-35.0000", "WGS84",
		"0.0984", "0.4398", "0.1960",
		`"1001"`, "4.000", "0.000",
		"15", "8", "8", "8", "0", "00", "0", "03",
	}
	return Format(header, payload) + "\r\n", nil
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
