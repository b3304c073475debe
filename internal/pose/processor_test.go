// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package pose

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/novatel_pose/internal/monitoring"
	"github.com/relabs-tech/novatel_pose/internal/novatel"
)

const sampleBestUTM = `#BESTUTMA,COM3,0,25.5,FINESTEERING,1638,515217.200,00000000,eb16,6302;SOL_COMPUTED,OMNISTAR_HP,17,T,4727502.1668,320079.3993,284.4611,-35.0000,WGS84,0.0984,0.4398,0.1960,"1001",4.000,0.000,15,8,8,8,0,00,0,03*11855669`

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

// utmSentence builds a valid BESTUTMA sentence for the given solution.
func utmSentence(status, solType, zone, northing, easting, sigmaN, sigmaE string) string {
	header := []string{"BESTUTMA", "COM3", "0", "25.5", "FINESTEERING", "1638", "515217.200", "00000000", "eb16", "6302"}
	payload := []string{
		status, solType, zone, "T", northing, easting, "284.4611", "-35.0000", "WGS84",
		sigmaN, sigmaE, "0.1960", `"1001"`, "4.000", "0.000", "15", "8", "8", "8", "0", "00", "0", "03",
	}
	return novatel.Format(header, payload)
}

func goodSentence(northing, easting string) string {
	return utmSentence("SOL_COMPUTED", "OMNISTAR_HP", "17", northing, easting, "0.0984", "0.4398")
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func mustFloat(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return v
}

func TestProcess_CapturedSentenceTwice(t *testing.T) {
	p := NewProcessor(WithClock(fixedClock()))

	est, err := p.Process(sampleBestUTM + "\r\n")
	require.NoError(t, err)
	assert.Nil(t, est)

	origin, ok := p.Origin()
	require.True(t, ok)
	assert.Equal(t, 320079.3993, origin.Easting)
	assert.Equal(t, 4727502.1668, origin.Northing)
	assert.Equal(t, Initialized, p.State())

	est, err = p.Process(sampleBestUTM)
	require.NoError(t, err)
	require.NotNil(t, est)
	assert.Equal(t, Point{X: 0, Y: 0, Z: 0}, est.Position)
	assert.Equal(t, DefaultFrameID, est.FrameID)
	assert.Equal(t, origin.MissionID, est.MissionID)
	assert.Equal(t, "BESTUTMA", est.Source)
	assert.Equal(t, fixedClock()(), est.Stamp)
	assert.Equal(t, 1638, est.Week)
	assert.Equal(t, time.Date(2011, 6, 3, 23, 6, 57, 200e6, time.UTC), est.ReceiverTime)
}

func TestProcess_OffsetFromOrigin(t *testing.T) {
	tests := []struct {
		name      string
		first     [2]string // northing, easting
		second    [2]string
		wantXSign int
	}{
		{"east and north", [2]string{"4727502.1668", "320079.3993"}, [2]string{"4727510.0001", "320090.1234"}, 1},
		{"west and south", [2]string{"4727502.1668", "320079.3993"}, [2]string{"4727490.5000", "320070.0000"}, -1},
		{"large move", [2]string{"4000000.0000", "500000.0000"}, [2]string{"4001234.5678", "498765.4321"}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor()

			est, err := p.Process(goodSentence(tt.first[0], tt.first[1]))
			require.NoError(t, err)
			require.Nil(t, est)

			est, err = p.Process(goodSentence(tt.second[0], tt.second[1]))
			require.NoError(t, err)
			require.NotNil(t, est)

			wantX := mustFloat(t, tt.second[1]) - mustFloat(t, tt.first[1])
			wantY := mustFloat(t, tt.second[0]) - mustFloat(t, tt.first[0])
			assert.Equal(t, wantX, est.Position.X)
			assert.Equal(t, wantY, est.Position.Y)
			assert.Zero(t, est.Position.Z)
			if tt.wantXSign > 0 {
				assert.Positive(t, est.Position.X)
			} else {
				assert.Negative(t, est.Position.X)
			}
		})
	}
}

func TestProcess_Covariance(t *testing.T) {
	p := NewProcessor()
	_, err := p.Process(goodSentence("4727502.1668", "320079.3993"))
	require.NoError(t, err)

	est, err := p.Process(utmSentence("SOL_COMPUTED", "OMNISTAR_HP", "17", "4727503.0", "320080.0", "0.5", "2.0"))
	require.NoError(t, err)
	require.NotNil(t, est)

	want := [Dim * Dim]float64{}
	want[AxisX*Dim+AxisX] = 4.0  // sigma easting squared
	want[AxisY*Dim+AxisY] = 0.25 // sigma northing squared
	for _, axis := range []int{AxisZ, AxisRoll, AxisPitch, AxisYaw} {
		want[axis*Dim+axis] = UnknownVariance
	}
	if diff := cmp.Diff(want, est.Covariance); diff != "" {
		t.Errorf("pose covariance mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, IsDiagonal(est.PoseCovarianceMatrix()))
	assert.True(t, IsDiagonal(Unflatten(est.TwistCovariance)))
}

func TestProcess_Rejections(t *testing.T) {
	good := goodSentence("4727502.1668", "320079.3993")
	corrupted := good[:len(good)-1] + "x"

	tests := []struct {
		name string
		line string
		want error
	}{
		{"malformed", "#BESTUTMA,COM3;a;b*00000000", novatel.ErrMalformedSentence},
		{"checksum", good[:len(good)-8] + "00000000", novatel.ErrChecksumMismatch},
		{"checksum not hex", corrupted, novatel.ErrMalformedSentence},
		{"unsupported", novatel.Format([]string{"RANGEA", "COM3"}, []string{"1"}), novatel.ErrUnsupportedMessageType},
		{"field count", novatel.Format([]string{"BESTUTMA", "COM3"}, []string{"SOL_COMPUTED"}), novatel.ErrFieldCountMismatch},
		{"invalid value", utmSentence("SOL_COMPUTED", "OMNISTAR_HP", "17", "north", "320079.3993", "0.1", "0.1"), novatel.ErrInvalidFieldValue},
		{"untrustworthy status", utmSentence("INSUFFICIENT_OBS", "OMNISTAR_HP", "17", "4727502.1668", "320079.3993", "0.1", "0.1"), novatel.ErrUntrustworthyFix},
		{"untrustworthy type", utmSentence("SOL_COMPUTED", "SINGLE", "17", "4727502.1668", "320079.3993", "0.1", "0.1"), novatel.ErrUntrustworthyFix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor()
			est, err := p.Process(tt.line)
			assert.Nil(t, est)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, Uninitialized, p.State())

			// The stream carries on after any rejection.
			_, err = p.Process(good)
			require.NoError(t, err)
			assert.Equal(t, Initialized, p.State())
		})
	}
}

func TestProcess_UntrustworthyLeavesOriginAlone(t *testing.T) {
	p := NewProcessor()
	_, err := p.Process(goodSentence("4727502.1668", "320079.3993"))
	require.NoError(t, err)
	before, _ := p.Origin()

	_, err = p.Process(utmSentence("SOL_COMPUTED", "PSRDIFF", "17", "1.0", "2.0", "0.1", "0.1"))
	assert.ErrorIs(t, err, novatel.ErrUntrustworthyFix)

	after, ok := p.Origin()
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestProcess_BlankLines(t *testing.T) {
	p := NewProcessor()
	for _, line := range []string{"", "\r\n", "   "} {
		est, err := p.Process(line)
		assert.NoError(t, err)
		assert.Nil(t, est)
	}
	assert.Equal(t, Uninitialized, p.State())
}

func TestProcess_ZoneMismatch(t *testing.T) {
	p := NewProcessor()
	_, err := p.Process(goodSentence("4727502.1668", "320079.3993"))
	require.NoError(t, err)

	est, err := p.Process(utmSentence("SOL_COMPUTED", "OMNISTAR_HP", "18", "4727502.1668", "680000.0000", "0.1", "0.1"))
	assert.Nil(t, est)
	assert.ErrorIs(t, err, novatel.ErrZoneMismatch)
	assert.Equal(t, novatel.ReasonZoneMismatch, novatel.Reason(err))
}

func TestResetOrigin(t *testing.T) {
	p := NewProcessor()
	_, err := p.Process(goodSentence("4727502.1668", "320079.3993"))
	require.NoError(t, err)
	first, _ := p.Origin()

	p.ResetOrigin()
	assert.Equal(t, Uninitialized, p.State())
	p.ResetOrigin()
	assert.Equal(t, Uninitialized, p.State())

	// First fix after a reset defines a new origin and mission.
	est, err := p.Process(goodSentence("4727600.0000", "320100.0000"))
	require.NoError(t, err)
	assert.Nil(t, est)
	second, ok := p.Origin()
	require.True(t, ok)
	assert.Equal(t, 320100.0, second.Easting)
	assert.NotEqual(t, first.MissionID, second.MissionID)

	est, err = p.Process(goodSentence("4727600.0000", "320101.0000"))
	require.NoError(t, err)
	require.NotNil(t, est)
	assert.Equal(t, 1.0, est.Position.X)
	assert.Equal(t, second.MissionID, est.MissionID)
}

func TestProcess_GeodeticThenUTM(t *testing.T) {
	const omni = `#OMNIHPPOSA,COM3,0,24.5,FINESTEERING,1638,514615.000,00000000,808d,6302;SOL_COMPUTED,OMNISTAR_HP,42.67895919957,-83.19594794881,283.4438,-35.0000,WGS84,1.0071,0.9472,1.0960,"1001",6.000,0.000,15,9,9,9,0,00,0,03*f6757735`

	p := NewProcessor(WithFrameID("gps_antenna"))
	est, err := p.Process(omni)
	require.NoError(t, err)
	assert.Nil(t, est)

	est, err = p.Process(sampleBestUTM)
	require.NoError(t, err)
	require.NotNil(t, est)
	assert.Equal(t, "gps_antenna", est.FrameID)
	assert.InDelta(t, 0, est.Position.X, 0.5)
	assert.InDelta(t, 0, est.Position.Y, 0.5)
}
