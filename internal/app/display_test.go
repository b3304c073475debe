// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/novatel_pose/internal/pose"
)

func TestDisplayLines(t *testing.T) {
	d := &DisplayData{}
	assert.Equal(t, []string{"GPS pose", "Waiting..."}, d.lines())

	d.status = Status{
		State:    "uninitialized",
		Lines:    12,
		Rejected: map[string]uint64{"checksum_mismatch": 2, "untrustworthy_fix": 7},
	}
	d.haveStatus = true
	assert.Equal(t, []string{"GPS pose", "Waiting for fix", "Lines: 12", "Bad: 9"}, d.lines())

	var cov [pose.Dim * pose.Dim]float64
	cov[pose.AxisX*pose.Dim+pose.AxisX] = 0.25
	cov[pose.AxisY*pose.Dim+pose.AxisY] = 0.01
	d.status.State = "initialized"
	d.pose = pose.Estimate{
		MissionID:  "5b1c0e0a-1111-2222-3333-444455556666",
		Position:   pose.Point{X: 12.346, Y: -3.2},
		Covariance: cov,
	}
	d.havePose = true
	assert.Equal(t, []string{
		"X:     12.35m",
		"Y:     -3.20m",
		"s: 0.50/0.10",
		"M: 5b1c0e0a",
	}, d.lines())
}

func TestRenderLines(t *testing.T) {
	blank := renderLines(nil)
	for _, px := range blank.Pix {
		assert.Zero(t, px)
	}

	img := renderLines(splashLines())
	lit := 0
	for _, px := range img.Pix {
		if px != 0 {
			lit++
		}
	}
	assert.Positive(t, lit)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
}
