// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"sync"
	"time"

	"github.com/relabs-tech/novatel_pose/internal/novatel"
	"github.com/relabs-tech/novatel_pose/internal/pose"
)

// Status is the periodic health message published on TOPIC_GPS_STATUS.
type Status struct {
	Time      time.Time         `json:"time"`
	State     string            `json:"state"`
	MissionID string            `json:"mission_id,omitempty"`
	FrameID   string            `json:"frame_id"`
	Lines     uint64            `json:"lines"`
	NMEA      uint64            `json:"nmea"`
	Estimates uint64            `json:"estimates"`
	Origins   uint64            `json:"origins"`
	Rejected  map[string]uint64 `json:"rejected"`
	LastError string            `json:"last_error,omitempty"`
}

// counters tallies what the producer did with each line.
type counters struct {
	mu        sync.Mutex
	lines     uint64
	nmea      uint64
	estimates uint64
	origins   uint64
	rejected  map[string]uint64
	lastError string
}

func newCounters() *counters {
	return &counters{rejected: make(map[string]uint64)}
}

func (c *counters) line() {
	c.mu.Lock()
	c.lines++
	c.mu.Unlock()
}

func (c *counters) nmeaLine() {
	c.mu.Lock()
	c.nmea++
	c.mu.Unlock()
}

func (c *counters) estimate() {
	c.mu.Lock()
	c.estimates++
	c.mu.Unlock()
}

func (c *counters) origin() {
	c.mu.Lock()
	c.origins++
	c.mu.Unlock()
}

func (c *counters) reject(err error) {
	c.mu.Lock()
	c.rejected[novatel.Reason(err)]++
	c.lastError = err.Error()
	c.mu.Unlock()
}

// snapshot builds a Status from the counters and the processor state.
func (c *counters) snapshot(p *pose.Processor, now time.Time) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Time:      now,
		State:     p.State().String(),
		FrameID:   p.FrameID(),
		Lines:     c.lines,
		NMEA:      c.nmea,
		Estimates: c.estimates,
		Origins:   c.origins,
		Rejected:  make(map[string]uint64, len(c.rejected)),
		LastError: c.lastError,
	}
	for k, v := range c.rejected {
		st.Rejected[k] = v
	}
	if o, ok := p.Origin(); ok {
		st.MissionID = o.MissionID
	}
	return st
}
