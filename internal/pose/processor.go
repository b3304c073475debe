// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package pose

import (
	"time"

	"github.com/relabs-tech/novatel_pose/internal/monitoring"
	"github.com/relabs-tech/novatel_pose/internal/novatel"
)

// Processor turns receiver lines into pose estimates: one line in, zero or
// one estimate out. It is the only stateful piece of the pipeline and the
// state lives in its Tracker.
type Processor struct {
	decoder *novatel.Decoder
	tracker *Tracker
	frameID string
	now     func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithFrameID sets the frame id stamped on every estimate.
func WithFrameID(id string) Option {
	return func(p *Processor) {
		if id != "" {
			p.frameID = id
		}
	}
}

// WithClock replaces time.Now for processing timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithDecoder replaces the default BESTUTMA/OMNIHPPOSA decoder.
func WithDecoder(d *novatel.Decoder) Option {
	return func(p *Processor) { p.decoder = d }
}

// NewProcessor returns a processor with no origin.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		decoder: novatel.NewDecoder(),
		tracker: NewTracker(),
		frameID: DefaultFrameID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs one raw line through the pipeline.
//
// It returns (nil, nil) for blank lines and for the fix that establishes the
// origin. Every other outcome without an estimate carries an error wrapping
// one of the novatel sentinels; none of them should stop the caller's loop.
func (p *Processor) Process(line string) (*Estimate, error) {
	framed, ok := novatel.Frame(line)
	if !ok {
		return nil, nil
	}

	fix, err := p.decoder.Decode(framed)
	if err != nil {
		return nil, err
	}

	now := p.now()
	off, ok, err := p.tracker.Observe(fix, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		monitoring.Logf("gps: origin set mission=%s zone=%d%s easting=%.4f northing=%.4f",
			off.Origin.MissionID, off.Origin.Zone, off.Origin.ZoneLetter, off.Origin.Easting, off.Origin.Northing)
		return nil, nil
	}

	est := Assemble(off, fix, p.frameID, now)
	return &est, nil
}

// ResetOrigin clears the origin so the next trustworthy fix starts a new
// mission. Calling it repeatedly is the same as calling it once.
func (p *Processor) ResetOrigin() {
	if _, had := p.tracker.Origin(); had {
		monitoring.Logf("gps: origin reset")
	}
	p.tracker.Reset()
}

// Origin returns the current origin, if any.
func (p *Processor) Origin() (Origin, bool) {
	return p.tracker.Origin()
}

// State reports the origin tracker state.
func (p *Processor) State() State {
	return p.tracker.State()
}

// FrameID is the frame stamped on estimates.
func (p *Processor) FrameID() string {
	return p.frameID
}
