// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package novatel

import (
	"fmt"
	"sync"

	"github.com/relabs-tech/novatel_pose/internal/gps"
)

// Layout describes one supported log: how many tokens its header and payload
// carry and how the payload becomes a Fix.
type Layout struct {
	Name          string
	HeaderFields  int
	PayloadFields int

	// Parse decodes a payload whose arity and solution status/type have
	// already been checked.
	Parse func(h Header, payload []string) (gps.Fix, error)
}

// Decoder classifies framed sentences by log name and runs the matching
// layout.
type Decoder struct {
	mu      sync.RWMutex
	layouts map[string]Layout
}

// NewDecoder returns a decoder for the given layouts, or for BESTUTMA and
// OMNIHPPOSA when none are given.
func NewDecoder(layouts ...Layout) *Decoder {
	if len(layouts) == 0 {
		layouts = []Layout{BestUTM, OmniHPPos}
	}
	d := &Decoder{layouts: make(map[string]Layout, len(layouts))}
	for _, l := range layouts {
		d.Register(l)
	}
	return d
}

// Register adds or replaces a layout.
func (d *Decoder) Register(l Layout) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.layouts[l.Name] = l
}

// Names lists the registered log names.
func (d *Decoder) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.layouts))
	for name := range d.layouts {
		names = append(names, name)
	}
	return names
}

// Decode splits, verifies, classifies and parses one framed line.
//
// The returned error wraps one of the package sentinels. For
// ErrUntrustworthyFix the returned Fix still carries the message name,
// status and type so callers can say what the receiver reported.
func (d *Decoder) Decode(line string) (gps.Fix, error) {
	s, err := Split(line)
	if err != nil {
		return gps.Fix{}, err
	}
	if err := s.Verify(); err != nil {
		return gps.Fix{}, err
	}

	name := s.Name()
	d.mu.RLock()
	layout, ok := d.layouts[name]
	d.mu.RUnlock()
	if !ok {
		return gps.Fix{}, fmt.Errorf("%w: %q", ErrUnsupportedMessageType, name)
	}

	if len(s.Header) != layout.HeaderFields {
		return gps.Fix{}, fmt.Errorf("%w: %s header has %d fields; expected %d",
			ErrFieldCountMismatch, name, len(s.Header), layout.HeaderFields)
	}
	if len(s.Payload) != layout.PayloadFields {
		return gps.Fix{}, fmt.Errorf("%w: %s payload has %d fields; expected %d",
			ErrFieldCountMismatch, name, len(s.Payload), layout.PayloadFields)
	}

	// Every supported position log starts with sol_stat, pos_type.
	fix := gps.Fix{
		Message: name,
		Status:  gps.SolutionStatus(s.Payload[0]),
		Type:    gps.SolutionType(s.Payload[1]),
	}
	if !fix.Trustworthy() {
		return fix, fmt.Errorf("%w: status=%s type=%s", ErrUntrustworthyFix, fix.Status, fix.Type)
	}

	h, err := parseHeader(s.Header)
	if err != nil {
		return gps.Fix{}, fmt.Errorf("%s header: %w", name, err)
	}

	parsed, err := layout.Parse(h, s.Payload)
	if err != nil {
		return gps.Fix{}, fmt.Errorf("%s: %w", name, err)
	}
	parsed.Message = name
	parsed.Status = fix.Status
	parsed.Type = fix.Type
	parsed.Week = h.Week
	parsed.SecondsOfWeek = h.SecondsOfWeek
	return parsed, nil
}
