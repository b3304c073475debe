// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package pose

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relabs-tech/novatel_pose/internal/gps"
	"github.com/relabs-tech/novatel_pose/internal/novatel"
)

// State of the origin tracker.
type State int

const (
	Uninitialized State = iota
	Initialized
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Origin is the local reference point: the first trustworthy fix of a
// mission.
type Origin struct {
	MissionID  string    `json:"mission_id"`
	Easting    float64   `json:"easting"`
	Northing   float64   `json:"northing"`
	Zone       int       `json:"zone"`
	ZoneLetter string    `json:"zone_letter"`
	SetAt      time.Time `json:"set_at"`
}

func (o Origin) northern() bool {
	return o.ZoneLetter >= "N"
}

// Offset is a fix expressed relative to the origin.
type Offset struct {
	X, Y   float64
	Origin Origin
}

// Tracker owns the origin. The check-then-set on the first fix is done under
// a lock, so Observe and Reset may be called from different goroutines.
type Tracker struct {
	mu     sync.Mutex
	origin *Origin
	newID  func() string
}

// NewTracker returns a tracker in the Uninitialized state.
func NewTracker() *Tracker {
	return &Tracker{newID: uuid.NewString}
}

// Observe feeds one fix to the tracker.
//
// While Uninitialized the fix becomes the origin of a new mission and ok is
// false: there is no offset to report. Once Initialized the offset from the
// origin is returned with ok true. Untrustworthy fixes and fixes from another
// UTM zone or hemisphere return an error and leave the tracker unchanged.
func (t *Tracker) Observe(fix gps.Fix, now time.Time) (off Offset, ok bool, err error) {
	if !fix.Trustworthy() {
		return Offset{}, false, fmt.Errorf("%w: status=%s type=%s", novatel.ErrUntrustworthyFix, fix.Status, fix.Type)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.origin == nil {
		t.origin = &Origin{
			MissionID:  t.newID(),
			Easting:    fix.Easting,
			Northing:   fix.Northing,
			Zone:       fix.Zone,
			ZoneLetter: fix.ZoneLetter,
			SetAt:      now,
		}
		return Offset{Origin: *t.origin}, false, nil
	}

	if fix.Zone != t.origin.Zone {
		return Offset{}, false, fmt.Errorf("%w: fix in zone %d, origin in zone %d",
			novatel.ErrZoneMismatch, fix.Zone, t.origin.Zone)
	}
	if fix.Northern() != t.origin.northern() {
		return Offset{}, false, fmt.Errorf("%w: fix in band %s, origin in band %s",
			novatel.ErrZoneMismatch, fix.ZoneLetter, t.origin.ZoneLetter)
	}

	return Offset{
		X:      fix.Easting - t.origin.Easting,
		Y:      fix.Northing - t.origin.Northing,
		Origin: *t.origin,
	}, true, nil
}

// Reset forgets the origin. The next trustworthy fix starts a new mission.
// Resetting an Uninitialized tracker is a no-op.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.origin = nil
}

// Origin returns the current origin, if any.
func (t *Tracker) Origin() (Origin, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.origin == nil {
		return Origin{}, false
	}
	return *t.origin, true
}

// State reports whether an origin is set.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.origin == nil {
		return Uninitialized
	}
	return Initialized
}
