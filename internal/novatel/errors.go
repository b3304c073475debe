// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package novatel

import "errors"

// Per-sentence outcomes. None of them is fatal to the read loop; callers
// match them with errors.Is and decide whether to log, count or ignore.
var (
	ErrMalformedSentence      = errors.New("malformed sentence")
	ErrChecksumMismatch       = errors.New("checksum mismatch")
	ErrFieldCountMismatch     = errors.New("field count mismatch")
	ErrInvalidFieldValue      = errors.New("invalid field value")
	ErrUnsupportedMessageType = errors.New("unsupported message type")

	// ErrUntrustworthyFix is a filtering outcome rather than a fault: the
	// sentence is well formed but the solution status/type is not accepted.
	ErrUntrustworthyFix = errors.New("untrustworthy fix")

	// ErrZoneMismatch is reported when a fix lands in a different UTM zone
	// than the current origin.
	ErrZoneMismatch = errors.New("utm zone mismatch")
)

// Reason names used for counters and diagnostics.
const (
	ReasonOK            = "ok"
	ReasonMalformed     = "malformed"
	ReasonChecksum      = "checksum_mismatch"
	ReasonFieldCount    = "field_count_mismatch"
	ReasonInvalidField  = "invalid_field_value"
	ReasonUnsupported   = "unsupported_message_type"
	ReasonUntrustworthy = "untrustworthy_fix"
	ReasonZoneMismatch  = "zone_mismatch"
	ReasonUnknown       = "unknown"
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrMalformedSentence, ReasonMalformed},
	{ErrChecksumMismatch, ReasonChecksum},
	{ErrFieldCountMismatch, ReasonFieldCount},
	{ErrInvalidFieldValue, ReasonInvalidField},
	{ErrUnsupportedMessageType, ReasonUnsupported},
	{ErrUntrustworthyFix, ReasonUntrustworthy},
	{ErrZoneMismatch, ReasonZoneMismatch},
}

// Reason maps an error returned by this package (or wrapped by a caller) to a
// stable short name. A nil error maps to ReasonOK.
func Reason(err error) string {
	if err == nil {
		return ReasonOK
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ReasonUnknown
}
