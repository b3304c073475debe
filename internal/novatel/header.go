// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package novatel

import (
	"fmt"
	"strconv"
	"strings"
)

// HeaderFields is the token count of every NovAtel ASCII header, the
// '#NAME' token included.
const HeaderFields = 10

// Header is the decoded ASCII log header.
type Header struct {
	Name            string  // "BESTUTMA"
	Port            string  // "COM3"
	Sequence        int     // remaining logs in a multi-log set
	IdleTime        float64 // percent of CPU idle
	TimeStatus      string  // "FINESTEERING", "COARSE", ...
	Week            int     // GPS reference week
	SecondsOfWeek   float64 // seconds into the week
	ReceiverStatus  uint32  // hex status word
	Reserved        string
	ReceiverVersion string
}

// parseHeader decodes the ten header tokens. Callers check the count first.
func parseHeader(tokens []string) (Header, error) {
	h := Header{
		Name:            strings.TrimPrefix(tokens[0], "#"),
		Port:            tokens[1],
		TimeStatus:      tokens[4],
		Reserved:        tokens[8],
		ReceiverVersion: tokens[9],
	}

	var err error
	if h.Sequence, err = parseInt("sequence", tokens[2]); err != nil {
		return Header{}, err
	}
	if h.IdleTime, err = parseFinite("idle time", tokens[3]); err != nil {
		return Header{}, err
	}
	if h.Week, err = parseInt("week", tokens[5]); err != nil {
		return Header{}, err
	}
	if h.Week < 0 {
		return Header{}, fmt.Errorf("%w: week %d is negative", ErrInvalidFieldValue, h.Week)
	}
	if h.SecondsOfWeek, err = parseFinite("seconds of week", tokens[6]); err != nil {
		return Header{}, err
	}
	if h.SecondsOfWeek < 0 || h.SecondsOfWeek >= 604800 {
		return Header{}, fmt.Errorf("%w: seconds of week %v out of range", ErrInvalidFieldValue, h.SecondsOfWeek)
	}
	status, err := strconv.ParseUint(tokens[7], 16, 32)
	if err != nil {
		return Header{}, fmt.Errorf("%w: receiver status %q", ErrInvalidFieldValue, tokens[7])
	}
	h.ReceiverStatus = uint32(status)

	return h, nil
}
