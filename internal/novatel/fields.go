// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package novatel

import (
	"fmt"
	"math"
	"strconv"
)

func parseFinite(name, tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidFieldValue, name, tok)
	}
	return v, nil
}

// parseSigma parses a standard deviation, which must be finite and >= 0.
func parseSigma(name, tok string) (float64, error) {
	v, err := parseFinite(name, tok)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s %v is negative", ErrInvalidFieldValue, name, v)
	}
	return v, nil
}

func parseInt(name, tok string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidFieldValue, name, tok)
	}
	return v, nil
}

func parseRange(name, tok string, lo, hi float64) (float64, error) {
	v, err := parseFinite(name, tok)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %s %v outside [%v, %v]", ErrInvalidFieldValue, name, v, lo, hi)
	}
	return v, nil
}
