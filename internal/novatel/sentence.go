// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package novatel

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentence is one NovAtel ASCII log split into its header and payload
// tokens. The wire form is
//
//	#NAME,port,seq,idle,timeStatus,week,sow,rxStatus,reserved,rxVersion;f0,...,fN*crc32
type Sentence struct {
	Raw string

	// Body is everything strictly between '#' and '*'; the checksum is
	// computed over exactly these bytes.
	Body string

	Header  []string // Header[0] is "#NAME"
	Payload []string // data fields, checksum removed

	// Checksum is the value transmitted after '*'.
	Checksum uint32
}

// Frame trims a raw line read from the device. ok is false when nothing is
// left, in which case the line should be skipped without comment.
func Frame(line string) (framed string, ok bool) {
	framed = strings.TrimSpace(line)
	return framed, framed != ""
}

// Split separates a framed line into header and payload tokens and reads
// the transmitted checksum. It does not verify the checksum.
func Split(line string) (Sentence, error) {
	if n := strings.Count(line, ";"); n != 1 {
		return Sentence{}, fmt.Errorf("%w: expected one ';', found %d", ErrMalformedSentence, n)
	}
	if !strings.HasPrefix(line, "#") {
		return Sentence{}, fmt.Errorf("%w: missing '#'", ErrMalformedSentence)
	}

	semi := strings.IndexByte(line, ';')
	star := strings.LastIndexByte(line, '*')
	if star < semi {
		return Sentence{}, fmt.Errorf("%w: missing '*' checksum marker", ErrMalformedSentence)
	}

	ck := line[star+1:]
	if len(ck) != 8 {
		return Sentence{}, fmt.Errorf("%w: checksum %q is not 8 hex digits", ErrMalformedSentence, ck)
	}
	sum, err := strconv.ParseUint(ck, 16, 32)
	if err != nil {
		return Sentence{}, fmt.Errorf("%w: checksum %q is not hex", ErrMalformedSentence, ck)
	}

	return Sentence{
		Raw:      line,
		Body:     line[1:star],
		Header:   strings.Split(line[:semi], ","),
		Payload:  strings.Split(line[semi+1:star], ","),
		Checksum: uint32(sum),
	}, nil
}

// Name returns the log name without its '#' prefix.
func (s Sentence) Name() string {
	if len(s.Header) == 0 {
		return ""
	}
	return strings.TrimPrefix(s.Header[0], "#")
}

// Verify recomputes the checksum over the body and compares it with the
// transmitted one.
func (s Sentence) Verify() error {
	if got := Checksum(s.Body); got != s.Checksum {
		return fmt.Errorf("%w: computed %08x, sentence carries %08x", ErrChecksumMismatch, got, s.Checksum)
	}
	return nil
}
