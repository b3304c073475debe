// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package novatel

import (
	"bufio"
	"io"
)

// Source is anything that yields raw receiver lines: the serial port, a
// recorded log being replayed, or the mock receiver.
type Source interface {
	Next() (string, error)
}

type readerSource struct {
	r *bufio.Reader
}

// NewReaderSource reads newline-terminated lines from r. The trailing
// newline is left in place; Frame removes it.
func NewReaderSource(r io.Reader) Source {
	return &readerSource{r: bufio.NewReader(r)}
}

func (s *readerSource) Next() (string, error) {
	line, err := s.r.ReadString('\n')
	if err == io.EOF && line != "" {
		// last line without a newline
		return line, nil
	}
	return line, err
}
