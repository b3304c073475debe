// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package novatel

import (
	"fmt"
	"strings"
)

// Format assembles a sentence from header and payload tokens and appends a
// valid checksum. header[0] is the log name, with or without its '#'.
func Format(header, payload []string) string {
	h := make([]string, len(header))
	copy(h, header)
	if len(h) > 0 {
		h[0] = strings.TrimPrefix(h[0], "#")
	}
	body := strings.Join(h, ",") + ";" + strings.Join(payload, ",")
	return fmt.Sprintf("#%s*%08x", body, Checksum(body))
}
