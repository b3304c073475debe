// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package novatel

import "hash/crc32"

// Checksum computes the 32-bit CRC NovAtel appends to ASCII logs: the
// reflected 0xEDB88320 polynomial with a zero initial value and no final
// inversion. crc32.Update inverts on entry and exit, so both inversions are
// cancelled here.
func Checksum(body string) uint32 {
	return ^crc32.Update(^uint32(0), crc32.IEEETable, []byte(body))
}
