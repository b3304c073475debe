// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/novatel_pose/internal/novatel"
	"github.com/relabs-tech/novatel_pose/internal/pose"
)

// RunConsole runs the pose pipeline on src without a broker and prints each
// estimate and rejection to w. It stops at the end of src and prints a
// summary. pace, when positive, is the delay between lines.
func RunConsole(src novatel.Source, w io.Writer, frameID string, pace time.Duration) error {
	proc := pose.NewProcessor(pose.WithFrameID(frameID))
	stats := newCounters()

	for {
		line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		framed, ok := novatel.Frame(line)
		if !ok || framed[0] == '$' {
			continue
		}
		stats.line()

		est, err := proc.Process(framed)
		switch {
		case err != nil:
			stats.reject(err)
			fmt.Fprintf(w, "[SKIP] %s: %v\n", novatel.Reason(err), err)
		case est == nil:
			stats.origin()
			o, _ := proc.Origin()
			fmt.Fprintf(w, "[ORIG] zone=%d%s E=%.4f N=%.4f mission=%s\n",
				o.Zone, o.ZoneLetter, o.Easting, o.Northing, shortID(o.MissionID))
		default:
			stats.estimate()
			fmt.Fprintln(w, formatEstimate(*est))
		}

		if pace > 0 {
			time.Sleep(pace)
		}
	}

	fmt.Fprintln(w, formatStatus(stats.snapshot(proc, time.Now())))
	return nil
}
