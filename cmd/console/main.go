// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/relabs-tech/novatel_pose/internal/app"
	"github.com/relabs-tech/novatel_pose/internal/novatel"
	"github.com/relabs-tech/novatel_pose/internal/pose"
)

func main() {
	file := flag.String("file", "", "recorded receiver log to replay (default stdin)")
	mock := flag.Bool("mock", false, "use the mock receiver instead of a log")
	frameID := flag.String("frame", pose.DefaultFrameID, "frame id stamped on estimates")
	flag.Parse()

	log.Println("starting novatel-pose console (offline)")

	if err := run(*file, *mock, *frameID); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(file string, mock bool, frameID string) error {
	var (
		src  novatel.Source
		pace time.Duration
	)
	switch {
	case mock:
		src = novatel.NewMockSource(320079.3993, 4727502.1668)
		pace = 100 * time.Millisecond
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
		defer f.Close()
		src = novatel.NewReaderSource(f)
	default:
		src = novatel.NewReaderSource(os.Stdin)
	}

	return app.RunConsole(src, os.Stdout, frameID, pace)
}
