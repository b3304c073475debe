// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/novatel_pose/internal/app"
	"github.com/relabs-tech/novatel_pose/internal/config"
)

func main() {
	configPath := flag.String("config", "./novatel_config.txt", "path to configuration file (.txt or .yaml)")
	flag.Parse()

	log.Println("starting novatel-pose web server (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunWeb(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
