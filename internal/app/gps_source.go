// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	serial "github.com/jacobsa/go-serial/serial"
	bugst "go.bug.st/serial"

	"github.com/relabs-tech/novatel_pose/internal/config"
	"github.com/relabs-tech/novatel_pose/internal/novatel"
)

// gpsInput is an opened line source plus what it takes to close it and how
// long to wait between lines. Serial ports pace themselves.
type gpsInput struct {
	src   novatel.Source
	close func() error
	pace  time.Duration
}

// openGPSInput opens the line source selected by GPS_SOURCE.
func openGPSInput(cfg *config.Config) (*gpsInput, error) {
	pace := time.Duration(cfg.GPSReplayInterval) * time.Millisecond

	switch cfg.GPSSource {
	case config.SourceMock:
		log.Printf("gps: using mock receiver around E=%.2f N=%.2f", cfg.MockEasting, cfg.MockNorthing)
		return &gpsInput{
			src:   novatel.NewMockSource(cfg.MockEasting, cfg.MockNorthing),
			close: func() error { return nil },
			pace:  pace,
		}, nil

	case config.SourceReplay:
		f, err := os.Open(cfg.GPSReplayFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open replay file: %w", err)
		}
		log.Printf("gps: replaying %s", cfg.GPSReplayFile)
		return &gpsInput{src: novatel.NewReaderSource(f), close: f.Close, pace: pace}, nil

	default:
		port, err := openGPSPort(cfg.GPSSerialPort, cfg.GPSBaudRate)
		if err != nil {
			return nil, err
		}
		return &gpsInput{src: novatel.NewReaderSource(port), close: port.Close}, nil
	}
}

// openGPSPort opens the receiver's serial port, resolving "auto" to the
// first USB serial adapter found.
func openGPSPort(name string, baud int) (io.ReadWriteCloser, error) {
	if name == config.AutoPort {
		ports, err := bugst.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
		}
		name, err = pickPort(ports)
		if err != nil {
			return nil, err
		}
		log.Printf("gps: auto-selected serial port %s", name)
	}

	serialOpts := serial.OpenOptions{
		PortName:              name,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	log.Printf("gps: serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)
	return port, nil
}

// pickPort prefers USB adapters (ttyUSB*, ttyACM*) over on-board UARTs.
func pickPort(ports []string) (string, error) {
	if len(ports) == 0 {
		return "", fmt.Errorf("no serial ports found")
	}
	sorted := append([]string(nil), ports...)
	sort.Strings(sorted)
	for _, p := range sorted {
		if strings.Contains(p, "ttyUSB") || strings.Contains(p, "ttyACM") {
			return p, nil
		}
	}
	return sorted[0], nil
}
