// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// GPS line sources.
const (
	SourceSerial = "serial"
	SourceMock   = "mock"
	SourceReplay = "replay"
)

// AutoPort asks the producer to pick the first serial port it finds.
const AutoPort = "auto"

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string `yaml:"mqtt_broker"`
	MQTTClientIDGPS     string `yaml:"mqtt_client_id_gps"`
	MQTTClientIDConsole string `yaml:"mqtt_client_id_console"`
	MQTTClientIDWeb     string `yaml:"mqtt_client_id_web"`
	MQTTClientIDDisplay string `yaml:"mqtt_client_id_display"`

	// Topics
	TopicGPSOdom    string `yaml:"topic_gps_odom"`    // pose estimates
	TopicGPSReset   string `yaml:"topic_gps_reset"`   // any message resets the origin
	TopicGPSStatus  string `yaml:"topic_gps_status"`  // periodic pipeline status
	TopicGPSQuality string `yaml:"topic_gps_quality"` // NMEA GGA summary

	// GPS
	GPSSource         string  `yaml:"gps_source"`      // "serial", "mock" or "replay"
	GPSSerialPort     string  `yaml:"gps_serial_port"` // device path or "auto"
	GPSBaudRate       int     `yaml:"gps_baud_rate"`
	GPSReplayFile     string  `yaml:"gps_replay_file"`
	GPSReplayInterval int     `yaml:"gps_replay_interval"` // milliseconds between replayed or mock lines
	MockEasting       float64 `yaml:"mock_easting"`
	MockNorthing      float64 `yaml:"mock_northing"`

	// Pose
	FrameID        string `yaml:"frame_id"`
	StatusInterval int    `yaml:"status_interval"` // milliseconds

	// Web Server
	WebServerPort int `yaml:"web_server_port"`

	// Display
	DisplayUpdateInterval int `yaml:"display_update_interval"` // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot modify it without
//     going through InitGlobal.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock for initialization,
//     read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration used for any key a file leaves unset.
func Default() *Config {
	return &Config{
		MQTTBroker:          "tcp://localhost:1883",
		MQTTClientIDGPS:     "novatel-gps-producer",
		MQTTClientIDConsole: "novatel-console-subscriber",
		MQTTClientIDWeb:     "novatel-web-subscriber",
		MQTTClientIDDisplay: "novatel-display",

		TopicGPSOdom:    "gps/odom",
		TopicGPSReset:   "gps/reset",
		TopicGPSStatus:  "gps/status",
		TopicGPSQuality: "gps/quality",

		GPSSource:         SourceSerial,
		GPSSerialPort:     "/dev/gps_novatel",
		GPSBaudRate:       115200,
		GPSReplayInterval: 50,

		FrameID:        "base_link",
		StatusInterval: 5000,

		WebServerPort: 8080,

		DisplayUpdateInterval: 500,
	}
}

// Load reads the configuration file and returns a Config struct. Files ending
// in .yaml or .yml are decoded as YAML; anything else is KEY=VALUE lines.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(file)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("error decoding yaml config: %w", err)
		}
	default:
		if err := cfg.readKeyValues(file); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readKeyValues(file *os.File) error {
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := c.setValue(key, value); err != nil {
			return fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_GPS_ODOM":
		c.TopicGPSOdom = value
	case "TOPIC_GPS_RESET":
		c.TopicGPSReset = value
	case "TOPIC_GPS_STATUS":
		c.TopicGPSStatus = value
	case "TOPIC_GPS_QUALITY":
		c.TopicGPSQuality = value

	// GPS
	case "GPS_SOURCE":
		c.GPSSource = strings.ToLower(value)
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate
	case "GPS_REPLAY_FILE":
		c.GPSReplayFile = value
	case "GPS_REPLAY_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_REPLAY_INTERVAL %q: %w", value, err)
		}
		c.GPSReplayInterval = interval
	case "MOCK_EASTING":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid MOCK_EASTING %q: %w", value, err)
		}
		c.MockEasting = v
	case "MOCK_NORTHING":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid MOCK_NORTHING %q: %w", value, err)
		}
		c.MockNorthing = v

	// Pose
	case "FRAME_ID":
		c.FrameID = value
	case "STATUS_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid STATUS_INTERVAL %q: %w", value, err)
		}
		c.StatusInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicGPSOdom == "" {
		return fmt.Errorf("TOPIC_GPS_ODOM is required")
	}
	switch c.GPSSource {
	case SourceSerial:
		if c.GPSSerialPort == "" {
			return fmt.Errorf("GPS_SERIAL_PORT is required")
		}
		if c.GPSBaudRate <= 0 {
			return fmt.Errorf("GPS_BAUD_RATE must be positive, got %d", c.GPSBaudRate)
		}
	case SourceReplay:
		if c.GPSReplayFile == "" {
			return fmt.Errorf("GPS_REPLAY_FILE is required when GPS_SOURCE=replay")
		}
	case SourceMock:
	default:
		return fmt.Errorf("GPS_SOURCE must be serial, mock or replay, got %q", c.GPSSource)
	}
	if c.GPSReplayInterval < 0 {
		return fmt.Errorf("GPS_REPLAY_INTERVAL must not be negative, got %d", c.GPSReplayInterval)
	}
	if c.FrameID == "" {
		return fmt.Errorf("FRAME_ID is required")
	}
	if c.StatusInterval <= 0 {
		return fmt.Errorf("STATUS_INTERVAL must be positive, got %d", c.StatusInterval)
	}
	if c.WebServerPort <= 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", c.WebServerPort)
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive, got %d", c.DisplayUpdateInterval)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
