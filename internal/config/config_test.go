// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_KeyValue(t *testing.T) {
	path := writeConfig(t, "novatel_config.txt", `
# broker
MQTT_BROKER=tcp://broker.local:1883
TOPIC_GPS_ODOM = rover/odom

GPS_SOURCE=REPLAY
GPS_REPLAY_FILE=/var/log/novatel.log
GPS_REPLAY_INTERVAL=0
FRAME_ID=gps_antenna
STATUS_INTERVAL=1000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tcp://broker.local:1883", cfg.MQTTBroker)
	assert.Equal(t, "rover/odom", cfg.TopicGPSOdom)
	assert.Equal(t, SourceReplay, cfg.GPSSource)
	assert.Equal(t, "/var/log/novatel.log", cfg.GPSReplayFile)
	assert.Zero(t, cfg.GPSReplayInterval)
	assert.Equal(t, "gps_antenna", cfg.FrameID)
	assert.Equal(t, 1000, cfg.StatusInterval)

	// Untouched keys keep their defaults.
	assert.Equal(t, Default().TopicGPSReset, cfg.TopicGPSReset)
	assert.Equal(t, 115200, cfg.GPSBaudRate)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "novatel.yaml", `
mqtt_broker: tcp://10.0.0.2:1883
gps_source: mock
mock_easting: 320079.4
mock_northing: 4727502.2
web_server_port: 9090
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tcp://10.0.0.2:1883", cfg.MQTTBroker)
	assert.Equal(t, SourceMock, cfg.GPSSource)
	assert.Equal(t, 320079.4, cfg.MockEasting)
	assert.Equal(t, 4727502.2, cfg.MockNorthing)
	assert.Equal(t, 9090, cfg.WebServerPort)
	assert.Equal(t, "base_link", cfg.FrameID)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"missing equals", "c.txt", "MQTT_BROKER\n"},
		{"unknown key", "c.txt", "NOT_A_KEY=1\n"},
		{"bad baud", "c.txt", "GPS_BAUD_RATE=fast\n"},
		{"bad source", "c.txt", "GPS_SOURCE=usb\n"},
		{"replay without file", "c.txt", "GPS_SOURCE=replay\n"},
		{"empty frame", "c.txt", "FRAME_ID=\n"},
		{"port range", "c.txt", "WEB_SERVER_PORT=70000\n"},
		{"zero status interval", "c.txt", "STATUS_INTERVAL=0\n"},
		{"display address is fixed", "c.txt", "DISPLAY_I2C_ADDR=0x3D\n"},
		{"display address is fixed yaml", "c.yaml", "display_i2c_addr: 0x3d\n"},
		{"unknown yaml field", "c.yml", "gps_port: /dev/ttyUSB0\n"},
		{"bad yaml type", "c.yaml", "gps_baud_rate: fast\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().validate())
}
