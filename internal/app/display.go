// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"math"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/novatel_pose/internal/config"
	"github.com/relabs-tech/novatel_pose/internal/pose"
)

// DisplayData holds the latest data for display
type DisplayData struct {
	mu sync.RWMutex

	pose     pose.Estimate
	havePose bool

	status     Status
	haveStatus bool
}

func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	// NewI2C always talks to address 0x3C.
	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: initialized at 0x3C")

	if err := drawLines(dev, splashLines()); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &DisplayData{}

	// Connect to MQTT
	mqttOpts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(mqttOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicGPSOdom, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var est pose.Estimate
		if err := json.Unmarshal(msg.Payload(), &est); err != nil {
			log.Printf("display: odom unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.pose = est
		data.havePose = true
		data.mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicGPSOdom)

	token = client.Subscribe(cfg.TopicGPSStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var st Status
		if err := json.Unmarshal(msg.Payload(), &st); err != nil {
			log.Printf("display: status unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.status = st
		data.haveStatus = true
		data.mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicGPSStatus)

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		if err := drawLines(dev, data.lines()); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

// lines renders the current data as up to four rows of text.
func (d *DisplayData) lines() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.haveStatus && d.status.State == pose.Uninitialized.String() {
		return []string{
			"GPS pose",
			"Waiting for fix",
			fmt.Sprintf("Lines: %d", d.status.Lines),
			fmt.Sprintf("Bad: %d", rejectedTotal(d.status)),
		}
	}
	if !d.havePose {
		return []string{"GPS pose", "Waiting..."}
	}

	sx := math.Sqrt(d.pose.Covariance[pose.AxisX*pose.Dim+pose.AxisX])
	sy := math.Sqrt(d.pose.Covariance[pose.AxisY*pose.Dim+pose.AxisY])
	return []string{
		fmt.Sprintf("X: %9.2fm", d.pose.Position.X),
		fmt.Sprintf("Y: %9.2fm", d.pose.Position.Y),
		fmt.Sprintf("s: %.2f/%.2f", sx, sy),
		"M: " + shortID(d.pose.MissionID),
	}
}

func rejectedTotal(st Status) uint64 {
	var n uint64
	for _, v := range st.Rejected {
		n += v
	}
	return n
}

func splashLines() []string {
	return []string{"Relabs GNSS", "NovAtel pose", "Looking for", "sats"}
}

// renderLines draws each line on its own 13 px row of a 128x64 frame.
func renderLines(lines []string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	for i, line := range lines {
		if i >= 4 {
			break
		}
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawBytes([]byte(line))
	}
	return img
}

func drawLines(dev *ssd1306.Dev, lines []string) error {
	return dev.Draw(dev.Bounds(), renderLines(lines), image.Point{})
}
