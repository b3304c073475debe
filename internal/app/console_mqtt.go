// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/novatel_pose/internal/config"
	"github.com/relabs-tech/novatel_pose/internal/gps"
	"github.com/relabs-tech/novatel_pose/internal/pose"
)

func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to pose estimates
	odomToken := client.Subscribe(cfg.TopicGPSOdom, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var est pose.Estimate
		if err := json.Unmarshal(msg.Payload(), &est); err != nil {
			log.Printf("console: odom unmarshal error: %v", err)
			return
		}
		fmt.Println(formatEstimate(est))
	})
	odomToken.Wait()
	if odomToken.Error() != nil {
		return odomToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicGPSOdom)

	// Subscribe to pipeline status
	statusToken := client.Subscribe(cfg.TopicGPSStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var st Status
		if err := json.Unmarshal(msg.Payload(), &st); err != nil {
			log.Printf("console: status unmarshal error: %v", err)
			return
		}
		fmt.Println(formatStatus(st))
	})
	statusToken.Wait()
	if statusToken.Error() != nil {
		return statusToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicGPSStatus)

	// Subscribe to NMEA quality
	qualityToken := client.Subscribe(cfg.TopicGPSQuality, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var q gps.Quality
		if err := json.Unmarshal(msg.Payload(), &q); err != nil {
			log.Printf("console: quality unmarshal error: %v", err)
			return
		}
		fmt.Printf(
			"[QUAL] time=%s fix=%s sats=%d hdop=%.1f alt=%.1fm\n",
			q.Time, q.FixQuality, q.Satellites, q.HDOP, q.AltitudeM,
		)
	})
	qualityToken.Wait()
	if qualityToken.Error() != nil {
		return qualityToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicGPSQuality)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func formatEstimate(est pose.Estimate) string {
	sx := math.Sqrt(est.Covariance[pose.AxisX*pose.Dim+pose.AxisX])
	sy := math.Sqrt(est.Covariance[pose.AxisY*pose.Dim+pose.AxisY])
	return fmt.Sprintf(
		"[POSE] %s x=%9.3f y=%9.3f  σx=%.3f σy=%.3f  frame=%s mission=%s gps=%d/%.1f",
		est.Source, est.Position.X, est.Position.Y, sx, sy,
		est.FrameID, shortID(est.MissionID), est.Week, est.SecondsOfWeek,
	)
}

func formatStatus(st Status) string {
	reasons := make([]string, 0, len(st.Rejected))
	for r := range st.Rejected {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)

	var b strings.Builder
	fmt.Fprintf(&b, "[STAT] state=%s mission=%s lines=%d est=%d nmea=%d",
		st.State, shortID(st.MissionID), st.Lines, st.Estimates, st.NMEA)
	for _, r := range reasons {
		fmt.Fprintf(&b, " %s=%d", r, st.Rejected[r])
	}
	return b.String()
}

// shortID trims a mission UUID to its first block for compact output.
func shortID(id string) string {
	if id == "" {
		return "-"
	}
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
