// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/novatel_pose/internal/config"
	"github.com/relabs-tech/novatel_pose/internal/gps"
	"github.com/relabs-tech/novatel_pose/internal/novatel"
	"github.com/relabs-tech/novatel_pose/internal/pose"
)

// publishFunc sends a payload to a topic. The MQTT client is wrapped in one
// so the read loop can be driven without a broker.
type publishFunc func(topic string, payload []byte) error

// GPSProducer reads receiver lines, runs them through the pose pipeline and
// publishes the results.
type GPSProducer struct {
	proc    *pose.Processor
	publish publishFunc
	stats   *counters
	cfg     *config.Config
	now     func() time.Time
}

// NewGPSProducer wires a processor to a publisher using the topics in cfg.
func NewGPSProducer(cfg *config.Config, proc *pose.Processor, publish publishFunc) *GPSProducer {
	return &GPSProducer{
		proc:    proc,
		publish: publish,
		stats:   newCounters(),
		cfg:     cfg,
		now:     time.Now,
	}
}

// HandleLine processes one raw line. NMEA sentences go to the quality
// topic; everything else is treated as a NovAtel log.
func (g *GPSProducer) HandleLine(line string) {
	framed, ok := novatel.Frame(line)
	if !ok {
		return
	}

	if strings.HasPrefix(framed, "$") {
		g.handleNMEA(framed)
		return
	}

	g.stats.line()
	est, err := g.proc.Process(framed)
	if err != nil {
		g.stats.reject(err)
		if errors.Is(err, novatel.ErrUntrustworthyFix) {
			// expected while the receiver converges; keep the log quiet
			return
		}
		log.Printf("gps: rejected line (%s): %v", novatel.Reason(err), err)
		return
	}
	if est == nil {
		g.stats.origin()
		g.PublishStatus()
		return
	}

	g.stats.estimate()
	payload, err := json.Marshal(est)
	if err != nil {
		log.Printf("gps: JSON marshal error: %v", err)
		return
	}
	if err := g.publish(g.cfg.TopicGPSOdom, payload); err != nil {
		log.Printf("gps: publish error: %v", err)
	}
}

func (g *GPSProducer) handleNMEA(line string) {
	g.stats.nmeaLine()
	q, ok, err := gps.ParseQuality(line)
	if err != nil || !ok {
		// noisy receivers emit partial sentences; not worth a log line
		return
	}
	payload, err := json.Marshal(q)
	if err != nil {
		log.Printf("gps: quality marshal error: %v", err)
		return
	}
	if err := g.publish(g.cfg.TopicGPSQuality, payload); err != nil {
		log.Printf("gps: quality publish error: %v", err)
	}
}

// Reset clears the origin and announces the new state.
func (g *GPSProducer) Reset() {
	g.proc.ResetOrigin()
	g.PublishStatus()
}

// Status returns the current counters and origin state.
func (g *GPSProducer) Status() Status {
	return g.stats.snapshot(g.proc, g.now())
}

// PublishStatus publishes Status on the status topic.
func (g *GPSProducer) PublishStatus() {
	payload, err := json.Marshal(g.Status())
	if err != nil {
		log.Printf("gps: status marshal error: %v", err)
		return
	}
	if err := g.publish(g.cfg.TopicGPSStatus, payload); err != nil {
		log.Printf("gps: status publish error: %v", err)
	}
}

// Run feeds lines from src to HandleLine until ctx is cancelled or the
// source ends. io.EOF (end of a replay) is a clean stop.
func (g *GPSProducer) Run(ctx context.Context, src novatel.Source, pace time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := src.Next()
		if err == io.EOF {
			log.Println("gps: end of input")
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				// port closed during shutdown
				return nil
			}
			return fmt.Errorf("gps read error: %w", err)
		}

		g.HandleLine(line)

		if pace > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pace):
			}
		}
	}
}

// statusLoop publishes Status every interval until ctx is cancelled.
func (g *GPSProducer) statusLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.PublishStatus()
		}
	}
}

func mqttPublisher(client mqtt.Client) publishFunc {
	return func(topic string, payload []byte) error {
		token := client.Publish(topic, 0, true, payload)
		token.Wait()
		return token.Error()
	}
}

// RunGPSProducer opens the configured GPS source, turns NovAtel logs into
// pose estimates and publishes them as JSON to TOPIC_GPS_ODOM.
func RunGPSProducer() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDGPS)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("gps: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Open GPS source ----
	input, err := openGPSInput(cfg)
	if err != nil {
		return err
	}

	proc := pose.NewProcessor(pose.WithFrameID(cfg.FrameID))
	producer := NewGPSProducer(cfg, proc, mqttPublisher(client))

	// ---- 3) Origin reset requests ----
	token := client.Subscribe(cfg.TopicGPSReset, 0, func(_ mqtt.Client, _ mqtt.Message) {
		log.Println("gps: reset requested")
		// publishing from inside a paho handler must not block it
		go producer.Reset()
	})
	token.Wait()
	if token.Error() != nil {
		input.close()
		return token.Error()
	}
	log.Printf("gps: subscribed to %s", cfg.TopicGPSReset)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Closing the input unblocks a pending serial read.
	go func() {
		<-ctx.Done()
		if err := input.close(); err != nil {
			log.Printf("gps: close error: %v", err)
		}
	}()
	go producer.statusLoop(ctx, time.Duration(cfg.StatusInterval)*time.Millisecond)

	// ---- 4) Read loop ----
	err = producer.Run(ctx, input.src, input.pace)
	producer.PublishStatus()
	log.Println("gps: shutting down")
	return err
}
