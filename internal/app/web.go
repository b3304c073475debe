// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/novatel_pose/internal/config"
	"github.com/relabs-tech/novatel_pose/internal/gps"
	"github.com/relabs-tech/novatel_pose/internal/pose"
)

//go:embed web
var webFiles embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// webState keeps the latest message of each kind and fans pose payloads out
// to websocket clients.
type webState struct {
	mu sync.RWMutex

	lastPose []byte
	havePose bool

	lastStatus []byte
	haveStatus bool

	lastQuality []byte
	haveQuality bool

	clients map[chan []byte]struct{}
}

func newWebState() *webState {
	return &webState{clients: make(map[chan []byte]struct{})}
}

func (s *webState) setPose(payload []byte) error {
	var est pose.Estimate
	if err := json.Unmarshal(payload, &est); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPose = payload
	s.havePose = true
	for ch := range s.clients {
		select {
		case ch <- payload:
		default:
			// slow client; it will catch up on the next pose
		}
	}
	return nil
}

func (s *webState) setStatus(payload []byte) error {
	var st Status
	if err := json.Unmarshal(payload, &st); err != nil {
		return err
	}
	s.mu.Lock()
	s.lastStatus = payload
	s.haveStatus = true
	s.mu.Unlock()
	return nil
}

func (s *webState) setQuality(payload []byte) error {
	var q gps.Quality
	if err := json.Unmarshal(payload, &q); err != nil {
		return err
	}
	s.mu.Lock()
	s.lastQuality = payload
	s.haveQuality = true
	s.mu.Unlock()
	return nil
}

func (s *webState) subscribe() chan []byte {
	ch := make(chan []byte, 8)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *webState) unsubscribe(ch chan []byte) {
	s.mu.Lock()
	delete(s.clients, ch)
	s.mu.Unlock()
}

// jsonHandler serves the payload returned by get, or 503 before the first one.
func jsonHandler(get func() ([]byte, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := get()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(payload); err != nil {
			log.Printf("web: write error: %v", err)
		}
	}
}

// newWebMux builds the web API. reset is called for POST /api/reset.
func newWebMux(s *webState, reset func() error) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/pose", jsonHandler(func() ([]byte, bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.lastPose, s.havePose
	}))
	mux.HandleFunc("/api/status", jsonHandler(func() ([]byte, bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.lastStatus, s.haveStatus
	}))
	mux.HandleFunc("/api/quality", jsonHandler(func() ([]byte, bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.lastQuality, s.haveQuality
	}))

	mux.HandleFunc("/api/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := reset(); err != nil {
			log.Printf("web: reset error: %v", err)
			http.Error(w, "reset failed", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})

	mux.HandleFunc("/ws/pose", func(w http.ResponseWriter, r *http.Request) {
		handlePoseWS(s, w, r)
	})

	// Static files from the embedded web/ as the root
	static, _ := fs.Sub(webFiles, "web")
	mux.Handle("/", http.FileServerFS(static))
	return mux
}

// handlePoseWS streams every pose estimate to the client as a JSON text
// message, starting with the latest one if there is any.
func handlePoseWS(s *webState, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	s.mu.RLock()
	latest, have := s.lastPose, s.havePose
	s.mu.RUnlock()
	if have {
		if err := conn.WriteMessage(websocket.TextMessage, latest); err != nil {
			return
		}
	}

	// The client never sends anything useful; reading only detects close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket error: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case payload := <-ch:
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

func subscribeJSON(client mqtt.Client, topic string, set func([]byte) error) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if err := set(msg.Payload()); err != nil {
			log.Printf("web: %s unmarshal error: %v", topic, err)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", topic)
	return nil
}

func RunWeb() error {
	cfg := config.Get()
	state := newWebState()

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to pose, status and quality
	if err := subscribeJSON(client, cfg.TopicGPSOdom, state.setPose); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicGPSStatus, state.setStatus); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicGPSQuality, state.setQuality); err != nil {
		return err
	}

	// 3) Reset requests go to the producer over MQTT; not retained so a
	// restarted producer does not reset itself.
	reset := func() error {
		token := client.Publish(cfg.TopicGPSReset, 0, false, []byte("{}"))
		token.Wait()
		return token.Error()
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, newWebMux(state, reset))
}
