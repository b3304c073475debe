// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/novatel_pose/internal/pose"
)

func estimatePayload(t *testing.T, x, y float64) []byte {
	t.Helper()
	payload, err := json.Marshal(pose.Estimate{
		FrameID:   "base_link",
		MissionID: "5b1c0e0a-1111-2222-3333-444455556666",
		Source:    "BESTUTMA",
		Position:  pose.Point{X: x, Y: y},
	})
	require.NoError(t, err)
	return payload
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestWebAPI_LatestMessages(t *testing.T) {
	state := newWebState()
	srv := httptest.NewServer(newWebMux(state, func() error { return nil }))
	defer srv.Close()

	for _, path := range []string{"/api/pose", "/api/status", "/api/quality"} {
		code, _ := get(t, srv.URL+path)
		assert.Equal(t, http.StatusServiceUnavailable, code, path)
	}

	require.NoError(t, state.setPose(estimatePayload(t, 1.5, -2)))
	require.NoError(t, state.setStatus([]byte(`{"state":"initialized","lines":3}`)))
	require.NoError(t, state.setQuality([]byte(`{"fix_quality":"4","satellites":12}`)))

	code, body := get(t, srv.URL+"/api/pose")
	require.Equal(t, http.StatusOK, code)
	var est pose.Estimate
	require.NoError(t, json.Unmarshal([]byte(body), &est))
	assert.Equal(t, pose.Point{X: 1.5, Y: -2}, est.Position)

	code, body = get(t, srv.URL+"/api/status")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"initialized"`)

	code, body = get(t, srv.URL+"/api/quality")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"satellites":12`)
}

func TestWebAPI_IndexPage(t *testing.T) {
	srv := httptest.NewServer(newWebMux(newWebState(), func() error { return nil }))
	defer srv.Close()

	code, body := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "/ws/pose")
	assert.Contains(t, body, "/api/reset")

	code, _ = get(t, srv.URL+"/missing.js")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestWebState_RejectsBadPayloads(t *testing.T) {
	state := newWebState()
	assert.Error(t, state.setPose([]byte("not json")))
	assert.Error(t, state.setStatus([]byte("{")))
	assert.Error(t, state.setQuality([]byte("[")))
	assert.False(t, state.havePose)
}

func TestWebAPI_Reset(t *testing.T) {
	var calls atomic.Int32
	var fail atomic.Bool
	srv := httptest.NewServer(newWebMux(newWebState(), func() error {
		calls.Add(1)
		if fail.Load() {
			return errors.New("broker down")
		}
		return nil
	}))
	defer srv.Close()

	code, _ := get(t, srv.URL+"/api/reset")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Zero(t, calls.Load())

	resp, err := http.Post(srv.URL+"/api/reset", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())

	fail.Store(true)
	resp, err = http.Post(srv.URL+"/api/reset", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestPoseWebSocket(t *testing.T) {
	state := newWebState()
	require.NoError(t, state.setPose(estimatePayload(t, 0, 0)))

	srv := httptest.NewServer(newWebMux(state, func() error { return nil }))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/pose"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() pose.Estimate {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var est pose.Estimate
		require.NoError(t, json.Unmarshal(msg, &est))
		return est
	}

	// latest pose on connect
	assert.Equal(t, pose.Point{}, read().Position)

	// the handler registers before sending the latest pose, so this is seen
	require.NoError(t, state.setPose(estimatePayload(t, 3, 4)))
	assert.Equal(t, pose.Point{X: 3, Y: 4}, read().Position)
}
