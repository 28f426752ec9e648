package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/djshizzle/DJRequest-App/internal/events"
)

func TestServer_HandleWS(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	s := NewServer(hub, nil)
	server := httptest.NewServer(s.Router())
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url+"/", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	// First frame is the welcome message.
	ws.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	var welcome struct {
		Type string `json:"type"`
		Now  string `json:"now"`
	}
	if err := json.Unmarshal(msg, &welcome); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if welcome.Type != "welcome" {
		t.Errorf("expected welcome frame, got %q", welcome.Type)
	}
	if _, err := time.Parse(time.RFC3339Nano, welcome.Now); err != nil {
		t.Errorf("welcome timestamp not RFC3339: %v", err)
	}

	// A hub broadcast then reaches the connection.
	hub.Broadcast([]byte(`{"type":"request.created"}`))
	ws.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err = ws.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if string(msg) != `{"type":"request.created"}` {
		t.Errorf("unexpected broadcast: %s", msg)
	}
}

func TestIntegration_RedisPubSub(t *testing.T) {
	// Publisher -> Redis channel -> subscriber -> hub -> websocket client.
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hub := NewHub()
	go hub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewServer(hub, rdb)
	go s.RunRedisSubscriber(ctx)
	time.Sleep(50 * time.Millisecond)

	server := httptest.NewServer(s.Router())
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url+"/", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	// Drain the welcome frame.
	ws.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := ws.ReadMessage(); err != nil {
		t.Fatalf("read welcome: %v", err)
	}

	pub := events.NewRedisPublisher(rdb)
	pub.Publish(ctx, "request.status", map[string]string{"id": "r1", "status": "approved"})

	ws.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}

	var got struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if got.Type != "request.status" {
		t.Errorf("expected request.status, got %q", got.Type)
	}
	if got.Payload["status"] != "approved" {
		t.Errorf("unexpected payload: %v", got.Payload)
	}
}
