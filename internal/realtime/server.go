package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/djshizzle/DJRequest-App/internal/events"
)

var upgrader = websocket.Upgrader{
	// The service binds locally and serves its own UI; no origin check.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	hub *Hub
	rdb *redis.Client
}

// NewServer wires the hub; rdb may be nil, in which case events arrive
// through Hub.Broadcast directly instead of the Redis channel.
func NewServer(hub *Hub, rdb *redis.Client) *Server {
	return &Server{hub: hub, rdb: rdb}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Mounted under /ws.
	r.Get("/", s.handleWS)

	return r
}

// RunRedisSubscriber forwards the "broadcast" channel into the hub until
// ctx is cancelled. No-op without Redis.
func (s *Server) RunRedisSubscriber(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	sub := s.rdb.Subscribe(ctx, events.Channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.hub.Broadcast([]byte(msg.Payload))
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("request-service: ws upgrade: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	s.hub.register <- client

	welcome := map[string]any{
		"type": "welcome",
		"now":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if b, err := json.Marshal(welcome); err == nil {
		client.send <- b
	}

	go client.writePump()
	go client.readPump()
}
