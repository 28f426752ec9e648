package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{}

// connectClient spins up a bare websocket endpoint that builds a Client for
// the given hub, dials it, and hands back both ends.
func connectClient(t *testing.T, hub *Hub) (*websocket.Conn, *Client, func()) {
	t.Helper()

	var internalClient *Client
	var created sync.WaitGroup
	created.Add(1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
		internalClient = client
		created.Done()
		go client.writePump()
		go client.readPump()
	}))

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	created.Wait()

	return ws, internalClient, func() {
		server.Close()
		ws.Close()
	}
}

func TestHub_Run(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	t.Run("registered client receives broadcasts", func(t *testing.T) {
		ws, client, cleanup := connectClient(t, hub)
		defer cleanup()

		hub.register <- client
		time.Sleep(20 * time.Millisecond)

		hub.Broadcast([]byte(`{"type":"request.created"}`))

		ws.SetReadDeadline(time.Now().Add(time.Second))
		_, received, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(received) != `{"type":"request.created"}` {
			t.Errorf("unexpected message: %s", received)
		}
	})

	t.Run("unregister closes the send channel", func(t *testing.T) {
		_, client, cleanup := connectClient(t, hub)
		defer cleanup()

		hub.register <- client
		time.Sleep(10 * time.Millisecond)
		hub.unregister <- client

		select {
		case _, ok := <-client.send:
			if ok {
				t.Error("expected send channel to be closed")
			}
		case <-time.After(time.Second):
			t.Error("timed out waiting for send channel close")
		}
	})

	t.Run("broadcast reaches every client", func(t *testing.T) {
		ws1, client1, cleanup1 := connectClient(t, hub)
		defer cleanup1()
		ws2, client2, cleanup2 := connectClient(t, hub)
		defer cleanup2()

		hub.register <- client1
		hub.register <- client2
		time.Sleep(20 * time.Millisecond)

		msg := []byte(`{"type":"profile.updated"}`)
		hub.Broadcast(msg)

		for _, ws := range []*websocket.Conn{ws1, ws2} {
			ws.SetReadDeadline(time.Now().Add(time.Second))
			_, received, err := ws.ReadMessage()
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(received) != string(msg) {
				t.Errorf("expected %s, got %s", msg, received)
			}
		}
	})
}
