package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureBroadcaster struct {
	messages [][]byte
}

func (c *captureBroadcaster) Broadcast(msg []byte) {
	c.messages = append(c.messages, msg)
}

func TestLocalPublisher(t *testing.T) {
	t.Run("hands the envelope to the hub", func(t *testing.T) {
		hub := &captureBroadcaster{}
		pub := NewLocalPublisher(hub)

		pub.Publish(context.Background(), "request.created", map[string]string{"id": "r1"})

		require.Len(t, hub.messages, 1)
		assert.JSONEq(t, `{"type":"request.created","payload":{"id":"r1"}}`, string(hub.messages[0]))
	})

	t.Run("nil hub is a no-op", func(t *testing.T) {
		pub := NewLocalPublisher(nil)
		pub.Publish(context.Background(), "request.created", nil)
	})

	t.Run("unmarshalable payload is dropped", func(t *testing.T) {
		hub := &captureBroadcaster{}
		pub := NewLocalPublisher(hub)

		pub.Publish(context.Background(), "request.created", func() {})
		assert.Empty(t, hub.messages)
	})
}

func TestRedisPublisher(t *testing.T) {
	t.Run("publishes the envelope on the broadcast channel", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sub := rdb.Subscribe(ctx, Channel)
		defer sub.Close()
		_, err := sub.Receive(ctx)
		require.NoError(t, err)

		pub := NewRedisPublisher(rdb)
		pub.Publish(ctx, "profile.updated", map[string]any{"minTipAmount": 2})

		select {
		case msg := <-sub.Channel():
			assert.JSONEq(t, `{"type":"profile.updated","payload":{"minTipAmount":2}}`, msg.Payload)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for the published event")
		}
	})

	t.Run("nil client is a no-op", func(t *testing.T) {
		pub := NewRedisPublisher(nil)
		pub.Publish(context.Background(), "profile.updated", nil)
	})
}
