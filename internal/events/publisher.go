// Package events carries store-mutation notifications to the realtime
// layer. With Redis configured events go through the "broadcast" pub/sub
// channel; without it they are handed straight to the in-process hub.
package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any)
}

const Channel = "broadcast"

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload any) {
	if p == nil || p.rdb == nil {
		return
	}
	body := map[string]any{
		"type":    eventType,
		"payload": payload,
	}
	data, err := json.Marshal(body)
	if err != nil {
		log.Printf("request-service: marshal event: %v", err)
		return
	}
	if err := p.rdb.Publish(ctx, Channel, string(data)).Err(); err != nil {
		log.Printf("request-service: publish event: %v", err)
	}
}

// Broadcaster is the in-process fallback target (the websocket hub).
type Broadcaster interface {
	Broadcast(msg []byte)
}

type LocalPublisher struct {
	hub Broadcaster
}

func NewLocalPublisher(hub Broadcaster) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) Publish(_ context.Context, eventType string, payload any) {
	if p == nil || p.hub == nil {
		return
	}
	body := map[string]any{
		"type":    eventType,
		"payload": payload,
	}
	data, err := json.Marshal(body)
	if err != nil {
		log.Printf("request-service: marshal event: %v", err)
		return
	}
	p.hub.Broadcast(data)
}
