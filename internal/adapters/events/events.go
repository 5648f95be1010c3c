// Package events publishes domain events to a broker on a best effort basis
package events

import (
	"context"
	"time"
)

// Topics published by the tracker
const (
	TopicVideoAttached   = "video.attached"
	TopicRefreshComplete = "refresh.completed"
)

// Publisher sends one event; implementations must be safe for concurrent use
type Publisher interface {
	Publish(ctx context.Context, topic string, data any) error
	Close() error
}

// Envelope is the JSON body of every published event
type Envelope struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

// Nop drops every event; used when no broker is configured
type Nop struct{}

// Publish implements Publisher
func (Nop) Publish(context.Context, string, any) error { return nil }

// Close implements Publisher
func (Nop) Close() error { return nil }
