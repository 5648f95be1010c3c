package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"campaigntracker/internal/platform/config"
	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/logger"

	"github.com/streadway/amqp"
)

const defaultQueue = "tracker_events"

// channel is the subset of *amqp.Channel the publisher needs
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQP publishes events to a durable queue on the default exchange
type AMQP struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    channel
	queue string
	now   func() time.Time
	log   logger.Logger
}

// FromConfig dials AMQP_URL when set and returns Nop otherwise
func FromConfig(cfg config.Conf) (Publisher, error) {
	url := cfg.MayString("AMQP_URL", "")
	if url == "" {
		return Nop{}, nil
	}
	return Dial(url, cfg.MayString("AMQP_QUEUE", defaultQueue))
}

// Dial connects, opens a channel and declares queue as durable
func Dial(url, queue string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "amqp dial failed")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "amqp channel failed")
	}
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "amqp declare %s failed", queue)
	}
	p := newAMQP(ch, q.Name)
	p.conn = conn
	return p, nil
}

func newAMQP(ch channel, queue string) *AMQP {
	return &AMQP{ch: ch, queue: queue, now: time.Now, log: *logger.Named("events")}
}

// Publish sends data wrapped in an Envelope as a persistent message
func (p *AMQP) Publish(ctx context.Context, topic string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	at := p.now().UTC()
	body, err := json.Marshal(Envelope{Type: topic, At: at, Data: data})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "event %s encode failed", topic)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         topic,
		Timestamp:    at,
		Body:         body,
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "event %s publish failed", topic)
	}
	p.log.Debug().Str("topic", topic).Str("queue", p.queue).Msg("event published")
	return nil
}

// Close closes the channel and the connection
func (p *AMQP) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
