// Package service runs the chat intake pipeline and its attachment workflow
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"campaigntracker/internal/adapters/chat/discord"
	"campaigntracker/internal/core/normalize"
	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/logger"
	"campaigntracker/internal/services/intake/domain"
)

// Handler runs one attempt of the attachment workflow
type Handler interface {
	Handle(ctx context.Context, msg domain.ChatMessage) (domain.Outcome, error)
}

// ChatSource delivers gateway events until ctx ends
type ChatSource interface {
	Run(ctx context.Context, fn func(discord.Event)) error
}

// Config controls filtering and retry
type Config struct {
	ChannelID     string
	IgnoreAuthors []string
	MaxRetries    int           // total attempts
	RetryDelay    time.Duration // wait between attempts
}

// Pipeline filters chat events and drives the workflow with bounded retries
type Pipeline struct {
	cfg    Config
	flow   Handler
	ignore map[string]struct{}
	sleep  func(context.Context, time.Duration) error
	wg     sync.WaitGroup
}

// NewPipeline builds a pipeline; MaxRetries below one means a single attempt
func NewPipeline(cfg Config, flow Handler) *Pipeline {
	if flow == nil {
		panic("intake.Pipeline requires a workflow")
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	ignore := make(map[string]struct{}, len(cfg.IgnoreAuthors))
	for _, a := range cfg.IgnoreAuthors {
		if a = strings.TrimSpace(a); a != "" {
			ignore[a] = struct{}{}
		}
	}
	return &Pipeline{cfg: cfg, flow: flow, ignore: ignore, sleep: sleepCtx}
}

// Accepts reports whether msg is a human announcement on the intake channel
func (p *Pipeline) Accepts(msg domain.ChatMessage) bool {
	if msg.ChannelID != p.cfg.ChannelID || msg.AuthorIsBot {
		return false
	}
	_, skip := p.ignore[msg.AuthorName]
	return !skip
}

// Process normalizes msg and runs the workflow until it settles or attempts run out
func (p *Pipeline) Process(ctx context.Context, msg domain.ChatMessage) domain.Result {
	if !p.Accepts(msg) {
		return domain.Result{Outcome: domain.OutcomeIgnored}
	}
	msg.Content = normalize.Message(msg.Content)
	ctx = logger.WithMessage(ctx, msg.ID)
	log := logger.C(ctx)

	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxRetries; attempt++ {
		outcome, err := p.flow.Handle(ctx, msg)
		if err == nil {
			log.Debug().Str("outcome", string(outcome)).Int("attempt", attempt).Msg("message settled")
			return domain.Result{Outcome: outcome, Attempts: attempt}
		}
		lastErr = err
		log.Warn().Err(err).
			Int("attempt", attempt).
			Int("max_attempts", p.cfg.MaxRetries).
			Bool("transient", perr.Retryable(err)).
			Msg("message attempt failed")

		if attempt == p.cfg.MaxRetries {
			break
		}
		if err := p.sleep(ctx, p.cfg.RetryDelay); err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("retry wait cancelled")
			return domain.Result{Outcome: domain.OutcomeFailed, Attempts: attempt, Err: lastErr}
		}
	}

	log.Error().Err(lastErr).Int("attempts", p.cfg.MaxRetries).Msg("message failed after all retries")
	return domain.Result{Outcome: domain.OutcomeFailed, Attempts: p.cfg.MaxRetries, Err: lastErr}
}

// Dispatch handles ev on its own goroutine; Wait blocks until every dispatch returns
func (p *Pipeline) Dispatch(ctx context.Context, ev discord.Event) {
	msg := domain.ChatMessage{
		ID:          ev.ID,
		ChannelID:   ev.ChannelID,
		Content:     ev.Content,
		AuthorName:  ev.AuthorName,
		AuthorIsBot: ev.AuthorIsBot,
		ReceivedAt:  ev.At,
	}
	if !p.Accepts(msg) {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.Process(ctx, msg)
	}()
}

// Wait blocks until in-flight messages finish
func (p *Pipeline) Wait() { p.wg.Wait() }

// Run consumes src until ctx ends, then waits for in-flight messages
func (p *Pipeline) Run(ctx context.Context, src ChatSource) error {
	log := logger.Named("intake")
	log.Info().Str("channel_id", p.cfg.ChannelID).Int("max_attempts", p.cfg.MaxRetries).Msg("intake pipeline started")

	err := src.Run(ctx, func(ev discord.Event) { p.Dispatch(ctx, ev) })
	p.Wait()

	log.Info().Msg("intake pipeline stopped")
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
