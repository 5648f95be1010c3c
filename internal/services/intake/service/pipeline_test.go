package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"campaigntracker/internal/adapters/chat/discord"
	"campaigntracker/internal/platform/testkit"
	"campaigntracker/internal/services/intake/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns the next outcome or error on each attempt
type scripted struct {
	mu    sync.Mutex
	steps []error
	final domain.Outcome
	calls int
	seen  []string
}

func (s *scripted) Handle(_ context.Context, msg domain.ChatMessage) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.seen = append(s.seen, msg.Content)
	if s.calls <= len(s.steps) && s.steps[s.calls-1] != nil {
		return "", s.steps[s.calls-1]
	}
	return s.final, nil
}

func newPipeline(flow Handler, waits *[]time.Duration) *Pipeline {
	p := NewPipeline(Config{ChannelID: "c1", IgnoreAuthors: []string{"CorrectionBot"}, MaxRetries: 3, RetryDelay: time.Second}, flow)
	p.sleep = func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return p
}

func TestProcess_IgnoredMessagesNeverReachWorkflow(t *testing.T) {
	flow := &scripted{final: domain.OutcomeAttached}
	var waits []time.Duration
	p := newPipeline(flow, &waits)

	for name, msg := range map[string]domain.ChatMessage{
		"other channel":  {ChannelID: "c2", AuthorName: "mika"},
		"bot":            {ChannelID: "c1", AuthorName: "tracker", AuthorIsBot: true},
		"correction bot": {ChannelID: "c1", AuthorName: "CorrectionBot"},
	} {
		res := p.Process(context.Background(), msg)
		assert.Equal(t, domain.OutcomeIgnored, res.Outcome, name)
		assert.False(t, res.OK(), name)
	}
	assert.Zero(t, flow.calls)
}

func TestProcess_NormalizesContent(t *testing.T) {
	flow := &scripted{final: domain.OutcomeAttached}
	var waits []time.Duration
	p := newPipeline(flow, &waits)

	res := p.Process(context.Background(), domain.ChatMessage{ChannelID: "c1", AuthorName: "mika", Content: "  BM1\nhttps://www.tiktok.com/@m/video/1\r\n"})
	require.True(t, res.OK())
	assert.Equal(t, []string{"BM1 https://www.tiktok.com/@m/video/1"}, flow.seen)
}

func TestProcess_RetriesThenSucceeds(t *testing.T) {
	flow := &scripted{steps: []error{errors.New("503"), errors.New("timeout")}, final: domain.OutcomeAttached}
	var waits []time.Duration
	p := newPipeline(flow, &waits)

	res := p.Process(context.Background(), domain.ChatMessage{ChannelID: "c1", AuthorName: "mika"})
	assert.True(t, res.OK())
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, flow.calls)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, waits, "exactly two waits")
}

func TestProcess_ExhaustsRetries(t *testing.T) {
	boom := errors.New("db down")
	flow := &scripted{steps: []error{boom, boom, boom, boom}}
	var waits []time.Duration
	p := newPipeline(flow, &waits)

	res := p.Process(context.Background(), domain.ChatMessage{ChannelID: "c1", AuthorName: "mika"})
	assert.Equal(t, domain.OutcomeFailed, res.Outcome)
	assert.Equal(t, 3, res.Attempts)
	assert.ErrorIs(t, res.Err, boom)
	assert.Equal(t, 3, flow.calls)
	assert.Len(t, waits, 2, "no wait after the last attempt")
}

func TestProcess_BusinessOutcomesAreNotRetried(t *testing.T) {
	flow := &scripted{final: domain.OutcomeRejected}
	var waits []time.Duration
	p := newPipeline(flow, &waits)

	res := p.Process(context.Background(), domain.ChatMessage{ChannelID: "c1", AuthorName: "mika"})
	assert.Equal(t, domain.OutcomeRejected, res.Outcome)
	assert.False(t, res.OK())
	assert.Equal(t, 1, flow.calls)
	assert.Empty(t, waits)
}

func TestProcess_CancelledWaitStops(t *testing.T) {
	flow := &scripted{steps: []error{errors.New("x"), errors.New("x"), errors.New("x")}}
	p := NewPipeline(Config{ChannelID: "c1", MaxRetries: 3, RetryDelay: time.Hour}, flow)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := p.Process(ctx, domain.ChatMessage{ChannelID: "c1", AuthorName: "mika"})
	assert.Equal(t, domain.OutcomeFailed, res.Outcome)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, flow.calls)
}

func TestNewPipeline_Defaults(t *testing.T) {
	testkit.MustPanic(t, func() { NewPipeline(Config{}, nil) })
	p := NewPipeline(Config{MaxRetries: 0}, &scripted{})
	assert.Equal(t, 1, p.cfg.MaxRetries)
}

// chanSource replays events then blocks until ctx ends
type chanSource struct{ events []discord.Event }

func (c chanSource) Run(ctx context.Context, fn func(discord.Event)) error {
	for _, ev := range c.events {
		fn(ev)
	}
	<-ctx.Done()
	return nil
}

type countingFlow struct{ n atomic.Int32 }

func (c *countingFlow) Handle(context.Context, domain.ChatMessage) (domain.Outcome, error) {
	c.n.Add(1)
	return domain.OutcomeAttached, nil
}

func TestRun_DispatchesAcceptedEventsAndWaits(t *testing.T) {
	flow := &countingFlow{}
	p := NewPipeline(Config{ChannelID: "c1", IgnoreAuthors: []string{"CorrectionBot"}, MaxRetries: 1}, flow)

	src := chanSource{events: []discord.Event{
		{ID: "1", ChannelID: "c1", AuthorName: "a"},
		{ID: "2", ChannelID: "c1", AuthorName: "b"},
		{ID: "3", ChannelID: "c9", AuthorName: "c"},
		{ID: "4", ChannelID: "c1", AuthorName: "CorrectionBot"},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, p.Run(ctx, src))
	assert.Equal(t, int32(2), flow.n.Load())
}
