// Package domain holds the intake message and outcome types
package domain

import (
	"context"
	"time"
)

// ChatMessage is one announcement read from the intake channel
type ChatMessage struct {
	ID          string
	ChannelID   string
	Content     string
	AuthorName  string
	AuthorIsBot bool
	ReceivedAt  time.Time
}

// Outcome is how the workflow finished with a message
type Outcome string

const (
	// OutcomeIgnored is a message filtered before any call
	OutcomeIgnored Outcome = "ignored"
	// OutcomeAttached is a video persisted on its campaign
	OutcomeAttached Outcome = "attached"
	// OutcomeRejected is a message moderation turned down
	OutcomeRejected Outcome = "rejected"
	// OutcomeNoCampaign is a valid message whose code has no active campaign
	OutcomeNoCampaign Outcome = "no_campaign"
	// OutcomeVideoUnavailable is a video the data API reports as deleted
	OutcomeVideoUnavailable Outcome = "video_unavailable"
	// OutcomeDuplicate is a video url already tracked
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeFailed is a message whose retries ran out
	OutcomeFailed Outcome = "failed"
)

// Succeeded reports whether o ended with a stored video
func (o Outcome) Succeeded() bool { return o == OutcomeAttached }

// Result is the pipeline verdict for one message
type Result struct {
	Outcome  Outcome
	Attempts int
	Err      error
}

// OK reports success for the message
func (r Result) OK() bool { return r.Outcome.Succeeded() }

// PipelinePort processes inbound chat messages
type PipelinePort interface {
	Process(ctx context.Context, msg ChatMessage) Result
}
