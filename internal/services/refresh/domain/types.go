// Package domain holds refresh run types and ports
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrRunInProgress means this process is already refreshing
var ErrRunInProgress = errors.New("refresh: run already in progress")

// RunSummary reports one refresh pass over the active campaigns
type RunSummary struct {
	RunID      string    `json:"run_id"`
	StatsDate  time.Time `json:"stats_date"`
	Campaigns  int       `json:"campaigns"`
	Videos     int       `json:"videos"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Snapshots  int       `json:"snapshots_created"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration is the wall time of the run
func (r RunSummary) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// RunnerPort runs a refresh pass on demand
type RunnerPort interface {
	RunOnce(ctx context.Context) (RunSummary, error)
}
