// Package history appends refresh run summaries to ClickHouse
package history

import (
	"context"

	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/store"
	"campaigntracker/internal/services/refresh/domain"
)

// Table holds one row per finished refresh run
const Table = "refresh_runs"

// DDL creates Table when missing
const DDL = `
CREATE TABLE IF NOT EXISTS refresh_runs (
    run_id       String,
    stats_date   Date,
    campaigns    UInt32,
    videos       UInt32,
    succeeded    UInt32,
    failed       UInt32,
    snapshots    UInt32,
    started_at   DateTime64(3, 'UTC'),
    finished_at  DateTime64(3, 'UTC'),
    duration_ms  UInt64
) ENGINE = MergeTree
ORDER BY (stats_date, started_at)`

// Sink records finished runs
type Sink interface {
	Record(ctx context.Context, s domain.RunSummary) error
}

// Nop drops every summary; used when ClickHouse is disabled
type Nop struct{}

// Record implements Sink
func (Nop) Record(context.Context, domain.RunSummary) error { return nil }

// CH writes summaries through the store ClickHouse seam
type CH struct{ ch store.Clickhouse }

// New returns a ClickHouse sink, or Nop when ch is nil
func New(ch store.Clickhouse) Sink {
	if ch == nil {
		return Nop{}
	}
	return &CH{ch: ch}
}

// Ensure creates the history table
func (c *CH) Ensure(ctx context.Context) error {
	if err := c.ch.Exec(ctx, DDL); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "create %s", Table)
	}
	return nil
}

// Record appends one row for s
func (c *CH) Record(ctx context.Context, s domain.RunSummary) error {
	row := []any{
		s.RunID,
		s.StatsDate.UTC(),
		uint32(s.Campaigns),
		uint32(s.Videos),
		uint32(s.Succeeded),
		uint32(s.Failed),
		uint32(s.Snapshots),
		s.StartedAt.UTC(),
		s.FinishedAt.UTC(),
		uint64(s.Duration().Milliseconds()),
	}
	if err := c.ch.Insert(ctx, Table, [][]any{row}); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "insert %s", Table)
	}
	return nil
}
