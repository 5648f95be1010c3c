// Package guardrails keeps refresh runs from overlapping across processes
package guardrails

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"campaigntracker/internal/modkit/repokit"
	"campaigntracker/internal/platform/logger"
)

// ErrLeaseHeld signals another process is refreshing the day right now
var ErrLeaseHeld = errors.New("refresh: day lease already held")

// Schema is the DDL for refresh_leases
//
//go:embed schema.sql
var Schema string

// LeaseFunc claims day and runs do while holding it
type LeaseFunc func(ctx context.Context, day time.Time, do func(context.Context) error) error

// MakeDayLease claims the refresh_leases row for a UTC day while do runs and
// releases it when do returns, so a later run on the same day claims again.
// ttl only matters for a run that died holding the row: once expires_at has
// passed the row is taken over
func MakeDayLease(db repokit.TxRunner, owner string, ttl time.Duration) LeaseFunc {
	owner = fmt.Sprintf("%s:%d", owner, os.Getpid())
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	interval := fmt.Sprintf("%d seconds", int64(ttl/time.Second))

	return func(ctx context.Context, day time.Time, do func(context.Context) error) error {
		var claimed bool
		err := db.Tx(ctx, func(q repokit.Queryer) error {
			rows, err := q.Query(ctx, `
				insert into refresh_leases (day, owner, expires_at)
				values ($1::date, $2, now() + ($3)::interval)
				on conflict (day) do update
				   set owner = excluded.owner, claimed_at = now(), expires_at = excluded.expires_at
				 where refresh_leases.expires_at <= now()
				returning true
			`, dayKey(day), owner, interval)
			if err != nil {
				return err
			}
			defer rows.Close()
			claimed = rows.Next()
			return rows.Err()
		})
		if err != nil {
			return err
		}
		if !claimed {
			return ErrLeaseHeld
		}
		defer release(ctx, db, dayKey(day), owner)
		return do(ctx)
	}
}

// release drops the row this owner holds; it runs even when ctx was cancelled
func release(ctx context.Context, db repokit.TxRunner, day, owner string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := db.Exec(rctx, `delete from refresh_leases where day = $1::date and owner = $2`, day, owner); err != nil {
		logger.C(ctx).Warn().Err(err).Str("day", day).Msg("refresh lease release failed")
	}
}

func dayKey(day time.Time) string { return day.UTC().Format(time.DateOnly) }
