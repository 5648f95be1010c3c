package guardrails

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"campaigntracker/internal/modkit/repokit"
	"campaigntracker/internal/platform/store"
)

type leaseRows struct {
	next bool
	done bool
}

func (r *leaseRows) Next() bool {
	if r.done {
		return false
	}
	r.done = true
	return r.next
}
func (r *leaseRows) Scan(...any) error { return nil }
func (r *leaseRows) Err() error        { return nil }
func (r *leaseRows) Close()            {}
func (r *leaseRows) Columns() []string { return []string{"bool"} }

type tag int64

func (t tag) String() string      { return "DELETE" }
func (t tag) RowsAffected() int64 { return int64(t) }

// leaseTable keeps refresh_leases rows as day -> owner; expired rows are never simulated
type leaseTable struct {
	mu       sync.Mutex
	held     map[string]string
	sql      string
	args     []any
	released []string
}

func (q *leaseTable) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !strings.HasPrefix(strings.TrimSpace(sql), "delete from refresh_leases") {
		return tag(0), errors.New("unexpected exec: " + sql)
	}
	day, owner := args[0].(string), args[1].(string)
	if q.held[day] != owner {
		return tag(0), nil
	}
	delete(q.held, day)
	q.released = append(q.released, day)
	return tag(1), nil
}

func (q *leaseTable) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sql, q.args = sql, args
	if q.held == nil {
		q.held = map[string]string{}
	}
	day := args[0].(string)
	if _, taken := q.held[day]; taken {
		return &leaseRows{next: false}, nil
	}
	q.held[day] = args[1].(string)
	return &leaseRows{next: true}, nil
}

func (q *leaseTable) QueryRow(context.Context, string, ...any) store.Row { return nil }

func (q *leaseTable) Tx(_ context.Context, fn func(repokit.Queryer) error) error { return fn(q) }

var day = time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)

func TestMakeDayLease_ClaimArgs(t *testing.T) {
	q := &leaseTable{}
	ran := false
	lease := MakeDayLease(q, "worker", 90*time.Minute)
	if err := lease(context.Background(), day, func(context.Context) error { ran = true; return nil }); err != nil {
		t.Fatalf("lease: %v", err)
	}
	if !ran {
		t.Fatalf("do not run after claim")
	}
	if q.args[0] != "2025-07-03" || q.args[2] != "5400 seconds" || !strings.HasPrefix(q.args[1].(string), "worker:") {
		t.Fatalf("args = %v", q.args)
	}
	if !strings.Contains(q.sql, "expires_at <= now()") {
		t.Fatalf("expired leases must be reclaimable: %s", q.sql)
	}

	_ = MakeDayLease(q, "worker", 0)(context.Background(), day, func(context.Context) error { return nil })
	if q.args[2] != "7200 seconds" {
		t.Fatalf("default ttl = %v", q.args[2])
	}
}

func TestMakeDayLease_SequentialRunsBothClaim(t *testing.T) {
	q := &leaseTable{}
	lease := MakeDayLease(q, "refresh", time.Hour)

	runs := 0
	for i := 0; i < 2; i++ {
		if err := lease(context.Background(), day, func(context.Context) error { runs++; return nil }); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	if runs != 2 {
		t.Fatalf("runs = %d", runs)
	}
	if len(q.released) != 2 || len(q.held) != 0 {
		t.Fatalf("released=%v held=%v", q.released, q.held)
	}
}

func TestMakeDayLease_HeldWhileRunning(t *testing.T) {
	q := &leaseTable{}
	lease := MakeDayLease(q, "refresh", time.Hour)

	var inner error
	err := lease(context.Background(), day, func(ctx context.Context) error {
		inner = lease(ctx, day, func(context.Context) error {
			t.Fatalf("second holder ran")
			return nil
		})
		return nil
	})
	if err != nil {
		t.Fatalf("outer: %v", err)
	}
	if !errors.Is(inner, ErrLeaseHeld) {
		t.Fatalf("inner err = %v", inner)
	}
	if len(q.held) != 0 {
		t.Fatalf("lease not released: %v", q.held)
	}
}

func TestMakeDayLease_ReleasedOnFailureAndCancel(t *testing.T) {
	q := &leaseTable{}
	lease := MakeDayLease(q, "refresh", time.Hour)

	boom := errors.New("boom")
	if err := lease(context.Background(), day, func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	_ = lease(ctx, day, func(context.Context) error { cancel(); return context.Canceled })

	if len(q.released) != 2 || len(q.held) != 0 {
		t.Fatalf("released=%v held=%v", q.released, q.held)
	}
}
