package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campaigntracker/internal/platform/store"
	"campaigntracker/internal/platform/testkit"
)

type tagN int64

func (t tagN) String() string      { return "SET" }
func (t tagN) RowsAffected() int64 { return int64(t) }

// recQ records every statement it sees
type recQ struct{ sql []string }

func (r *recQ) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	r.sql = append(r.sql, sql)
	return tagN(0), nil
}
func (r *recQ) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (r *recQ) QueryRow(context.Context, string, ...any) store.Row        { return nil }

type fakeTx struct {
	*recQ
	calls int
	err   error
}

func (f *fakeTx) Tx(_ context.Context, fn func(q Queryer) error) error {
	f.calls++
	if err := fn(f.recQ); err != nil {
		return err
	}
	return f.err
}

func TestWithTx(t *testing.T) {
	ftx := &fakeTx{recQ: &recQ{}}
	var seen Queryer
	if err := WithTx(context.Background(), ftx, func(q Queryer) error { seen = q; return nil }); err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if ftx.calls != 1 || seen != ftx.recQ {
		t.Fatalf("calls=%d seen=%v", ftx.calls, seen)
	}

	boom := errors.New("boom")
	if err := WithTx(context.Background(), ftx, func(Queryer) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("fn error not propagated: %v", err)
	}
	ftx.err = errors.New("commit")
	if err := WithTx(context.Background(), ftx, func(Queryer) error { return nil }); !errors.Is(err, ftx.err) {
		t.Fatalf("tx error not propagated: %v", err)
	}
}

func TestBindFuncAndMustBind(t *testing.T) {
	type repo struct{ q Queryer }
	b := BindFunc[repo](func(q Queryer) repo { return repo{q: q} })

	q := &recQ{}
	if got := MustBind[repo](b, q); got.q != q {
		t.Fatalf("bound to wrong queryer")
	}
	testkit.MustPanic(t, func() { MustBind[repo](b, nil) })
}

func TestWithBeginHooks(t *testing.T) {
	ftx := &fakeTx{recQ: &recQ{}}
	var order []string
	hooked := WithBeginHooks(ftx,
		LocalStatementTimeout(1500*time.Millisecond),
		LocalStatementTimeout(0),
		func(context.Context, Queryer) error { order = append(order, "hook"); return nil },
	)

	err := hooked.Tx(context.Background(), func(q Queryer) error {
		order = append(order, "fn")
		_, err := q.Exec(context.Background(), "UPDATE campaign_videos SET views = 1")
		return err
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if len(order) != 2 || order[0] != "hook" || order[1] != "fn" {
		t.Fatalf("order = %v", order)
	}
	if len(ftx.sql) != 2 || ftx.sql[0] != "SET LOCAL statement_timeout = 1500" {
		t.Fatalf("statements = %v", ftx.sql)
	}

	// outside Tx the wrapper delegates
	if _, err := hooked.Exec(context.Background(), "SELECT 1"); err != nil || ftx.sql[2] != "SELECT 1" {
		t.Fatalf("passthrough exec: %v %v", err, ftx.sql)
	}

	failing := WithBeginHooks(ftx, func(context.Context, Queryer) error { return errors.New("hook failed") })
	called := false
	err = failing.Tx(context.Background(), func(Queryer) error { called = true; return nil })
	if err == nil || !strings.Contains(err.Error(), "hook failed") || called {
		t.Fatalf("err=%v called=%v", err, called)
	}
}

type guardFn func(context.Context) error

func (g guardFn) Guard(ctx context.Context) error { return g(ctx) }

func TestMustGuard(t *testing.T) {
	var hadDeadline bool
	MustGuard(context.Background(), guardFn(func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	}))
	if !hadDeadline {
		t.Fatalf("MustGuard should apply a default deadline")
	}
	testkit.MustPanic(t, func() {
		MustGuard(context.Background(), guardFn(func(context.Context) error { return errors.New("pg down") }))
	})
}
