package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/store/ch"
)

// fakeRows walks a fixed table of values
type fakeRows struct {
	cols   []string
	data   [][]any
	idx    int
	err    error
	closed bool
}

func newFakeRows(cols []string, data ...[]any) *fakeRows {
	return &fakeRows{cols: cols, data: data, idx: -1}
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx]
	if len(row) != len(dest) {
		return errors.New("dest len mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int64:
			*p = row[i].(int64)
		default:
			return errors.New("unsupported dest")
		}
	}
	return nil
}

func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            { r.closed = true }
func (r *fakeRows) Columns() []string { return r.cols }

type fakeTag int64

func (t fakeTag) String() string      { return "UPDATE" }
func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeRow struct{ v int64 }

func (r fakeRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.v
	return nil
}

type fakeQuerier struct {
	rows     *fakeRows
	queryErr error
	affected int64
	scalar   int64
}

func (f *fakeQuerier) Exec(context.Context, string, ...any) (CommandTag, error) {
	return fakeTag(f.affected), nil
}

func (f *fakeQuerier) Query(context.Context, string, ...any) (Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeQuerier) QueryRow(context.Context, string, ...any) Row { return fakeRow{v: f.scalar} }

func scanCode(r Row) (string, error) {
	var s string
	return s, r.Scan(&s)
}

func TestMany(t *testing.T) {
	q := &fakeQuerier{rows: newFakeRows([]string{"code"}, []any{"AB"}, []any{"AB1"})}
	got, err := Many(context.Background(), q, scanCode, "SELECT code FROM campaigns")
	if err != nil {
		t.Fatalf("Many: %v", err)
	}
	if len(got) != 2 || got[0] != "AB" || got[1] != "AB1" {
		t.Fatalf("Many = %v", got)
	}
	if !q.rows.closed {
		t.Fatalf("rows not closed")
	}

	q = &fakeQuerier{queryErr: errors.New("down")}
	if _, err := Many(context.Background(), q, scanCode, "x"); err == nil {
		t.Fatalf("expected query error")
	}
}

func TestOne(t *testing.T) {
	ctx := context.Background()

	q := &fakeQuerier{rows: newFakeRows([]string{"code"}, []any{"AB"})}
	got, err := One(ctx, q, scanCode, "x")
	if err != nil || got != "AB" {
		t.Fatalf("One = %q, %v", got, err)
	}

	q = &fakeQuerier{rows: newFakeRows([]string{"code"})}
	if _, err := One(ctx, q, scanCode, "x"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("empty One should be not found, got %v", err)
	}

	q = &fakeQuerier{rows: newFakeRows([]string{"code"}, []any{"A"}, []any{"B"})}
	if _, err := One(ctx, q, scanCode, "x"); err == nil {
		t.Fatalf("expected error for more than one row")
	}
}

func TestExecOneAndScalar(t *testing.T) {
	ctx := context.Background()

	if err := ExecOne(ctx, &fakeQuerier{affected: 1}, "x"); err != nil {
		t.Fatalf("ExecOne(1): %v", err)
	}
	if err := ExecOne(ctx, &fakeQuerier{affected: 0}, "x"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("ExecOne(0) = %v", err)
	}
	if err := ExecOne(ctx, &fakeQuerier{affected: 3}, "x"); err == nil || !strings.Contains(err.Error(), "got 3") {
		t.Fatalf("ExecOne(3) = %v", err)
	}

	n, err := Scalar[int64](ctx, &fakeQuerier{scalar: 42}, "SELECT count(*)")
	if err != nil || n != 42 {
		t.Fatalf("Scalar = %d, %v", n, err)
	}
}

type fakeKV struct {
	pingErr error
	closed  bool
}

func (f *fakeKV) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (f *fakeKV) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (f *fakeKV) Ping(context.Context) error                               { return f.pingErr }
func (f *fakeKV) Close() error                                             { f.closed = true; return nil }

type fakeCH struct {
	pingErr error
	closed  bool
}

func (f *fakeCH) Insert(context.Context, string, [][]any) error { return nil }
func (f *fakeCH) Exec(context.Context, string, ...any) error    { return nil }
func (f *fakeCH) Query(context.Context, string, ...any) (ch.Rows, error) {
	return nil, errors.New("unused")
}
func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Close() error               { f.closed = true; return nil }

func TestGuardAndClose(t *testing.T) {
	var nilStore *Store
	if err := nilStore.Guard(context.Background()); err == nil {
		t.Fatalf("nil store should fail guard")
	}

	kv := &fakeKV{pingErr: errors.New("no redis")}
	inner := &fakeCH{}
	s := &Store{RDS: kv, CH: newCHAdapter(inner)}

	err := s.Guard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "redis: no redis") {
		t.Fatalf("Guard = %v", err)
	}
	if strings.Contains(err.Error(), "ch:") {
		t.Fatalf("healthy ch reported: %v", err)
	}

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !kv.closed || !inner.closed {
		t.Fatalf("backends not closed kv=%v ch=%v", kv.closed, inner.closed)
	}
}

func TestOpen_NoBackends(t *testing.T) {
	q := &fakeQuerier{}
	s, err := Open(context.Background(), Config{}, WithPG(txOnly{q}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG == nil || s.CH != nil || s.RDS != nil {
		t.Fatalf("unexpected seams: %+v", s)
	}
}

func TestOpen_BadPGURL(t *testing.T) {
	_, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://bad"}})
	if err == nil {
		t.Fatalf("expected parse error")
	}
}

// txOnly lifts a RowQuerier into a TxRunner that runs fn without a transaction
type txOnly struct{ RowQuerier }

func (t txOnly) Tx(_ context.Context, fn func(q RowQuerier) error) error { return fn(t.RowQuerier) }
