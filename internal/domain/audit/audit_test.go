package audit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeDB struct {
	sql  string
	args []any
	err  error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = sql
	f.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func TestRecordMarshalsDetails(t *testing.T) {
	db := &fakeDB{}
	err := New(db).Record(context.Background(), Entry{
		Actor:      "user-1",
		Action:     ActionExportPayroll,
		EntityType: "payroll_week",
		EntityID:   "2024-W07",
		RequestID:  "req-1",
		IP:         "10.0.0.1",
		Details:    map[string]any{"format": "csv"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.sql, "INSERT INTO audit_events") {
		t.Fatalf("unexpected sql: %s", db.sql)
	}
	if len(db.args) != 7 {
		t.Fatalf("expected 7 args, got %d", len(db.args))
	}
	details, ok := db.args[4].([]byte)
	if !ok || string(details) != `{"format":"csv"}` {
		t.Fatalf("unexpected details arg: %#v", db.args[4])
	}
}

func TestRecordWithoutDetails(t *testing.T) {
	db := &fakeDB{}
	if err := New(db).Record(context.Background(), Entry{Action: ActionCreateCost}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details, _ := db.args[4].([]byte); details != nil {
		t.Fatalf("expected nil details, got %s", details)
	}
}

func TestRecordPropagatesError(t *testing.T) {
	db := &fakeDB{err: errors.New("db down")}
	if err := New(db).Record(context.Background(), Entry{Action: ActionCreateCost}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuildListQueryPlaceholders(t *testing.T) {
	query, args := buildListQuery(Filter{Action: ActionCreateIncome, Actor: "u1"}, 20, 40)
	if !strings.Contains(query, "action = $1") || !strings.Contains(query, "actor = $2") {
		t.Fatalf("unexpected filters: %s", query)
	}
	if !strings.HasSuffix(query, "LIMIT $3 OFFSET $4") {
		t.Fatalf("unexpected paging: %s", query)
	}
	if len(args) != 4 || args[2] != 20 || args[3] != 40 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = Nop{}
	if r.Enabled() {
		t.Fatalf("nop recorder reports enabled")
	}
	if err := r.Record(context.Background(), Entry{Action: ActionCreateCost}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events, err := r.List(context.Background(), Filter{}, 10, 0)
	if err != nil || len(events) != 0 {
		t.Fatalf("unexpected list result: %v %v", events, err)
	}
}
