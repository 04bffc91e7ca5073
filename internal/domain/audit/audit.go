// Package audit keeps a trail of dashboard actions: exports, payment changes
// and financial records. Without a database the trail is a no-op.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	ActionExportPayroll    = "payroll.export"
	ActionCreatePayment    = "payroll.payment.create"
	ActionCancelPayments   = "payroll.payment.cancel"
	ActionExportFinancials = "financials.export"
	ActionCreateCost       = "financials.cost.create"
	ActionCreateIncome     = "financials.income.create"
)

type Entry struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	RequestID  string
	IP         string
	Details    any
}

type Event struct {
	ID         int64           `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Details    json.RawMessage `json:"details,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	Actor      string
}

type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]Event, error)
	Enabled() bool
}

// DB is the subset of pgxpool.Pool used by Service.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Service struct {
	DB DB
}

func New(db DB) *Service {
	return &Service{DB: db}
}

func (s *Service) Enabled() bool { return true }

func (s *Service) Record(ctx context.Context, entry Entry) error {
	var details []byte
	if entry.Details != nil {
		payload, err := json.Marshal(entry.Details)
		if err != nil {
			return err
		}
		details = payload
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor, action, entity_type, entity_id, details_json, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, entry.Actor, entry.Action, entry.EntityType, entry.EntityID, details, entry.RequestID, entry.IP)
	return err
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Event, error) {
	query, args := buildListQuery(filter, limit, offset)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.Actor, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.CreatedAt, &evt.Details); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func buildListQuery(filter Filter, limit, offset int) (string, []any) {
	query := "SELECT id, actor, action, entity_type, entity_id, request_id, ip, created_at, details_json FROM audit_events WHERE 1=1"
	var args []any
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		query += fmt.Sprintf(" AND entity_type = $%d", len(args))
	}
	if filter.Actor != "" {
		args = append(args, filter.Actor)
		query += fmt.Sprintf(" AND actor = $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return query, args
}

// Nop discards entries. It is used when DATABASE_URL is empty.
type Nop struct{}

func (Nop) Enabled() bool { return false }

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) List(context.Context, Filter, int, int) ([]Event, error) {
	return []Event{}, nil
}

var (
	_ Recorder = (*Service)(nil)
	_ Recorder = Nop{}
)
