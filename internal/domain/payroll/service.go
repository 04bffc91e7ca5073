package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"haulboard/internal/platform/validate"
)

type AssignmentSource interface {
	ListAssignments(ctx context.Context, token string, q Query) (AssignmentPage, error)
}

type PaymentWriter interface {
	CreatePayment(ctx context.Context, token string, req CreatePaymentRequest) (map[string]any, error)
	CancelPayments(ctx context.Context, token string, req CancelPaymentsRequest) (map[string]any, error)
}

// Backend is everything the payroll pipeline needs from the operations API.
type Backend interface {
	AssignmentSource
	PaymentSource
	PaymentWriter
}

type Service struct {
	assignments AssignmentSource
	payments    PaymentWriter
	enricher    *Enricher
	loc         *time.Location
	log         *slog.Logger
}

func NewService(backend Backend, concurrency int, loc *time.Location, log *slog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		assignments: backend,
		payments:    backend,
		enricher:    NewEnricher(backend, concurrency, log),
		loc:         loc,
		log:         log,
	}
}

// Week runs fetch, aggregate and enrich for one ISO week and returns the
// unfiltered board.
func (s *Service) Week(ctx context.Context, token string, q Query) (Board, error) {
	if err := ValidateQuery(q); err != nil {
		return Board{}, err
	}
	page, err := s.assignments.ListAssignments(ctx, token, q)
	if err != nil {
		return Board{}, err
	}

	set := Aggregate(page.Records, s.loc)
	if err := s.enricher.Enrich(ctx, token, set); err != nil {
		return Board{}, fmt.Errorf("enrich payments: %w", err)
	}

	rows := set.Rows()
	totals := Summarize(rows)
	info := ResolveWeekInfo(q.Week, q.Year, page.WeekInfo)
	s.log.Debug("payroll week loaded",
		"week", q.Week,
		"year", q.Year,
		"location", q.Location,
		"records", len(page.Records),
		"operators", len(rows),
	)
	return Board{
		Week:       q.Week,
		Year:       q.Year,
		Location:   q.Location,
		WeekInfo:   info,
		WeekDates:  WeekDates(q.Week, q.Year, info),
		Rows:       rows,
		Stats:      Stats(rows),
		TotalGrand: totals.GrandTotal,
		Pagination: page.Pagination,
	}, nil
}

// Narrow applies the filter layer to a board and recomputes the derived
// stats for the remaining rows.
func Narrow(board Board, search string, loc Location) Board {
	out := board
	out.Rows = Filter(board.Rows, search, loc)
	out.Stats = Stats(out.Rows)
	out.TotalGrand = Summarize(out.Rows).GrandTotal
	return out
}

func (s *Service) CreatePayment(ctx context.Context, token string, req CreatePaymentRequest) (map[string]any, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	verr := &validate.Error{}
	start, _ := ParseDate(req.DateStart, time.UTC)
	end, _ := ParseDate(req.DateEnd, time.UTC)
	if end.Before(start) {
		verr.Add("date_start", "must be on or before date_end")
		verr.Add("date_end", "must be on or after date_start")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return s.payments.CreatePayment(ctx, token, req)
}

func (s *Service) CancelPayments(ctx context.Context, token string, req CancelPaymentsRequest) (map[string]any, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	return s.payments.CancelPayments(ctx, token, req)
}
