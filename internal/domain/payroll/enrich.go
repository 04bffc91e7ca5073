package payroll

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"haulboard/internal/platform/money"
)

type PaymentSource interface {
	Payment(ctx context.Context, token, paymentID string) (Payment, error)
}

// Enricher resolves payment expenses for aggregated rows.
type Enricher struct {
	source      PaymentSource
	concurrency int
	log         *slog.Logger
}

func NewEnricher(source PaymentSource, concurrency int, log *slog.Logger) *Enricher {
	if concurrency <= 0 {
		concurrency = DefaultPaymentConcurrency
	}
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{source: source, concurrency: concurrency, log: log}
}

// UniquePaymentIDs lists every payment id referenced by the set, once, in
// first-seen order.
func UniquePaymentIDs(set *RowSet) []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, code := range set.Codes() {
		row, _ := set.Get(code)
		for _, pid := range row.PaymentIDs {
			if _, ok := seen[pid]; ok {
				continue
			}
			seen[pid] = struct{}{}
			ids = append(ids, pid)
		}
	}
	return ids
}

// Enrich fetches each unique payment once, sums its expense into every row
// that references it and recomputes netTotal. A failed lookup is logged and
// contributes 0. Only context cancellation is returned as an error.
func (e *Enricher) Enrich(ctx context.Context, token string, set *RowSet) error {
	if set.Len() == 0 {
		return nil
	}
	ids := UniquePaymentIDs(set)
	expenses := make(map[string]float64, len(ids))

	if len(ids) > 0 && e.source != nil {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.concurrency)
		for _, id := range ids {
			paymentID := id
			g.Go(func() error {
				payment, err := e.source.Payment(gctx, token, paymentID)
				if err != nil {
					e.log.Warn("payment lookup failed, counting expense as zero", "paymentId", paymentID, "err", err)
					return nil
				}
				mu.Lock()
				expenses[paymentID] = money.Parse(float64(payment.Expense))
				mu.Unlock()
				return nil
			})
		}
		// Lookups log and absorb their own failures, so the group never errors.
		_ = g.Wait()
	}

	for _, code := range set.Codes() {
		row, _ := set.Get(code)
		row.Expense = 0
		for _, pid := range row.PaymentIDs {
			row.Expense += expenses[pid]
		}
		row.Recompute()
	}
	return ctx.Err()
}

// Stats tallies paid and unpaid rows. A row is paid when it references at
// least one payment. Amounts are grand totals.
func Stats(rows []OperatorRow) PaymentStats {
	var stats PaymentStats
	for _, row := range rows {
		stats.Total++
		if row.Paid() {
			stats.Paid++
			stats.PaidAmount += money.Parse(row.GrandTotal)
		} else {
			stats.Unpaid++
			stats.UnpaidAmount += money.Parse(row.GrandTotal)
		}
	}
	return stats
}
