package financials

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"haulboard/internal/platform/validate"
)

var ErrInvalidPeriod = errors.New("start_date and end_date must be valid dates with start on or before end")

type Source interface {
	FinancialSummary(ctx context.Context, token string, period Period) (Summary, error)
	ListCosts(ctx context.Context, token string, period Period) ([]Cost, error)
	ListDiscounts(ctx context.Context, token string, period Period) ([]Discount, error)
	ListIncomes(ctx context.Context, token string, period Period) ([]Income, error)
	CreateCost(ctx context.Context, token string, input CostInput) (Cost, error)
	CreateIncome(ctx context.Context, token string, input IncomeInput) (Income, error)
}

type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

func ValidatePeriod(period Period) error {
	start, err := time.Parse("2006-01-02", period.StartDate)
	if err != nil {
		return ErrInvalidPeriod
	}
	end, err := time.Parse("2006-01-02", period.EndDate)
	if err != nil {
		return ErrInvalidPeriod
	}
	if end.Before(start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Breakdown fetches the summary, stored costs and discounts concurrently.
// Any failed fetch fails the whole call.
func (s *Service) Breakdown(ctx context.Context, token string, period Period) (Breakdown, error) {
	if err := ValidatePeriod(period); err != nil {
		return Breakdown{}, err
	}

	var (
		summary   Summary
		costs     []Cost
		discounts []Discount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.source.FinancialSummary(gctx, token, period)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		costs, err = s.source.ListCosts(gctx, token, period)
		if err != nil {
			return fmt.Errorf("costs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		discounts, err = s.source.ListDiscounts(gctx, token, period)
		if err != nil {
			return fmt.Errorf("discounts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Breakdown{}, err
	}
	return Compute(period, summary, costs, discounts), nil
}

func (s *Service) Incomes(ctx context.Context, token string, period Period) ([]Income, error) {
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}
	return s.source.ListIncomes(ctx, token, period)
}

// CreateCost validates before any network call.
func (s *Service) CreateCost(ctx context.Context, token string, input CostInput) (Cost, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := validate.Struct(input); err != nil {
		return Cost{}, err
	}
	return s.source.CreateCost(ctx, token, input)
}

func (s *Service) CreateIncome(ctx context.Context, token string, input IncomeInput) (Income, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := validate.Struct(input); err != nil {
		return Income{}, err
	}
	return s.source.CreateIncome(ctx, token, input)
}
