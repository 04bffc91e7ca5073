package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"haulboard/internal/domain/financials"
)

func periodQuery(period financials.Period) url.Values {
	query := url.Values{}
	query.Set("start_date", period.StartDate)
	query.Set("end_date", period.EndDate)
	return query
}

// listEnvelope accepts both a bare JSON array and {"data": [...]}.
type listEnvelope[T any] struct {
	items []T
}

func (l *listEnvelope[T]) UnmarshalJSON(data []byte) error {
	var direct []T
	if err := json.Unmarshal(data, &direct); err == nil {
		l.items = direct
		return nil
	}
	var wrapped struct {
		Data    []T `json:"data"`
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.Data != nil {
		l.items = wrapped.Data
	} else {
		l.items = wrapped.Results
	}
	return nil
}

func (l listEnvelope[T]) list() []T {
	if l.items == nil {
		return []T{}
	}
	return l.items
}

type summaryEnvelope struct {
	financials.Summary
}

func (s *summaryEnvelope) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Data *financials.Summary `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Data != nil {
		s.Summary = *wrapped.Data
		return nil
	}
	return json.Unmarshal(data, &s.Summary)
}

func (c *Client) FinancialSummary(ctx context.Context, token string, period financials.Period) (financials.Summary, error) {
	var out summaryEnvelope
	if err := c.do(ctx, token, http.MethodGet, "/summary/financial/", periodQuery(period), nil, &out); err != nil {
		return financials.Summary{}, err
	}
	return out.Summary, nil
}

func (c *Client) ListCosts(ctx context.Context, token string, period financials.Period) ([]financials.Cost, error) {
	var out listEnvelope[financials.Cost]
	if err := c.do(ctx, token, http.MethodGet, "/costs/", periodQuery(period), nil, &out); err != nil {
		return nil, err
	}
	return out.list(), nil
}

func (c *Client) ListDiscounts(ctx context.Context, token string, period financials.Period) ([]financials.Discount, error) {
	var out listEnvelope[financials.Discount]
	if err := c.do(ctx, token, http.MethodGet, "/discounts/", periodQuery(period), nil, &out); err != nil {
		return nil, err
	}
	return out.list(), nil
}

func (c *Client) ListIncomes(ctx context.Context, token string, period financials.Period) ([]financials.Income, error) {
	var out listEnvelope[financials.Income]
	if err := c.do(ctx, token, http.MethodGet, "/incomes/", periodQuery(period), nil, &out); err != nil {
		return nil, err
	}
	return out.list(), nil
}

func (c *Client) CreateCost(ctx context.Context, token string, input financials.CostInput) (financials.Cost, error) {
	var out financials.Cost
	if err := c.do(ctx, token, http.MethodPost, "/costs/", nil, input, &out); err != nil {
		return financials.Cost{}, err
	}
	return out, nil
}

func (c *Client) CreateIncome(ctx context.Context, token string, input financials.IncomeInput) (financials.Income, error) {
	var out financials.Income
	if err := c.do(ctx, token, http.MethodPost, "/incomes/", nil, input, &out); err != nil {
		return financials.Income{}, err
	}
	return out, nil
}
