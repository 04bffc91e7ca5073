package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"haulboard/internal/domain/payroll"
)

type assignmentListResponse struct {
	Status     any                        `json:"status"`
	Data       []payroll.AssignmentRecord `json:"data"`
	WeekInfo   payroll.WeekInfo           `json:"week_info"`
	Pagination payroll.Pagination         `json:"pagination"`
}

// ListAssignments fetches one page of a week's assignment records.
func (c *Client) ListAssignments(ctx context.Context, token string, q payroll.Query) (payroll.AssignmentPage, error) {
	if err := payroll.ValidateQuery(q); err != nil {
		return payroll.AssignmentPage{}, err
	}
	query := url.Values{}
	query.Set("number_week", strconv.Itoa(q.Week))
	query.Set("year", strconv.Itoa(q.Year))
	if loc := strings.TrimSpace(q.Location); loc != "" {
		query.Set("location", loc)
	}
	if q.Page > 1 {
		query.Set("page", strconv.Itoa(q.Page))
	}

	var resp assignmentListResponse
	if err := c.do(ctx, token, http.MethodGet, "/list-assign-operator", query, nil, &resp); err != nil {
		return payroll.AssignmentPage{}, err
	}
	records := resp.Data
	if records == nil {
		records = []payroll.AssignmentRecord{}
	}
	return payroll.AssignmentPage{
		Records:    records,
		WeekInfo:   resp.WeekInfo,
		Pagination: resp.Pagination,
	}, nil
}

// Payment fetches one payment detail.
func (c *Client) Payment(ctx context.Context, token, paymentID string) (payroll.Payment, error) {
	var payment payroll.Payment
	path := "/payments/" + url.PathEscape(strings.TrimSpace(paymentID)) + "/"
	if err := c.do(ctx, token, http.MethodGet, path, nil, nil, &payment); err != nil {
		return payroll.Payment{}, err
	}
	return payment, nil
}

func (c *Client) CreatePayment(ctx context.Context, token string, req payroll.CreatePaymentRequest) (map[string]any, error) {
	out := map[string]any{}
	if err := c.do(ctx, token, http.MethodPost, "/assign/create-payment/", nil, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelPayments(ctx context.Context, token string, req payroll.CancelPaymentsRequest) (map[string]any, error) {
	out := map[string]any{}
	if err := c.do(ctx, token, http.MethodPost, "/assign/cancel-payments/", nil, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
