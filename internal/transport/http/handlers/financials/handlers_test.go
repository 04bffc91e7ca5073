package financialshandler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"haulboard/internal/domain/audit"
	"haulboard/internal/domain/financials"
	"haulboard/internal/platform/metrics"
	"haulboard/internal/platform/session"
	"haulboard/internal/transport/http/middleware"
	"haulboard/internal/transport/http/shared"
	"haulboard/internal/upstream"
)

type fakeSource struct {
	periods []financials.Period
	costs   []financials.CostInput
	failOn  string
}

func (f *fakeSource) FinancialSummary(ctx context.Context, token string, period financials.Period) (financials.Summary, error) {
	f.periods = append(f.periods, period)
	if f.failOn == "summary" {
		return financials.Summary{}, &upstream.NetworkError{Status: 500, StatusText: "Internal Server Error"}
	}
	return financials.Summary{Income: 10000, Expense: 1000, FuelCost: 500}, nil
}

func (f *fakeSource) ListCosts(ctx context.Context, token string, period financials.Period) ([]financials.Cost, error) {
	return []financials.Cost{{ID: "1", Description: "Tires", Amount: 300, Date: "2024-01-05"}}, nil
}

func (f *fakeSource) ListDiscounts(ctx context.Context, token string, period financials.Period) ([]financials.Discount, error) {
	return []financials.Discount{{ID: "2", Description: "Rebate", Amount: 500, Date: "2024-01-09"}}, nil
}

func (f *fakeSource) ListIncomes(ctx context.Context, token string, period financials.Period) ([]financials.Income, error) {
	return []financials.Income{{ID: "3", Description: "Haul", Amount: 10000, Date: "2024-01-10"}}, nil
}

func (f *fakeSource) CreateCost(ctx context.Context, token string, input financials.CostInput) (financials.Cost, error) {
	f.costs = append(f.costs, input)
	return financials.Cost{ID: "44", Description: input.Description, Amount: 0, Date: input.Date}, nil
}

func (f *fakeSource) CreateIncome(ctx context.Context, token string, input financials.IncomeInput) (financials.Income, error) {
	return financials.Income{ID: "45", Description: input.Description, Date: input.Date}, nil
}

type countingAudit struct {
	actions []string
}

func (c *countingAudit) Record(ctx context.Context, entry audit.Entry) error {
	c.actions = append(c.actions, entry.Action)
	return nil
}

func (c *countingAudit) List(context.Context, audit.Filter, int, int) ([]audit.Event, error) {
	return nil, nil
}

func (c *countingAudit) Enabled() bool { return true }

func newRouter(src *fakeSource, rec audit.Recorder, m *metrics.Collector) chi.Router {
	rs := shared.Responder{CookieName: "session", Metrics: m, Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	h := NewHandler(financials.NewService(src), rec, rs, m)
	h.Now = func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithSession(req.Context(), session.Session{Token: "tok", Subject: "u1"})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func serve(r chi.Router, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBreakdownComputesProfit(t *testing.T) {
	r := newRouter(&fakeSource{}, nil, metrics.New())
	rec := serve(r, http.MethodGet, "/financials/breakdown?start_date=2024-01-01&end_date=2024-01-31", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data financials.Breakdown `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.TotalCost != 1800 || env.Data.TotalCostAfterDiscounts != 1300 || env.Data.Profit != 8700 {
		t.Fatalf("unexpected breakdown %+v", env.Data)
	}
}

func TestBreakdownValidatesPeriod(t *testing.T) {
	src := &fakeSource{}
	r := newRouter(src, nil, metrics.New())
	cases := []string{
		"/financials/breakdown",
		"/financials/breakdown?start_date=2024-02-01&end_date=2024-01-01",
		"/financials/breakdown?start_date=feb&end_date=2024-01-01",
	}
	for _, path := range cases {
		if rec := serve(r, http.MethodGet, path, nil); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rec.Code)
		}
	}
	if len(src.periods) != 0 {
		t.Fatal("backend must not be called for an invalid period")
	}
}

func TestBreakdownFailsWhenAnyFetchFails(t *testing.T) {
	r := newRouter(&fakeSource{failOn: "summary"}, nil, metrics.New())
	rec := serve(r, http.MethodGet, "/financials/breakdown?start_date=2024-01-01&end_date=2024-01-31", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestExportCSVAndHTML(t *testing.T) {
	rec := &countingAudit{}
	m := metrics.New()
	r := newRouter(&fakeSource{}, rec, m)

	csvRec := serve(r, http.MethodGet, "/financials/breakdown/export/csv?start_date=2024-01-01&end_date=2024-01-31", nil)
	if csvRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", csvRec.Code)
	}
	if got := csvRec.Header().Get("Content-Disposition"); got != `attachment; filename="financial_breakdown_2024-01-01_2024-01-31.csv"` {
		t.Fatalf("unexpected disposition %q", got)
	}

	htmlRec := serve(r, http.MethodGet, "/financials/breakdown/export/html?start_date=2024-01-01&end_date=2024-01-31", nil)
	if !strings.Contains(htmlRec.Body.String(), "Profit: $8,700.00") {
		t.Fatalf("expected profit in printable page, got %s", htmlRec.Body.String())
	}
	if m.Snapshot()["exportsTotal"] != uint64(2) || len(rec.actions) != 2 {
		t.Fatalf("expected two recorded exports, got %v %v", m.Snapshot(), rec.actions)
	}

	if bad := serve(r, http.MethodGet, "/financials/breakdown/export/pdf?start_date=2024-01-01&end_date=2024-01-31", nil); bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for pdf, got %d", bad.Code)
	}
}

func TestCreateCostValidatesBeforeForwarding(t *testing.T) {
	src := &fakeSource{}
	rec := &countingAudit{}
	r := newRouter(src, rec, metrics.New())

	bad := serve(r, http.MethodPost, "/financials/costs", []byte(`{"description":"","amount":0,"date":"2024-01-05"}`))
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", bad.Code)
	}
	if len(src.costs) != 0 {
		t.Fatal("invalid cost must not reach the backend")
	}

	ok := serve(r, http.MethodPost, "/financials/costs", []byte(`{"description":"Tolls","amount":45.5,"date":"2024-01-05"}`))
	if ok.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", ok.Code, ok.Body.String())
	}
	if len(src.costs) != 1 || len(rec.actions) != 1 || rec.actions[0] != audit.ActionCreateCost {
		t.Fatalf("unexpected state %+v %v", src.costs, rec.actions)
	}
}

func TestCreateIncomeAndListIncomes(t *testing.T) {
	r := newRouter(&fakeSource{}, nil, metrics.New())
	created := serve(r, http.MethodPost, "/financials/incomes", []byte(`{"description":"Haul","amount":1200,"date":"2024-01-10"}`))
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", created.Code)
	}
	listed := serve(r, http.MethodGet, "/financials/incomes?start_date=2024-01-01&end_date=2024-01-31", nil)
	if listed.Code != http.StatusOK || !strings.Contains(listed.Body.String(), "Haul") {
		t.Fatalf("unexpected list response %d %s", listed.Code, listed.Body.String())
	}
}
