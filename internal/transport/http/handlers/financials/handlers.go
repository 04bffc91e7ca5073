package financialshandler

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"haulboard/internal/domain/audit"
	"haulboard/internal/domain/financials"
	"haulboard/internal/export"
	"haulboard/internal/platform/metrics"
	"haulboard/internal/transport/http/api"
	"haulboard/internal/transport/http/middleware"
	"haulboard/internal/transport/http/shared"
)

type BreakdownService interface {
	Breakdown(ctx context.Context, token string, period financials.Period) (financials.Breakdown, error)
	Incomes(ctx context.Context, token string, period financials.Period) ([]financials.Income, error)
	CreateCost(ctx context.Context, token string, input financials.CostInput) (financials.Cost, error)
	CreateIncome(ctx context.Context, token string, input financials.IncomeInput) (financials.Income, error)
}

type Handler struct {
	Service BreakdownService
	Audit   audit.Recorder
	Errors  shared.Responder
	Metrics *metrics.Collector
	Now     func() time.Time
}

func NewHandler(service BreakdownService, recorder audit.Recorder, rs shared.Responder, m *metrics.Collector) *Handler {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Handler{Service: service, Audit: recorder, Errors: rs, Metrics: m, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/financials", func(r chi.Router) {
		r.Get("/breakdown", h.handleBreakdown)
		r.Get("/breakdown/export/{format}", h.handleExport)
		r.Get("/incomes", h.handleListIncomes)
		r.Post("/incomes", h.handleCreateIncome)
		r.Post("/costs", h.handleCreateCost)
	})
}

func parsePeriod(r *http.Request, v *shared.Validator) financials.Period {
	q := r.URL.Query()
	startRaw, endRaw := q.Get("start_date"), q.Get("end_date")
	v.Required("start_date", startRaw, "start_date is required")
	v.Required("end_date", endRaw, "end_date is required")
	if v.HasIssues() {
		return financials.Period{}
	}
	start, okStart := v.Date("start_date", startRaw)
	end, okEnd := v.Date("end_date", endRaw)
	if okStart && okEnd {
		v.DateOrder("start_date", start, "end_date", end)
	}
	return financials.Period{StartDate: shared.FormatDate(start), EndDate: shared.FormatDate(end)}
}

func (h *Handler) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		h.Errors.AuthRequired(w, r)
		return
	}

	v := shared.NewValidator()
	period := parsePeriod(r, v)
	if v.Reject(w, requestID) {
		return
	}

	breakdown, err := h.Service.Breakdown(r.Context(), s.Token, period)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	api.Success(w, breakdown, requestID)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		h.Errors.AuthRequired(w, r)
		return
	}

	v := shared.NewValidator()
	period := parsePeriod(r, v)
	format := chi.URLParam(r, "format")
	v.Enum("format", format, []string{export.FormatCSV, export.FormatHTML}, "must be one of csv, html")
	if v.Reject(w, requestID) {
		return
	}

	breakdown, err := h.Service.Breakdown(r.Context(), s.Token, period)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	switch format {
	case export.FormatCSV:
		err = export.FinancialCSV(&buf, breakdown)
	default:
		err = export.FinancialHTML(&buf, breakdown, h.Now())
	}
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}

	h.Metrics.RecordExport()
	h.record(r, audit.Entry{
		Actor:      s.Subject,
		Action:     audit.ActionExportFinancials,
		EntityType: "financial_period",
		EntityID:   period.StartDate + "/" + period.EndDate,
		Details:    map[string]any{"format": format, "profit": breakdown.Profit},
	})

	w.Header().Set("Content-Type", export.ContentType(format))
	if format == export.FormatCSV {
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.FinancialFileName(period, format)+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		h.Errors.AuthRequired(w, r)
		return
	}

	v := shared.NewValidator()
	period := parsePeriod(r, v)
	if v.Reject(w, requestID) {
		return
	}
	incomes, err := h.Service.Incomes(r.Context(), s.Token, period)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	api.Success(w, incomes, requestID)
}

func (h *Handler) handleCreateCost(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		h.Errors.AuthRequired(w, r)
		return
	}

	var input financials.CostInput
	if err := render.DecodeJSON(r.Body, &input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	cost, err := h.Service.CreateCost(r.Context(), s.Token, input)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}

	h.record(r, audit.Entry{
		Actor:      s.Subject,
		Action:     audit.ActionCreateCost,
		EntityType: "cost",
		EntityID:   cost.ID.String(),
		Details:    map[string]any{"description": input.Description, "amount": input.Amount, "date": input.Date},
	})
	api.Created(w, cost, requestID)
}

func (h *Handler) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		h.Errors.AuthRequired(w, r)
		return
	}

	var input financials.IncomeInput
	if err := render.DecodeJSON(r.Body, &input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	income, err := h.Service.CreateIncome(r.Context(), s.Token, input)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}

	h.record(r, audit.Entry{
		Actor:      s.Subject,
		Action:     audit.ActionCreateIncome,
		EntityType: "income",
		EntityID:   income.ID.String(),
		Details:    map[string]any{"description": input.Description, "amount": input.Amount, "date": input.Date},
	})
	api.Created(w, income, requestID)
}

func (h *Handler) record(r *http.Request, entry audit.Entry) {
	entry.RequestID = middleware.GetRequestID(r.Context())
	entry.IP = shared.ClientIP(r)
	if err := h.Audit.Record(r.Context(), entry); err != nil {
		h.Errors.Logger().Warn("audit record failed", "action", entry.Action, "err", err)
	}
}
