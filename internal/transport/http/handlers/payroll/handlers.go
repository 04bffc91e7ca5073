package payrollhandler

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"haulboard/internal/domain/audit"
	"haulboard/internal/domain/payroll"
	"haulboard/internal/export"
	"haulboard/internal/platform/metrics"
	"haulboard/internal/transport/http/api"
	"haulboard/internal/transport/http/middleware"
	"haulboard/internal/transport/http/shared"
)

type WeekService interface {
	payroll.WeekLoader
	CreatePayment(ctx context.Context, token string, req payroll.CreatePaymentRequest) (map[string]any, error)
	CancelPayments(ctx context.Context, token string, req payroll.CancelPaymentsRequest) (map[string]any, error)
}

type Handler struct {
	Service  WeekService
	Sessions *payroll.Sessions
	Audit    audit.Recorder
	Errors   shared.Responder
	Metrics  *metrics.Collector
	Now      func() time.Time
}

func NewHandler(service WeekService, sessions *payroll.Sessions, recorder audit.Recorder, rs shared.Responder, m *metrics.Collector) *Handler {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Handler{Service: service, Sessions: sessions, Audit: recorder, Errors: rs, Metrics: m, Now: time.Now}
}

// BoardResponse is the dashboard view of one week: the filtered board plus
// the location choices derived from the unfiltered rows.
type BoardResponse struct {
	payroll.Board
	Search  string                  `json:"search,omitempty"`
	Filter  payroll.Location        `json:"filter"`
	Options payroll.LocationOptions `json:"options"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/current", h.handleCurrent)
		r.Get("/weeks/{year}/{week}", h.handleWeek)
		r.Get("/weeks/{year}/{week}/export/{format}", h.handleExport)
		r.Post("/payments", h.handleCreatePayment)
		r.Post("/payments/cancel", h.handleCancelPayments)
	})
}

type filterParams struct {
	search string
	loc    payroll.Location
}

func parseFilter(r *http.Request) filterParams {
	q := r.URL.Query()
	return filterParams{
		search: q.Get("search"),
		loc:    payroll.Location{Country: q.Get("country"), State: q.Get("state"), City: q.Get("city")},
	}
}

func parseQuery(r *http.Request, v *shared.Validator) payroll.Query {
	q := payroll.Query{
		Year:     v.IntRange("year", chi.URLParam(r, "year"), 2000, 2100),
		Week:     v.IntRange("week", chi.URLParam(r, "week"), payroll.MinWeek, payroll.MaxWeek),
		Location: r.URL.Query().Get("location"),
		Page:     1,
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		q.Page = v.IntRange("page", raw, 1, 10000)
	}
	return q
}

func buildResponse(board payroll.Board, f filterParams) BoardResponse {
	sel := f.loc.Normalize()
	return BoardResponse{
		Board:   payroll.Narrow(board, f.search, sel),
		Search:  f.search,
		Filter:  sel,
		Options: payroll.Options(board.Rows, sel),
	}
}

func (h *Handler) handleWeek(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		h.Errors.AuthRequired(w, r)
		return
	}

	v := shared.NewValidator()
	q := parseQuery(r, v)
	if v.Reject(w, requestID) {
		return
	}

	board, err := h.Sessions.Load(r.Context(), s.Key(), s.Token, q)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	api.Success(w, buildResponse(board, parseFilter(r)), requestID)
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		h.Errors.AuthRequired(w, r)
		return
	}
	board, ok := h.Sessions.Current(s.Key())
	if !ok {
		api.Fail(w, http.StatusNotFound, "not_found", "no week loaded for this session", requestID)
		return
	}
	api.Success(w, buildResponse(board, parseFilter(r)), requestID)
}

// handleExport loads the week outside the session tracker so a download does
// not supersede the board on screen.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		h.Errors.AuthRequired(w, r)
		return
	}

	v := shared.NewValidator()
	q := parseQuery(r, v)
	format := chi.URLParam(r, "format")
	v.Enum("format", format, []string{export.FormatCSV, export.FormatXLS, export.FormatPDF, export.FormatXLSX}, "must be one of csv, xls, pdf, xlsx")
	if v.Reject(w, requestID) {
		return
	}

	board, err := h.Service.Week(r.Context(), s.Token, q)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	f := parseFilter(r)
	board = payroll.Narrow(board, f.search, f.loc.Normalize())

	now := h.Now()
	report := export.NewReport(board, now)
	var buf bytes.Buffer
	if err := export.Render(&buf, format, report, export.PDFOptions{Compress: true}); err != nil {
		h.Errors.Error(w, r, err)
		return
	}

	h.Metrics.RecordExport()
	h.record(r, audit.Entry{
		Actor:      s.Subject,
		Action:     audit.ActionExportPayroll,
		EntityType: "payroll_week",
		EntityID:   strconv.Itoa(q.Year) + "-W" + strconv.Itoa(q.Week),
		Details: map[string]any{
			"format":     format,
			"operators":  report.Totals.Count,
			"grandTotal": report.Totals.GrandTotal,
			"location":   report.Location,
		},
	})

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(q.Week, format, now)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		h.Errors.AuthRequired(w, r)
		return
	}

	var req payroll.CreatePaymentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	result, err := h.Service.CreatePayment(r.Context(), s.Token, req)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}

	h.record(r, audit.Entry{
		Actor:      s.Subject,
		Action:     audit.ActionCreatePayment,
		EntityType: "assignment",
		EntityID:   joinIDs(req.AssignIDs),
		Details: map[string]any{
			"value":      req.Value,
			"bonus":      req.Bonus,
			"status":     req.Status,
			"date_start": req.DateStart,
			"date_end":   req.DateEnd,
		},
	})
	api.Created(w, result, requestID)
}

func (h *Handler) handleCancelPayments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		h.Errors.AuthRequired(w, r)
		return
	}

	var req payroll.CancelPaymentsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	result, err := h.Service.CancelPayments(r.Context(), s.Token, req)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}

	h.record(r, audit.Entry{
		Actor:      s.Subject,
		Action:     audit.ActionCancelPayments,
		EntityType: "assignment",
		EntityID:   joinIDs(req.AssignIDs),
	})
	api.Success(w, result, requestID)
}

// record never fails the request; the action already happened upstream.
func (h *Handler) record(r *http.Request, entry audit.Entry) {
	entry.RequestID = middleware.GetRequestID(r.Context())
	entry.IP = shared.ClientIP(r)
	if err := h.Audit.Record(r.Context(), entry); err != nil {
		h.Errors.Logger().Warn("audit record failed", "action", entry.Action, "err", err)
	}
}

func joinIDs(ids []int64) string {
	out := make([]byte, 0, len(ids)*4)
	for i, id := range ids {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendInt(out, id, 10)
	}
	return string(out)
}
