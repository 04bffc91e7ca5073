package audithandler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"haulboard/internal/domain/audit"
	"haulboard/internal/transport/http/api"
	"haulboard/internal/transport/http/middleware"
	"haulboard/internal/transport/http/shared"
)

const exportLimit = 5000

type Handler struct {
	Service audit.Recorder
	Errors  shared.Responder
}

func NewHandler(service audit.Recorder, rs shared.Responder) *Handler {
	if service == nil {
		service = audit.Nop{}
	}
	return &Handler{Service: service, Errors: rs}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Get("/events", h.handleListEvents)
		r.Get("/events/export", h.handleExportEvents)
	})
}

func parseFilter(r *http.Request) audit.Filter {
	q := r.URL.Query()
	return audit.Filter{Action: q.Get("action"), EntityType: q.Get("entityType"), Actor: q.Get("actor")}
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if !h.Service.Enabled() {
		api.Fail(w, http.StatusServiceUnavailable, "audit_disabled", "audit trail is not configured", requestID)
		return
	}

	page := shared.ParsePagination(r, 100, 500)
	events, err := h.Service.List(r.Context(), parseFilter(r), page.Limit, page.Offset)
	if err != nil {
		h.Errors.Logger().Error("audit list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}
	api.Success(w, events, requestID)
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if !h.Service.Enabled() {
		api.Fail(w, http.StatusServiceUnavailable, "audit_disabled", "audit trail is not configured", requestID)
		return
	}

	events, err := h.Service.List(r.Context(), parseFilter(r), exportLimit, 0)
	if err != nil {
		h.Errors.Logger().Error("audit export failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "audit_export_failed", "failed to export audit events", requestID)
		return
	}

	log := h.Errors.Logger()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-events.csv"`)
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "actor", "action", "entity_type", "entity_id", "request_id", "ip", "created_at"}); err != nil {
		log.Warn("audit export header failed", "err", err)
	}
	for _, evt := range events {
		row := []string{
			strconv.FormatInt(evt.ID, 10),
			evt.Actor,
			evt.Action,
			evt.EntityType,
			evt.EntityID,
			evt.RequestID,
			evt.IP,
			evt.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			log.Warn("audit export row failed", "err", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Warn("audit export flush failed", "err", err)
	}
}
