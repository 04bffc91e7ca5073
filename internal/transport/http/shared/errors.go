package shared

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"haulboard/internal/domain/financials"
	"haulboard/internal/domain/payroll"
	"haulboard/internal/export"
	"haulboard/internal/platform/metrics"
	"haulboard/internal/platform/session"
	"haulboard/internal/platform/validate"
	"haulboard/internal/requestctx"
	"haulboard/internal/transport/http/api"
	"haulboard/internal/upstream"
)

const DefaultLoginPath = "/login"

// Responder maps the error taxonomy onto HTTP responses.
type Responder struct {
	CookieName   string
	SecureCookie bool
	LoginPath    string
	Metrics      *metrics.Collector
	Log          *slog.Logger
}

func (rs Responder) loginPath() string {
	if rs.LoginPath == "" {
		return DefaultLoginPath
	}
	return rs.LoginPath
}

func (rs Responder) Logger() *slog.Logger {
	if rs.Log == nil {
		return slog.Default()
	}
	return rs.Log
}

func (rs Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())

	var verr *validate.Error
	var netErr *upstream.NetworkError
	switch {
	case errors.As(err, &verr):
		FailValidation(w, requestID, verr.Issues)
	case IsAuthFailure(err):
		rs.AuthRequired(w, r)
	case errors.As(err, &netErr):
		api.Fail(w, http.StatusBadGateway, "upstream_error", netErr.Error(), requestID)
	case errors.Is(err, payroll.ErrInvalidWeek),
		errors.Is(err, payroll.ErrInvalidYear),
		errors.Is(err, financials.ErrInvalidPeriod),
		errors.Is(err, export.ErrUnsupportedFormat):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), requestID)
	case errors.Is(err, payroll.ErrStaleCycle):
		api.Fail(w, http.StatusConflict, "superseded", "a newer request for this session replaced this one", requestID)
	case errors.Is(err, context.Canceled):
		rs.Logger().Debug("request canceled", "path", r.URL.Path, "requestId", requestID)
	case errors.Is(err, context.DeadlineExceeded):
		api.Fail(w, http.StatusGatewayTimeout, "upstream_timeout", "upstream did not answer in time", requestID)
	case errors.Is(err, upstream.ErrNoBaseURL):
		api.Fail(w, http.StatusServiceUnavailable, "upstream_unconfigured", err.Error(), requestID)
	default:
		rs.Logger().Error("request failed", "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}

func IsAuthFailure(err error) bool {
	return upstream.IsAuthError(err) ||
		errors.Is(err, session.ErrMissingToken) ||
		errors.Is(err, session.ErrInvalidToken)
}

// AuthRequired clears the session cookie and sends the caller to the login
// page: browsers get one 302, API clients a 401 naming the redirect. The
// login page itself never redirects, so there is no loop.
func (rs Responder) AuthRequired(w http.ResponseWriter, r *http.Request) {
	rs.ClearSession(w)
	rs.Metrics.RecordAuthRedirect()

	login := rs.loginPath()
	if WantsHTML(r) && r.URL.Path != login {
		http.Redirect(w, r, login, http.StatusFound)
		return
	}
	api.FailRedirect(w, http.StatusUnauthorized, "unauthorized", "authentication required", login, requestctx.GetRequestID(r.Context()))
}

func (rs Responder) ClearSession(w http.ResponseWriter) {
	if rs.CookieName == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     rs.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   rs.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// WantsHTML reports a browser navigation.
func WantsHTML(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "text/html")
}
