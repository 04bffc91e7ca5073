package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"haulboard/internal/platform/session"
	"haulboard/internal/transport/http/api"
	"haulboard/internal/transport/http/middleware"
	"haulboard/internal/transport/http/shared"
)

const loginPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Sign in</title></head>
<body>
<h1>Sign in required</h1>
<p>Your session has ended. Sign in to the operations backend and open the dashboard again.</p>
</body>
</html>
`

// loginHandler never sits behind SessionAuth, so an expired session always
// lands here without a second redirect.
type loginHandler struct {
	secret string
	errors shared.Responder
}

type loginPayload struct {
	Token string `json:"token"`
}

type loginResponse struct {
	Subject   string     `json:"subject,omitempty"`
	Name      string     `json:"name,omitempty"`
	Role      string     `json:"role,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (h loginHandler) handlePage(w http.ResponseWriter, r *http.Request) {
	if shared.WantsHTML(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(loginPage))
		return
	}
	api.Success(w, map[string]any{"loginRequired": true}, middleware.GetRequestID(r.Context()))
}

// handleLogin stores a backend-issued token in the session cookie.
func (h loginHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := render.DecodeJSON(r.Body, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("token", payload.Token, "token is required")
	if v.Reject(w, requestID) {
		return
	}

	s, err := session.Resolve(h.secret, strings.TrimSpace(payload.Token))
	if err != nil {
		h.errors.Error(w, r, err)
		return
	}

	cookie := &http.Cookie{
		Name:     h.errors.CookieName,
		Value:    s.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.errors.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	resp := loginResponse{Subject: s.Subject, Name: s.Name, Role: s.Role}
	if !s.ExpiresAt.IsZero() {
		cookie.Expires = s.ExpiresAt
		expires := s.ExpiresAt
		resp.ExpiresAt = &expires
	}
	http.SetCookie(w, cookie)
	api.Success(w, resp, requestID)
}

func (h loginHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.errors.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}
