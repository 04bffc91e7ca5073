package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"haulboard/internal/platform/session"
	"haulboard/internal/transport/http/shared"
)

type ctxKey string

const ctxKeySession ctxKey = "session"

// SessionAuth requires a session token from the Authorization header or the
// session cookie. With a secret the token must be a valid HS256 JWT; failures
// go through the responder's login redirect.
func SessionAuth(secret string, rs shared.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := session.Resolve(secret, TokenFromRequest(r, rs.CookieName))
			if err != nil {
				slog.Debug("session rejected", "path", r.URL.Path, "err", err, "requestId", GetRequestID(r.Context()))
				rs.AuthRequired(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// TokenFromRequest prefers a bearer header over the cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookieName == "" {
		return ""
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

func GetSession(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(ctxKeySession).(session.Session)
	return s, ok
}
