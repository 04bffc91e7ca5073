// Package session verifies the backend-issued bearer token carried in the
// session cookie or Authorization header.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing session token")
	ErrInvalidToken = errors.New("invalid session token")
)

type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Session is the authenticated caller of one request.
type Session struct {
	Token     string
	Subject   string
	Name      string
	Role      string
	ExpiresAt time.Time
}

// Key identifies the session for per-session state. Verified sessions use
// the subject; opaque tokens use the token itself.
func (s Session) Key() string {
	if s.Subject != "" {
		return "sub:" + s.Subject
	}
	return "tok:" + s.Token
}

func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Resolve turns a raw token into a Session. With an empty secret the token
// is passed through unverified and the backend remains the judge.
func Resolve(secret, token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrMissingToken
	}
	if secret == "" {
		return Session{Token: token}, nil
	}
	claims, err := ParseToken(secret, token)
	if err != nil {
		return Session{}, errors.Join(ErrInvalidToken, err)
	}
	subject := claims.Subject
	if subject == "" {
		subject = claims.UserID
	}
	out := Session{Token: token, Subject: subject, Name: claims.Name, Role: claims.Role}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
