package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthManager extracts the authenticated principal from a request. Session
// management lives elsewhere; this core only needs a stable caller id, which
// is the JWT subject claim.
type AuthManager struct {
	secret []byte
	dev    bool
}

func NewAuthManager(secret string, dev bool) *AuthManager {
	return &AuthManager{secret: []byte(secret), dev: dev}
}

type principalClaims struct {
	jwt.RegisteredClaims
}

// Principal returns the caller's user id. In dev mode with no secret
// configured, the X-Debug-User header stands in for a real session.
func (a *AuthManager) Principal(r *http.Request) (string, error) {
	if len(a.secret) == 0 {
		if a.dev {
			if u := r.Header.Get("X-Debug-User"); u != "" {
				return u, nil
			}
		}
		return "", errors.New("auth not configured")
	}

	hdr := r.Header.Get("Authorization")
	if hdr == "" || !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return "", errors.New("missing bearer token")
	}

	claims := &principalClaims{}
	tkn, err := jwt.ParseWithClaims(strings.TrimSpace(hdr[7:]), claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}
