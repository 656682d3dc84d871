package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const sessionClaimsContextKey contextKey = "session_claims"

// TokenRefreshHeader carries a renewed owner token on every request that
// passed RequireSessionOwner. Clients replace their token with it, so a
// session in use never outlives its token.
const TokenRefreshHeader = "X-Session-Token"

var (
	ErrMissingToken  = errors.New("missing bearer token")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrSessionDenied = errors.New("token does not grant access to this session")
)

// SessionTokens issues and checks the owner tokens handed out when a
// session is created. A token only grants access to its own session.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *SessionTokens) Issue(sessionID, kind string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		jwtClaimSessionID: sessionID,
		jwtClaimKind:      kind,
		"iat":             now.Unix(),
		"exp":             now.Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates the signature and expiry and returns the claims.
func (t *SessionTokens) Parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RequireSessionOwner rejects requests whose bearer token was not issued
// for the kind of session named by the URL parameter param. Accepted
// requests get a fresh token in TokenRefreshHeader.
func (t *SessionTokens) RequireSessionOwner(kind, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, ErrMissingToken)
				return
			}

			claims, err := t.Parse(tokenString)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, err)
				return
			}

			sessionID, _ := claims[jwtClaimSessionID].(string)
			tokenKind, _ := claims[jwtClaimKind].(string)
			if sessionID == "" || sessionID != chi.URLParam(r, param) || tokenKind != kind {
				writeAuthError(w, http.StatusForbidden, ErrSessionDenied)
				return
			}

			if renewed, err := t.Issue(sessionID, tokenKind); err == nil {
				w.Header().Set(TokenRefreshHeader, renewed)
			}

			ctx := context.WithValue(r.Context(), sessionClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
