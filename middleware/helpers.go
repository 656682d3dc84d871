package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimSessionID = "session_id"
	jwtClaimKind      = "kind"
)

// GetSessionIDFromContext returns the session id of the verified token.
func GetSessionIDFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(sessionClaimsContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("session claims not found in context or invalid type")
	}

	sessionID, ok := claims[jwtClaimSessionID].(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimSessionID)
	}
	return sessionID, nil
}

// GetSessionKindFromContext returns the tool kind the token was issued for.
func GetSessionKindFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(sessionClaimsContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("session claims not found in context or invalid type")
	}

	kind, ok := claims[jwtClaimKind].(string)
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimKind)
	}
	return kind, nil
}
