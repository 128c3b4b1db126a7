package middleware

import (
	"context"
	"errors"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/cashier/internal/auth"
	"github.com/mmynk/cashier/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// sessionKey is the context key for the authenticated operator's session.
const sessionKey contextKey = "session"

// ErrForbidden is returned when the operator's role may not call a procedure.
var ErrForbidden = errors.New("operator role not permitted")

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// GetSession extracts the operator session from the context.
func GetSession(ctx context.Context) (models.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(models.Session)
	return sess, ok
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	sess, _ := GetSession(ctx)
	return sess.UserID
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header, validates it, and adds
// the operator session to the request context. With roles, the operator's
// role must be one of them.
func RequireAuth(jwtManager *auth.JWTManager, roles ...models.Role) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			tokenString, err := bearerToken(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
				return nil, connect.NewError(connect.CodePermissionDenied, ErrForbidden)
			}

			return next(WithSession(ctx, claims.Session()), req)
		}
	}
}

// OptionalAuth returns a middleware that validates JWT tokens if present, but allows
// requests without authentication.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokenString, err := bearerToken(req.Header().Get("Authorization")); err == nil {
				// ignore errors, the handler decides what anonymous callers may do
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = WithSession(ctx, claims.Session())
				}
			}
			return next(ctx, req)
		}
	}
}
