package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/internal/auth"
)

type identityKey struct{}

// identity is the authenticated caller stored in the request context.
type identity struct {
	userID string
	email  string
}

// GetUserID returns the authenticated user ID, or "" for anonymous callers.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(identityKey{}).(identity)
	return id.userID
}

// GetEmail returns the authenticated user's email, if the token carried one.
func GetEmail(ctx context.Context) string {
	id, _ := ctx.Value(identityKey{}).(identity)
	return id.email
}

// WithUser returns a copy of ctx carrying the given identity.
func WithUser(ctx context.Context, userID, email string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity{userID: userID, email: email})
}

// Auth returns RequireAuth when required is set and OptionalAuth otherwise.
func Auth(jwtManager *auth.JWTManager, required bool) connect.UnaryInterceptorFunc {
	if required {
		return RequireAuth(jwtManager)
	}
	return OptionalAuth(jwtManager)
}

// RequireAuth rejects calls without a valid bearer token with
// CodeUnauthenticated and puts the token's user on the context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			header := req.Header().Get("Authorization")
			if header == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}
			ctx, err := authenticate(ctx, jwtManager, header)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			return next(ctx, req)
		}
	}
}

// OptionalAuth honors a valid bearer token and lets every other call through
// as anonymous. A nil jwtManager disables token checks entirely.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if jwtManager == nil {
				return next(ctx, req)
			}
			if authed, err := authenticate(ctx, jwtManager, req.Header().Get("Authorization")); err == nil {
				ctx = authed
			}
			return next(ctx, req)
		}
	}
}

func authenticate(ctx context.Context, jwtManager *auth.JWTManager, header string) (context.Context, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return ctx, auth.ErrInvalidToken
	}
	claims, err := jwtManager.Validate(strings.TrimSpace(token))
	if err != nil {
		return ctx, err
	}
	return WithUser(ctx, claims.UserID, claims.Email), nil
}
