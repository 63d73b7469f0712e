package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// TokenValidator defines the interface for validating bearer tokens
type TokenValidator interface {
	// ValidateToken verifies a token and returns its claims
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// RequireAuth is a middleware that requires a valid bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			m.logger.Warn("missing or malformed authorization header",
				zap.String("request_id", requestID),
				zap.Error(err))
			writeAuthError(w, err)
			return
		}

		claims, err := m.validator.ValidateToken(ctx, token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			writeAuthError(w, err)
			return
		}

		ctx = WithClaims(ctx, claims)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("sub", claims.Subject))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission authenticates the request and then requires permission
// in the token's permissions claim
func (m *AuthMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		check := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			claims := GetClaimsFromContext(ctx)
			if err := auth.CheckPermission(permission, claims); err != nil {
				var granted []string
				if claims != nil {
					granted = claims.Permissions
				}
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("required_permission", permission),
					zap.Strings("granted_permissions", granted))
				writeAuthError(w, err)
				return
			}

			m.logger.Debug("permission check passed",
				zap.String("request_id", requestID),
				zap.String("required_permission", permission))

			next.ServeHTTP(w, r)
		})
		return m.RequireAuth(check)
	}
}

// writeAuthError renders an auth failure with its status and description.
// Errors that are not AuthErrors become a plain 401.
func writeAuthError(w http.ResponseWriter, err error) {
	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		_ = utils.WriteError(w, authErr.StatusCode, authErr.Description, nil)
		return
	}
	_ = utils.WriteUnauthorized(w, "")
}
