package middlewares

import (
	"context"
	"errors"

	"OdontoSystem/apperrors"
	"OdontoSystem/utils"

	"github.com/gin-gonic/gin"
)

// Authenticator turns a bearer token into verified claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.TokenClaims, error)
}

type contextKey string

const (
	userIDKey contextKey = "userID"
	claimsKey            = "claims"
)

// TokenAuthMiddleware requires a valid bearer token and stores its claims in
// the request context.
func TokenAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			HttpError(c, apperrors.Unauthorized("missing bearer token"))
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			HttpError(c, err)
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.UserID)
		ctx = requestLogger(c).WithUserID(ctx, claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(claimsKey, claims)

		c.Next()
	}
}

// RoleAuthMiddleware restricts access to users with exactly the given role.
func RoleAuthMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			HttpError(c, apperrors.Unauthorized("authentication required"))
			return
		}
		if err := utils.RequireRole(claims, requiredRole); err != nil {
			HttpError(c, apperrors.Forbidden("insufficient permissions"))
			return
		}
		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by TokenAuthMiddleware.
func ClaimsFromContext(c *gin.Context) (*utils.TokenClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.TokenClaims)
	return claims, ok
}

// ExtractUserIDFromContext retrieves the userID from the context.
func ExtractUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return "", errors.New("user ID not found in context")
	}
	return userID, nil
}
