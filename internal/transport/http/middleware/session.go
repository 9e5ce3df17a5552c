package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"nobzo-blog/internal/app"
)

const (
	TokenCookieName = "token"

	contextIdentityKey = "identity"
	contextTokenKey    = "session_token"
)

// Authenticator resolves a raw session token into an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*app.Identity, error)
}

// SessionToken reads the token from the "token" cookie, falling back to an
// Authorization: Bearer header.
func SessionToken(c *gin.Context) string {
	if token, err := c.Cookie(TokenCookieName); err == nil && token != "" {
		return token
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
}

// RequireAuth rejects the request unless it carries a live token.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(contextIdentityKey, identity)
		c.Set(contextTokenKey, token)
		c.Next()
	}
}

// OptionalAuth attaches an identity when the request carries a live token and
// otherwise lets it through as anonymous.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(contextIdentityKey, identity)
			c.Set(contextTokenKey, token)
		case isTokenError(err):
		default:
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity attached by RequireAuth or OptionalAuth.
func IdentityFrom(c *gin.Context) (*app.Identity, bool) {
	v, ok := c.Get(contextIdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*app.Identity)
	return identity, ok && identity != nil
}

// TokenFrom returns the token that authenticated the request.
func TokenFrom(c *gin.Context) string {
	return c.GetString(contextTokenKey)
}

func isTokenError(err error) bool {
	return errors.Is(err, app.ErrTokenMissing) ||
		errors.Is(err, app.ErrTokenRevoked) ||
		errors.Is(err, app.ErrTokenInvalid)
}
