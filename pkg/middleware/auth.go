package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	claimsKey  = "claims"
	subjectKey = "subject"

	// anonymousSubject attributes requests admitted without an identity
	// check (bypass mode).
	anonymousSubject = "unknown"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// Auth returns a Gin middleware that verifies Bearer tokens using the
// provided verifier and attaches the claims and identity subject to the
// request context.
func Auth(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing token"})
			return
		}
		// Expect 'Bearer <token>'
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing token"})
			return
		}

		idToken, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		var claims map[string]interface{}
		if err := idToken.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Set(subjectKey, subjectFromClaims(claims))
		c.Next()
	}
}

// Bypass admits every request without a credential check. Explicit opt-in
// for non-production environments only.
func Bypass() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

// RejectAll fails closed: used in place of Auth when enforcing mode is
// selected but no identity provider could be configured.
func RejectAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication is not configured"})
	}
}

// subjectFromClaims picks the ownership/attribution key: the email claim,
// falling back to sub for providers that issue none.
func subjectFromClaims(claims map[string]interface{}) string {
	if email, _ := claims["email"].(string); email != "" {
		return email
	}
	if sub, _ := claims["sub"].(string); sub != "" {
		return sub
	}
	return ""
}

// Subject returns the verified identity subject for the request, or
// "unknown" when the request was admitted without one.
func Subject(c *gin.Context) string {
	if s := c.GetString(subjectKey); s != "" {
		return s
	}
	return anonymousSubject
}
