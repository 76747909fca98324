// internal/api/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/edesaventas/storefront-api/internal/auth"
	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

const claimsKey = "sessionClaims"

// RequireAdmin rejects requests without a valid admin session cookie.
// Missing or invalid sessions get 401; valid non-admin sessions get 403.
func RequireAdmin(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := tokens.Verify(cookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if claims.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// SessionClaims returns the verified claims stored by RequireAdmin.
func SessionClaims(c *gin.Context) (*auth.SessionClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.SessionClaims)
	return claims, ok
}
