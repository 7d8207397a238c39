package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginPath is where unauthenticated dashboard visits are sent.
const LoginPath = "/customer-login-registration"

// ServiceResolver finds the auth service for the request's device.
type ServiceResolver func(c *gin.Context) (*Service, error)

// RequireAuth checks the persisted flag once per request, which is the
// HTTP equivalent of a view activation.
func RequireAuth(resolve ServiceResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc, err := resolve(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ok, err := svc.IsAuthenticated(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to read session"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Authentication required",
				"redirect": LoginPath,
			})
			return
		}

		c.Next()
	}
}
