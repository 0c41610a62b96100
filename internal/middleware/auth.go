package middleware

import (
	"errors"
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/auth"
	"github.com/gin-gonic/gin"
)

// Each role presents its token in its own header.
const (
	OperatorTokenHeader     = "aToken"
	PractitionerTokenHeader = "dToken"
	AccountTokenHeader      = "token"

	claimsKey = "claims"
)

type Authorizer interface {
	Authorize(token string, required domain.Role) (*domain.Claims, error)
}

// RequireOperator, RequirePractitioner and RequireAccount reject requests
// that do not carry a valid token for the role. Rejections use the regular
// failure envelope with HTTP 200.
func RequireOperator(a Authorizer) gin.HandlerFunc {
	return requireRole(a, domain.RoleOperator, OperatorTokenHeader)
}

func RequirePractitioner(a Authorizer) gin.HandlerFunc {
	return requireRole(a, domain.RolePractitioner, PractitionerTokenHeader)
}

func RequireAccount(a Authorizer) gin.HandlerFunc {
	return requireRole(a, domain.RoleAccount, AccountTokenHeader)
}

func requireRole(a Authorizer, role domain.Role, header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(header)
		if token == "" {
			abortUnauthorized(c, "Not Authorized Login Again")
			return
		}

		claims, err := a.Authorize(token, role)
		if err != nil {
			msg := "Not Authorized Login Again"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = err.Error()
			}
			abortUnauthorized(c, msg)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the caller set by one of the Require middlewares.
func ClaimsFrom(c *gin.Context) (*domain.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*domain.Claims)
	return claims, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusOK, gin.H{"success": false, "message": msg})
}
