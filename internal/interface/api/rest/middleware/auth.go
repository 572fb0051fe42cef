package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Xeyame/sharry/internal/domain/account"
	"github.com/Xeyame/sharry/internal/infrastructure/jwt"
)

const CtxCaller = "caller"

// AuthMiddleware validates the bearer token and stores the caller's
// account.Ref in the gin context. Accounts and aliases are managed by
// an external identity service; this engine only trusts its tokens.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "missing Authorization header"},
			)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token format"},
			)
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token"},
			)
			return
		}

		accountID, err := uuid.Parse(claims.AccountID)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token subject"},
			)
			return
		}

		caller := account.ByAccount(accountID)
		if claims.AliasID != "" {
			aliasID, err := uuid.Parse(claims.AliasID)
			if err != nil {
				c.AbortWithStatusJSON(
					http.StatusUnauthorized,
					gin.H{"error": "invalid token subject"},
				)
				return
			}
			caller = account.ByAlias(accountID, aliasID)
		}

		c.Set(CtxCaller, caller)

		c.Next()
	}
}

// Caller extracts the authenticated account.Ref set by AuthMiddleware.
func Caller(c *gin.Context) (account.Ref, bool) {
	v, ok := c.Get(CtxCaller)
	if !ok {
		return account.Ref{}, false
	}
	ref, ok := v.(account.Ref)
	return ref, ok
}
