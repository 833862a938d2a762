package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nirmalkarki/udharo-api/internal/domain/access"
	infraRepo "github.com/nirmalkarki/udharo-api/internal/infrastructure/repository"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/response"
	"github.com/nirmalkarki/udharo-api/pkg/utils"
)

// PrincipalKey is the gin context key the authenticated principal is
// stored under.
const PrincipalKey = "principal"

// AuthMiddleware validates the bearer token, stores the principal in
// the gin context and scopes the request context to the caller's
// business so every repository query is tenant-bound.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		principal := access.Principal{
			ID:         claims.UserID,
			Role:       claims.Role,
			BusinessID: claims.BusinessID,
			StoreID:    claims.StoreID,
		}
		c.Set(PrincipalKey, principal)

		ctx := infraRepo.WithBusiness(c.Request.Context(), claims.BusinessID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireCapability rejects callers whose role lacks the capability.
// Services re-check on their own; this just fails fast at the edge.
func RequireCapability(policy *access.Policy, capability access.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok || !policy.Allows(principal.Role, capability) {
			response.Forbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the gin
// context.
func GetPrincipal(c *gin.Context) (access.Principal, bool) {
	val, exists := c.Get(PrincipalKey)
	if !exists {
		return access.Principal{}, false
	}
	principal, ok := val.(access.Principal)
	return principal, ok
}
