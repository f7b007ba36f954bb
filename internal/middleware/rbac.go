package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/project-portal-api/internal/models"
	appErrors "github.com/noah-isme/project-portal-api/pkg/errors"
	"github.com/noah-isme/project-portal-api/pkg/response"
)

// RequireRoles lets the request through only when the principal holds one of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	denied := appErrors.Clone(appErrors.ErrInsufficientPermissions,
		fmt.Sprintf("Access denied. Required role: %s", strings.Join(names, " or ")))

	return func(c *gin.Context) {
		claims := Principal(c)
		if claims == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Authentication required"))
			return
		}
		if !claims.HasRole(roles...) {
			response.Error(c, denied)
			return
		}
		c.Next()
	}
}

// RequireFaculty restricts a route to faculty.
func RequireFaculty() gin.HandlerFunc {
	return RequireRoles(models.RoleFaculty)
}

// RequireFourthYear restricts a route to fourth-year students.
func RequireFourthYear() gin.HandlerFunc {
	return RequireRoles(models.RoleFourthYear)
}

// RequireStudent restricts a route to either student role.
func RequireStudent() gin.HandlerFunc {
	return RequireRoles(models.RoleThirdYear, models.RoleFourthYear)
}
