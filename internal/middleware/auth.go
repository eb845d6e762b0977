package middleware

import (
	"net/http"
	"strings"

	"github.com/anjan-ust/task-weaver-main/internal/auth"
	"github.com/anjan-ust/task-weaver-main/internal/models"
	"github.com/anjan-ust/task-weaver-main/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthenticatedUser is the resolved actor attached to the request
// context: identity, normalized role set, and account status.
type AuthenticatedUser struct {
	EID    uint         `json:"e_id"`
	Roles  []types.Role `json:"roles"`
	Status string       `json:"status"`
}

func AuthMiddleware(conn *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		subject, err := auth.ParseSubject(parts[1])

		if err != nil {
			// Token failures are all 401 at this boundary, whatever the kind.
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		var user models.User

		if err := conn.Where("e_id = ?", subject).First(&user).Error; err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		if user.Status == string(types.UserInactive) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User is inactive"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			EID:    user.EID,
			Roles:  user.RoleList(),
			Status: user.Status,
		})
		ctx.Next()
	}
}
