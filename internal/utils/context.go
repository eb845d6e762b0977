package utils

import (
	"fmt"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
	"github.com/anjan-ust/task-weaver-main/internal/middleware"
	"github.com/anjan-ust/task-weaver-main/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

// DeclaredRole reads the caller-declared role from the "role" query or
// form parameter and normalizes it before any policy decision sees it.
func DeclaredRole(ctx *gin.Context) (types.Role, error) {
	raw := ctx.Query("role")

	if raw == "" {
		raw = ctx.PostForm("role")
	}

	if raw == "" {
		return "", apperr.New(apperr.InvalidPayload, "The role parameter is required")
	}

	return types.ParseRole(raw)
}
