package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/anjan-ust/task-weaver-main/internal/auth"
	"github.com/anjan-ust/task-weaver-main/internal/models"
	"github.com/anjan-ust/task-weaver-main/internal/types"
	"github.com/anjan-ust/task-weaver-main/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB *gorm.DB
}

type LoginRequest struct {
	EID      uint   `json:"e_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	EID    uint         `json:"e_id"`
	Roles  []types.Role `json:"roles"`
	Status string       `json:"status"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User

	err := h.DB.Where("e_id = ?", req.EID).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid employee id or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid employee id or password"})
		return
	}

	token, err := auth.GenerateToken(user.EID)

	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user": UserResponse{
			EID:    user.EID,
			Roles:  user.RoleList(),
			Status: user.Status,
		},
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": UserResponse{
			EID:    currentUser.EID,
			Roles:  currentUser.Roles,
			Status: currentUser.Status,
		},
	})
}
