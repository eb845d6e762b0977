package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
	"github.com/anjan-ust/task-weaver-main/internal/models"
	"github.com/anjan-ust/task-weaver-main/internal/policy"
	"github.com/anjan-ust/task-weaver-main/internal/types"
	"github.com/anjan-ust/task-weaver-main/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB *gorm.DB
}

type CreateUserRequest struct {
	EID      uint     `json:"e_id" binding:"required"`
	Password string   `json:"password" binding:"omitempty,min=6"`
	Roles    []string `json:"roles" binding:"required"`
	Status   string   `json:"status" binding:"required"`
}

type UpdateUserRequest struct {
	Password *string   `json:"password" binding:"omitempty,min=6"`
	Roles    *[]string `json:"roles"`
	Status   *string   `json:"status"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{EID: u.EID, Roles: u.RoleList(), Status: u.Status}
}

// adminOrSelf gates the user-record operations: an Admin reaches any
// record, everyone else only their own.
func adminOrSelf(ctx *gin.Context, id uint) (uint, error) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		return 0, apperr.New(apperr.Unauthenticated, "User not authenticated")
	}

	declared, err := utils.DeclaredRole(ctx)

	if err != nil {
		return 0, err
	}

	if err := policy.RequireDeclared(declared, actor.Roles); err != nil {
		return 0, err
	}

	if declared != types.RoleAdmin && id != actor.EID {
		return 0, apperr.New(apperr.NotAuthorized, "You can only access your own record")
	}

	return actor.EID, nil
}

func (h *UserHandler) List(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	declared, err := utils.DeclaredRole(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	if err := policy.RequireDeclared(declared, actor.Roles); err != nil {
		fail(ctx, err)
		return
	}

	if declared != types.RoleAdmin {
		fail(ctx, apperr.New(apperr.NotAuthorized, "Only Admin can access all users"))
		return
	}

	var users []models.User

	if err := h.DB.Find(&users).Error; err != nil {
		fail(ctx, apperr.Storage(err))
		return
	}

	response := make([]UserResponse, 0, len(users))

	for i := range users {
		response = append(response, userResponse(&users[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// ListByRole returns the users holding the target role. Admin may query
// any role; other callers only a role they themselves hold.
func (h *UserHandler) ListByRole(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	target, err := types.ParseRole(ctx.Query("target"))

	if err != nil {
		fail(ctx, err)
		return
	}

	if !types.ContainsRole(actor.Roles, types.RoleAdmin) && !types.ContainsRole(actor.Roles, target) {
		fail(ctx, apperr.New(apperr.NotAuthorized, "You don't have access to the mentioned role"))
		return
	}

	var users []models.User

	membership := datatypes.JSON([]byte(fmt.Sprintf("[%q]", target)))

	if err := h.DB.Where("roles @> ?", membership).Find(&users).Error; err != nil {
		fail(ctx, apperr.Storage(err))
		return
	}

	response := make([]UserResponse, 0, len(users))

	for i := range users {
		response = append(response, userResponse(&users[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// Create adds a user record for an existing employee. Admin only.
func (h *UserHandler) Create(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	declared, err := utils.DeclaredRole(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	if err := policy.RequireDeclared(declared, actor.Roles); err != nil {
		fail(ctx, err)
		return
	}

	if declared != types.RoleAdmin {
		fail(ctx, apperr.New(apperr.NotAuthorized, "Only Admin can create users"))
		return
	}

	var req CreateUserRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	roles, err := types.NormalizeRoles(req.Roles)

	if err != nil {
		fail(ctx, err)
		return
	}

	if len(roles) == 0 {
		fail(ctx, apperr.New(apperr.InvalidPayload, "At least one role is required"))
		return
	}

	status, err := types.ParseUserStatus(req.Status)

	if err != nil {
		fail(ctx, err)
		return
	}

	password := req.Password

	if password == "" {
		password = types.DefaultPassword
	}

	var user models.User

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var employee models.Employee

		if err := tx.Where("e_id = ?", req.EID).First(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Employee Not Found")
			}
			return apperr.Storage(err)
		}

		var existing models.User

		err := tx.Where("e_id = ?", req.EID).First(&existing).Error

		if err == nil {
			return apperr.New(apperr.Conflict, "User already exists for this employee")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Storage(err)
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		if err != nil {
			return apperr.Storage(err)
		}

		encoded, err := models.EncodeRoles(roles)

		if err != nil {
			return apperr.Storage(err)
		}

		user = models.User{
			EID:      req.EID,
			Password: string(passwordHash),
			Roles:    encoded,
			Status:   string(status),
		}

		if err := tx.Create(&user).Error; err != nil {
			return apperr.Storage(err)
		}

		return nil
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"detail": "User Added Successfully", "user": userResponse(&user)})
}

func (h *UserHandler) Get(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := adminOrSelf(ctx, id); err != nil {
		fail(ctx, err)
		return
	}

	var user models.User

	if err := h.DB.Where("e_id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(ctx, apperr.New(apperr.NotFound, "User Not Found"))
		} else {
			fail(ctx, apperr.Storage(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, userResponse(&user))
}

// Update edits the allow-listed user fields: password, roles, status.
func (h *UserHandler) Update(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := adminOrSelf(ctx, id); err != nil {
		fail(ctx, err)
		return
	}

	var req UpdateUserRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if req.Password != nil {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)

		if err != nil {
			fail(ctx, apperr.Storage(err))
			return
		}

		updates["password"] = string(passwordHash)
	}

	if req.Roles != nil {
		roles, err := types.NormalizeRoles(*req.Roles)

		if err != nil {
			fail(ctx, err)
			return
		}

		if len(roles) == 0 {
			fail(ctx, apperr.New(apperr.InvalidPayload, "At least one role is required"))
			return
		}

		encoded, err := models.EncodeRoles(roles)

		if err != nil {
			fail(ctx, apperr.Storage(err))
			return
		}

		updates["roles"] = encoded
	}

	if req.Status != nil {
		status, err := types.ParseUserStatus(*req.Status)

		if err != nil {
			fail(ctx, err)
			return
		}

		updates["status"] = string(status)
	}

	if len(updates) == 0 {
		fail(ctx, apperr.New(apperr.InvalidPayload, "No valid fields to update"))
		return
	}

	var user models.User

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("e_id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "User Not Found")
			}
			return apperr.Storage(err)
		}

		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return apperr.Storage(err)
		}

		if err := tx.Where("e_id = ?", id).First(&user).Error; err != nil {
			return apperr.Storage(err)
		}

		return nil
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "User Updated Successfully", "user": userResponse(&user)})
}

func (h *UserHandler) Delete(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := adminOrSelf(ctx, id); err != nil {
		fail(ctx, err)
		return
	}

	result := h.DB.Where("e_id = ?", id).Delete(&models.User{})

	if result.Error != nil {
		fail(ctx, apperr.Storage(result.Error))
		return
	}

	if result.RowsAffected == 0 {
		fail(ctx, apperr.New(apperr.NotFound, "User Not Found"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "User Deleted Successfully"})
}
