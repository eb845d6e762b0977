package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
	"github.com/anjan-ust/task-weaver-main/internal/models"
	"github.com/anjan-ust/task-weaver-main/internal/policy"
	"github.com/anjan-ust/task-weaver-main/internal/types"
	"github.com/anjan-ust/task-weaver-main/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type EmployeeHandler struct {
	DB *gorm.DB
}

type CreateEmployeeRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Email       string `json:"email" binding:"required,email,max=100"`
	Designation string `json:"designation" binding:"required,max=50"`
	MgrID       uint   `json:"mgr_id" binding:"required"`
}

type UpdateEmployeeRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=100"`
	Designation *string `json:"designation" binding:"omitempty,max=50"`
	MgrID       *uint   `json:"mgr_id"`
}

// Create adds an Employee and, in the same transaction, its paired User
// with the default password and the Developer role. A duplicate email
// aborts the whole operation: no employee row, no paired user.
func (h *EmployeeHandler) Create(ctx *gin.Context) {
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
		fail(ctx, apperr.New(apperr.NotAuthorized, "Only Admin can add employees"))
		return
	}

	var req CreateEmployeeRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var employee models.Employee

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Employee

		err := tx.Where("email = ?", req.Email).First(&existing).Error

		if err == nil {
			return apperr.New(apperr.Conflict, "Employee with this email already exists")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Storage(err)
		}

		employee = models.Employee{
			Name:        req.Name,
			Email:       req.Email,
			Designation: req.Designation,
			MgrID:       req.MgrID,
		}

		if err := tx.Create(&employee).Error; err != nil {
			return apperr.Storage(err)
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(types.DefaultPassword), bcrypt.DefaultCost)

		if err != nil {
			return apperr.Storage(err)
		}

		roles, err := models.EncodeRoles([]types.Role{types.RoleDeveloper})

		if err != nil {
			return apperr.Storage(err)
		}

		user := models.User{
			EID:      employee.EID,
			Password: string(passwordHash),
			Roles:    roles,
			Status:   string(types.UserActive),
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

	ctx.JSON(http.StatusCreated, gin.H{"detail": "Employee Added Successfully", "employee": employee})
}

// List returns all employees for an Admin and only direct reports for a
// Manager.
func (h *EmployeeHandler) List(ctx *gin.Context) {
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

	query := h.DB

	switch declared {
	case types.RoleAdmin:
		// all employees
	case types.RoleManager:
		query = query.Where("mgr_id = ?", actor.EID)
	default:
		fail(ctx, apperr.New(apperr.NotAuthorized, "Unauthorized access"))
		return
	}

	var employees []models.Employee

	if err := query.Find(&employees).Error; err != nil {
		fail(ctx, apperr.Storage(err))
		return
	}

	ctx.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) Get(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	var employee models.Employee

	if err := h.DB.Where("e_id = ?", id).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(ctx, apperr.New(apperr.NotFound, "Employee Not Found"))
		} else {
			fail(ctx, apperr.Storage(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, employee)
}

// Update edits the allow-listed employee fields. Only Admin may edit.
func (h *EmployeeHandler) Update(ctx *gin.Context) {
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
		fail(ctx, apperr.New(apperr.NotAuthorized, "Only Admin can update employee details"))
		return
	}

	id, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	var req UpdateEmployeeRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var employee models.Employee

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("e_id = ?", id).First(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Employee Not Found")
			}
			return apperr.Storage(err)
		}

		if req.Name != nil {
			employee.Name = strings.TrimSpace(*req.Name)
		}

		if req.Email != nil {
			newEmail := strings.ToLower(strings.TrimSpace(*req.Email))

			if newEmail != employee.Email {
				var existing models.Employee

				err := tx.Where("email = ? AND e_id != ?", newEmail, id).First(&existing).Error

				if err == nil {
					return apperr.New(apperr.Conflict, "Employee with this email already exists")
				}

				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Storage(err)
				}
			}

			employee.Email = newEmail
		}

		if req.Designation != nil {
			employee.Designation = *req.Designation
		}

		if req.MgrID != nil {
			employee.MgrID = *req.MgrID
		}

		if err := tx.Save(&employee).Error; err != nil {
			return apperr.Storage(err)
		}

		return nil
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "Employee Updated Successfully", "employee": employee})
}

// Delete removes an employee and its paired user in one transaction; the
// two rows are facets of the same person.
func (h *EmployeeHandler) Delete(ctx *gin.Context) {
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
		fail(ctx, apperr.New(apperr.NotAuthorized, "Only Admin can delete employees"))
		return
	}

	id, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var employee models.Employee

		if err := tx.Where("e_id = ?", id).First(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Employee Not Found")
			}
			return apperr.Storage(err)
		}

		if err := tx.Delete(&employee).Error; err != nil {
			return apperr.Storage(err)
		}

		if err := tx.Where("e_id = ?", id).Delete(&models.User{}).Error; err != nil {
			return apperr.Storage(err)
		}

		return nil
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "Employee Deleted Successfully"})
}
