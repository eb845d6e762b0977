package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
	"github.com/anjan-ust/task-weaver-main/internal/models"
	"github.com/anjan-ust/task-weaver-main/internal/policy"
	"github.com/anjan-ust/task-weaver-main/internal/types"
	"github.com/anjan-ust/task-weaver-main/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	DB *gorm.DB
}

type CreateTaskRequest struct {
	Title           string    `json:"title" binding:"required,max=100"`
	Description     string    `json:"description" binding:"required,max=250"`
	Priority        string    `json:"priority" binding:"required"`
	AssignedTo      *uint     `json:"assigned_to"`
	Reviewer        *uint     `json:"reviewer"`
	ExpectedClosure time.Time `json:"expected_closure" binding:"required"`
}

type UpdateTaskRequest struct {
	Title           *string    `json:"title" binding:"omitempty,max=100"`
	Description     *string    `json:"description" binding:"omitempty,max=250"`
	AssignedTo      *uint      `json:"assigned_to"`
	Priority        *string    `json:"priority"`
	Status          *string    `json:"status"`
	Reviewer        *uint      `json:"reviewer"`
	ExpectedClosure *time.Time `json:"expected_closure"`
}

// ensureUserRole grants a role to the referenced user if missing. The
// grant is idempotent and fails closed when no user record exists.
func ensureUserRole(tx *gorm.DB, eID uint, role types.Role) error {
	var user models.User

	if err := tx.Where("e_id = ?", eID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Newf(apperr.NotFound, "User %d not found", eID)
		}
		return apperr.Storage(err)
	}

	roles := user.RoleList()

	if types.ContainsRole(roles, role) {
		return nil
	}

	encoded, err := models.EncodeRoles(append(roles, role))

	if err != nil {
		return apperr.Storage(err)
	}

	if err := tx.Model(&models.User{}).Where("e_id = ?", eID).Update("roles", encoded).Error; err != nil {
		return apperr.Storage(err)
	}

	return nil
}

func loadTask(tx *gorm.DB, id uint) (*models.Task, error) {
	var task models.Task

	if err := tx.Where("t_id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Task Not Found")
		}
		return nil, apperr.Storage(err)
	}

	return &task, nil
}

// Create opens a task in TO_DO. Assigning at creation grants the
// assignee the Developer role and naming a reviewer grants them the
// Manager role, both inside the creating transaction.
func (h *TaskHandler) Create(ctx *gin.Context) {
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

	if err := policy.CanCreateTask(declared); err != nil {
		fail(ctx, err)
		return
	}

	var req CreateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	priority, err := types.ParsePriority(req.Priority)

	if err != nil {
		fail(ctx, err)
		return
	}

	var task models.Task

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Task

		err := tx.Where("description = ?", req.Description).First(&existing).Error

		if err == nil {
			return apperr.New(apperr.Conflict, "Task with this description already exists")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Storage(err)
		}

		task = models.Task{
			Title:           req.Title,
			Description:     req.Description,
			Priority:        string(priority),
			Status:          string(types.StatusToDo),
			CreatedBy:       actor.EID,
			ExpectedClosure: req.ExpectedClosure,
		}

		now := time.Now()

		if req.AssignedTo != nil {
			if err := ensureUserRole(tx, *req.AssignedTo, types.RoleDeveloper); err != nil {
				return err
			}

			task.AssignedTo = req.AssignedTo
			task.AssignedBy = &actor.EID
			task.AssignedAt = &now
		}

		if req.Reviewer != nil {
			if err := ensureUserRole(tx, *req.Reviewer, types.RoleManager); err != nil {
				return err
			}

			task.Reviewer = req.Reviewer
		}

		if err := tx.Create(&task).Error; err != nil {
			return apperr.Storage(err)
		}

		return nil
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"detail": "Task Added Successfully", "task": task})
}

// List scopes tasks by the declared role: Admin sees everything, a
// Manager sees tasks they review, created, or assigned, everyone else
// only their own assignments. An optional status query narrows further.
func (h *TaskHandler) List(ctx *gin.Context) {
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
		// all tasks
	case types.RoleManager:
		query = query.Where("reviewer = ? OR created_by = ? OR assigned_by = ?", actor.EID, actor.EID, actor.EID)
	default:
		query = query.Where("assigned_to = ?", actor.EID)
	}

	if raw := ctx.Query("status"); raw != "" {
		status, err := types.ParseStatus(raw)

		if err != nil {
			fail(ctx, err)
			return
		}

		query = query.Where("status = ?", string(status))
	}

	var tasks []models.Task

	if err := query.Find(&tasks).Error; err != nil {
		fail(ctx, apperr.Storage(err))
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Get(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	task, err := loadTask(h.DB, id)

	if err != nil {
		fail(ctx, err)
		return
	}

	if err := policy.CanViewTask(task, actor.EID, actor.Roles); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// Update edits the allow-listed task fields in one transaction.
// Assignment and reviewer changes carry their role-grant side effects; a
// status change goes through the same transition validation as the
// dedicated endpoint. Audit stamps land with the rest of the change.
func (h *TaskHandler) Update(ctx *gin.Context) {
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

	if err := policy.CanEditTask(declared); err != nil {
		fail(ctx, err)
		return
	}

	id, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	var req UpdateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var task *models.Task

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		task, err = loadTask(tx, id)

		if err != nil {
			return err
		}

		now := time.Now()

		if req.Title != nil {
			task.Title = *req.Title
		}

		if req.Description != nil && *req.Description != task.Description {
			var existing models.Task

			err := tx.Where("description = ? AND t_id != ?", *req.Description, id).First(&existing).Error

			if err == nil {
				return apperr.New(apperr.Conflict, "Task with this description already exists")
			}

			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Storage(err)
			}

			task.Description = *req.Description
		}

		if req.AssignedTo != nil {
			if err := ensureUserRole(tx, *req.AssignedTo, types.RoleDeveloper); err != nil {
				return err
			}

			task.AssignedTo = req.AssignedTo
			task.AssignedBy = &actor.EID
			task.AssignedAt = &now
		}

		if req.Priority != nil {
			priority, err := types.ParsePriority(*req.Priority)

			if err != nil {
				return err
			}

			task.Priority = string(priority)
		}

		if req.Status != nil {
			next, err := types.ParseStatus(*req.Status)

			if err != nil {
				return err
			}

			if err := policy.TransitionStatus(task, declared, actor.EID, next, now); err != nil {
				return err
			}
		}

		if req.Reviewer != nil {
			if err := ensureUserRole(tx, *req.Reviewer, types.RoleManager); err != nil {
				return err
			}

			task.Reviewer = req.Reviewer
		}

		if req.ExpectedClosure != nil {
			task.ExpectedClosure = *req.ExpectedClosure
		}

		task.UpdatedBy = &actor.EID
		task.UpdatedAt = &now

		if err := tx.Save(task).Error; err != nil {
			return apperr.Storage(err)
		}

		return nil
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "Task Updated Successfully", "task": task})
}

// PatchStatus drives the state machine for a single task.
func (h *TaskHandler) PatchStatus(ctx *gin.Context) {
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

	id, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	next, err := types.ParseStatus(ctx.Query("status"))

	if err != nil {
		fail(ctx, err)
		return
	}

	var task *models.Task

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		task, err = loadTask(tx, id)

		if err != nil {
			return err
		}

		now := time.Now()

		if err := policy.TransitionStatus(task, declared, actor.EID, next, now); err != nil {
			return err
		}

		task.UpdatedBy = &actor.EID
		task.UpdatedAt = &now

		if err := tx.Save(task).Error; err != nil {
			return apperr.Storage(err)
		}

		return nil
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "Patched the task", "task": task})
}

// PatchPriority changes the priority alone. Admin may always; a Manager
// only on tasks they review.
func (h *TaskHandler) PatchPriority(ctx *gin.Context) {
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

	id, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	priority, err := types.ParsePriority(ctx.Query("priority"))

	if err != nil {
		fail(ctx, err)
		return
	}

	var task *models.Task

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		task, err = loadTask(tx, id)

		if err != nil {
			return err
		}

		if err := policy.CanChangePriority(task, declared, actor.EID); err != nil {
			return err
		}

		now := time.Now()

		task.Priority = string(priority)
		task.UpdatedBy = &actor.EID
		task.UpdatedAt = &now

		if err := tx.Save(task).Error; err != nil {
			return apperr.Storage(err)
		}

		return nil
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "Task Priority Updated", "task": task})
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
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
		fail(ctx, apperr.New(apperr.NotAuthorized, "Only Admin can delete tasks"))
		return
	}

	if err := policy.CanDeleteTask(actor.Roles); err != nil {
		fail(ctx, err)
		return
	}

	id, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		task, err := loadTask(tx, id)

		if err != nil {
			return err
		}

		if err := tx.Delete(task).Error; err != nil {
			return apperr.Storage(err)
		}

		return nil
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "Task Deleted Successfully"})
}
