// Package policy holds the pure decision rules gating every protected
// operation: declared-role membership, relationship checks, and the task
// status state machine. Nothing here touches storage, so the rules are
// exercised once and reused by every handler.
package policy

import (
	"time"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
	"github.com/anjan-ust/task-weaver-main/internal/models"
	"github.com/anjan-ust/task-weaver-main/internal/types"
)

// RequireDeclared enforces the first rule of every protected operation:
// the caller-declared role must be a member of the actor's role set.
func RequireDeclared(declared types.Role, held []types.Role) error {
	if !types.ContainsRole(held, declared) {
		return apperr.Newf(apperr.RoleMismatch, "The user does not hold the %s role", declared)
	}
	return nil
}

func CanCreateTask(declared types.Role) error {
	if declared != types.RoleManager && declared != types.RoleAdmin {
		return apperr.New(apperr.NotAuthorized, "Only Manager and Admin can create a new task")
	}
	return nil
}

func CanEditTask(declared types.Role) error {
	if declared != types.RoleManager && declared != types.RoleAdmin {
		return apperr.New(apperr.NotAuthorized, "You don't have permission to update this task")
	}
	return nil
}

// CanViewTask applies the read rule by held roles: Admin sees any task,
// a Manager sees tasks they review, created, or assigned, everyone else
// only tasks assigned to them.
func CanViewTask(task *models.Task, actorID uint, held []types.Role) error {
	if types.ContainsRole(held, types.RoleAdmin) {
		return nil
	}

	if types.ContainsRole(held, types.RoleManager) {
		if matches(task.Reviewer, actorID) || task.CreatedBy == actorID || matches(task.AssignedBy, actorID) {
			return nil
		}
		return apperr.New(apperr.NotAuthorized, "Not authorized to view this task")
	}

	if matches(task.AssignedTo, actorID) {
		return nil
	}

	return apperr.New(apperr.NotAuthorized, "Not authorized to view this task")
}

// CanChangePriority requires Manager or Admin; a Manager must additionally
// be the task's reviewer.
func CanChangePriority(task *models.Task, declared types.Role, actorID uint) error {
	if declared != types.RoleManager && declared != types.RoleAdmin {
		return apperr.New(apperr.NotAuthorized, "You do not have permission to change the priority of this task")
	}

	if declared == types.RoleManager && !matches(task.Reviewer, actorID) {
		return apperr.New(apperr.NotAuthorized, "You are not the reviewer of this task")
	}

	return nil
}

func CanDeleteTask(held []types.Role) error {
	if !types.ContainsRole(held, types.RoleAdmin) {
		return apperr.New(apperr.NotAuthorized, "Only Admin can delete tasks")
	}
	return nil
}

// TransitionStatus validates and applies a status change in place.
//
// The walk is TO_DO -> IN_PROGRESS -> REVIEW -> {IN_PROGRESS, DONE}, with
// DONE terminal. A declared Manager must be the reviewer and may only move
// a task out of REVIEW; anyone else must be the assignee and may only move
// TO_DO forward to IN_PROGRESS or IN_PROGRESS forward to REVIEW. Admins do
// not drive the workflow. Reaching DONE stamps the actual closure time.
func TransitionStatus(task *models.Task, declared types.Role, actorID uint, next types.TaskStatus, now time.Time) error {
	if declared == types.RoleAdmin {
		return apperr.New(apperr.NotAuthorized, "Admins cannot change task status")
	}

	current := types.TaskStatus(task.Status)

	if declared == types.RoleManager {
		if !matches(task.Reviewer, actorID) {
			return apperr.New(apperr.NotAuthorized, "Not reviewer for the task")
		}

		if current != types.StatusReview || (next != types.StatusInProgress && next != types.StatusDone) {
			return apperr.New(apperr.InvalidTransition, "Can only change status to IN_PROGRESS or DONE from REVIEW status")
		}

		if next == types.StatusDone {
			task.ActualClosure = &now
		}

		task.Status = string(next)
		return nil
	}

	if !matches(task.AssignedTo, actorID) {
		return apperr.New(apperr.NotAuthorized, "Not assigned to this task")
	}

	switch {
	case current == types.StatusToDo && next == types.StatusInProgress:
		task.Status = string(next)
	case current == types.StatusInProgress && next == types.StatusReview:
		task.Status = string(next)
	default:
		return apperr.New(apperr.InvalidTransition, "Can only change status from TO_DO to IN_PROGRESS or from IN_PROGRESS to REVIEW")
	}

	return nil
}

// CanManageRemark applies the remark ownership rule: the author or any
// Admin, judged from the authenticated identity.
func CanManageRemark(remark *models.Remark, actorID uint, held []types.Role) error {
	if types.ContainsRole(held, types.RoleAdmin) {
		return nil
	}

	if remark.CreatedBy == actorID {
		return nil
	}

	return apperr.New(apperr.NotAuthorized, "Not allowed to modify this remark")
}

func matches(ref *uint, id uint) bool {
	return ref != nil && *ref == id
}
