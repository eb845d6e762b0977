package types

import (
	"strings"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
)

type TaskStatus string

const (
	StatusToDo       TaskStatus = "TO_DO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusDone       TaskStatus = "DONE"
)

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

func ParseStatus(raw string) (TaskStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "TO_DO":
		return StatusToDo, nil
	case "IN_PROGRESS":
		return StatusInProgress, nil
	case "REVIEW":
		return StatusReview, nil
	case "DONE":
		return StatusDone, nil
	}

	return "", apperr.Newf(apperr.InvalidPayload, "Unknown task status: %s", raw)
}

func ParsePriority(raw string) (TaskPriority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}

	return "", apperr.Newf(apperr.InvalidPayload, "Unknown task priority: %s", raw)
}

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

func ParseUserStatus(raw string) (UserStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return UserActive, nil
	case "inactive":
		return UserInactive, nil
	}

	return "", apperr.Newf(apperr.InvalidPayload, "Unknown user status: %s", raw)
}
