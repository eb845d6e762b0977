package models

import "time"

// Task is the central entity. Nullable references and timestamps are
// pointers so an unassigned task is distinguishable from employee id 0.
type Task struct {
	TID             uint       `gorm:"primaryKey;column:t_id" json:"t_id"`
	Title           string     `gorm:"size:100;not null" json:"title"`
	Description     string     `gorm:"size:250;uniqueIndex;not null" json:"description"`
	AssignedTo      *uint      `json:"assigned_to"`
	AssignedBy      *uint      `json:"assigned_by"`
	AssignedAt      *time.Time `json:"assigned_at"`
	UpdatedBy       *uint      `json:"updated_by"`
	UpdatedAt       *time.Time `json:"updated_at"`
	Priority        string     `gorm:"size:10;not null" json:"priority"`
	Status          string     `gorm:"size:20;not null" json:"status"`
	Reviewer        *uint      `json:"reviewer"`
	CreatedBy       uint       `gorm:"not null" json:"created_by"`
	ExpectedClosure time.Time  `gorm:"not null" json:"expected_closure"`
	ActualClosure   *time.Time `json:"actual_closure"`
}

func (Task) TableName() string {
	return "tasks"
}
