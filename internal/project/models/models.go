// Package models holds the project service entities and request shapes.
package models

import "time"

// Status is the task workflow state.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority orders tasks within a project.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Project groups tasks under an owner.
type Project struct {
	ID          int64
	Name        string
	Description string
	OwnerID     int64
	CreatedAt   time.Time
}

// Task is one unit of work assigned to a user.
type Task struct {
	ID          int64
	ProjectID   int64
	Title       string
	Description string
	AssigneeID  int64
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectRequest is the create-project payload.
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TaskRequest is the create/update-task payload.
type TaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  int64      `json:"assigneeId"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// TaskResponse is the client-facing task shape, enriched with names resolved
// from the user service.
type TaskResponse struct {
	ID           int64      `json:"id"`
	ProjectID    int64      `json:"projectId"`
	ProjectName  string     `json:"projectName"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	AssigneeID   int64      `json:"assigneeId"`
	AssigneeName string     `json:"assigneeName"`
	Status       Status     `json:"status"`
	Priority     Priority   `json:"priority"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ProjectResponse is the client-facing project shape.
type ProjectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}
