// Package service implements project and task operations. Every committed
// task mutation hands a lifecycle event to the producer; the publish is
// asynchronous and its failure never rolls back or fails the mutation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/events"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/models"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/store"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/userclient"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domainerrors"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/platform/sentinel"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/requestcontext"
)

// Publisher hands committed task events to the stream.
type Publisher interface {
	Publish(ctx context.Context, event events.TaskEvent)
}

// Service owns project and task state.
type Service struct {
	store     store.Store
	users     userclient.Lookup
	publisher Publisher
	logger    *slog.Logger
}

func New(store store.Store, users userclient.Lookup, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, users: users, publisher: publisher, logger: logger}
}

// CreateProject creates a project owned by the requesting principal.
func (s *Service) CreateProject(ctx context.Context, req models.ProjectRequest) (*models.Project, error) {
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		return nil, domainerrors.New(domainerrors.CodeUnauthorized, "unauthenticated")
	}
	if req.Name == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "project name is required")
	}

	project, err := s.store.CreateProject(ctx, &models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     principal.SubjectID,
	})
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "create project", err)
	}
	return project, nil
}

// CreateTask creates a task in a project and publishes TASK_CREATED after the
// store write commits.
func (s *Service) CreateTask(ctx context.Context, projectID int64, req models.TaskRequest) (*models.TaskResponse, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := validateTaskRequest(&req); err != nil {
		return nil, err
	}

	assigneeName := s.users.UserName(ctx, req.AssigneeID)

	task, err := s.store.CreateTask(ctx, &models.Task{
		ProjectID:   project.ID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "create task", err)
	}

	s.publisher.Publish(ctx, taskEvent(events.TypeTaskCreated, task, assigneeName, project))
	return taskResponse(task, assigneeName, project.Name), nil
}

// UpdateTask replaces a task's mutable fields and publishes TASK_UPDATED.
func (s *Service) UpdateTask(ctx context.Context, taskID int64, req models.TaskRequest) (*models.TaskResponse, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.findProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := validateTaskRequest(&req); err != nil {
		return nil, err
	}

	assigneeName := s.users.UserName(ctx, req.AssigneeID)

	task.Title = req.Title
	task.Description = req.Description
	task.AssigneeID = req.AssigneeID
	task.Status = req.Status
	task.Priority = req.Priority
	task.DueDate = req.DueDate

	updated, err := s.store.UpdateTask(ctx, task)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "update task", err)
	}

	s.publisher.Publish(ctx, taskEvent(events.TypeTaskUpdated, updated, assigneeName, project))
	return taskResponse(updated, assigneeName, project.Name), nil
}

// UpdateTaskStatus moves a task through the workflow. Completion (DONE) is
// the transition that publishes TASK_COMPLETED.
func (s *Service) UpdateTaskStatus(ctx context.Context, taskID int64, status models.Status) (*models.TaskResponse, error) {
	if !status.Valid() {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "invalid task status")
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.findProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	task.Status = status
	updated, err := s.store.UpdateTask(ctx, task)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "update task status", err)
	}

	assigneeName := s.users.UserName(ctx, updated.AssigneeID)
	if status == models.StatusDone {
		s.publisher.Publish(ctx, taskEvent(events.TypeTaskCompleted, updated, assigneeName, project))
	}
	return taskResponse(updated, assigneeName, project.Name), nil
}

// DeleteTask removes a task. No lifecycle event is published for deletions.
func (s *Service) DeleteTask(ctx context.Context, taskID int64) error {
	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.New(domainerrors.CodeNotFound, "task not found")
		}
		return domainerrors.Wrap(domainerrors.CodeInternal, "delete task", err)
	}
	return nil
}

// GetTask returns one task enriched with resolved names.
func (s *Service) GetTask(ctx context.Context, taskID int64) (*models.TaskResponse, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.findProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	return taskResponse(task, s.users.UserName(ctx, task.AssigneeID), project.Name), nil
}

// MyTasks lists the requesting principal's tasks, optionally filtered by
// status.
func (s *Service) MyTasks(ctx context.Context, status models.Status) ([]*models.TaskResponse, error) {
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		return nil, domainerrors.New(domainerrors.CodeUnauthorized, "unauthenticated")
	}
	if status != "" && !status.Valid() {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "invalid task status")
	}

	tasks, err := s.store.ListTasksByAssignee(ctx, principal.SubjectID, status)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "list tasks", err)
	}

	out := make([]*models.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		projectName := ""
		if project, err := s.store.FindProject(ctx, task.ProjectID); err == nil {
			projectName = project.Name
		}
		out = append(out, taskResponse(task, s.users.UserName(ctx, task.AssigneeID), projectName))
	}
	return out, nil
}

func (s *Service) findProject(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.store.FindProject(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domainerrors.New(domainerrors.CodeNotFound, "project not found")
		}
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "find project", err)
	}
	return project, nil
}

func (s *Service) findTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.store.FindTask(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domainerrors.New(domainerrors.CodeNotFound, "task not found")
		}
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "find task", err)
	}
	return task, nil
}

func validateTaskRequest(req *models.TaskRequest) error {
	if req.Title == "" {
		return domainerrors.New(domainerrors.CodeBadRequest, "task title is required")
	}
	if req.AssigneeID <= 0 {
		return domainerrors.New(domainerrors.CodeBadRequest, "assignee is required")
	}
	if req.Status == "" {
		req.Status = models.StatusTodo
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Status.Valid() {
		return domainerrors.New(domainerrors.CodeBadRequest, "invalid task status")
	}
	if !req.Priority.Valid() {
		return domainerrors.New(domainerrors.CodeBadRequest, "invalid task priority")
	}
	return nil
}

func taskEvent(eventType events.Type, task *models.Task, assigneeName string, project *models.Project) events.TaskEvent {
	return events.TaskEvent{
		EventType:    eventType,
		TaskID:       task.ID,
		TaskTitle:    task.Title,
		AssigneeID:   task.AssigneeID,
		AssigneeName: assigneeName,
		ProjectID:    project.ID,
		ProjectName:  project.Name,
		Timestamp:    time.Now().UTC(),
	}
}

func taskResponse(task *models.Task, assigneeName, projectName string) *models.TaskResponse {
	return &models.TaskResponse{
		ID:           task.ID,
		ProjectID:    task.ProjectID,
		ProjectName:  projectName,
		Title:        task.Title,
		Description:  task.Description,
		AssigneeID:   task.AssigneeID,
		AssigneeName: assigneeName,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}
