// Package handler exposes the project service HTTP API. Every route sits
// behind the trust filter; authorization details live in the service layer.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/models"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/service"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/trust"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domainerrors"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/platform/httputil"
)

// Handler is the thin HTTP layer over the project service.
type Handler struct {
	projects *service.Service
	logger   *slog.Logger
}

func New(projects *service.Service, logger *slog.Logger) *Handler {
	return &Handler{projects: projects, logger: logger}
}

// Register wires routes behind the trust filter.
func (h *Handler) Register(r chi.Router, trustFilter *trust.Filter) {
	r.Group(func(pr chi.Router) {
		pr.Use(trustFilter.Middleware)
		pr.Post("/api/projects", h.handleCreateProject)
		pr.Post("/api/projects/{projectID}/tasks", h.handleCreateTask)
		pr.Get("/api/tasks/my", h.handleMyTasks)
		pr.Get("/api/tasks/{taskID}", h.handleGetTask)
		pr.Put("/api/tasks/{taskID}", h.handleUpdateTask)
		pr.Patch("/api/tasks/{taskID}/status", h.handleUpdateTaskStatus)
		pr.Delete("/api/tasks/{taskID}", h.handleDeleteTask)
	})
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	project, err := h.projects.CreateProject(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
	})
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req models.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	task, err := h.projects.CreateTask(r.Context(), projectID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, task)
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	task, err := h.projects.GetTask(r.Context(), taskID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req models.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	task, err := h.projects.UpdateTask(r.Context(), taskID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req struct {
		Status models.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	task, err := h.projects.UpdateTaskStatus(r.Context(), taskID, req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.projects.DeleteTask(r.Context(), taskID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMyTasks(w http.ResponseWriter, r *http.Request) {
	status := models.Status(r.URL.Query().Get("status"))
	tasks, err := h.projects.MyTasks(r.Context(), status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasks)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, domainerrors.New(domainerrors.CodeBadRequest, "invalid id")
	}
	return id, nil
}
