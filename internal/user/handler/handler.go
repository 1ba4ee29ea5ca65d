// Package handler exposes the user service HTTP API.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/trust"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/user/models"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/user/service"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domainerrors"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/platform/httputil"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/requestcontext"
)

// Handler is the thin HTTP layer over the user service.
type Handler struct {
	users  *service.Service
	logger *slog.Logger
}

func New(users *service.Service, logger *slog.Logger) *Handler {
	return &Handler{users: users, logger: logger}
}

// Register wires routes. Registration and login are the platform's public
// paths; lookups require an established principal.
func (h *Handler) Register(r chi.Router, trustFilter *trust.Filter) {
	r.Post("/api/auth/register", h.handleRegister)
	r.Post("/api/auth/login", h.handleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(trustFilter.Middleware)
		pr.Get("/api/users/{id}", h.handleGetByID)
		pr.Get("/api/users/email/{email}", h.handleGetByEmail)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.ToResponse(user))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	signed, user, err := h.users.Login(r.Context(), req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "login rejected",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.AuthResponse{
		Token: signed,
		User:  models.ToResponse(user),
	})
}

func (h *Handler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid user id"))
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToResponse(user))
}

func (h *Handler) handleGetByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToResponse(user))
}
