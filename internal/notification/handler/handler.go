// Package handler exposes the notification inbox over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/models"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/service"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/trust"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domainerrors"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/platform/httputil"
)

const defaultPageSize = 50

// Handler is the thin HTTP layer over the notification service.
type Handler struct {
	notifications *service.Service
}

func New(notifications *service.Service) *Handler {
	return &Handler{notifications: notifications}
}

// Register wires routes behind the trust filter.
func (h *Handler) Register(r chi.Router, trustFilter *trust.Filter) {
	r.Group(func(pr chi.Router) {
		pr.Use(trustFilter.Middleware)
		pr.Get("/api/notifications", h.handleList)
		pr.Get("/api/notifications/unread-count", h.handleUnreadCount)
		pr.Put("/api/notifications/read-all", h.handleMarkAllRead)
		pr.Put("/api/notifications/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageSize)
	offset := queryInt(r, "offset", 0)

	notifications, err := h.notifications.List(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, notifications)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifications.UnreadCount(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.UnreadCountResponse{Count: count})
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "notificationID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid notification id"))
		return
	}

	notification, err := h.notifications.MarkRead(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, notification)
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.notifications.MarkAllRead(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.MarkAllReadResponse{Updated: updated})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
