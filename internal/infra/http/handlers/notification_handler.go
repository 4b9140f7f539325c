package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/leadflow/internal/entity"
)


// NotificationHandler alimenta o sino do dashboard.
type NotificationHandler struct {
	repo entity.NotificationRepositoryInterface
}

func NewNotificationHandler(repo entity.NotificationRepositoryInterface) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

func (h *NotificationHandler) HandleListUnread(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	notifications, err := h.repo.ListUnreadByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load notifications", http.StatusInternalServerError)
		return
	}

	if notifications == nil {
		notifications = []*entity.Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}
