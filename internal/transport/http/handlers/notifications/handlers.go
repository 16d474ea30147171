package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/notifications"
	"hrms/internal/platform/requestctx"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/unread-count", h.handleUnreadCount)
		r.Put("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	employeeID, err := h.employeeIDForUser(r)
	if err != nil || employeeID == "" {
		api.Success(w, []notifications.Notification{}, reqID)
		return
	}

	page := shared.ParsePagination(r, 20, 100)
	items, err := h.Service.ListForEmployee(r.Context(), user.CompanyID, employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notifications_list_failed", "failed to list notifications", reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	employeeID, err := h.employeeIDForUser(r)
	if err != nil || employeeID == "" {
		api.Success(w, map[string]int{"unread": 0}, reqID)
		return
	}

	count, err := h.Service.UnreadCount(r.Context(), user.CompanyID, employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notifications_count_failed", "failed to count notifications", reqID)
		return
	}
	api.Success(w, map[string]int{"unread": count}, reqID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	employeeID, err := h.employeeIDForUser(r)
	if err != nil || employeeID == "" {
		api.Fail(w, http.StatusNotFound, "not_found", "notification not found", reqID)
		return
	}

	if err := h.Service.MarkRead(r.Context(), user.CompanyID, employeeID, chi.URLParam(r, "notificationID")); err != nil {
		api.Fail(w, http.StatusInternalServerError, "notifications_update_failed", "failed to mark notification read", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "read"}, reqID)
}

func (h *Handler) employeeIDForUser(r *http.Request) (string, error) {
	user, _ := middleware.GetUser(r.Context())
	var employeeID *string
	err := h.Service.DB.QueryRow(r.Context(), `
		SELECT employee_id FROM users WHERE company_id = $1 AND id = $2
	`, user.CompanyID, user.UserID).Scan(&employeeID)
	if err != nil || employeeID == nil {
		return "", err
	}
	return *employeeID, nil
}
