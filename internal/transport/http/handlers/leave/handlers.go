package leavehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/platform/requestctx"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store         *leave.Store
	Audit         *audit.Service
	Notifications *notifications.Service
	Perms         auth.Permissions
}

func NewHandler(store *leave.Store, auditSvc *audit.Service, notify *notifications.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc, Notifications: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/request", h.handleRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/employee/{employeeID}", h.handleListByEmployee)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Put("/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Put("/{requestID}/reject", h.handleReject)
	})
}

type leaveRequest struct {
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason"`
}

type decisionRequest struct {
	Note string `json:"note"`
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload leaveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	leaveType := strings.ToLower(strings.TrimSpace(payload.Type))
	v.Required("type", leaveType, "is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, reqID) {
		return
	}

	if user.Role == auth.RoleEmployee {
		own, err := h.employeeIDForUser(r, user)
		if err != nil || own != payload.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", reqID)
			return
		}
	}

	days, err := leave.DayCount(start, end)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "end date precedes start date", reqID)
		return
	}

	req, err := h.Store.Create(r.Context(), user.CompanyID, payload.EmployeeID, leaveType, start, end, days, payload.Reason)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_request_failed", "failed to submit leave request", reqID)
		return
	}

	if err := h.Notifications.Notify(r.Context(), user.CompanyID, payload.EmployeeID, notifications.TypeLeaveSubmitted, "Your leave request was submitted."); err != nil {
		slog.Warn("leave notification failed", "err", err)
	}

	api.Created(w, req, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if user.Role == auth.RoleEmployee {
		own, err := h.employeeIDForUser(r, user)
		if err != nil || own == "" {
			api.Success(w, []leave.Request{}, reqID)
			return
		}
		requests, err := h.Store.ListByEmployee(r.Context(), user.CompanyID, own)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", reqID)
			return
		}
		api.Success(w, requests, reqID)
		return
	}

	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	requests, err := h.Store.List(r.Context(), user.CompanyID, status)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", reqID)
		return
	}
	api.Success(w, requests, reqID)
}

func (h *Handler) handleListByEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if user.Role == auth.RoleEmployee {
		own, err := h.employeeIDForUser(r, user)
		if err != nil || own != employeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", reqID)
			return
		}
	}

	requests, err := h.Store.ListByEmployee(r.Context(), user.CompanyID, employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", reqID)
		return
	}
	api.Success(w, requests, reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusApproved, notifications.TypeLeaveApproved, "Your leave request was approved.")
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusRejected, notifications.TypeLeaveRejected, "Your leave request was rejected.")
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, toStatus, notifyType, notifyMessage string) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var payload decisionRequest
	if r.Body != nil {
		// The note is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	before, err := h.Store.Get(r.Context(), user.CompanyID, requestID)
	if errors.Is(err, leave.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_decide_failed", "failed to decide leave request", reqID)
		return
	}

	decided, err := h.Store.Decide(r.Context(), user.CompanyID, requestID, toStatus, user.UserID, payload.Note)
	if errors.Is(err, leave.ErrInvalidTransition) {
		api.Fail(w, http.StatusConflict, "invalid_transition", "leave request already decided", reqID)
		return
	}
	if errors.Is(err, leave.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_decide_failed", "failed to decide leave request", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "leave."+toStatus, "leave_request", requestID, reqID, middleware.ClientIP(r), before, decided); err != nil {
		slog.Warn("audit record failed", "action", "leave."+toStatus, "err", err)
	}
	if err := h.Notifications.Notify(r.Context(), user.CompanyID, decided.EmployeeID, notifyType, notifyMessage); err != nil {
		slog.Warn("leave notification failed", "err", err)
	}

	api.Success(w, decided, reqID)
}

func (h *Handler) employeeIDForUser(r *http.Request, user auth.UserContext) (string, error) {
	var employeeID *string
	err := h.Store.DB.QueryRow(r.Context(), `
		SELECT employee_id FROM users WHERE company_id = $1 AND id = $2
	`, user.CompanyID, user.UserID).Scan(&employeeID)
	if err != nil || employeeID == nil {
		return "", err
	}
	return *employeeID, nil
}
