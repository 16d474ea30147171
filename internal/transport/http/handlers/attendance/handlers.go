package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/auth"
	"hrms/internal/platform/requestctx"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *attendance.Store
	Perms auth.Permissions
}

func NewHandler(store *attendance.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/mark", h.handleMark)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/employee/{employeeID}", h.handleListByEmployee)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/date/{date}", h.handleListByDate)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Put("/update/{recordID}", h.handleUpdate)
	})
}

type markRequest struct {
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	CheckIn    *string `json:"checkIn"`
	CheckOut   *string `json:"checkOut"`
	Note       string  `json:"note"`
}

type updateRequest struct {
	Status   string  `json:"status"`
	CheckIn  *string `json:"checkIn"`
	CheckOut *string `json:"checkOut"`
	Note     *string `json:"note"`
}

func (h *Handler) handleMark(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload markRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.Required("status", payload.Status, "is required")
	status := strings.ToLower(strings.TrimSpace(payload.Status))
	if status != "" && !attendance.ValidStatus(status) {
		v.Add("status", "must be present, late, absent or on_leave")
	}
	workDate, _ := v.Date("date", payload.Date)
	if v.Reject(w, reqID) {
		return
	}

	// Employees can only mark their own attendance.
	if user.Role == auth.RoleEmployee {
		own, err := h.employeeIDForUser(r, user)
		if err != nil || own != payload.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", reqID)
			return
		}
	}

	record, err := h.Store.Mark(r.Context(), user.CompanyID, payload.EmployeeID, workDate, status, payload.CheckIn, payload.CheckOut, payload.Note, user.UserID)
	if errors.Is(err, attendance.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_mark_failed", "failed to mark attendance", reqID)
		return
	}
	api.Created(w, record, reqID)
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

	records, err := h.Store.ListByEmployee(r.Context(), user.CompanyID, employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", reqID)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) handleListByDate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if user.Role == auth.RoleEmployee {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", reqID)
		return
	}

	workDate, err := shared.ParseDate(chi.URLParam(r, "date"))
	if err != nil || workDate.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", reqID)
		return
	}

	records, err := h.Store.ListByDate(r.Context(), user.CompanyID, workDate)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", reqID)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if user.Role == auth.RoleEmployee {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", reqID)
		return
	}

	var payload updateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	status := strings.ToLower(strings.TrimSpace(payload.Status))
	if !attendance.ValidStatus(status) {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be present, late, absent or on_leave", reqID)
		return
	}

	record, err := h.Store.Update(r.Context(), user.CompanyID, chi.URLParam(r, "recordID"), status, payload.CheckIn, payload.CheckOut, payload.Note)
	if errors.Is(err, attendance.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_update_failed", "failed to update attendance", reqID)
		return
	}
	api.Success(w, record, reqID)
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
