package employeeshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/platform/requestctx"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store   *core.Store
	Service *core.Service
	Audit   *audit.Service
	Perms   auth.Permissions
}

func NewHandler(store *core.Store, service *core.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
	// Legacy account-creation path kept alongside /employees.
	r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/auth/create", h.handleCreate)
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/number/{employeeNumber}", h.handleGetByNumber)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/", h.handleUpdate)
		})
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	response := map[string]any{
		"user": map[string]string{
			"id":        user.UserID,
			"companyId": user.CompanyID,
			"role":      user.Role,
		},
	}
	if employeeID, err := h.employeeIDForUser(r, user); err == nil && employeeID != "" {
		if emp, err := h.Store.Get(r.Context(), user.CompanyID, employeeID); err == nil {
			response["employee"] = emp
		}
	}
	api.Success(w, response, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if user.Role == auth.RoleEmployee {
		// Employees only ever see their own record.
		employeeID, err := h.employeeIDForUser(r, user)
		if err != nil || employeeID == "" {
			api.Success(w, []core.Employee{}, reqID)
			return
		}
		emp, err := h.Store.Get(r.Context(), user.CompanyID, employeeID)
		if err != nil {
			api.Success(w, []core.Employee{}, reqID)
			return
		}
		api.Success(w, []core.Employee{emp}, reqID)
		return
	}

	employees, err := h.Store.List(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload core.CreateEmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "is required")
	v.Required("lastName", payload.LastName, "is required")
	v.Required("email", payload.Email, "is required")
	if payload.Email != "" && !strings.Contains(payload.Email, "@") {
		v.Add("email", "must be a valid email address")
	}
	v.Positive("grossSalary", payload.GrossSalary, "must be greater than zero")
	v.Enum("role", payload.Role, []string{auth.RoleHR, auth.RolePayroll, auth.RoleEmployee}, "must be hr, payroll or employee")
	if payload.JoinedAt != "" {
		v.Date("joinedAt", payload.JoinedAt)
	}
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Service.CreateEmployee(r.Context(), user.CompanyID, payload)
	switch {
	case errors.Is(err, core.ErrDuplicateEmail):
		api.Fail(w, http.StatusConflict, "duplicate_email", "employee email already registered", reqID)
		return
	case errors.Is(err, core.ErrInvalidRole):
		api.Fail(w, http.StatusBadRequest, "invalid_role", "role must be hr, payroll or employee", reqID)
		return
	case errors.Is(err, core.ErrInvalidName):
		api.Fail(w, http.StatusBadRequest, "invalid_name", "names must contain at least one letter", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "employee.create", "employee", created.Employee.ID, reqID, middleware.ClientIP(r), nil, created.Employee); err != nil {
		slog.Warn("audit record failed", "action", "employee.create", "err", err)
	}

	api.Created(w, created, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
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

	emp, err := h.Store.Get(r.Context(), user.CompanyID, employeeID)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

// handleGetByNumber looks an employee up by the generated employee
// number instead of the row id.
func (h *Handler) handleGetByNumber(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeNumber := strings.ToUpper(chi.URLParam(r, "employeeNumber"))

	emp, err := h.Store.GetByNumber(r.Context(), user.CompanyID, employeeNumber)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}

	if user.Role == auth.RoleEmployee {
		own, ownErr := h.employeeIDForUser(r, user)
		if ownErr != nil || own != emp.ID {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", reqID)
			return
		}
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload core.UpdateEmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	before, err := h.Store.Get(r.Context(), user.CompanyID, employeeID)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", reqID)
		return
	}

	emp, err := h.Service.UpdateEmployee(r.Context(), user.CompanyID, employeeID, payload)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "employee_update_failed", err.Error(), reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "employee.update", "employee", employeeID, reqID, middleware.ClientIP(r), before, emp); err != nil {
		slog.Warn("audit record failed", "action", "employee.update", "err", err)
	}

	api.Success(w, emp, reqID)
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
