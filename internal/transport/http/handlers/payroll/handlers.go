package payrollhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/payroll"
	"hrms/internal/domain/reports"
	"hrms/internal/platform/requestctx"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service     *payroll.Service
	Reports     *reports.Store
	Audit       *audit.Service
	Idempotency *middleware.IdempotencyStore
	Perms       auth.Permissions
}

func NewHandler(service *payroll.Service, reportStore *reports.Store, auditSvc *audit.Service, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, Reports: reportStore, Audit: auditSvc, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/reports", h.handleReports)
		r.With(middleware.RequirePermission(auth.PermPayrollProcess, h.Perms)).Post("/process/{employeeID}", h.handleProcess)
		r.With(middleware.RequirePermission(auth.PermSettingsRead, h.Perms)).Get("/settings", h.handleGetSettings)
		r.With(middleware.RequirePermission(auth.PermSettingsWrite, h.Perms)).Put("/settings", h.handlePutSettings)
		r.With(middleware.RequirePermission(auth.PermSettingsRead, h.Perms)).Get("/settings/history", h.handleSettingsHistory)
	})
	r.Route("/payslip", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayslipRead, h.Perms)).Get("/{employeeID}", h.handlePayslip)
		r.With(middleware.RequirePermission(auth.PermPayslipRead, h.Perms)).Get("/download/{employeeID}", h.handlePayslipDownload)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	payrolls, err := h.Service.Store().List(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "failed to list payrolls", reqID)
		return
	}
	api.Success(w, payrolls, reqID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	totals, err := h.Service.Store().Summary(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_summary_failed", "failed to build payroll summary", reqID)
		return
	}
	api.Success(w, totals, reqID)
}

func (h *Handler) handleReports(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	summary, err := h.Reports.Build(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_reports_failed", "failed to build payroll reports", reqID)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestHash := middleware.RequestHash([]byte(employeeID))
	if idemKey != "" {
		stored, statusCode, replay, err := h.Idempotency.Check(r.Context(), user.CompanyID, idemKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key used with different request", reqID)
			return
		}
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "idempotency_failed", "failed to check idempotency key", reqID)
			return
		}
		if replay {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(statusCode)
			_, _ = w.Write(stored)
			return
		}
	}

	p, err := h.Service.Process(r.Context(), user.CompanyID, employeeID, user.UserID)
	switch {
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	case errors.Is(err, payroll.ErrEmployeeInactive):
		api.Fail(w, http.StatusConflict, "employee_inactive", "employee is not active", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "payroll_process_failed", "failed to process payroll", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "payroll.process", "payroll", p.ID, reqID, middleware.ClientIP(r), nil, p); err != nil {
		slog.Warn("audit record failed", "action", "payroll.process", "err", err)
	}

	if idemKey != "" {
		body, _ := json.Marshal(api.Envelope{Success: true, Data: p, RequestID: reqID})
		if err := h.Idempotency.Save(r.Context(), user.CompanyID, idemKey, requestHash, http.StatusOK, body); err != nil {
			slog.Warn("idempotency save failed", "err", err)
		}
	}

	api.Success(w, p, reqID)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	settings, err := h.Service.Store().ActiveSettings(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_load_failed", "failed to load payroll settings", reqID)
		return
	}
	api.Success(w, settings, reqID)
}

type settingsRequest struct {
	PFPercent       float64 `json:"pfPercent"`
	TaxPercent      float64 `json:"taxPercent"`
	BasicPercent    float64 `json:"basicPercent"`
	HRAPercent      float64 `json:"hraPercent"`
	BonusPercent    float64 `json:"bonusPercent"`
	OtherDeductions float64 `json:"otherDeductions"`
	PayCycle        string  `json:"payCycle"`
	PayDay          int     `json:"payDay"`
	EffectiveFrom   string  `json:"effectiveFrom"`
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	if err := payroll.ValidateRates(payload.PFPercent, payload.TaxPercent); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_settings", err.Error(), reqID)
		return
	}
	cycle := strings.ToLower(strings.TrimSpace(payload.PayCycle))
	if cycle == "" {
		cycle = payroll.CycleMonthly
	}
	if !payroll.ValidCycle(cycle) {
		api.Fail(w, http.StatusBadRequest, "invalid_settings", "payCycle must be monthly, biweekly or weekly", reqID)
		return
	}
	payDay := payload.PayDay
	if payDay == 0 {
		payDay = 1
	}
	if payDay < 1 || payDay > 28 {
		api.Fail(w, http.StatusBadRequest, "invalid_settings", "payDay must be between 1 and 28", reqID)
		return
	}
	effectiveFrom := time.Now()
	if payload.EffectiveFrom != "" {
		parsed, err := shared.ParseDate(payload.EffectiveFrom)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_settings", "effectiveFrom must be a valid date", reqID)
			return
		}
		effectiveFrom = parsed
	}

	before, err := h.Service.Store().ActiveSettings(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_save_failed", "failed to save payroll settings", reqID)
		return
	}

	// Settings are versioned; saving appends a new row instead of
	// mutating history.
	settings, err := h.Service.Store().InsertSettings(r.Context(), payroll.Settings{
		CompanyID:       user.CompanyID,
		PFPercent:       payload.PFPercent,
		TaxPercent:      payload.TaxPercent,
		BasicPercent:    payload.BasicPercent,
		HRAPercent:      payload.HRAPercent,
		BonusPercent:    payload.BonusPercent,
		OtherDeductions: payload.OtherDeductions,
		PayCycle:        cycle,
		PayDay:          payDay,
		EffectiveFrom:   effectiveFrom,
		CreatedBy:       user.UserID,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_save_failed", "failed to save payroll settings", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "payroll.settings_update", "payroll_settings", settings.ID, reqID, middleware.ClientIP(r), before, settings); err != nil {
		slog.Warn("audit record failed", "action", "payroll.settings_update", "err", err)
	}

	api.Success(w, settings, reqID)
}

func (h *Handler) handleSettingsHistory(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	history, err := h.Service.Store().SettingsHistory(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_history_failed", "failed to load settings history", reqID)
		return
	}
	api.Success(w, history, reqID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if !h.canViewPayslip(r, user, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", reqID)
		return
	}

	p, err := h.Service.Payslip(r.Context(), user.CompanyID, employeeID)
	if errors.Is(err, payroll.ErrNoProcessedPayroll) {
		api.Fail(w, http.StatusNotFound, "no_processed_payroll", "no processed payroll for employee", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load payslip", reqID)
		return
	}
	api.Success(w, p, reqID)
}

func (h *Handler) handlePayslipDownload(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if !h.canViewPayslip(r, user, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", reqID)
		return
	}

	path, err := h.Service.GeneratePayslipPDF(r.Context(), user.CompanyID, employeeID)
	if errors.Is(err, payroll.ErrNoProcessedPayroll) {
		api.Fail(w, http.StatusNotFound, "no_processed_payroll", "no processed payroll for employee", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to generate payslip", reqID)
		return
	}

	data, err := h.Service.ReadPayslipPDF(path)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to read payslip", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="payslip.pdf"`)
	_, _ = w.Write(data)
}

func (h *Handler) canViewPayslip(r *http.Request, user auth.UserContext, employeeID string) bool {
	if user.Role != auth.RoleEmployee {
		return true
	}
	var own *string
	err := h.Service.DB().QueryRow(r.Context(), `
		SELECT employee_id FROM users WHERE company_id = $1 AND id = $2
	`, user.CompanyID, user.UserID).Scan(&own)
	return err == nil && own != nil && *own == employeeID
}
