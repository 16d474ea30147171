package companyhandler

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
	"hrms/internal/domain/company"
	"hrms/internal/platform/requestctx"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store    *company.Store
	Audit    *audit.Service
	Secret   string
	TokenTTL time.Duration
}

func NewHandler(store *company.Store, auditSvc *audit.Service, secret string, tokenTTL time.Duration) *Handler {
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return &Handler{Store: store, Audit: auditSvc, Secret: secret, TokenTTL: tokenTTL}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/company/register", h.HandleRegister)
	r.Post("/company/login", h.HandleLogin)
	r.Get("/company/me", h.HandleProfile)
}

type registerRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Required("code", payload.Code, "is required")
	v.Required("email", payload.Email, "is required")
	if code := strings.TrimSpace(payload.Code); code != "" && (len(code) < 2 || len(code) > 8) {
		v.Add("code", "must be between 2 and 8 characters")
	}
	if !strings.Contains(payload.Email, "@") {
		v.Add("email", "must be a valid email address")
	}
	if len(payload.Password) < 8 {
		v.Add("password", "must be at least 8 characters")
	}
	if v.Reject(w, reqID) {
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to register company", reqID)
		return
	}

	c, err := h.Store.Create(r.Context(), strings.TrimSpace(payload.Name), strings.TrimSpace(payload.Code), payload.Email, hash)
	if errors.Is(err, company.ErrDuplicateCode) {
		api.Fail(w, http.StatusConflict, "duplicate_code", "company code already registered", reqID)
		return
	}
	if errors.Is(err, company.ErrDuplicateEmail) {
		api.Fail(w, http.StatusConflict, "duplicate_email", "company email already registered", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to register company", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), c.ID, "", "company.register", "company", c.ID, reqID, middleware.ClientIP(r), nil, c); err != nil {
		slog.Warn("audit record failed", "action", "company.register", "err", err)
	}

	api.Created(w, c, reqID)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	c, hash, err := h.Store.FindByEmail(r.Context(), payload.Email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}
	if err := auth.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}

	// The company account acts as the tenant admin. It has no row in
	// users, so the token carries the company ID in both slots.
	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:    c.ID,
		CompanyID: c.ID,
		Role:      auth.RoleAdmin,
	}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}

	api.Success(w, map[string]any{
		"token":   token,
		"company": c,
	}, reqID)
}

// HandleProfile returns the authenticated actor's company.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	c, err := h.Store.FindByID(r.Context(), user.CompanyID)
	if errors.Is(err, company.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "company not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_get_failed", "failed to load company", reqID)
		return
	}
	api.Success(w, c, reqID)
}
