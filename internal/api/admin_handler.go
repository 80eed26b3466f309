package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"recruit-backend/internal/apperr"
	"recruit-backend/internal/domain"
	"recruit-backend/internal/service"

	"github.com/gorilla/mux"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AdminHandler serves the staff review endpoints.
type AdminHandler struct {
	admission service.AdmissionService
	window    service.WindowService
}

func NewAdminHandler(admission service.AdmissionService, window service.WindowService) *AdminHandler {
	return &AdminHandler{admission: admission, window: window}
}

func (h *AdminHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	apps, total, err := h.admission.ListApplications(r.Context(), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"total":        total,
		"page":         page,
		"pageSize":     pageSize,
	})
}

func (h *AdminHandler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	applicationID := mux.Vars(r)["id"]

	var req struct {
		Status     string `json:"status"`
		Generation int    `json:"generation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request body"))
		return
	}

	claims := ClaimsFrom(r.Context())
	result, err := h.admission.UpdateApplicationStatus(r.Context(), claims.UserID, applicationID, req.Status, req.Generation)
	if err != nil {
		writeError(w, err)
		return
	}

	body := map[string]any{"ok": true}
	if result.MemberID != "" {
		body["memberId"] = result.MemberID
		body["linkCode"] = result.LinkCode
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *AdminHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var window domain.RecruitWindow
	if err := json.NewDecoder(r.Body).Decode(&window); err != nil {
		writeError(w, apperr.Validation("invalid request body"))
		return
	}
	if !window.CloseAt.IsZero() && window.CloseAt.Before(window.OpenAt) {
		writeError(w, apperr.Validation("closeAt must not precede openAt"))
		return
	}
	window.UpdatedAt = time.Now().UTC()

	if err := h.window.Update(r.Context(), &window); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, window)
}
