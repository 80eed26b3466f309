package api

import (
	"encoding/json"
	"net/http"

	"recruit-backend/internal/apperr"
	"recruit-backend/internal/service"
)

// RecruitHandler serves the applicant-facing endpoints.
type RecruitHandler struct {
	recruit service.RecruitService
	window  service.WindowService
}

func NewRecruitHandler(recruit service.RecruitService, window service.WindowService) *RecruitHandler {
	return &RecruitHandler{recruit: recruit, window: window}
}

func (h *RecruitHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, apperr.Validation("invalid request body"))
		return
	}
	if err := h.recruit.Apply(r.Context(), fields); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (h *RecruitHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request body"))
		return
	}
	token, err := h.recruit.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

func (h *RecruitHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	app, err := h.recruit.GetProfile(r.Context(), session.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *RecruitHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, apperr.Validation("invalid request body"))
		return
	}
	if err := h.recruit.UpdateProfile(r.Context(), session.Email, fields); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ResetPassword responds 200 whether or not the email is known.
func (h *RecruitHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request body"))
		return
	}
	if err := h.recruit.ResetPassword(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// GetConfig is informational and never gated; timestamps serialize as RFC 3339.
func (h *RecruitHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	window, err := h.window.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, window)
}
