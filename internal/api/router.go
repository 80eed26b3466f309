package api

import (
	"net/http"
	"time"

	"recruit-backend/internal/config"
	"recruit-backend/internal/ratelimit"
	"recruit-backend/internal/security"
	"recruit-backend/internal/service"

	"github.com/gorilla/mux"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Recruit   service.RecruitService
	Sessions  service.SessionService
	Window    service.WindowService
	Admission service.AdmissionService
	Tokens    security.TokenManager
	Limiter   ratelimit.Limiter
	RateLimit config.RateLimitConfig
}

// NewRouter builds the full route table.
func NewRouter(deps RouterDeps) *mux.Router {
	recruitHandler := NewRecruitHandler(deps.Recruit, deps.Window)
	adminHandler := NewAdminHandler(deps.Admission, deps.Window)

	applyLimit := RateLimit(deps.Limiter, "apply", deps.RateLimit.ApplyLimit,
		time.Duration(deps.RateLimit.ApplyWindowMs)*time.Millisecond)
	loginLimit := RateLimit(deps.Limiter, "login", deps.RateLimit.LoginLimit,
		time.Duration(deps.RateLimit.LoginWindowMs)*time.Millisecond)
	sessionAuth := SessionAuth(deps.Sessions)
	adminAuth := AdminAuth(deps.Tokens)

	r := mux.NewRouter()
	r.Use(Recover)

	recruit := r.PathPrefix("/recruit").Subrouter()
	recruit.Handle("/applications", applyLimit(http.HandlerFunc(recruitHandler.Apply))).Methods(http.MethodPost)
	recruit.Handle("/login", loginLimit(http.HandlerFunc(recruitHandler.Login))).Methods(http.MethodPost)
	recruit.Handle("/me", sessionAuth(http.HandlerFunc(recruitHandler.GetProfile))).Methods(http.MethodGet)
	recruit.Handle("/me", sessionAuth(http.HandlerFunc(recruitHandler.UpdateProfile))).Methods(http.MethodPatch)
	recruit.HandleFunc("/reset-password", recruitHandler.ResetPassword).Methods(http.MethodPost)
	recruit.HandleFunc("/config", recruitHandler.GetConfig).Methods(http.MethodGet)

	admin := r.PathPrefix("/admin/recruit").Subrouter()
	admin.Use(adminAuth)
	admin.HandleFunc("/applications", adminHandler.ListApplications).Methods(http.MethodGet)
	admin.HandleFunc("/applications/{id}/status", adminHandler.UpdateApplicationStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/config", adminHandler.UpdateConfig).Methods(http.MethodPut)

	return r
}
