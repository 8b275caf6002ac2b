package handler

import (
	"net/http"

	"github.com/msomdec/job-board/internal/domain"
	"github.com/msomdec/job-board/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Every route sees the
// caller's session when one is present; protected routes add guards on top.
// Login and registration submissions are throttled by limiter when non-nil.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, jobs *service.JobService, apps *service.ApplicationService, admin *service.AdminService, limiter *service.TokenBucket, cookieSecure bool) {
	authHandler := NewAuthHandler(auth, cookieSecure)
	dashboardHandler := NewDashboardHandler(jobs, apps, admin)
	jobHandler := NewJobHandler(jobs, apps)
	adminHandler := NewAdminHandler(admin)

	public := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, LoadSession(auth, h))
	}
	guarded := func(pattern string, h http.HandlerFunc, guards ...Guard) {
		mux.Handle(pattern, LoadSession(auth, Guarded(h, guards...)))
	}
	seeker := RequireRole(domain.RoleJobSeeker)
	employer := RequireRole(domain.RoleEmployer)
	administrator := RequireRole(domain.RoleAdmin)

	mux.HandleFunc("GET /healthz", HandleHealthz)
	public("GET /", HandleHome)

	public("GET /register", authHandler.HandleRegisterPage)
	mux.Handle("POST /register", RateLimit(limiter, LoadSession(auth, http.HandlerFunc(authHandler.HandleRegister))))
	public("GET /login", authHandler.HandleLoginPage)
	mux.Handle("POST /login", RateLimit(limiter, LoadSession(auth, http.HandlerFunc(authHandler.HandleLogin))))
	public("GET /logout", authHandler.HandleLogout)

	guarded("GET /dashboard", dashboardHandler.HandleDashboard)

	public("GET /jobs", jobHandler.HandleList)
	public("GET /jobs/search", jobHandler.HandleSearch)
	public("GET /job/{id}", jobHandler.HandleDetail)
	guarded("POST /apply/{id}", jobHandler.HandleApply, seeker)

	guarded("GET /post_job", jobHandler.HandleNew, employer)
	guarded("POST /post_job", jobHandler.HandleCreate, employer)
	guarded("GET /edit_job/{id}", jobHandler.HandleEdit, employer)
	guarded("POST /edit_job/{id}", jobHandler.HandleUpdate, employer)
	guarded("POST /delete_job/{id}", jobHandler.HandleDelete, employer)
	guarded("GET /job_applications/{id}", jobHandler.HandleApplications, employer)

	guarded("GET /manage_users", adminHandler.HandleUsers, administrator)
	guarded("POST /delete_user/{id}", adminHandler.HandleDeleteUser, administrator)
}

