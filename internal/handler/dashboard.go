package handler

import (
	"net/http"

	"github.com/msomdec/job-board/internal/domain"
	"github.com/msomdec/job-board/internal/service"
	"github.com/msomdec/job-board/internal/view"
)

// DashboardHandler renders the role-specific dashboard.
type DashboardHandler struct {
	jobs  *service.JobService
	apps  *service.ApplicationService
	admin *service.AdminService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(jobs *service.JobService, apps *service.ApplicationService, admin *service.AdminService) *DashboardHandler {
	return &DashboardHandler{jobs: jobs, apps: apps, admin: admin}
}

// HandleDashboard picks the dashboard for the caller's role.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())

	switch caller.Role {
	case domain.RoleJobSeeker:
		h.seeker(w, r, caller)
	case domain.RoleEmployer:
		h.employer(w, r, caller)
	case domain.RoleAdmin:
		h.administrator(w, r)
	default:
		notFound(w, r)
	}
}

func (h *DashboardHandler) seeker(w http.ResponseWriter, r *http.Request, caller *domain.Session) {
	openJobs, err := h.jobs.ListOpen(r.Context(), domain.JobFilter{})
	if err != nil {
		serverError(w, r, "list open jobs for dashboard", err)
		return
	}
	apps, err := h.apps.ListForApplicant(r.Context(), caller.UserID)
	if err != nil {
		serverError(w, r, "list applications for dashboard", err)
		return
	}
	render(w, r, http.StatusOK, view.SeekerDashboardPage(chrome(w, r), openJobs, apps))
}

func (h *DashboardHandler) employer(w http.ResponseWriter, r *http.Request, caller *domain.Session) {
	jobs, err := h.jobs.ListByEmployer(r.Context(), caller.UserID)
	if err != nil {
		serverError(w, r, "list employer jobs for dashboard", err)
		return
	}
	total := 0
	for _, job := range jobs {
		total += job.ApplicationCount
	}
	render(w, r, http.StatusOK, view.EmployerDashboardPage(chrome(w, r), jobs, total))
}

func (h *DashboardHandler) administrator(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		serverError(w, r, "count stats for dashboard", err)
		return
	}
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		serverError(w, r, "list users for dashboard", err)
		return
	}
	jobs, err := h.jobs.ListAll(r.Context())
	if err != nil {
		serverError(w, r, "list jobs for dashboard", err)
		return
	}
	totals := view.Totals{Users: stats.TotalUsers, Jobs: stats.TotalJobs, Applications: stats.TotalApplications}
	render(w, r, http.StatusOK, view.AdminDashboardPage(chrome(w, r), totals, users, jobs))
}
