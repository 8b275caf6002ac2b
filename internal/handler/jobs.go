package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/job-board/internal/domain"
	"github.com/msomdec/job-board/internal/service"
	"github.com/msomdec/job-board/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// JobHandler handles browsing, posting and applying to jobs.
type JobHandler struct {
	jobs *service.JobService
	apps *service.ApplicationService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs *service.JobService, apps *service.ApplicationService) *JobHandler {
	return &JobHandler{jobs: jobs, apps: apps}
}

// HandleList renders open jobs filtered by the search and location query
// parameters.
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := domain.JobFilter{
		Search:   r.URL.Query().Get("search"),
		Location: r.URL.Query().Get("location"),
	}
	jobs, err := h.jobs.ListOpen(r.Context(), filter)
	if err != nil {
		serverError(w, r, "list open jobs", err)
		return
	}
	render(w, r, http.StatusOK, view.JobsPage(chrome(w, r), filter, jobs))
}

// HandleSearch re-runs the search from datastar signals and patches the
// results list over SSE.
func (h *JobHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		Search   string `json:"search"`
		Location string `json:"location"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	jobs, err := h.jobs.ListOpen(r.Context(), domain.JobFilter{Search: signals.Search, Location: signals.Location})
	if err != nil {
		slog.Error("search jobs", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(
		view.JobResults(jobs),
		datastar.WithSelectorID(view.JobResultsID),
		datastar.WithModeInner(),
	); err != nil {
		slog.Error("patch job results", "error", err)
	}
}

// HandleDetail renders a single job.
func (h *JobHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}

	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, r)
			return
		}
		serverError(w, r, "get job", err)
		return
	}

	detail := view.JobDetail{Job: job}
	if caller := CallerFromContext(r.Context()); caller != nil {
		switch caller.Role {
		case domain.RoleJobSeeker:
			detail.CanApply = true
			detail.HasApplied, err = h.apps.HasApplied(r.Context(), job.ID, caller.UserID)
			if err != nil {
				serverError(w, r, "check application", err)
				return
			}
		case domain.RoleEmployer:
			detail.IsOwner = job.IsOwnedBy(caller.UserID)
		}
	}
	render(w, r, http.StatusOK, view.JobDetailPage(chrome(w, r), detail))
}

// HandleApply records the caller's application and returns to the job.
func (h *JobHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}
	caller := CallerFromContext(r.Context())
	back := "/job/" + strconv.FormatInt(id, 10)

	if _, err := h.apps.Apply(r.Context(), id, caller.UserID); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyApplied):
			setFlash(w, flashWarning, "You have already applied for this job!")
			http.Redirect(w, r, back, http.StatusSeeOther)
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, r)
		default:
			serverError(w, r, "apply to job", err)
		}
		return
	}

	setFlash(w, flashSuccess, "Application submitted successfully!")
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// HandleNew renders the empty post form.
func (h *JobHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.JobFormPage(chrome(w, r), view.JobForm{}))
}

// HandleCreate posts a job owned by the caller.
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	in := jobInputFromForm(r)

	if _, err := h.jobs.Post(r.Context(), caller.UserID, in); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			form := jobFormFromInput(0, in)
			form.Error = err.Error()
			render(w, r, http.StatusUnprocessableEntity, view.JobFormPage(chrome(w, r), form))
			return
		}
		serverError(w, r, "post job", err)
		return
	}

	setFlash(w, flashSuccess, "Job posted successfully!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleEdit renders the edit form for the caller's own job.
func (h *JobHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ownedJob(w, r, "You can only edit your own jobs!")
	if !ok {
		return
	}
	render(w, r, http.StatusOK, view.JobFormPage(chrome(w, r), view.JobFormFrom(job)))
}

// HandleUpdate saves edits to the caller's own job.
func (h *JobHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}
	caller := CallerFromContext(r.Context())
	in := jobInputFromForm(r)

	if _, err := h.jobs.Edit(r.Context(), id, caller.UserID, in); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, r)
		case errors.Is(err, domain.ErrForbidden):
			setFlash(w, flashDanger, "You can only edit your own jobs!")
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		case errors.Is(err, domain.ErrInvalidInput):
			form := jobFormFromInput(id, in)
			form.Error = err.Error()
			render(w, r, http.StatusUnprocessableEntity, view.JobFormPage(chrome(w, r), form))
		default:
			serverError(w, r, "edit job", err)
		}
		return
	}

	setFlash(w, flashSuccess, "Job updated successfully!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleDelete removes the caller's own job with its applications.
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}
	caller := CallerFromContext(r.Context())

	if err := h.jobs.Delete(r.Context(), id, caller.UserID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, r)
		case errors.Is(err, domain.ErrForbidden):
			setFlash(w, flashDanger, "You can only delete your own jobs!")
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		default:
			serverError(w, r, "delete job", err)
		}
		return
	}

	setFlash(w, flashSuccess, "Job deleted successfully!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleApplications lists applicants for the caller's own job.
func (h *JobHandler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}
	caller := CallerFromContext(r.Context())

	job, apps, err := h.jobs.Applications(r.Context(), id, caller.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, r)
		case errors.Is(err, domain.ErrForbidden):
			setFlash(w, flashDanger, "You can only view applications for your own jobs!")
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		default:
			serverError(w, r, "list job applications", err)
		}
		return
	}
	render(w, r, http.StatusOK, view.JobApplicationsPage(chrome(w, r), job, apps))
}

// ownedJob loads the job named in the path and checks the caller posted it.
// On failure it has already written the response.
func (h *JobHandler) ownedJob(w http.ResponseWriter, r *http.Request, forbiddenMsg string) (*domain.Job, bool) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return nil, false
	}
	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, r)
			return nil, false
		}
		serverError(w, r, "get job", err)
		return nil, false
	}
	if !job.IsOwnedBy(CallerFromContext(r.Context()).UserID) {
		setFlash(w, flashDanger, forbiddenMsg)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return nil, false
	}
	return job, true
}

func jobInputFromForm(r *http.Request) service.JobInput {
	return service.JobInput{
		Title:       r.FormValue("title"),
		CompanyName: r.FormValue("company_name"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
		SalaryMin:   r.FormValue("salary_min"),
		SalaryMax:   r.FormValue("salary_max"),
		Status:      domain.JobStatus(r.FormValue("status")),
	}
}

func jobFormFromInput(id int64, in service.JobInput) view.JobForm {
	return view.JobForm{
		ID:          id,
		Title:       in.Title,
		CompanyName: in.CompanyName,
		Description: in.Description,
		Location:    in.Location,
		SalaryMin:   in.SalaryMin,
		SalaryMax:   in.SalaryMax,
		Status:      in.Status,
	}
}
