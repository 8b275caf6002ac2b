package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/job-board/internal/domain"
	"github.com/msomdec/job-board/internal/service"
	"github.com/msomdec/job-board/internal/view"
)

// AdminHandler handles user management.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// HandleUsers lists every account.
func (h *AdminHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		serverError(w, r, "list users", err)
		return
	}
	render(w, r, http.StatusOK, view.ManageUsersPage(chrome(w, r), users))
}

// HandleDeleteUser removes an account and everything it owns.
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}
	caller := CallerFromContext(r.Context())

	if err := h.admin.DeleteUser(r.Context(), id, caller.UserID); err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfDeletion):
			setFlash(w, flashDanger, "You cannot delete your own account!")
			http.Redirect(w, r, "/manage_users", http.StatusSeeOther)
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, r)
		default:
			serverError(w, r, "delete user", err)
		}
		return
	}

	setFlash(w, flashSuccess, "User deleted successfully!")
	http.Redirect(w, r, "/manage_users", http.StatusSeeOther)
}
