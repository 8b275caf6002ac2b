package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/msomdec/job-board/internal/view"
)

// chrome collects the layout state for the current request and consumes any
// pending flash notice.
func chrome(w http.ResponseWriter, r *http.Request) view.Chrome {
	c := view.Chrome{Flash: popFlash(w, r)}
	if caller := CallerFromContext(r.Context()); caller != nil {
		c.Username = caller.Username
		c.Role = caller.Role
	}
	return c
}

// render writes the component with the given status code.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "error", err)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, view.NotFoundPage(chrome(w, r)))
}

func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err)
	render(w, r, http.StatusInternalServerError, view.ErrorPage(chrome(w, r)))
}

// pathID parses the {id} path segment. A malformed id is reported as a
// missing page.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
