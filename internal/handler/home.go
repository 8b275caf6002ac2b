package handler

import (
	"net/http"

	"github.com/msomdec/job-board/internal/view"
)

// HandleHome renders the home page. Any other unmatched path is a 404.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		notFound(w, r)
		return
	}
	render(w, r, http.StatusOK, view.HomePage(chrome(w, r)))
}
