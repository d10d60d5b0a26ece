package api

import (
	"net/http"
	"strconv"

	"github.com/yisuchen/bananaguava/internal/gallery"
)

// parsePagination extracts page and per_page from query parameters.
// page defaults to 1; per_page defaults to the gallery's grid size and is
// silently capped.
func parsePagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = gallery.DefaultPerPage

	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if pp := r.URL.Query().Get("per_page"); pp != "" {
		if parsed, err := strconv.Atoi(pp); err == nil && parsed > 0 {
			perPage = parsed
		}
	}
	if perPage > gallery.MaxPerPage {
		perPage = gallery.MaxPerPage
	}

	return page, perPage
}
