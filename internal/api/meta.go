package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yisuchen/bananaguava/internal/gallery"
	"github.com/yisuchen/bananaguava/internal/store"
)

// metaAPIHandler serves the gallery's filter metadata.
type metaAPIHandler struct {
	prompts *store.PromptStore
}

func registerMetaRoutes(r chi.Router, prompts *store.PromptStore) {
	h := &metaAPIHandler{prompts: prompts}
	r.Get("/categories", h.Categories)
	r.Get("/tags", h.Tags)
}

// Categories returns the fixed category filter list. Categories parsed from
// issues that fall outside the fixed set never appear here.
// GET /api/v1/categories
//
// @Summary      List categories
// @Tags         Metadata
// @Produce      json
// @Success      200  {object}  CategoryListResponse
// @Router       /categories [get]
func (h *metaAPIHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: gallery.Categories()})
}

// Tags returns the distinct tags across the whole snapshot, previews
// included, so filter lists stay consistent regardless of the preview toggle.
// GET /api/v1/tags
//
// @Summary      List tags
// @Tags         Metadata
// @Produce      json
// @Success      200  {object}  TagListResponse
// @Router       /tags [get]
func (h *metaAPIHandler) Tags(w http.ResponseWriter, r *http.Request) {
	all, err := h.prompts.ListAll(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	tags := gallery.Tags(all)
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, TagListResponse{Tags: tags})
}
