package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yisuchen/bananaguava/internal/gallery"
	"github.com/yisuchen/bananaguava/internal/prompt"
	"github.com/yisuchen/bananaguava/internal/store"
	"github.com/yisuchen/bananaguava/internal/template"
	"github.com/yisuchen/bananaguava/internal/vocab"
)

// promptsAPIHandler provides REST handlers for gallery prompt endpoints.
type promptsAPIHandler struct {
	prompts *store.PromptStore
	vocab   *vocab.Table
}

func registerPromptRoutes(r chi.Router, prompts *store.PromptStore, table *vocab.Table) {
	h := &promptsAPIHandler{prompts: prompts, vocab: table}
	r.Get("/prompts", h.List)
	r.Get("/prompts/{number}", h.Get)
	r.Get("/prompts/{number}/placeholders", h.Placeholders)
	r.Post("/prompts/{number}/render", h.Render)
}

// List returns a filtered, searched, paginated page of the gallery.
// GET /api/v1/prompts
//
// @Summary      List prompts
// @Description  Browse the gallery with category/tag filters, free-text search, and pagination
// @Tags         Prompts
// @Produce      json
// @Param        category  query  string  false  "Category filter ('All' or a category name)"
// @Param        tag       query  string  false  "Tag filter (exact match)"
// @Param        q         query  string  false  "Search term"
// @Param        preview   query  bool    false  "Include pending (unreviewed) prompts"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        per_page  query  int     false  "Page size (default 24, max 100)"
// @Success      200  {object}  PromptListResponse
// @Router       /prompts [get]
func (h *promptsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	includePreview := r.URL.Query().Get("preview") == "true"
	all, err := h.prompts.ListAll(r.Context(), includePreview)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	page, perPage := parsePagination(r)
	result := gallery.Apply(all, gallery.Filter{
		Category:       r.URL.Query().Get("category"),
		Tag:            r.URL.Query().Get("tag"),
		Query:          r.URL.Query().Get("q"),
		IncludePreview: includePreview,
		Page:           page,
		PerPage:        perPage,
	})

	resp := PromptListResponse{
		Prompts:    make([]PromptResponse, 0, len(result.Prompts)),
		Total:      result.Total,
		Page:       result.PageNumber,
		PerPage:    result.PerPage,
		TotalPages: result.TotalPages,
	}
	for _, p := range result.Prompts {
		resp.Prompts = append(resp.Prompts, toPromptResponse(p, false))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns one prompt by issue number, including its local variables.
// GET /api/v1/prompts/{number}
//
// @Summary      Get a prompt
// @Tags         Prompts
// @Produce      json
// @Param        number  path  int  true  "Issue number"
// @Success      200  {object}  PromptResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /prompts/{number} [get]
func (h *promptsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPromptResponse(*p, true))
}

// Placeholders returns the prompt's parsed slots in order with candidate
// values resolved against its local variables and the global vocabulary.
// GET /api/v1/prompts/{number}/placeholders
//
// @Summary      List a prompt's placeholder slots
// @Tags         Prompts
// @Produce      json
// @Param        number  path  int  true  "Issue number"
// @Success      200  {object}  PlaceholderListResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /prompts/{number}/placeholders [get]
func (h *promptsAPIHandler) Placeholders(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	segments := template.Placeholders(templateText(*p))
	resp := PlaceholderListResponse{Placeholders: make([]PlaceholderResponse, 0, len(segments))}
	for _, seg := range segments {
		candidates := template.Candidates(seg.Key, p.LocalVariables, h.vocab)
		if candidates == nil {
			candidates = []string{}
		}
		resp.Placeholders = append(resp.Placeholders, PlaceholderResponse{
			Key:        seg.Key,
			Default:    seg.Default,
			Candidates: candidates,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Render fills the prompt's placeholders with the supplied values and returns
// the resolved text. Slots without a value fall back to their default, then
// to the bare {{key}} marker.
// POST /api/v1/prompts/{number}/render
//
// @Summary      Render a prompt with placeholder values
// @Tags         Prompts
// @Accept       json
// @Produce      json
// @Param        number   path  int            true  "Issue number"
// @Param        request  body  RenderRequest  true  "Values by placeholder key"
// @Success      200  {object}  RenderResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /prompts/{number}/render [post]
func (h *promptsAPIHandler) Render(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	segments := template.Parse(templateText(*p))
	writeJSON(w, http.StatusOK, RenderResponse{Text: template.RenderValues(segments, req.Values)})
}

func (h *promptsAPIHandler) load(w http.ResponseWriter, r *http.Request) (*prompt.Prompt, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid prompt number", "bad_request")
		return nil, false
	}

	p, err := h.prompts.GetByNumber(r.Context(), number)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "prompt not found", "not_found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return nil, false
	}
	return p, true
}

// templateText is the text the placeholder engine runs on: the extracted
// prompt section when present, the raw body otherwise.
func templateText(p prompt.Prompt) string {
	if p.PromptText != "" {
		return p.PromptText
	}
	return p.BodyRaw
}

func toPromptResponse(p prompt.Prompt, includeLocals bool) PromptResponse {
	resp := PromptResponse{
		Number:       p.Number,
		Title:        p.Title,
		DisplayTitle: p.DisplayTitle,
		Category:     p.Category,
		PromptText:   p.PromptText,
		Notes:        p.Notes,
		Source:       p.Source,
		ImageURL:     p.ImageURL,
		Tags:         p.Tags,
		IsPreview:    p.IsPreview,
		URL:          p.URL,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if includeLocals {
		resp.LocalVariables = p.LocalVariables
	}
	return resp
}
