package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yisuchen/bananaguava/internal/template"
	"github.com/yisuchen/bananaguava/internal/vocab"
)

// vocabAPIHandler serves the merged vocabulary table.
type vocabAPIHandler struct {
	vocab *vocab.Table
}

func registerVocabRoutes(r chi.Router, table *vocab.Table) {
	h := &vocabAPIHandler{vocab: table}
	r.Get("/vocabulary", h.List)
	r.Get("/vocabulary/{key}", h.Candidates)
}

// List returns a snapshot of the whole merged vocabulary.
// GET /api/v1/vocabulary
//
// @Summary      Get the merged vocabulary
// @Tags         Vocabulary
// @Produce      json
// @Success      200  {object}  VocabularyResponse
// @Router       /vocabulary [get]
func (h *vocabAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VocabularyResponse{Variables: h.vocab.Snapshot()})
}

// Candidates returns the suggestion list for one key, applying the same
// normalization, alias, and numbered-key fallback rules the placeholder
// engine uses.
// GET /api/v1/vocabulary/{key}
//
// @Summary      Get candidate values for a key
// @Tags         Vocabulary
// @Produce      json
// @Param        key  path  string  true  "Variable key"
// @Success      200  {object}  CandidateResponse
// @Router       /vocabulary/{key} [get]
func (h *vocabAPIHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	candidates := template.Candidates(key, nil, h.vocab)
	if candidates == nil {
		candidates = []string{}
	}
	writeJSON(w, http.StatusOK, CandidateResponse{Key: key, Candidates: candidates})
}
