package api

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yisuchen/bananaguava/internal/snapshot"
)

// Refresher triggers a fresh pull of the upstream issues.
type Refresher interface {
	Refresh(ctx context.Context) (snapshot.Stats, error)
}

type snapshotAPIHandler struct {
	refresher Refresher
}

func registerSnapshotRoutes(r chi.Router, refresher Refresher) {
	h := &snapshotAPIHandler{refresher: refresher}
	r.Post("/snapshot", h.Refresh)
}

// Refresh re-pulls the issue list and rebuilds the cached prompts and
// vocabulary. POST /api/v1/snapshot
//
// @Summary      Refresh the prompt snapshot
// @Tags         Snapshot
// @Produce      json
// @Success      200  {object}  SnapshotResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /snapshot [post]
func (h *snapshotAPIHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	stats, err := h.refresher.Refresh(r.Context())
	if err != nil {
		log.Printf("api: snapshot refresh: %v", err)
		writeError(w, http.StatusInternalServerError, "snapshot refresh failed", "snapshot_failed")
		return
	}
	writeJSON(w, http.StatusOK, SnapshotResponse{
		Accepted:  stats.Accepted,
		Preview:   stats.Preview,
		VocabKeys: stats.VocabKeys,
	})
}
