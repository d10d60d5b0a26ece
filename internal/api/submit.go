package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yisuchen/bananaguava/internal/metrics"
	"github.com/yisuchen/bananaguava/internal/submit"
	"github.com/yisuchen/bananaguava/internal/vocab"
)

// submitAPIHandler is the anonymous write endpoint. It keeps the original
// worker contract: one POST route whose body either grows the vocabulary
// (action "sync_variables") or creates a submission, and a PUT route that
// updates an existing submission after password validation.
type submitAPIHandler struct {
	service  *submit.Service
	reporter *vocab.Reporter
}

func registerSubmitRoutes(r chi.Router, service *submit.Service, reporter *vocab.Reporter) {
	h := &submitAPIHandler{service: service, reporter: reporter}
	r.Post("/submit", h.Post)
	r.Put("/submit", h.Put)
}

// Post handles vocabulary growth and new submissions.
// POST /api/v1/submit
//
// @Summary      Create a submission or sync a vocabulary value
// @Tags         Submit
// @Accept       json
// @Produce      json
// @Param        request  body      SubmitRequest  true  "Submission fields, or {action: sync_variables, key, value}"
// @Success      200      {object}  SubmitResponse
// @Failure      400      {object}  SubmitResponse
// @Failure      500      {object}  SubmitResponse
// @Router       /submit [post]
func (h *submitAPIHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSubmitError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Action == "sync_variables" {
		if req.Key == "" || req.Value == "" {
			metrics.SubmissionsTotal.WithLabelValues("sync_variables", "error").Inc()
			writeSubmitError(w, http.StatusBadRequest, "sync_variables requires key and value")
			return
		}
		// Fire-and-forget: the response does not wait for the sinks.
		h.reporter.Report(req.Key, req.Value)
		metrics.SubmissionsTotal.WithLabelValues("sync_variables", "ok").Inc()
		writeJSON(w, http.StatusOK, SubmitResponse{Success: true, Mode: "append"})
		return
	}

	url, err := h.service.Create(r.Context(), req.Submission)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("create", "error").Inc()
		status := http.StatusInternalServerError
		if isValidationError(err) {
			status = http.StatusBadRequest
		}
		log.Printf("api: create submission: %v", err)
		writeSubmitError(w, status, err.Error())
		return
	}

	metrics.SubmissionsTotal.WithLabelValues("create", "ok").Inc()
	writeJSON(w, http.StatusOK, SubmitResponse{Success: true, URL: url})
}

// Put updates an existing submission. A wrong password is a 403 with its own
// envelope, distinct from generic failures.
// PUT /api/v1/submit
//
// @Summary      Update a submission
// @Tags         Submit
// @Accept       json
// @Produce      json
// @Param        request  body      SubmitRequest  true  "Submission fields with number and password"
// @Success      200      {object}  SubmitResponse
// @Failure      400      {object}  SubmitResponse
// @Failure      403      {object}  SubmitResponse
// @Failure      500      {object}  SubmitResponse
// @Router       /submit [put]
func (h *submitAPIHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSubmitError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Number <= 0 {
		writeSubmitError(w, http.StatusBadRequest, "issue number is required")
		return
	}

	err := h.service.Update(r.Context(), req.Number, req.Submission)
	switch {
	case err == nil:
		metrics.SubmissionsTotal.WithLabelValues("update", "ok").Inc()
		writeJSON(w, http.StatusOK, SubmitResponse{Success: true})
	case errors.Is(err, submit.ErrPasswordMismatch):
		metrics.SubmissionsTotal.WithLabelValues("update", "forbidden").Inc()
		writeJSON(w, http.StatusForbidden, SubmitResponse{Success: false, Error: "password mismatch"})
	case errors.Is(err, submit.ErrSubmissionMissing), errors.Is(err, submit.ErrNotEditable), isValidationError(err):
		metrics.SubmissionsTotal.WithLabelValues("update", "error").Inc()
		writeSubmitError(w, http.StatusBadRequest, err.Error())
	default:
		metrics.SubmissionsTotal.WithLabelValues("update", "error").Inc()
		log.Printf("api: update submission %d: %v", req.Number, err)
		writeSubmitError(w, http.StatusInternalServerError, err.Error())
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, submit.ErrMissingFields) ||
		errors.Is(err, submit.ErrPromptTooLong) ||
		errors.Is(err, submit.ErrImageTooLarge)
}

func writeSubmitError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, SubmitResponse{Success: false, Error: message})
}
