package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	stitch "github.com/rishikaushal2009/Audio-Stich"
)

// jobHandler represents an HTTP handler for asynchronous stitch jobs.
type jobHandler struct {
	router chi.Router

	jobService stitch.JobService
	logOutput  io.Writer
}

// newJobHandler returns a new instance of jobHandler.
func newJobHandler() *jobHandler {
	h := &jobHandler{router: chi.NewRouter()}
	h.router.Post("/", h.handlePost)
	h.router.Get("/{id}", h.handleGet)
	return h
}

// ServeHTTP implements http.Handler.
func (h *jobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r = r.WithContext(NewContext(r.Context(), h.logOutput))
	h.router.ServeHTTP(w, r)
}

// handlePost enqueues a stitch job.
func (h *jobHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, r, ErrInvalidRequestBody)
		return
	} else if req.Message == "" {
		Error(w, r, stitch.ErrMessageRequired)
		return
	} else if req.Output == "" {
		Error(w, r, stitch.ErrOutputNameRequired)
		return
	}

	job := &stitch.Job{
		Message:      req.Message,
		Output:       req.Output,
		NotifyNumber: req.Notify,
	}
	if err := h.jobService.CreateJob(ctx, job); err != nil {
		Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(job)
}

// handleGet returns a job's current status.
func (h *jobHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, r, stitch.ErrJobNotFound)
		return
	}

	job, err := h.jobService.FindJobByID(ctx, id)
	if err != nil {
		Error(w, r, err)
		return
	} else if job == nil {
		Error(w, r, stitch.ErrJobNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// jobRequest is the request body for an asynchronous stitch.
type jobRequest struct {
	Message string `json:"message"`
	Output  string `json:"output"`
	Notify  string `json:"notify,omitempty"`
}
