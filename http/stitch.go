package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	stitch "github.com/rishikaushal2009/Audio-Stich"
)

// stitchHandler represents an HTTP handler for synchronous stitch runs.
type stitchHandler struct {
	router chi.Router

	pipeline  *stitch.Pipeline
	logOutput io.Writer
}

// newStitchHandler returns a new instance of stitchHandler.
func newStitchHandler() *stitchHandler {
	h := &stitchHandler{router: chi.NewRouter()}
	h.router.Post("/", h.handlePost)
	return h
}

// ServeHTTP implements http.Handler.
func (h *stitchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r = r.WithContext(NewContext(r.Context(), h.logOutput))
	h.router.ServeHTTP(w, r)
}

// handlePost runs the pipeline for one message and reports the result.
func (h *stitchHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req stitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, r, ErrInvalidRequestBody)
		return
	}

	result, err := h.pipeline.Run(ctx, req.Message, req.Output)
	if err != nil {
		Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// stitchRequest is the request body for a synchronous stitch.
type stitchRequest struct {
	Message string `json:"message"`
	Output  string `json:"output"`
}
