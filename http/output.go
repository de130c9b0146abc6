package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	stitch "github.com/rishikaushal2009/Audio-Stich"
)

// outputHandler represents an HTTP handler for produced outputs.
type outputHandler struct {
	router chi.Router

	repository stitch.Repository
	logOutput  io.Writer
}

// newOutputHandler returns a new instance of outputHandler.
func newOutputHandler() *outputHandler {
	h := &outputHandler{router: chi.NewRouter()}
	h.router.Get("/{name}", h.handleGet)
	return h
}

// ServeHTTP implements http.Handler.
func (h *outputHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r = r.WithContext(NewContext(r.Context(), h.logOutput))
	h.router.ServeHTTP(w, r)
}

// handleGet streams one produced output.
func (h *outputHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	// Fetch output.
	output, rc, err := h.repository.FindOutput(ctx, name)
	if err != nil {
		Error(w, r, err)
		return
	} else if output == nil {
		Error(w, r, ErrOutputNotFound)
		return
	}
	defer rc.Close()

	// Set headers.
	w.Header().Set("Content-Type", mime.TypeByExtension(path.Ext(output.Name)))
	w.Header().Set("Content-Length", strconv.FormatInt(output.Size, 10))

	// Write output contents to response.
	if _, err := io.Copy(w, rc); err != nil {
		Error(w, r, err)
		return
	}
}
