// Package http exposes the stitching pipeline over an HTTP JSON API.
package http

import (
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	stitch "github.com/rishikaushal2009/Audio-Stich"
	"golang.org/x/crypto/acme/autocert"
)

// Server represents an HTTP server.
type Server struct {
	ln net.Listener

	// Services
	Pipeline   *stitch.Pipeline
	JobService stitch.JobService
	Repository stitch.Repository

	// Server options.
	Addr        string // bind address
	Host        string // external hostname
	Autocert    bool   // ACME autocert
	Recoverable bool   // panic recovery

	LogOutput io.Writer
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	return &Server{
		Recoverable: true,
		LogOutput:   io.Discard,
	}
}

// Open opens the server.
func (s *Server) Open() error {
	// Open listener on specified bind address.
	// Use HTTPS port if autocert is enabled.
	if s.Autocert {
		s.ln = autocert.NewListener(s.Host)
	} else {
		ln, err := net.Listen("tcp", s.Addr)
		if err != nil {
			return err
		}
		s.ln = ln
	}

	// Start HTTP server.
	go http.Serve(s.ln, s.router())

	return nil
}

// Close closes the socket.
func (s *Server) Close() error {
	if s.ln != nil {
		s.ln.Close()
	}
	return nil
}

// URL returns a base URL string with the scheme and host.
// This is available after the server has been opened.
func (s *Server) URL() url.URL {
	if s.ln == nil {
		return url.URL{}
	}

	if s.Autocert {
		return url.URL{Scheme: "https", Host: s.Host}
	}
	return url.URL{Scheme: "http", Host: s.ln.Addr().String()}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	// Attach router middleware.
	r.Use(middleware.RealIP)
	if s.Recoverable {
		r.Use(middleware.Recoverer)
	}
	r.Mount("/debug", middleware.Profiler())

	// Create API routes.
	r.Route("/", func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Get("/ping", s.handlePing)
		r.Mount("/stitch", s.stitchHandler())
		r.Mount("/jobs", s.jobHandler())
		r.Mount("/outputs", s.outputHandler())
	})

	return r
}

// handlePing returns a success response.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func (s *Server) stitchHandler() *stitchHandler {
	h := newStitchHandler()
	h.pipeline = s.Pipeline
	h.logOutput = s.LogOutput
	return h
}

func (s *Server) jobHandler() *jobHandler {
	h := newJobHandler()
	h.jobService = s.JobService
	h.logOutput = s.LogOutput
	return h
}

func (s *Server) outputHandler() *outputHandler {
	h := newOutputHandler()
	h.repository = s.Repository
	h.logOutput = s.LogOutput
	return h
}
