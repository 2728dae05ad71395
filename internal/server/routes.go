package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Content collection.
	mux.HandleFunc("GET /content", s.handleSnapshot)
	mux.HandleFunc("POST /content/text", s.handleSubmitText)
	mux.HandleFunc("POST /content/file", s.handleSubmitFiles)
	mux.HandleFunc("DELETE /content", s.handleDeleteAll)

	// Single entry.
	mux.HandleFunc("GET /content/{id}", s.handleGetEntry)
	mux.HandleFunc("DELETE /content/{id}", s.handleDeleteEntry)

	// Uploaded blob bytes.
	mux.HandleFunc("GET /uploads/{ref}", s.handleServeBlob)

	// Realtime event stream.
	mux.HandleFunc("GET /events", s.handleEvents)

	// Admin.
	mux.HandleFunc("POST /v1/admin/sweep", s.handleSweep)

	return s.withRequestLogging(mux)
}
