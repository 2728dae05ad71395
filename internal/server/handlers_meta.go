package server

import (
	"net/http"

	"pasteboard/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.InfoResponse{
		Name:    "pasteboard",
		Version: s.version,
		Entries: count,
	})
}
