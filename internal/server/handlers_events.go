package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// heartbeatInterval keeps idle event streams alive through proxies and
// lets the server notice dead connections.
const heartbeatInterval = 30 * time.Second

// handleEvents is the realtime channel: a long-lived Server-Sent Events
// stream delivering created, deleted and all-deleted mutations. Delivery
// is best-effort; a client that misses events reconciles by re-fetching
// the snapshot.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeErrorReq(w, r, http.StatusInternalServerError,
			internalError(fmt.Errorf("response writer does not support streaming")))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event := <-sub.Events():
			payload, err := json.Marshal(event)
			if err != nil {
				s.log().Error("encode event", "event", event.Type, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
