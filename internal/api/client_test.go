package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pasteboard/internal/broadcast"
	"pasteboard/internal/models"
)

func TestClientPasteText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/content/text" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req TextCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Entry{ID: 7, Kind: "text", Body: req.Content})
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	entry, err := client.PasteText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("paste: %v", err)
	}
	if entry.ID != 7 || entry.Body != "hello" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestClientDecodesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "entry not found", Code: "not_found"})
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	_, err := client.Get(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Code != "not_found" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestClientWatchParsesEvents(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		w.Write([]byte(": heartbeat\n\n"))
		w.Write([]byte("event: created\ndata: {\"type\":\"created\",\"entry\":{\"id\":3,\"kind\":\"text\",\"body\":\"hi\",\"created_at\":\"2026-01-02T03:04:05Z\"}}\n\n"))
		w.Write([]byte("event: deleted\ndata: {\"type\":\"deleted\",\"id\":3}\n\n"))
		flusher.Flush()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client := NewClient(ts.URL)
	var events []broadcast.Event
	err := client.Watch(ctx, func(event broadcast.Event) {
		events = append(events, event)
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != broadcast.EventCreated || events[0].Entry == nil || events[0].Entry.ID != 3 {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Type != broadcast.EventDeleted || events[1].ID != 3 {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
}
