package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"pasteboard/internal/blobstore"
	"pasteboard/internal/classify"
	"pasteboard/internal/models"
	"pasteboard/internal/store"
)

// testServer creates a server backed by a temporary store and blob dir.
func testServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	blobs, err := blobstore.NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new blob dir: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	detector := classify.NewDetector(classify.DefaultRuleset())
	return New("127.0.0.1:0", st, blobs, detector, "test", logger)
}

func postText(t *testing.T, srv *Server, content string) models.Entry {
	t.Helper()

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/content/text", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	var entry models.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	return entry
}

func uploadFile(t *testing.T, srv *Server, filename, contentType string, content []byte) []models.Entry {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="files"; filename="` + filename + `"`}
	if contentType != "" {
		header["Content-Type"] = []string{contentType}
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/content/file", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	var entries []models.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	return entries
}

func listEntries(t *testing.T, srv *Server) []models.Entry {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/content", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var entries []models.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return entries
}

func TestListenAddrRejectsRemoteByDefault(t *testing.T) {
	if _, err := ListenAddr("http://127.0.0.1:7333"); err != nil {
		t.Fatalf("loopback should be allowed: %v", err)
	}
	if _, err := ListenAddr("http://192.168.1.5:7333"); err != nil {
		t.Fatalf("private LAN address should be allowed: %v", err)
	}
	if _, err := ListenAddr("http://example.com:7333"); err == nil {
		t.Fatal("expected public host to require explicit opt-in")
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestInfoReportsEntryCount(t *testing.T) {
	srv := testServer(t)
	postText(t, srv, "hello world")

	req := httptest.NewRequest(http.MethodGet, "/v1/info", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var info struct {
		Name    string `json:"name"`
		Entries int64  `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.Name != "pasteboard" || info.Entries != 1 {
		t.Fatalf("unexpected info: %+v", info)
	}
}
