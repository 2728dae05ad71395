package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"pasteboard/internal/blobstore"
	"pasteboard/internal/broadcast"
	"pasteboard/internal/classify"
	"pasteboard/internal/store"
)

const (
	allowRemoteEnvKey = "PASTEBOARD_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	idleTimeout       = 60 * time.Second

	defaultUploadMaxBytes        int64 = 100 << 20 // 100 MiB
	defaultUploadMultipartMemory int64 = 8 << 20   // 8 MiB
)

// UploadOptions tunes multipart upload handling.
type UploadOptions struct {
	MaxUploadBytes     int64
	MultipartMaxMemory int64
}

// Server wraps the HTTP surface of the pasteboard API.
type Server struct {
	addr    string
	store   *store.Store
	blobs   blobstore.BlobStore
	hub     *broadcast.Hub
	service *ContentService
	logger  *slog.Logger
	version string
	uploads UploadOptions
}

// New creates a new server instance.
func New(addr string, st *store.Store, blobs blobstore.BlobStore, detector *classify.Detector, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	hub := broadcast.NewHub(logger.With("component", "broadcast"))

	return &Server{
		addr:    addr,
		store:   st,
		blobs:   blobs,
		hub:     hub,
		service: NewContentService(st, blobs, hub, detector, logger.With("component", "content")),
		logger:  logger,
		version: version,
		uploads: UploadOptions{
			MaxUploadBytes:     defaultUploadMaxBytes,
			MultipartMaxMemory: defaultUploadMultipartMemory,
		},
	}
}

// ConfigureUploadOptions overrides upload limits.
func (s *Server) ConfigureUploadOptions(opts UploadOptions) {
	if opts.MaxUploadBytes > 0 {
		s.uploads.MaxUploadBytes = opts.MaxUploadBytes
	}
	if opts.MultipartMaxMemory > 0 {
		s.uploads.MultipartMaxMemory = opts.MultipartMaxMemory
	}
}

// Hub exposes the broadcast hub, mainly for tests.
func (s *Server) Hub() *broadcast.Hub {
	return s.hub
}

// ListenAndServe starts the HTTP server. WriteTimeout stays unset because
// the event stream holds its response open indefinitely.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	if ip != nil && (ip.IsLoopback() || ip.IsUnspecified() || ip.IsPrivate()) {
		return true
	}
	return false
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
