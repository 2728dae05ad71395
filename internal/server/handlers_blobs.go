package server

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
)

// handleServeBlob streams uploaded bytes back to the client. The ref in
// the URL is the entry's blob_ref; content type comes from the ref's
// extension, which preserves the original upload's extension.
func (s *Server) handleServeBlob(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")

	rc, size, err := s.blobs.Open(r.Context(), ref)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusNotFound,
			notFoundCode(fmt.Errorf("blob not found"), ErrCodeBlobNotFound))
		return
	}
	defer rc.Close()

	mediaType := mime.TypeByExtension(filepath.Ext(ref))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": ref}))

	if _, err := io.Copy(w, rc); err != nil {
		s.log().Debug("blob stream interrupted", "blob_ref", ref, "error", err)
	}
}
