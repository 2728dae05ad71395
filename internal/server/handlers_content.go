package server

import (
	"bufio"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"pasteboard/internal/api"
	"pasteboard/internal/models"
)

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.Snapshot(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	entry, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if entry == nil {
		s.writeErrorReq(w, r, http.StatusNotFound,
			notFoundCode(fmt.Errorf("entry not found"), ErrCodeEntryNotFound))
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleSubmitText(w http.ResponseWriter, r *http.Request) {
	var req api.TextCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	entry, err := s.service.SubmitText(r.Context(), req.Content)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleSubmitFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.uploads.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.uploads.MultipartMaxMemory); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, classifyMultipartError(err))
		return
	}

	form := r.MultipartForm
	if form == nil || len(form.File["files"]) == 0 {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("at least one file part named %q is required", "files"), ErrCodeMissingRequired))
		return
	}

	entries := []models.Entry{}
	for _, header := range form.File["files"] {
		file, err := header.Open()
		if err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("open file part: %w", err)))
			return
		}

		buffered := bufio.NewReader(file)
		mediaType := resolveMediaType(header.Filename, header.Header.Get("Content-Type"), buffered)

		entry, err := s.service.SubmitFile(r.Context(), header.Filename, mediaType, buffered)
		file.Close()
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		entries = append(entries, *entry)
	}

	s.writeJSON(w, http.StatusCreated, entries)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	deleted, err := s.service.Delete(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.DeleteResponse{Deleted: deleted})
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	count, err := s.service.DeleteAll(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.DeleteAllResponse{Count: count})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	apply := r.URL.Query().Get("apply") == "true"

	result, err := s.service.SweepOrphans(r.Context(), apply)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SweepResponse{
		CandidateCount: result.CandidateCount,
		DeletedCount:   result.DeletedCount,
		FailedCount:    result.FailedCount,
		DryRun:         result.DryRun,
		Orphans:        result.Orphans,
	})
}

// resolveMediaType picks the upload's media type: declared header first,
// then content sniffing of the first 512 bytes, then the file extension.
func resolveMediaType(filename, declared string, buffered *bufio.Reader) string {
	if declared != "" && declared != "application/octet-stream" {
		if parsed, _, err := mime.ParseMediaType(declared); err == nil {
			return parsed
		}
	}
	if peek, _ := buffered.Peek(512); len(peek) > 0 {
		if sniffed := http.DetectContentType(peek); sniffed != "application/octet-stream" {
			return sniffed
		}
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		if parsed, _, err := mime.ParseMediaType(byExt); err == nil {
			return parsed
		}
	}
	return "application/octet-stream"
}

func classifyMultipartError(err error) error {
	if err == nil {
		return nil
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return badRequestCode(fmt.Errorf("upload too large (limit %s bytes)",
			strconv.FormatInt(maxBytesErr.Limit, 10)), ErrCodeRequestTooLarge)
	}

	return badRequestCode(fmt.Errorf("invalid multipart form: %w", err), ErrCodeInvalidArgument)
}
