package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"pasteboard/internal/blobstore"
	"pasteboard/internal/broadcast"
	"pasteboard/internal/classify"
	"pasteboard/internal/models"
	"pasteboard/internal/store"
)

// ContentService is the only writer path: it orchestrates classify,
// persist, broadcast for text and file submissions, and delete, broadcast
// for removals. Broadcasts carry the server-assigned fields so every
// client, including the submitter, converges on identical data.
type ContentService struct {
	store    *store.Store
	blobs    blobstore.BlobStore
	hub      *broadcast.Hub
	detector *classify.Detector
	logger   *slog.Logger
}

// NewContentService constructs the ingestion service.
func NewContentService(st *store.Store, blobs blobstore.BlobStore, hub *broadcast.Hub, detector *classify.Detector, logger *slog.Logger) *ContentService {
	if logger == nil {
		logger = slog.Default()
	}
	if detector == nil {
		detector = classify.NewDetector(classify.DefaultRuleset())
	}
	return &ContentService{store: st, blobs: blobs, hub: hub, detector: detector, logger: logger}
}

// SubmitText classifies raw text, persists it, and broadcasts the stored
// entry. The broadcast only happens after the insert is confirmed; a
// failed submission leaves nothing visible to clients.
func (s *ContentService) SubmitText(ctx context.Context, raw string) (*models.Entry, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, badRequestCode(fmt.Errorf("content is required"), ErrCodeMissingRequired)
	}

	result := s.detector.Detect(raw)
	entry := &models.Entry{
		Kind:     string(result.Kind),
		Body:     raw,
		Tag:      result.Kind.Tag(),
		Language: result.Language,
	}

	stored, err := s.store.Insert(ctx, entry)
	if err != nil {
		return nil, storeFailure(err)
	}

	s.hub.PublishCreated(stored)
	return stored, nil
}

// SubmitFile stores the upload bytes first and only then inserts the row,
// so a crash in between can orphan a blob but never leaves a row pointing
// at missing bytes. A failed insert removes the just-written blob.
func (s *ContentService) SubmitFile(ctx context.Context, originalName, mediaType string, content io.Reader) (*models.Entry, error) {
	originalName = strings.TrimSpace(originalName)
	if originalName == "" {
		return nil, badRequestCode(fmt.Errorf("filename is required"), ErrCodeMissingRequired)
	}
	if content == nil {
		return nil, badRequestCode(fmt.Errorf("file content is required"), ErrCodeMissingRequired)
	}

	put, err := s.blobs.Put(ctx, originalName, content)
	if err != nil {
		return nil, blobFailure(fmt.Errorf("store upload: %w", err))
	}

	kind := models.KindForMediaType(mediaType)
	entry := &models.Entry{
		Kind:      string(kind),
		Body:      originalName,
		BlobRef:   put.Ref,
		SHA256:    put.SHA256,
		SizeBytes: put.SizeBytes,
		Tag:       kind.Tag(),
	}

	stored, err := s.store.Insert(ctx, entry)
	if err != nil {
		if cleanupErr := s.blobs.Delete(ctx, put.Ref); cleanupErr != nil {
			s.logger.Warn("orphaned blob after failed insert", "blob_ref", put.Ref, "error", cleanupErr)
		}
		return nil, storeFailure(err)
	}

	s.hub.PublishCreated(stored)
	return stored, nil
}

// Delete removes one entry and its blob, then broadcasts the removal.
// Missing ids are a no-op success. A blob that cannot be removed is
// logged and left for the sweep.
func (s *ContentService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, blobRef, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return false, storeFailure(err)
	}
	if !deleted {
		return false, nil
	}

	if blobRef != "" {
		if err := s.blobs.Delete(ctx, blobRef); err != nil {
			s.logger.Warn("orphaned blob after delete", "blob_ref", blobRef, "error", err)
		}
	}

	s.hub.PublishDeleted(id)
	return true, nil
}

// DeleteAll removes every entry. Owned blobs are enumerated before the
// rows go; blobs that fail to delete become tolerated orphans.
func (s *ContentService) DeleteAll(ctx context.Context) (int64, error) {
	count, blobRefs, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, storeFailure(err)
	}

	for _, ref := range blobRefs {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			s.logger.Warn("orphaned blob after delete all", "blob_ref", ref, "error", err)
		}
	}

	s.hub.PublishAllDeleted()
	return count, nil
}

// Snapshot returns the full, point-in-time view clients use to establish
// a baseline before applying incremental events.
func (s *ContentService) Snapshot(ctx context.Context) ([]models.Entry, error) {
	entries, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	return entries, nil
}

// SweepResult reports one orphan-blob sweep.
type SweepResult struct {
	CandidateCount int
	DeletedCount   int
	FailedCount    int
	DryRun         bool
	Orphans        []string
}

// SweepOrphans finds blobs on disk that no live entry references and,
// when apply is set, removes them. This is the manual remedy for the
// orphans tolerated by the delete and crash paths.
func (s *ContentService) SweepOrphans(ctx context.Context, apply bool) (SweepResult, error) {
	result := SweepResult{DryRun: !apply}

	live, err := s.store.ListBlobRefs(ctx)
	if err != nil {
		return result, storeFailure(err)
	}
	referenced := make(map[string]struct{}, len(live))
	for _, ref := range live {
		referenced[ref] = struct{}{}
	}

	onDisk, err := s.blobs.List(ctx)
	if err != nil {
		return result, blobFailure(err)
	}

	for _, ref := range onDisk {
		if _, ok := referenced[ref]; ok {
			continue
		}
		result.CandidateCount++
		result.Orphans = append(result.Orphans, ref)
		if !apply {
			continue
		}
		if err := s.blobs.Delete(ctx, ref); err != nil {
			result.FailedCount++
			s.logger.Warn("sweep failed to delete orphan", "blob_ref", ref, "error", err)
			continue
		}
		result.DeletedCount++
	}

	return result, nil
}
