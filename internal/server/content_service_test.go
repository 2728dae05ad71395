package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSweepOrphans(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	kept := uploadFile(t, srv, "keep.txt", "text/plain", []byte("referenced"))[0]

	// An upload whose row is later deleted without removing the blob
	// would normally not orphan anything; plant one directly instead.
	orphan, err := srv.blobs.Put(ctx, "stray.bin", strings.NewReader("unreferenced"))
	if err != nil {
		t.Fatalf("put orphan: %v", err)
	}

	dry, err := srv.service.SweepOrphans(ctx, false)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !dry.DryRun || dry.CandidateCount != 1 || dry.DeletedCount != 0 {
		t.Fatalf("unexpected dry run result: %+v", dry)
	}
	if len(dry.Orphans) != 1 || dry.Orphans[0] != orphan.Ref {
		t.Fatalf("unexpected orphans: %v", dry.Orphans)
	}

	applied, err := srv.service.SweepOrphans(ctx, true)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if applied.DeletedCount != 1 || applied.FailedCount != 0 {
		t.Fatalf("unexpected apply result: %+v", applied)
	}

	// The referenced blob survives the sweep.
	if _, _, err := srv.blobs.Open(ctx, kept.BlobRef); err != nil {
		t.Fatalf("referenced blob removed by sweep: %v", err)
	}

	again, err := srv.service.SweepOrphans(ctx, true)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if again.CandidateCount != 0 {
		t.Fatalf("expected no candidates after sweep, got %d", again.CandidateCount)
	}
}

func TestSweepHandler(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	if _, err := srv.blobs.Put(ctx, "stray.bin", strings.NewReader("unreferenced")); err != nil {
		t.Fatalf("put orphan: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/sweep", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		CandidateCount int  `json:"candidate_count"`
		DeletedCount   int  `json:"deleted_count"`
		DryRun         bool `json:"dry_run"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.DryRun || resp.CandidateCount != 1 || resp.DeletedCount != 0 {
		t.Fatalf("expected dry-run report, got %+v", resp)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/admin/sweep?apply=true", nil)
	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.DryRun || resp.DeletedCount != 1 {
		t.Fatalf("expected applied sweep, got %+v", resp)
	}
}
