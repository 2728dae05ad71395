package api

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// TextCreateRequest submits raw text for classification and storage.
type TextCreateRequest struct {
	Content string `json:"content"`
}

// DeleteResponse reports one entry deletion. Deleting a missing id is a
// success with Deleted=false.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// DeleteAllResponse reports a bulk deletion.
type DeleteAllResponse struct {
	Count int64 `json:"count"`
}

// InfoResponse describes the running server.
type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Entries int64  `json:"entries"`
}

// SweepResponse reports one orphan-blob sweep run.
type SweepResponse struct {
	CandidateCount int      `json:"candidate_count"`
	DeletedCount   int      `json:"deleted_count"`
	FailedCount    int      `json:"failed_count"`
	DryRun         bool     `json:"dry_run"`
	Orphans        []string `json:"orphans,omitempty"`
}
