package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pasteboard/internal/models"
)

const contentColumns = "id, kind, body, blob_ref, sha256, size_bytes, tag, language, created_at"

// Insert persists one entry as a single atomic statement. The store
// assigns id and created_at and returns the stored row so the caller
// broadcasts the authoritative values, not its own guesses.
func (s *Store) Insert(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if entry == nil {
		return nil, fmt.Errorf("entry is required")
	}
	if _, err := models.ParseKind(entry.Kind); err != nil {
		return nil, err
	}

	s.insertMu.Lock()
	defer s.insertMu.Unlock()

	createdAt := time.Now().UTC()
	// Keep insertion order, id order and time order aligned even if the
	// wall clock steps backwards.
	if createdAt.Before(s.lastCreated) {
		createdAt = s.lastCreated
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO content (kind, body, blob_ref, sha256, size_bytes, tag, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.Kind,
		entry.Body,
		nullIfEmpty(entry.BlobRef),
		nullIfEmpty(entry.SHA256),
		nullIfZero(entry.SizeBytes),
		nullIfEmpty(entry.Tag),
		nullIfEmpty(entry.Language),
		formatTime(createdAt),
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	s.lastCreated = createdAt

	stored, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("entry %d not found after insert", id)
	}
	return stored, nil
}

// Get returns one entry by id, or nil when absent.
func (s *Store) Get(ctx context.Context, id int64) (*models.Entry, error) {
	return s.get(ctx, id)
}

// ListAll returns every entry, newest first. The ordering matches the
// idx_content_created_desc index; ties on created_at break by id.
func (s *Store) ListAll(ctx context.Context) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+contentColumns+` FROM content ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM content").Scan(&count)
	return count, err
}

// DeleteByID removes one entry. A missing id is a no-op success. The
// returned blobRef (if any) is the blob the caller must remove from the
// blob area. Delete and read are one statement so concurrent deletes of
// the same id report deleted=true exactly once.
func (s *Store) DeleteByID(ctx context.Context, id int64) (deleted bool, blobRef string, err error) {
	var ref sql.NullString
	err = s.db.QueryRowContext(ctx, "DELETE FROM content WHERE id = ? RETURNING blob_ref", id).Scan(&ref)
	if err == sql.ErrNoRows {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return true, ref.String, nil
}

// DeleteAll removes every entry and returns the owned blob refs. Refs are
// enumerated before the rows go so an interruption can at worst leave
// orphaned blobs, never rows pointing at deleted blobs.
func (s *Store) DeleteAll(ctx context.Context) (count int64, blobRefs []string, err error) {
	blobRefs, err = s.ListBlobRefs(ctx)
	if err != nil {
		return 0, nil, err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM content")
	if err != nil {
		return 0, nil, err
	}
	count, err = result.RowsAffected()
	if err != nil {
		return 0, nil, err
	}
	return count, blobRefs, nil
}

// ListBlobRefs returns the blob refs of all live blob-owning entries.
func (s *Store) ListBlobRefs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT blob_ref FROM content WHERE blob_ref IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := []string{}
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (s *Store) get(ctx context.Context, id int64) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM content WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		entry     models.Entry
		blobRef   sql.NullString
		sha256    sql.NullString
		sizeBytes sql.NullInt64
		tag       sql.NullString
		language  sql.NullString
		createdAt string
	)
	if err := row.Scan(&entry.ID, &entry.Kind, &entry.Body, &blobRef, &sha256, &sizeBytes, &tag, &language, &createdAt); err != nil {
		return nil, err
	}

	entry.BlobRef = blobRef.String
	entry.SHA256 = sha256.String
	entry.SizeBytes = sizeBytes.Int64
	entry.Tag = tag.String
	entry.Language = language.String

	parsed, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for entry %d: %w", entry.ID, err)
	}
	entry.CreatedAt = parsed

	return &entry, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullIfZero(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}

// timeLayout is RFC 3339 with a fixed-width fractional second. The fixed
// width keeps lexicographic order of the stored text identical to
// chronological order, which ORDER BY created_at relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
