package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PutResult describes one persisted upload payload.
type PutResult struct {
	// Ref is the opaque handle stored on the entry and used in URLs.
	Ref       string
	SHA256    string
	SizeBytes int64
}

// BlobStore is the byte-storage abstraction used by the ingestion path.
type BlobStore interface {
	Put(ctx context.Context, originalName string, r io.Reader) (PutResult, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, ref string) error
	List(ctx context.Context) ([]string, error)
}

// LocalDir stores upload bytes as flat files in a local directory. Refs
// are generated from a millisecond timestamp plus a random component and
// keep the upload's original extension so viewers can infer the type.
type LocalDir struct {
	root string
}

// NewLocalDir creates a blob directory rooted at root.
func NewLocalDir(root string) (*LocalDir, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob dir root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &LocalDir{root: abs}, nil
}

// Put streams bytes into a temp file, computes SHA-256 along the way, and
// renames the file into place under a freshly generated ref. The write is
// never visible under a partial ref.
func (d *LocalDir) Put(ctx context.Context, originalName string, r io.Reader) (PutResult, error) {
	var zero PutResult
	if d == nil {
		return zero, fmt.Errorf("blob store is not configured")
	}
	if r == nil {
		return zero, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	tmp, err := os.CreateTemp(filepath.Join(d.root, "tmp"), "put-*")
	if err != nil {
		return zero, err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		cleanup()
		return zero, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return zero, err
	}

	ref := newRef(originalName)
	dst := filepath.Join(d.root, ref)
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return zero, err
	}

	return PutResult{Ref: ref, SHA256: hex.EncodeToString(h.Sum(nil)), SizeBytes: n}, nil
}

// Open returns a reader and size for one stored blob.
func (d *LocalDir) Open(ctx context.Context, ref string) (io.ReadCloser, int64, error) {
	if d == nil {
		return nil, 0, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	path, err := d.pathFromRef(ref)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// Delete removes a blob. Missing files are ignored so deletes stay
// idempotent.
func (d *LocalDir) Delete(ctx context.Context, ref string) error {
	if d == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := d.pathFromRef(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the refs of every blob currently on disk.
func (d *LocalDir) List(ctx context.Context) ([]string, error) {
	if d == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}
	refs := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		refs = append(refs, entry.Name())
	}
	return refs, nil
}

// newRef builds a collision-resistant blob ref: unix millis, a random
// UUID, and the original extension.
func newRef(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}

func (d *LocalDir) pathFromRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("blob ref is required")
	}
	// Refs are flat file names; anything path-shaped is rejected.
	if ref != filepath.Base(ref) || ref == "." || ref == ".." {
		return "", fmt.Errorf("invalid blob ref")
	}
	return filepath.Join(d.root, ref), nil
}
