package blobstore

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalDirPutOpenDelete(t *testing.T) {
	dir, err := NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}

	result, err := dir.Put(context.Background(), "report.pdf", bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if result.Ref == "" || result.SHA256 == "" {
		t.Fatalf("unexpected put result: %#v", result)
	}
	if !strings.HasSuffix(result.Ref, ".pdf") {
		t.Fatalf("expected ref to keep original extension, got %q", result.Ref)
	}
	if result.SizeBytes != 5 {
		t.Fatalf("expected 5 bytes, got %d", result.SizeBytes)
	}

	rc, size, err := dir.Open(context.Background(), result.Ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	if size != 5 {
		t.Fatalf("expected size 5, got %d", size)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected hello, got %q", string(data))
	}

	if err := dir.Delete(context.Background(), result.Ref); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := dir.Delete(context.Background(), result.Ref); err != nil {
		t.Fatalf("delete missing should be noop: %v", err)
	}
}

func TestLocalDirRefsAreUnique(t *testing.T) {
	dir, err := NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}

	seen := map[string]struct{}{}
	for i := 0; i < 10; i++ {
		result, err := dir.Put(context.Background(), "a.txt", bytes.NewBufferString("x"))
		if err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
		if _, dup := seen[result.Ref]; dup {
			t.Fatalf("duplicate ref %q", result.Ref)
		}
		seen[result.Ref] = struct{}{}
	}
}

func TestLocalDirList(t *testing.T) {
	dir, err := NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}

	first, err := dir.Put(context.Background(), "a.txt", bytes.NewBufferString("a"))
	if err != nil {
		t.Fatalf("put a: %v", err)
	}
	second, err := dir.Put(context.Background(), "b.png", bytes.NewBufferString("b"))
	if err != nil {
		t.Fatalf("put b: %v", err)
	}

	refs, err := dir.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d: %#v", len(refs), refs)
	}
	found := map[string]bool{}
	for _, ref := range refs {
		found[ref] = true
	}
	if !found[first.Ref] || !found[second.Ref] {
		t.Fatalf("expected refs %q and %q in %#v", first.Ref, second.Ref, refs)
	}
}

func TestLocalDirRejectsPathRefs(t *testing.T) {
	dir, err := NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}

	for _, ref := range []string{"", "../escape", "a/b", ".."} {
		if _, _, err := dir.Open(context.Background(), ref); err == nil {
			t.Fatalf("expected open %q to fail", ref)
		}
		if err := dir.Delete(context.Background(), ref); err == nil {
			t.Fatalf("expected delete %q to fail", ref)
		}
	}
}
