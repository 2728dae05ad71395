package models

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies what a clipboard entry holds.
type Kind string

const (
	KindText  Kind = "text"
	KindLink  Kind = "link"
	KindCode  Kind = "code"
	KindFile  Kind = "file"
	KindImage Kind = "image"
)

// LanguageUnknown is the sentinel language for code entries without a
// detectable source language.
const LanguageUnknown = "unknown"

var validKinds = map[Kind]struct{}{
	KindText:  {},
	KindLink:  {},
	KindCode:  {},
	KindFile:  {},
	KindImage: {},
}

var kindTags = map[Kind]string{
	KindText:  "Text",
	KindLink:  "Link",
	KindCode:  "Code",
	KindFile:  "File",
	KindImage: "Image",
}

// Entry is a single shared clipboard item. Entries are append/delete only;
// a stored entry is never mutated.
type Entry struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Body      string    `json:"body"`
	BlobRef   string    `json:"blob_ref,omitempty"`
	SHA256    string    `json:"sha256,omitempty"`
	SizeBytes int64     `json:"size_bytes,omitempty"`
	Tag       string    `json:"tag,omitempty"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasBlob reports whether the entry owns bytes in the blob area.
func (e *Entry) HasBlob() bool {
	return e != nil && e.BlobRef != ""
}

func IsValidKind(kind Kind) bool {
	_, ok := validKinds[kind]
	return ok
}

func ParseKind(raw string) (Kind, error) {
	value := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("kind is required")
	}
	if !IsValidKind(value) {
		return "", fmt.Errorf("invalid kind: %s", value)
	}
	return value, nil
}

// Tag returns the human display label for a kind ("Code", "Image", ...).
func (k Kind) Tag() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return ""
}

// KindForMediaType maps an upload's media type to an entry kind. Uploads
// bypass text classification entirely.
func KindForMediaType(mediaType string) Kind {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/") {
		return KindImage
	}
	return KindFile
}
