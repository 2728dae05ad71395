package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"pasteboard/internal/models"
)

func writeJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeEntryList(entries []models.Entry) error {
	for _, entry := range entries {
		if err := writePlain("%s\n", formatEntryLine(entry)); err != nil {
			return err
		}
	}
	return nil
}

func writeEntryDetail(entry models.Entry) error {
	lines := []string{
		fmt.Sprintf("id: %d", entry.ID),
		fmt.Sprintf("kind: %s", entry.Kind),
		fmt.Sprintf("created_at: %s", formatTime(entry.CreatedAt)),
	}

	if entry.Language != "" {
		lines = append(lines, fmt.Sprintf("language: %s", entry.Language))
	}
	if entry.BlobRef != "" {
		lines = append(lines, fmt.Sprintf("blob_ref: %s", entry.BlobRef))
	}
	if entry.SHA256 != "" {
		lines = append(lines, fmt.Sprintf("sha256: %s", entry.SHA256))
	}
	if entry.SizeBytes > 0 {
		lines = append(lines, fmt.Sprintf("size_bytes: %d", entry.SizeBytes))
	}
	lines = append(lines, fmt.Sprintf("body: %s", entry.Body))

	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func formatEntryLine(entry models.Entry) string {
	body := firstLine(entry.Body)
	if len(body) > 72 {
		body = body[:72] + "..."
	}
	return fmt.Sprintf("%d %s [%s] %s", entry.ID, entry.Tag, entry.Kind, body)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
