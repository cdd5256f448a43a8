package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clindb/internal/apperr"
	"clindb/internal/logutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "uploads"), 0, nil, logutil.NewDiscardLogger())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestSaveAndList(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save("laudo final.pdf", []byte("%PDF-1.4\n%%EOF"))
	if err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if strings.ContainsAny(name, " /\\") {
		t.Errorf("Stored name not sanitized: %q", name)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != name {
		t.Errorf("Entry name = %q, want %q", entries[0].Name, name)
	}
	if entries[0].Size == 0 {
		t.Error("Entry size should not be zero")
	}

	path, err := store.Path(name)
	if err != nil {
		t.Fatalf("Failed to resolve path: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Stored file missing: %v", err)
	}
}

func TestSaveRejectsScreenedContent(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name string
		data []byte
	}{
		{"not a pdf", []byte("plain text")},
		{"active content", []byte("%PDF-1.4 /JavaScript (x)")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save("doc.pdf", tt.data)
			if !apperr.IsRejected(err) {
				t.Errorf("Expected VALIDATION_REJECTED, got %v", err)
			}
		})
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Rejected uploads must not be stored, found %d entries", len(entries))
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Save("a.pdf", []byte("%PDF-1.4 a"))
	if err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := store.Save("b.pdf", []byte("%PDF-1.4 b"))
	if err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != second || entries[1].Name != first {
		t.Errorf("Expected newest first, got %q then %q", entries[0].Name, entries[1].Name)
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, bad := range []string{"", "../secret", "a/b.pdf", "..", "dir/../../x"} {
		if _, err := store.Path(bad); !apperr.IsRejected(err) {
			t.Errorf("Path(%q) should be rejected, got %v", bad, err)
		}
	}

	if _, err := store.Path("missing.pdf"); !apperr.IsNotFound(err) {
		t.Errorf("Expected NOT_FOUND for a missing document, got %v", err)
	}
}
