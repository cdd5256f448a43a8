package audit

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogAccessAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "security.log")

	logger, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Failed to open audit log: %v", err)
	}

	logger.LogAccess("ADD_APPOINTMENT", "id=1 company=Metalúrgica Sul")
	logger.LogAccess("DELETE_APPOINTMENT", "id=1")

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close audit log: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	content := string(data)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "ADD_APPOINTMENT") {
		t.Errorf("First line missing action: %q", lines[0])
	}
	if !strings.Contains(lines[1], "DELETE_APPOINTMENT") {
		t.Errorf("Second line missing action: %q", lines[1])
	}
	if !strings.Contains(lines[0], "id=") {
		t.Errorf("Expected an event id attribute: %q", lines[0])
	}
}

func TestLogAccessNilReceiver(t *testing.T) {
	var logger *Logger
	// Must not panic; audit logging is advisory.
	logger.LogAccess("ADD_APPOINTMENT", "details")
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nil logger errored: %v", err)
	}
}

func TestValidateUpload(t *testing.T) {
	big := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte("x"), int(DefaultMaxUploadSize))...)

	tests := []struct {
		name string
		data []byte
		ok   bool
	}{
		{"minimal valid pdf", []byte("%PDF-1.4\n%%EOF"), true},
		{"not a pdf", []byte("GIF89a"), false},
		{"empty", []byte{}, false},
		{"magic mid-content", []byte("xx%PDF-1.4"), false},
		{"javascript", []byte("%PDF-1.4 /JavaScript (alert)"), false},
		{"js alias", []byte("%PDF-1.4 /JS (x)"), false},
		{"open action", []byte("%PDF-1.4 /OpenAction 1 0 R"), false},
		{"launch", []byte("%PDF-1.4 /Launch (cmd)"), false},
		{"oversized", big, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.data, 0)
			if tt.ok && err != nil {
				t.Errorf("Expected acceptance, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("Expected rejection")
			}
		})
	}
}

func TestValidateUploadCustomLimit(t *testing.T) {
	data := []byte("%PDF-1.4 some content")
	if err := ValidateUpload(data, 8); err == nil {
		t.Error("Expected rejection above the custom size limit")
	}
	if err := ValidateUpload(data, 1024); err != nil {
		t.Errorf("Expected acceptance under the custom size limit, got %v", err)
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"spaces and accents", "laudo José final.pdf"},
		{"traversal", "../../etc/passwd"},
		{"shell chars", "a;b&c|d.pdf"},
		{"empty", ""},
		{"dotfile", ".hidden"},
		{"very long", strings.Repeat("a", 300) + ".pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeFilename(tt.in)

			if got == "" {
				t.Fatal("SafeFilename returned empty")
			}
			if strings.ContainsAny(got, "/\\") {
				t.Errorf("Result contains path separators: %q", got)
			}
			// timestamp prefix + sanitized base
			if len(got) < len("20060102_150405_") {
				t.Errorf("Result too short to carry the timestamp prefix: %q", got)
			}
			for _, r := range got {
				valid := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
					(r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-'
				if !valid {
					t.Errorf("Unexpected character %q in %q", r, got)
				}
			}
		})
	}
}

func TestSafeFilenameKeepsExtension(t *testing.T) {
	long := strings.Repeat("a", 300) + ".pdf"
	got := SafeFilename(long)
	if !strings.HasSuffix(got, ".pdf") {
		t.Errorf("Expected the extension to survive truncation, got %q", got)
	}
}
