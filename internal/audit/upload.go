package audit

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"clindb/internal/apperr"
)

// DefaultMaxUploadSize is the upload cap applied when none is configured.
const DefaultMaxUploadSize int64 = 10 * 1024 * 1024

// pdfMagic is the header every well-formed PDF starts with.
var pdfMagic = []byte("%PDF-")

// activeContentMarkers are byte substrings associated with embedded active
// content. Their presence fails the screen.
var activeContentMarkers = [][]byte{
	[]byte("/JavaScript"),
	[]byte("/JS"),
	[]byte("/OpenAction"),
	[]byte("/Launch"),
}

// ValidateUpload screens uploaded bytes: PDF magic header, size cap, and
// no active-content markers. maxSize <= 0 applies DefaultMaxUploadSize.
//
// This is a heuristic screen, not a safety guarantee: markers can be
// obfuscated inside compressed streams, and a passing file is merely not
// obviously hostile.
func ValidateUpload(data []byte, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}

	if !bytes.HasPrefix(data, pdfMagic) {
		return apperr.New(apperr.ValidationRejected, "upload is not a PDF")
	}
	if int64(len(data)) > maxSize {
		return apperr.New(apperr.ValidationRejected, fmt.Sprintf("upload exceeds %d bytes", maxSize))
	}
	for _, marker := range activeContentMarkers {
		if bytes.Contains(data, marker) {
			return apperr.New(apperr.ValidationRejected, "upload contains embedded active content")
		}
	}
	return nil
}

// maxBaseNameLength caps the sanitized portion of a stored filename.
const maxBaseNameLength = 100

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SafeFilename reduces name to the `[A-Za-z0-9._-]` alphabet and prefixes
// a timestamp so repeated uploads of the same name stay distinct.
func SafeFilename(name string) string {
	base := filepath.Base(name)
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	if len(base) > maxBaseNameLength {
		ext := filepath.Ext(base)
		if len(ext) >= maxBaseNameLength {
			ext = ""
		}
		base = base[:maxBaseNameLength-len(ext)] + ext
	}
	base = strings.TrimLeft(base, ".")
	if base == "" {
		base = "upload"
	}

	return time.Now().Format("20060102_150405") + "_" + base
}
