// Package validate holds the input boundary: strict date/time format checks,
// free-text sanitization, and the closed enumerations for appointment fields.
package validate

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical wall-clock date format used throughout the store.
const DateLayout = "02/01/2006"

// TimeLayout is the canonical 24-hour time-of-day format.
const TimeLayout = "15:04"

// DefaultMaxTextLength caps sanitized free-text fields.
const DefaultMaxTextLength = 200

// Modality is the enumerated category of a clinical visit.
type Modality string

const (
	ModalityAdmissional Modality = "Admissional"
	ModalityPeriodico   Modality = "Periódico"
	ModalityDemissional Modality = "Demissional"
	ModalityRetorno     Modality = "Retorno"
)

// Modalities returns the fixed variant set in display order.
func Modalities() []Modality {
	return []Modality{ModalityAdmissional, ModalityPeriodico, ModalityDemissional, ModalityRetorno}
}

// ParseModality rejects unknown modality values at the boundary.
func ParseModality(s string) (Modality, error) {
	for _, m := range Modalities() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown modality %q", s)
}

// Status is the enumerated lifecycle state of an appointment.
type Status string

const (
	StatusAgendado  Status = "Agendado"
	StatusConcluido Status = "Concluído"
	StatusCancelado Status = "Cancelado"
)

// Statuses returns the fixed variant set in display order.
func Statuses() []Status {
	return []Status{StatusAgendado, StatusConcluido, StatusCancelado}
}

// ParseStatus rejects unknown status values at the boundary.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// ValidDate reports whether s is a strict, calendar-valid DD/MM/YYYY date.
// Day and month must be zero-padded; calendar validity (month lengths,
// leap years) comes from the time parser, not explicit range checks.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTime reports whether s is a strict zero-padded 24-hour HH:MM time.
// The length check closes the parser's tolerance for single-digit hours.
func ValidTime(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// deniedText are characters stripped from free text before persistence.
// This hardens against injection; it is not HTML escaping, and callers
// rendering the text in a markup context must still escape it.
const deniedText = `<>"'&;`

// SanitizeText strips denylisted characters, collapses whitespace runs to
// single spaces, trims, and truncates to maxLength characters.
// maxLength <= 0 applies DefaultMaxTextLength.
func SanitizeText(s string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxTextLength
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(deniedText, r) {
			continue
		}
		b.WriteRune(r)
	}

	out := strings.Join(strings.Fields(b.String()), " ")

	runes := []rune(out)
	if len(runes) > maxLength {
		out = strings.TrimSpace(string(runes[:maxLength]))
	}
	return out
}

// NormalizeDate converts known date shapes to the canonical DD/MM/YYYY form.
// Accepted inputs: DD/MM/YYYY, YYYY/MM/DD, YYYY-MM-DD. Anything else passes
// through unchanged; this helper never fails.
func NormalizeDate(s string) string {
	for _, layout := range []string{DateLayout, "2006/01/02", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

// SortKey rearranges a canonical DD/MM/YYYY date into YYYY-MM-DD so that
// lexical comparison matches calendar order. Malformed dates return the
// empty string, which sorts before every valid key; callers listing
// newest-first therefore see malformed dates last.
func SortKey(date string) string {
	if !ValidDate(date) {
		return ""
	}
	return date[6:10] + "-" + date[3:5] + "-" + date[0:2]
}
