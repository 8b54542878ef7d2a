// Package format converts raw NFe field values into Brazilian display
// strings: dates, CPF/CNPJ masks and access-key grouping.
package format

import (
	"strings"
	"time"

	"github.com/rezonia/danfe-zpl/internal/model"
)

// Layouts used by NFe timestamps and Brazilian display
const (
	LayoutISODate     = "2006-01-02"
	LayoutISODateTime = "2006-01-02T15:04:05"
	LayoutDate        = "02/01/2006"
	LayoutDateTime    = "02/01/2006 15:04:05"

	// BrasiliaOffset is the only offset suffix stripped from NFe timestamps
	BrasiliaOffset = "-03:00"
)

// DateFormatter parses NFe timestamps and renders Brazilian dates
type DateFormatter interface {
	ParseTimestamp(raw string) (time.Time, error)
	FormatDate(t time.Time) string
	FormatDateTime(t time.Time) string
}

// BrazilianDateFormatter implements DateFormatter (dd/mm/aaaa)
type BrazilianDateFormatter struct{}

// NewBrazilianDateFormatter creates a new date formatter
func NewBrazilianDateFormatter() *BrazilianDateFormatter {
	return &BrazilianDateFormatter{}
}

// ParseTimestamp parses "YYYY-MM-DD" or "YYYY-MM-DDTHH:MM:SS", with an
// optional -03:00 suffix that is dropped. The result carries the wall-clock
// fields only; no offset is applied.
func (f *BrazilianDateFormatter) ParseTimestamp(raw string) (time.Time, error) {
	value := raw
	if idx := strings.Index(value, BrasiliaOffset); idx >= 0 {
		value = value[:idx]
	}

	layout := LayoutISODate
	if strings.Contains(value, "T") {
		layout = LayoutISODateTime
	}

	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, model.NewFormatError(raw, "YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS", "cannot parse timestamp", err)
	}
	return t, nil
}

// FormatDate renders dd/mm/aaaa
func (f *BrazilianDateFormatter) FormatDate(t time.Time) string {
	return t.Format(LayoutDate)
}

// FormatDateTime renders dd/mm/aaaa hh:mm:ss
func (f *BrazilianDateFormatter) FormatDateTime(t time.Time) string {
	return t.Format(LayoutDateTime)
}

var defaultDateFormatter = NewBrazilianDateFormatter()

// ParseTimestamp parses an NFe timestamp with the default formatter
func ParseTimestamp(raw string) (time.Time, error) {
	return defaultDateFormatter.ParseTimestamp(raw)
}

// FormatDate renders dd/mm/aaaa with the default formatter
func FormatDate(t time.Time) string {
	return defaultDateFormatter.FormatDate(t)
}

// FormatDateTime renders dd/mm/aaaa hh:mm:ss with the default formatter
func FormatDateTime(t time.Time) string {
	return defaultDateFormatter.FormatDateTime(t)
}
