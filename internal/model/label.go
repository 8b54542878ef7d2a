package model

import "strings"

// ZPL label sentinels
const (
	LabelStart = "^XA"
	LabelEnd   = "^XZ"
)

// Label pairs an invoice with its rendered ZPL command string (DANFE
// Simplificado)
type Label struct {
	invoice Invoice
	code    string
}

// NewLabel creates a Label after checking the code is framed by the
// ZPL start and end sentinels
func NewLabel(invoice Invoice, code string) (Label, error) {
	if code == "" {
		return Label{}, NewValidationError("codigo_zpl", nil, "required", "ZPL code is required")
	}
	if !strings.HasPrefix(code, LabelStart) {
		return Label{}, NewValidationError("codigo_zpl", nil, "prefix", "ZPL code must start with "+LabelStart)
	}
	if !strings.HasSuffix(code, LabelEnd) {
		return Label{}, NewValidationError("codigo_zpl", nil, "suffix", "ZPL code must end with "+LabelEnd)
	}

	return Label{invoice: invoice, code: code}, nil
}

// Invoice returns the source invoice
func (l Label) Invoice() Invoice { return l.invoice }

// Code returns the ZPL command string
func (l Label) Code() string { return l.code }

// Summary returns a one-line description of the labelled invoice
func (l Label) Summary() string { return l.invoice.Summary() }
