// Package zpl renders validated invoices into the DANFE Simplificado
// thermal label (ZPL II).
package zpl

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/rezonia/danfe-zpl/internal/format"
	"github.com/rezonia/danfe-zpl/internal/model"
)

//go:embed templates/danfe_simplificado.zpl
var templateFS embed.FS

// TemplatePath is the location of the label template within the embedded FS
const TemplatePath = "templates/danfe_simplificado.zpl"

// DocumentPlaceholder replaces the recipient document when masking is on
const DocumentPlaceholder = "-"

var labelTemplate = template.Must(template.ParseFS(templateFS, TemplatePath))

// Renderer turns an invoice into a label
type Renderer interface {
	Render(invoice model.Invoice) (model.Label, error)
}

// Options configures the standard renderer
type Options struct {
	// IncludeRecipientDocument prints the formatted CPF/CNPJ of the
	// recipient instead of the placeholder
	IncludeRecipientDocument bool

	// DateFormatter and DocumentFormatter default to the Brazilian ones
	DateFormatter     format.DateFormatter
	DocumentFormatter format.DocumentFormatter
}

// StandardRenderer fills the fixed DANFE Simplificado template.
// It holds no mutable state and is safe for concurrent use.
type StandardRenderer struct {
	opts Options
}

// NewStandardRenderer creates a renderer
func NewStandardRenderer(opts Options) *StandardRenderer {
	if opts.DateFormatter == nil {
		opts.DateFormatter = format.NewBrazilianDateFormatter()
	}
	if opts.DocumentFormatter == nil {
		opts.DocumentFormatter = format.NewBrazilianDocumentFormatter()
	}
	return &StandardRenderer{opts: opts}
}

// labelFields are the template substitution points
type labelFields struct {
	Number                  string
	Series                  string
	IssuedOn                string
	AccessKey               string
	ProtocolInfo            string
	IssuerName              string
	IssuerRegistryID        string
	IssuerStateRegistration string
	IssuerUF                string
	RecipientName           string
	RecipientKind           string
	RecipientDocument       string
	RecipientUF             string
}

// Render produces the label for invoice
func (r *StandardRenderer) Render(invoice model.Invoice) (model.Label, error) {
	fields, err := r.fields(invoice)
	if err != nil {
		return model.Label{}, err
	}

	var buf bytes.Buffer
	if err := labelTemplate.Execute(&buf, fields); err != nil {
		return model.Label{}, fmt.Errorf("failed to execute label template: %w", err)
	}

	return model.NewLabel(invoice, buf.String())
}

func (r *StandardRenderer) fields(invoice model.Invoice) (labelFields, error) {
	issuer := invoice.Issuer()
	recipient := invoice.Recipient()

	registryID, err := r.opts.DocumentFormatter.FormatRegistryID(issuer.RegistryID())
	if err != nil {
		return labelFields{}, err
	}

	recipientDoc := DocumentPlaceholder
	if r.opts.IncludeRecipientDocument {
		recipientDoc, err = r.opts.DocumentFormatter.FormatDocument(recipient.Document().Digits())
		if err != nil {
			return labelFields{}, err
		}
	}

	return labelFields{
		Number:                  invoice.Number(),
		Series:                  invoice.Series(),
		IssuedOn:                r.opts.DateFormatter.FormatDate(invoice.IssuedAt()),
		AccessKey:               invoice.AccessKey(),
		ProtocolInfo:            r.protocolInfo(invoice),
		IssuerName:              issuer.Name(),
		IssuerRegistryID:        registryID,
		IssuerStateRegistration: issuer.StateRegistration(),
		IssuerUF:                issuer.UF(),
		RecipientName:           recipient.Name(),
		RecipientKind:           recipient.DocumentKind().String(),
		RecipientDocument:       recipientDoc,
		RecipientUF:             recipient.UF(),
	}, nil
}

// protocolInfo is "{protocol} {dd/mm/yyyy hh:mm:ss}", or empty when the
// invoice was never authorized
func (r *StandardRenderer) protocolInfo(invoice model.Invoice) string {
	auth, ok := invoice.Authorization()
	if !ok {
		return ""
	}
	return auth.Protocol() + " " + r.opts.DateFormatter.FormatDateTime(auth.AuthorizedAt())
}
