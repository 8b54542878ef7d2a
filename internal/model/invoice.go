package model

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// AccessKeyLength is the fixed width of the NFe access key (chave de acesso)
const AccessKeyLength = 44

// InvoiceParams carries the raw values used to build an Invoice
type InvoiceParams struct {
	Number        string
	Series        string
	AccessKey     string
	IssuedAt      time.Time
	Issuer        Issuer
	Recipient     Recipient
	Authorization *Authorization
	TotalAmount   decimal.Decimal
}

// Invoice is a validated NFe record. Issuer and recipient are owned by value.
type Invoice struct {
	number        string
	series        string
	accessKey     string
	issuedAt      time.Time
	issuer        Issuer
	recipient     Recipient
	authorization *Authorization
	totalAmount   decimal.Decimal
}

// NewInvoice validates and creates an Invoice.
// Checks run in order: number, series, access key length, issuance
// timestamp, then that the parties and any authorization were built by
// their constructors.
func NewInvoice(p InvoiceParams) (Invoice, error) {
	if p.Number == "" {
		return Invoice{}, NewValidationError("ide.nNF", nil, "required", "invoice number is required")
	}
	if p.Series == "" {
		return Invoice{}, NewValidationError("ide.serie", nil, "required", "invoice series is required")
	}
	if utf8.RuneCountInString(p.AccessKey) != AccessKeyLength {
		return Invoice{}, NewValidationError("infNFe.Id", p.AccessKey, "length",
			fmt.Sprintf("access key must have exactly %d characters", AccessKeyLength))
	}
	if !isASCII(p.AccessKey) {
		return Invoice{}, NewValidationError("infNFe.Id", p.AccessKey, "ascii",
			"access key must contain only ASCII characters")
	}
	if p.IssuedAt.IsZero() {
		return Invoice{}, NewValidationError("ide.dhEmi", nil, "required", "issuance timestamp is required")
	}
	// zero values never come out of NewIssuer / NewRecipient / NewAuthorization
	if p.Issuer.RegistryID() == "" {
		return Invoice{}, NewValidationError("emit", nil, "required", "issuer is required")
	}
	if p.Recipient.DocumentKind() == "" {
		return Invoice{}, NewValidationError("dest", nil, "required", "recipient is required")
	}
	if p.Authorization != nil && p.Authorization.Protocol() == "" {
		return Invoice{}, NewValidationError("protNFe", nil, "required", "authorization must be built with NewAuthorization")
	}

	inv := Invoice{
		number:      p.Number,
		series:      p.Series,
		accessKey:   p.AccessKey,
		issuedAt:    p.IssuedAt,
		issuer:      p.Issuer,
		recipient:   p.Recipient,
		totalAmount: p.TotalAmount,
	}
	if p.Authorization != nil {
		auth := *p.Authorization
		inv.authorization = &auth
	}
	return inv, nil
}

// Number returns the invoice number (nNF)
func (i Invoice) Number() string { return i.number }

// Series returns the invoice series
func (i Invoice) Series() string { return i.series }

// AccessKey returns the 44-character access key
func (i Invoice) AccessKey() string { return i.accessKey }

// IssuedAt returns the issuance timestamp
func (i Invoice) IssuedAt() time.Time { return i.issuedAt }

// Issuer returns the issuer
func (i Invoice) Issuer() Issuer { return i.issuer }

// Recipient returns the recipient
func (i Invoice) Recipient() Recipient { return i.recipient }

// Authorization returns the authorization protocol and whether one exists
func (i Invoice) Authorization() (Authorization, bool) {
	if i.authorization == nil {
		return Authorization{}, false
	}
	return *i.authorization, true
}

// TotalAmount returns the invoice total (vNF), zero when the source omits it
func (i Invoice) TotalAmount() decimal.Decimal { return i.totalAmount }

// Summary returns a one-line description of the invoice
func (i Invoice) Summary() string {
	return fmt.Sprintf("NFe %s/%s - Emitente: %s - Destinatário: %s",
		i.number, i.series, i.issuer.Name(), i.recipient.Name())
}
