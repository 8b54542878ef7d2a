package xml

import (
	"time"

	"github.com/rezonia/danfe-zpl/internal/decimal"
	"github.com/rezonia/danfe-zpl/internal/format"
	"github.com/rezonia/danfe-zpl/internal/model"
)

// BuildOption configures Build
type BuildOption func(*buildOptions)

type buildOptions struct {
	fallback func() time.Time
}

// StrictTimestamps propagates FormatError for unparseable timestamps.
// This is the default.
func StrictTimestamps() BuildOption {
	return func(o *buildOptions) {
		o.fallback = nil
	}
}

// WithTimestampFallback substitutes now() for unparseable issuance or
// authorization timestamps instead of failing
func WithTimestampFallback(now func() time.Time) BuildOption {
	return func(o *buildOptions) {
		o.fallback = now
	}
}

// Build converts raw fields into a validated Invoice.
// Order: timestamps, issuer, recipient, protocol, invoice. The first
// failure wins.
func Build(raw *RawFields, opts ...BuildOption) (model.Invoice, error) {
	if raw == nil {
		return model.Invoice{}, model.NewReaderError("xml", "no fields to build from", nil)
	}

	o := &buildOptions{}
	for _, opt := range opts {
		opt(o)
	}

	issuedAt, err := o.parseTimestamp(raw.IssuedAt)
	if err != nil {
		return model.Invoice{}, err
	}

	var receivedAt time.Time
	if raw.Protocol != nil {
		receivedAt, err = o.parseTimestamp(raw.Protocol.ReceivedAt)
		if err != nil {
			return model.Invoice{}, err
		}
	}

	issuer, err := model.NewIssuer(
		raw.Issuer.RegistryID,
		raw.Issuer.Name,
		raw.Issuer.TradeName,
		raw.Issuer.StateRegistration,
		raw.Issuer.UF,
	)
	if err != nil {
		return model.Invoice{}, err
	}

	recipient, err := model.NewRecipient(
		raw.Recipient.Kind,
		raw.Recipient.Document,
		raw.Recipient.Name,
		raw.Recipient.UF,
	)
	if err != nil {
		return model.Invoice{}, err
	}

	var auth *model.Authorization
	if raw.Protocol != nil {
		a, err := model.NewAuthorization(raw.Protocol.Number, receivedAt)
		if err != nil {
			return model.Invoice{}, err
		}
		auth = &a
	}

	// vNF is informational only; a bad amount is not fatal
	total, _ := decimal.ParseAmount(raw.TotalAmount)

	return model.NewInvoice(model.InvoiceParams{
		Number:        raw.Number,
		Series:        raw.Series,
		AccessKey:     raw.AccessKey,
		IssuedAt:      issuedAt,
		Issuer:        issuer,
		Recipient:     recipient,
		Authorization: auth,
		TotalAmount:   total,
	})
}

func (o *buildOptions) parseTimestamp(raw string) (time.Time, error) {
	t, err := format.ParseTimestamp(raw)
	if err != nil {
		if o.fallback != nil {
			return o.fallback(), nil
		}
		return time.Time{}, err
	}
	return t, nil
}
