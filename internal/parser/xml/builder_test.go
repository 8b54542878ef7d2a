package xml_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/danfe-zpl/internal/model"
	xmlparser "github.com/rezonia/danfe-zpl/internal/parser/xml"
)

func sampleFields() *xmlparser.RawFields {
	return &xmlparser.RawFields{
		Number:      "123",
		Series:      "1",
		IssuedAt:    "2025-09-01T08:55:05-03:00",
		AccessKey:   testKey,
		TotalAmount: "1500.00",
		Issuer: xmlparser.RawIssuer{
			RegistryID:        "12345678000195",
			Name:              "Empresa LTDA",
			StateRegistration: "123456789",
			UF:                "SP",
		},
		Recipient: xmlparser.RawRecipient{
			Kind:     model.DocumentCPF,
			Document: "12345678901",
			Name:     "João Silva",
			UF:       "RJ",
		},
		Protocol: &xmlparser.RawProtocol{
			Number:     "135250000000000",
			ReceivedAt: "2025-09-01T08:55:07-03:00",
		},
	}
}

func TestBuild(t *testing.T) {
	inv, err := xmlparser.Build(sampleFields())
	require.NoError(t, err)

	assert.Equal(t, "123", inv.Number())
	assert.Equal(t, "1", inv.Series())
	assert.Equal(t, testKey, inv.AccessKey())
	assert.Equal(t, time.Date(2025, 9, 1, 8, 55, 5, 0, time.UTC), inv.IssuedAt())
	assert.Equal(t, "Empresa LTDA", inv.Issuer().Name())
	assert.Equal(t, model.DocumentCPF, inv.Recipient().DocumentKind())
	assert.True(t, decimal.NewFromInt(1500).Equal(inv.TotalAmount()))

	auth, ok := inv.Authorization()
	require.True(t, ok)
	assert.Equal(t, "135250000000000", auth.Protocol())
	assert.Equal(t, time.Date(2025, 9, 1, 8, 55, 7, 0, time.UTC), auth.AuthorizedAt())
}

func TestBuild_FromFile(t *testing.T) {
	raw, err := xmlparser.NewNFeReader().ReadFile(context.Background(), filepath.Join("testdata", "nfe_unsigned.xml"))
	require.NoError(t, err)

	inv, err := xmlparser.Build(raw)
	require.NoError(t, err)

	assert.Equal(t, "456", inv.Number())
	assert.Equal(t, time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), inv.IssuedAt())
	assert.Equal(t, model.DocumentCNPJ, inv.Recipient().DocumentKind())
	assert.True(t, inv.TotalAmount().IsZero())

	_, ok := inv.Authorization()
	assert.False(t, ok)
}

func TestBuild_StrictTimestamp(t *testing.T) {
	raw := sampleFields()
	raw.IssuedAt = "not-a-date"

	_, err := xmlparser.Build(raw)
	require.Error(t, err)

	var fe *model.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "not-a-date", fe.Input)
}

func TestBuild_TimestampFallback(t *testing.T) {
	fixed := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	now := func() time.Time { return fixed }

	raw := sampleFields()
	raw.IssuedAt = "not-a-date"
	raw.Protocol.ReceivedAt = "garbage"

	inv, err := xmlparser.Build(raw, xmlparser.WithTimestampFallback(now))
	require.NoError(t, err)

	assert.Equal(t, fixed, inv.IssuedAt())
	auth, ok := inv.Authorization()
	require.True(t, ok)
	assert.Equal(t, fixed, auth.AuthorizedAt())
}

func TestBuild_ErrorOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*xmlparser.RawFields)
		field  string
	}{
		{
			name: "issuer before recipient",
			mutate: func(r *xmlparser.RawFields) {
				r.Issuer.RegistryID = "123"
				r.Recipient.Name = ""
			},
			field: "emit.CNPJ",
		},
		{
			name: "recipient before protocol",
			mutate: func(r *xmlparser.RawFields) {
				r.Recipient.Document = "123"
				r.Protocol.Number = ""
			},
			field: "documento",
		},
		{
			name: "protocol before invoice",
			mutate: func(r *xmlparser.RawFields) {
				r.Protocol.Number = ""
				r.Number = ""
			},
			field: "protNFe.nProt",
		},
		{
			name: "short access key",
			mutate: func(r *xmlparser.RawFields) {
				r.AccessKey = "1234"
			},
			field: "infNFe.Id",
		},
		{
			name: "CPF tagged document with CNPJ length",
			mutate: func(r *xmlparser.RawFields) {
				r.Recipient.Document = "98765432000110"
			},
			field: "documento",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := sampleFields()
			tt.mutate(raw)

			_, err := xmlparser.Build(raw)
			require.Error(t, err)

			var ve *model.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestBuild_BadTotalIgnored(t *testing.T) {
	raw := sampleFields()
	raw.TotalAmount = "abc"

	inv, err := xmlparser.Build(raw)
	require.NoError(t, err)
	assert.True(t, inv.TotalAmount().IsZero())
}

func TestBuild_Nil(t *testing.T) {
	_, err := xmlparser.Build(nil)

	var re *model.ReaderError
	assert.True(t, errors.As(err, &re))
}

func TestBuild_StrictOverridesFallback(t *testing.T) {
	raw := sampleFields()
	raw.Protocol.ReceivedAt = "2025-13-45"

	_, err := xmlparser.Build(raw,
		xmlparser.WithTimestampFallback(time.Now),
		xmlparser.StrictTimestamps(),
	)

	var fe *model.FormatError
	assert.True(t, errors.As(err, &fe))
}
