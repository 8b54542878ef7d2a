package processor_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/danfe-zpl/internal/processor"
)

func TestDescribe(t *testing.T) {
	inv, err := processor.NewPipeline().Extract(context.Background(), fixture)
	require.NoError(t, err)

	info, err := processor.Describe(inv)
	require.NoError(t, err)

	assert.Equal(t, "123", info.Number)
	assert.Equal(t, "1", info.Series)
	assert.Equal(t, "01/09/2025", info.IssuedAt)
	assert.Equal(t, "1111 1111 1111 1111 1111 1111 1111 1111 1111 1111 1111", info.AccessKeyFormatted)
	assert.Equal(t, "135250000000000", info.Protocol)
	assert.Equal(t, "01/09/2025 08:55:07", info.AuthorizedAt)
	assert.Equal(t, "12.345.678/0001-95", info.Issuer.CNPJ)
	assert.Equal(t, "Empresa", info.Issuer.TradeName)
	assert.Equal(t, "CPF", info.Recipient.DocumentType)
	assert.Equal(t, "123.456.789-01", info.Recipient.Document)
	assert.Equal(t, "1500.00", info.Total)
	assert.Equal(t, "R$ 1.500,00", info.TotalFormatted)
}

func TestDescribe_JSON(t *testing.T) {
	inv, err := processor.NewPipeline().Extract(context.Background(), fixture)
	require.NoError(t, err)
	info, err := processor.Describe(inv)
	require.NoError(t, err)

	data, err := json.Marshal(info)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "123", decoded["number"])
	assert.Contains(t, decoded, "issuer")
	assert.Contains(t, decoded, "recipient")
}
