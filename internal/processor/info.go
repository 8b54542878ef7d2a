package processor

import (
	"github.com/rezonia/danfe-zpl/internal/decimal"
	"github.com/rezonia/danfe-zpl/internal/format"
	"github.com/rezonia/danfe-zpl/internal/model"
)

// Info is the display view of an invoice used by the info command and the
// API. Documents are always shown in full.
type Info struct {
	Number             string     `json:"number"`
	Series             string     `json:"series"`
	IssuedAt           string     `json:"issued_at"`
	AccessKey          string     `json:"access_key"`
	AccessKeyFormatted string     `json:"access_key_formatted"`
	Protocol           string     `json:"protocol,omitempty"`
	AuthorizedAt       string     `json:"authorized_at,omitempty"`
	Issuer             IssuerInfo `json:"issuer"`
	Recipient          PartyInfo  `json:"recipient"`
	Total              string     `json:"total"`
	TotalFormatted     string     `json:"total_formatted"`
	Summary            string     `json:"summary"`
}

// IssuerInfo describes the emitente
type IssuerInfo struct {
	Name              string `json:"name"`
	TradeName         string `json:"trade_name,omitempty"`
	CNPJ              string `json:"cnpj"`
	StateRegistration string `json:"state_registration"`
	UF                string `json:"uf"`
}

// PartyInfo describes the destinatário
type PartyInfo struct {
	Name         string `json:"name"`
	DocumentType string `json:"document_type"`
	Document     string `json:"document"`
	UF           string `json:"uf"`
}

// Describe builds the display view of inv
func Describe(inv model.Invoice) (*Info, error) {
	issuer := inv.Issuer()
	recipient := inv.Recipient()

	cnpj, err := format.FormatRegistryID(issuer.RegistryID())
	if err != nil {
		return nil, err
	}
	doc, err := format.FormatDocument(recipient.Document().Digits())
	if err != nil {
		return nil, err
	}

	info := &Info{
		Number:             inv.Number(),
		Series:             inv.Series(),
		IssuedAt:           format.FormatDate(inv.IssuedAt()),
		AccessKey:          inv.AccessKey(),
		AccessKeyFormatted: format.FormatAccessKey(inv.AccessKey()),
		Issuer: IssuerInfo{
			Name:              issuer.Name(),
			TradeName:         issuer.TradeName(),
			CNPJ:              cnpj,
			StateRegistration: issuer.StateRegistration(),
			UF:                issuer.UF(),
		},
		Recipient: PartyInfo{
			Name:         recipient.Name(),
			DocumentType: recipient.DocumentKind().String(),
			Document:     doc,
			UF:           recipient.UF(),
		},
		Total:          decimal.RoundBRL(inv.TotalAmount()).StringFixed(2),
		TotalFormatted: decimal.FormatBRL(inv.TotalAmount()),
		Summary:        inv.Summary(),
	}

	if auth, ok := inv.Authorization(); ok {
		info.Protocol = auth.Protocol()
		info.AuthorizedAt = format.FormatDateTime(auth.AuthorizedAt())
	}

	return info, nil
}
