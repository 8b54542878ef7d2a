package xml

import "github.com/rezonia/danfe-zpl/internal/model"

// RawFields holds the primitive values extracted from an NFe document.
// Missing optional leaves are empty strings.
type RawFields struct {
	Number      string
	Series      string
	IssuedAt    string
	AccessKey   string
	TotalAmount string

	Issuer    RawIssuer
	Recipient RawRecipient

	// Protocol is nil when the document carries no authorization
	Protocol *RawProtocol
}

// RawIssuer holds the emit block values
type RawIssuer struct {
	RegistryID        string
	Name              string
	TradeName         string
	StateRegistration string
	UF                string
}

// RawRecipient holds the dest block values
type RawRecipient struct {
	Kind     model.DocumentKind
	Document string
	Name     string
	UF       string
}

// RawProtocol holds the protNFe/infProt values
type RawProtocol struct {
	Number     string
	ReceivedAt string
}
