package model

// Recipient is the party receiving the NFe (destinatário)
type Recipient struct {
	document DocumentID
	name     string
	uf       string
}

// NewRecipient validates and creates a Recipient.
// Checks run in order: document presence, length-vs-kind, name, UF.
func NewRecipient(kind DocumentKind, document, name, uf string) (Recipient, error) {
	doc, err := NewDocumentID(kind, document)
	if err != nil {
		return Recipient{}, err
	}
	if name == "" {
		return Recipient{}, NewValidationError("dest.xNome", nil, "required", "recipient name is required")
	}
	if err := validateUF("dest.UF", uf); err != nil {
		return Recipient{}, err
	}

	return Recipient{
		document: doc,
		name:     name,
		uf:       uf,
	}, nil
}

// Document returns the recipient document id
func (r Recipient) Document() DocumentID { return r.document }

// DocumentKind returns the document kind tag
func (r Recipient) DocumentKind() DocumentKind { return r.document.Kind() }

// Name returns the recipient name
func (r Recipient) Name() string { return r.name }

// UF returns the federative unit code
func (r Recipient) UF() string { return r.uf }
