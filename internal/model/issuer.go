package model

// Issuer is the company that issued the NFe (emitente)
type Issuer struct {
	registryID        DocumentID
	name              string
	tradeName         string
	stateRegistration string
	uf                string
}

// NewIssuer validates and creates an Issuer.
// Checks run in order: registry id, name, state registration, UF.
func NewIssuer(registryID, name, tradeName, stateRegistration, uf string) (Issuer, error) {
	if len(registryID) != RegistryIDLength {
		return Issuer{}, NewValidationError("emit.CNPJ", registryID, "length",
			"issuer CNPJ must have exactly 14 digits")
	}
	doc, err := NewRegistryID(registryID)
	if err != nil {
		return Issuer{}, NewValidationError("emit.CNPJ", registryID, "digits",
			"issuer CNPJ must contain only digits")
	}
	if name == "" {
		return Issuer{}, NewValidationError("emit.xNome", nil, "required", "issuer name is required")
	}
	if stateRegistration == "" {
		return Issuer{}, NewValidationError("emit.IE", nil, "required", "issuer state registration is required")
	}
	if err := validateUF("emit.UF", uf); err != nil {
		return Issuer{}, err
	}

	return Issuer{
		registryID:        doc,
		name:              name,
		tradeName:         tradeName,
		stateRegistration: stateRegistration,
		uf:                uf,
	}, nil
}

// RegistryID returns the 14-digit CNPJ
func (i Issuer) RegistryID() string { return i.registryID.Digits() }

// Name returns the legal name (razão social)
func (i Issuer) Name() string { return i.name }

// TradeName returns the trade name, possibly empty
func (i Issuer) TradeName() string { return i.tradeName }

// StateRegistration returns the state registration id (IE)
func (i Issuer) StateRegistration() string { return i.stateRegistration }

// UF returns the federative unit code
func (i Issuer) UF() string { return i.uf }

func validateUF(field, uf string) error {
	if len(uf) != 2 || !isLetters(uf) {
		return NewValidationError(field, uf, "length", "UF must have exactly 2 letters")
	}
	return nil
}
