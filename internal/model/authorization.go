package model

import "time"

// Authorization holds the SEFAZ authorization protocol (protNFe)
type Authorization struct {
	protocol     string
	authorizedAt time.Time
}

// NewAuthorization validates and creates an Authorization.
// Checks run in order: protocol number, timestamp.
func NewAuthorization(protocol string, authorizedAt time.Time) (Authorization, error) {
	if protocol == "" {
		return Authorization{}, NewValidationError("protNFe.nProt", nil, "required", "protocol number is required")
	}
	if authorizedAt.IsZero() {
		return Authorization{}, NewValidationError("protNFe.dhRecbto", nil, "required", "authorization timestamp is required")
	}

	return Authorization{
		protocol:     protocol,
		authorizedAt: authorizedAt,
	}, nil
}

// Protocol returns the protocol number
func (a Authorization) Protocol() string { return a.protocol }

// AuthorizedAt returns the authorization timestamp
func (a Authorization) AuthorizedAt() time.Time { return a.authorizedAt }
