package model

import (
	"fmt"
	"unicode/utf8"
)

// DocumentKind tags a Brazilian taxpayer document number
type DocumentKind string

const (
	// DocumentCPF is the 11-digit individual taxpayer id
	DocumentCPF DocumentKind = "CPF"
	// DocumentCNPJ is the 14-digit company registry id
	DocumentCNPJ DocumentKind = "CNPJ"
)

// Document lengths per kind
const (
	PersonalIDLength = 11
	RegistryIDLength = 14
)

func (k DocumentKind) String() string {
	return string(k)
}

// Length returns the digit count required by the kind, or 0 if unknown
func (k DocumentKind) Length() int {
	switch k {
	case DocumentCPF:
		return PersonalIDLength
	case DocumentCNPJ:
		return RegistryIDLength
	default:
		return 0
	}
}

// DocumentID is a digit-only document number whose length always matches
// its kind. The zero value is not valid; use the constructors.
type DocumentID struct {
	kind   DocumentKind
	digits string
}

// NewPersonalID creates a CPF document id
func NewPersonalID(digits string) (DocumentID, error) {
	return NewDocumentID(DocumentCPF, digits)
}

// NewRegistryID creates a CNPJ document id
func NewRegistryID(digits string) (DocumentID, error) {
	return NewDocumentID(DocumentCNPJ, digits)
}

// NewDocumentID creates a document id of the given kind.
// Checks: presence, known kind, length-vs-kind, digits only.
func NewDocumentID(kind DocumentKind, digits string) (DocumentID, error) {
	if digits == "" {
		return DocumentID{}, NewValidationError("documento", nil, "required", "document number is required")
	}

	want := kind.Length()
	if want == 0 {
		return DocumentID{}, NewValidationError("tipo_documento", string(kind), "enum", "document kind must be CPF or CNPJ")
	}
	if len(digits) != want {
		return DocumentID{}, NewValidationError("documento", digits, "length",
			fmt.Sprintf("%s must have exactly %d digits", kind, want))
	}
	if !isDigits(digits) {
		return DocumentID{}, NewValidationError("documento", digits, "digits", kind.String()+" must contain only digits")
	}

	return DocumentID{kind: kind, digits: digits}, nil
}

// Kind returns the document kind
func (d DocumentID) Kind() DocumentKind {
	return d.kind
}

// Digits returns the raw digit string
func (d DocumentID) Digits() string {
	return d.digits
}

// IsPersonal reports whether the document is a CPF
func (d DocumentID) IsPersonal() bool {
	return d.kind == DocumentCPF
}

func (d DocumentID) String() string {
	return d.digits
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
