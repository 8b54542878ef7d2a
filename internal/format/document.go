package format

import (
	"strings"

	"github.com/rezonia/danfe-zpl/internal/model"
)

// DocumentFormatter applies CPF/CNPJ masks
type DocumentFormatter interface {
	FormatPersonalID(digits string) (string, error)
	FormatRegistryID(digits string) (string, error)
	FormatDocument(digits string) (string, error)
}

// BrazilianDocumentFormatter implements DocumentFormatter
type BrazilianDocumentFormatter struct{}

// NewBrazilianDocumentFormatter creates a new document formatter
func NewBrazilianDocumentFormatter() *BrazilianDocumentFormatter {
	return &BrazilianDocumentFormatter{}
}

// FormatPersonalID renders a CPF as XXX.XXX.XXX-XX
func (f *BrazilianDocumentFormatter) FormatPersonalID(digits string) (string, error) {
	if err := checkDigits(digits, model.PersonalIDLength, "CPF"); err != nil {
		return "", err
	}
	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11], nil
}

// FormatRegistryID renders a CNPJ as XX.XXX.XXX/XXXX-XX
func (f *BrazilianDocumentFormatter) FormatRegistryID(digits string) (string, error) {
	if err := checkDigits(digits, model.RegistryIDLength, "CNPJ"); err != nil {
		return "", err
	}
	return digits[:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:14], nil
}

// FormatDocument picks the mask by length: 11 is CPF, 14 is CNPJ.
// Empty input is returned unchanged.
func (f *BrazilianDocumentFormatter) FormatDocument(digits string) (string, error) {
	switch len(digits) {
	case 0:
		return digits, nil
	case model.PersonalIDLength:
		return f.FormatPersonalID(digits)
	case model.RegistryIDLength:
		return f.FormatRegistryID(digits)
	default:
		return "", model.NewFormatError(digits, "11 (CPF) or 14 (CNPJ) digits", "unrecognized document length", nil)
	}
}

func checkDigits(digits string, length int, kind string) error {
	expected := kind + " with " + strings.Repeat("N", length)
	if len(digits) != length {
		return model.NewFormatError(digits, expected, kind+" has wrong length", nil)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return model.NewFormatError(digits, expected, kind+" must contain only digits", nil)
		}
	}
	return nil
}

var defaultDocumentFormatter = NewBrazilianDocumentFormatter()

// FormatPersonalID masks a CPF with the default formatter
func FormatPersonalID(digits string) (string, error) {
	return defaultDocumentFormatter.FormatPersonalID(digits)
}

// FormatRegistryID masks a CNPJ with the default formatter
func FormatRegistryID(digits string) (string, error) {
	return defaultDocumentFormatter.FormatRegistryID(digits)
}

// FormatDocument masks a CPF or CNPJ with the default formatter
func FormatDocument(digits string) (string, error) {
	return defaultDocumentFormatter.FormatDocument(digits)
}

// FormatAccessKey splits the access key into space-separated groups of four
func FormatAccessKey(key string) string {
	groups := make([]string, 0, (len(key)+3)/4)
	for i := 0; i < len(key); i += 4 {
		end := i + 4
		if end > len(key) {
			end = len(key)
		}
		groups = append(groups, key[i:end])
	}
	return strings.Join(groups, " ")
}
