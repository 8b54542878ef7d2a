// Package danfelib provides a public API for rendering DANFE Simplificado
// thermal labels from Brazilian NFe XML documents.
//
// Example usage:
//
//	gen := danfelib.NewGenerator(danfelib.DefaultOptions())
//	label, err := gen.GenerateFile(ctx, "nfe.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(label.Code())
package danfelib

import (
	"github.com/rezonia/danfe-zpl/internal/model"
	"github.com/rezonia/danfe-zpl/internal/processor"
	"github.com/rezonia/danfe-zpl/internal/storage"
)

// Re-export core types for public API
type (
	Invoice       = model.Invoice
	Issuer        = model.Issuer
	Recipient     = model.Recipient
	Authorization = model.Authorization
	DocumentKind  = model.DocumentKind
	Label         = model.Label
	Info          = processor.Info
)

// Re-export document kinds
const (
	DocumentCPF  = model.DocumentCPF
	DocumentCNPJ = model.DocumentCNPJ
)

// Re-export error types
type (
	ReaderError     = model.ReaderError
	NotFoundError   = model.NotFoundError
	ValidationError = model.ValidationError
	FormatError     = model.FormatError
	IOError         = storage.IOError
)

// ErrDirNotConfigured is returned by code lookups when no XML directory is set
var ErrDirNotConfigured = storage.ErrDirNotConfigured
