package xml

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/beevik/etree"
	"github.com/spf13/afero"

	"github.com/rezonia/danfe-zpl/internal/model"
)

// NFeNamespace is the SEFAZ portal namespace of NFe documents
const NFeNamespace = "http://www.portalfiscal.inf.br/nfe"

// AccessKeyPrefix is the literal prefix of the infNFe Id attribute
const AccessKeyPrefix = "NFe"

// Reader extracts raw NFe fields from a source document
type Reader interface {
	// Read parses XML content into raw fields
	Read(ctx context.Context, r io.Reader) (*RawFields, error)

	// ReadFile parses the XML file at path
	ReadFile(ctx context.Context, path string) (*RawFields, error)
}

// NFeReader reads NFe / nfeProc XML documents
type NFeReader struct {
	fs afero.Fs
}

// ReaderOption configures an NFeReader
type ReaderOption func(*NFeReader)

// WithFs sets the filesystem used by ReadFile (default: OS filesystem)
func WithFs(fsys afero.Fs) ReaderOption {
	return func(rd *NFeReader) {
		rd.fs = fsys
	}
}

// NewNFeReader creates a new NFe reader
func NewNFeReader(opts ...ReaderOption) *NFeReader {
	rd := &NFeReader{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// ReadFile parses the XML file at path
func (rd *NFeReader) ReadFile(ctx context.Context, path string) (*RawFields, error) {
	f, err := rd.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.NewNotFoundError(path, err)
		}
		return nil, model.NewReaderError("file", "failed to open "+path, err)
	}
	defer f.Close()

	return rd.Read(ctx, f)
}

// Read parses XML content into raw fields
func (rd *NFeReader) Read(ctx context.Context, r io.Reader) (*RawFields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, model.NewReaderError("xml", "malformed XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewReaderError("xml", "document has no root element", nil)
	}

	fields := &RawFields{}

	if err := readIdentification(root, fields); err != nil {
		return nil, err
	}
	if err := readIssuer(root, fields); err != nil {
		return nil, err
	}
	if err := readRecipient(root, fields); err != nil {
		return nil, err
	}
	fields.Protocol = readProtocol(root)
	fields.TotalAmount = childText(root, ".//total/ICMSTot/vNF")

	return fields, nil
}

func readIdentification(root *etree.Element, fields *RawFields) error {
	ide, err := requireNode(root, "ide")
	if err != nil {
		return err
	}

	fields.Number = childText(ide, "nNF")
	fields.Series = childText(ide, "serie")
	fields.IssuedAt = childText(ide, "dhEmi")

	infNFe, err := requireNode(root, "infNFe")
	if err != nil {
		return err
	}
	fields.AccessKey = strings.TrimPrefix(infNFe.SelectAttrValue("Id", ""), AccessKeyPrefix)

	return nil
}

func readIssuer(root *etree.Element, fields *RawFields) error {
	emit, err := requireNode(root, "emit")
	if err != nil {
		return err
	}

	fields.Issuer = RawIssuer{
		RegistryID:        childText(emit, "CNPJ"),
		Name:              childText(emit, "xNome"),
		TradeName:         childText(emit, "xFant"),
		StateRegistration: childText(emit, "IE"),
		UF:                childText(emit, ".//UF"),
	}
	return nil
}

func readRecipient(root *etree.Element, fields *RawFields) error {
	dest, err := requireNode(root, "dest")
	if err != nil {
		return err
	}

	rec := RawRecipient{
		Kind: model.DocumentCPF,
		Name: childText(dest, "xNome"),
		UF:   childText(dest, ".//UF"),
	}
	if cpf := dest.FindElement("CPF"); cpf != nil {
		rec.Document = strings.TrimSpace(cpf.Text())
	} else if cnpj := dest.FindElement("CNPJ"); cnpj != nil {
		rec.Kind = model.DocumentCNPJ
		rec.Document = strings.TrimSpace(cnpj.Text())
	}

	fields.Recipient = rec
	return nil
}

// readProtocol returns nil unless both nProt and dhRecbto are present
func readProtocol(root *etree.Element) *RawProtocol {
	prot := root.FindElement(".//protNFe/infProt")
	if prot == nil {
		return nil
	}

	number := prot.FindElement("nProt")
	received := prot.FindElement("dhRecbto")
	if number == nil || received == nil {
		return nil
	}

	return &RawProtocol{
		Number:     strings.TrimSpace(number.Text()),
		ReceivedAt: strings.TrimSpace(received.Text()),
	}
}

func requireNode(root *etree.Element, tag string) (*etree.Element, error) {
	if root.Tag == tag {
		return root, nil
	}
	el := root.FindElement(".//" + tag)
	if el == nil {
		return nil, model.NewReaderError(tag, "element '"+tag+"' not found", nil)
	}
	return el, nil
}

func childText(el *etree.Element, path string) string {
	child := el.FindElement(path)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
