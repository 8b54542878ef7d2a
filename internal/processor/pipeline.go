// Package processor sequences the DANFE flow: locate the XML, read it,
// build the invoice, render the label and hand it to the sink.
package processor

import (
	"bytes"
	"context"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rezonia/danfe-zpl/internal/model"
	xmlparser "github.com/rezonia/danfe-zpl/internal/parser/xml"
	"github.com/rezonia/danfe-zpl/internal/render/zpl"
	"github.com/rezonia/danfe-zpl/internal/storage"
)

// DefaultBatchWorkers bounds ProcessBatch concurrency
const DefaultBatchWorkers = 4

// Finder locates XML files by invoice code
type Finder interface {
	Find(ctx context.Context, code string) (string, bool, error)
	List(ctx context.Context) ([]string, error)
}

// Result represents the outcome of processing one source
type Result struct {
	Source  string
	Invoice model.Invoice
	Label   model.Label
	Error   error
}

// OK reports whether the label was produced
func (r *Result) OK() bool {
	return r.Error == nil
}

// Pipeline orchestrates the DANFE flow
type Pipeline struct {
	reader       xmlparser.Reader
	renderer     zpl.Renderer
	writer       storage.Writer
	finder       Finder
	buildOpts    []xmlparser.BuildOption
	batchWorkers int
	logger       *zap.Logger
}

// PipelineOption configures the pipeline
type PipelineOption func(*Pipeline)

// WithReader sets the document reader
func WithReader(r xmlparser.Reader) PipelineOption {
	return func(p *Pipeline) {
		p.reader = r
	}
}

// WithRenderer sets the label renderer
func WithRenderer(r zpl.Renderer) PipelineOption {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// WithWriter sets the output sink
func WithWriter(w storage.Writer) PipelineOption {
	return func(p *Pipeline) {
		p.writer = w
	}
}

// WithFinder enables lookup by invoice code
func WithFinder(f Finder) PipelineOption {
	return func(p *Pipeline) {
		p.finder = f
	}
}

// WithTimestampFallback substitutes now() for unparseable timestamps
func WithTimestampFallback(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.buildOpts = append(p.buildOpts, xmlparser.WithTimestampFallback(now))
	}
}

// WithBatchWorkers sets ProcessBatch concurrency
func WithBatchWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchWorkers = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a pipeline with the NFe reader, the standard
// renderer (recipient document masked) and a filesystem writer
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		reader:       xmlparser.NewNFeReader(),
		renderer:     zpl.NewStandardRenderer(zpl.Options{}),
		writer:       storage.NewFileSystemWriter(),
		batchWorkers: DefaultBatchWorkers,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessFile renders the label for the XML file at path
func (p *Pipeline) ProcessFile(ctx context.Context, path string) *Result {
	result := &Result{Source: path}

	raw, err := p.reader.ReadFile(ctx, path)
	if err != nil {
		result.Error = err
		return p.done(result)
	}
	return p.done(p.render(raw, result))
}

// ProcessXML renders the label for XML read from r
func (p *Pipeline) ProcessXML(ctx context.Context, r io.Reader) *Result {
	result := &Result{Source: "stream"}

	raw, err := p.reader.Read(ctx, r)
	if err != nil {
		result.Error = err
		return p.done(result)
	}
	return p.done(p.render(raw, result))
}

// ProcessXMLBytes renders the label for in-memory XML
func (p *Pipeline) ProcessXMLBytes(ctx context.Context, data []byte) *Result {
	return p.ProcessXML(ctx, bytes.NewReader(data))
}

// ProcessCode finds the XML whose name contains code and renders it
func (p *Pipeline) ProcessCode(ctx context.Context, code string) *Result {
	path, err := p.Find(ctx, code)
	if err != nil {
		return p.done(&Result{Source: code, Error: err})
	}
	return p.ProcessFile(ctx, path)
}

// ProcessBatch renders every path concurrently. Results keep input order;
// per-file failures are reported in each Result.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.batchWorkers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.ProcessFile(ctx, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Extract reads and validates the invoice at path without rendering
func (p *Pipeline) Extract(ctx context.Context, path string) (model.Invoice, error) {
	raw, err := p.reader.ReadFile(ctx, path)
	if err != nil {
		return model.Invoice{}, err
	}
	return xmlparser.Build(raw, p.buildOpts...)
}

// ExtractXML reads and validates an invoice from r without rendering
func (p *Pipeline) ExtractXML(ctx context.Context, r io.Reader) (model.Invoice, error) {
	raw, err := p.reader.Read(ctx, r)
	if err != nil {
		return model.Invoice{}, err
	}
	return xmlparser.Build(raw, p.buildOpts...)
}

// Render renders an already built invoice
func (p *Pipeline) Render(invoice model.Invoice) (model.Label, error) {
	return p.renderer.Render(invoice)
}

// Save writes the label code to path
func (p *Pipeline) Save(ctx context.Context, label model.Label, path string) error {
	if err := p.writer.Write(ctx, label.Code(), path); err != nil {
		return err
	}
	p.logger.Info("DANFE saved", zap.String("path", path), zap.String("nfe", label.Summary()))
	return nil
}

// Find returns the path of the first XML file whose name contains code
func (p *Pipeline) Find(ctx context.Context, code string) (string, error) {
	if p.finder == nil {
		return "", storage.ErrDirNotConfigured
	}

	path, ok, err := p.finder.Find(ctx, code)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", model.NewNotFoundError("xml file for code "+code, nil)
	}
	return path, nil
}

// List returns all XML file names known to the finder
func (p *Pipeline) List(ctx context.Context) ([]string, error) {
	if p.finder == nil {
		return nil, storage.ErrDirNotConfigured
	}
	return p.finder.List(ctx)
}

func (p *Pipeline) render(raw *xmlparser.RawFields, result *Result) *Result {
	invoice, err := xmlparser.Build(raw, p.buildOpts...)
	if err != nil {
		result.Error = err
		return result
	}
	result.Invoice = invoice

	label, err := p.renderer.Render(invoice)
	if err != nil {
		result.Error = err
		return result
	}
	result.Label = label
	return result
}

func (p *Pipeline) done(result *Result) *Result {
	if result.Error != nil {
		p.logger.Debug("processing failed", zap.String("source", result.Source), zap.Error(result.Error))
		return result
	}
	p.logger.Debug("label rendered", zap.String("source", result.Source), zap.String("nfe", result.Label.Summary()))
	return result
}
