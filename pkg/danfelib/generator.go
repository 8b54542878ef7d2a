package danfelib

import (
	"bytes"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/rezonia/danfe-zpl/internal/processor"
	"github.com/rezonia/danfe-zpl/internal/render/zpl"
	"github.com/rezonia/danfe-zpl/internal/storage"
)

// Options configures a Generator
type Options struct {
	// XMLDir enables GenerateCode and Find. Empty disables lookups.
	XMLDir string
	// SearchWorkers bounds concurrent stat calls during lookups
	SearchWorkers int
	// IncludeRecipientDocument prints the recipient CPF/CNPJ instead of "-"
	IncludeRecipientDocument bool
	// TimestampFallback substitutes the current time for unparseable
	// timestamps instead of failing
	TimestampFallback bool
	Logger            *zap.Logger
}

// DefaultOptions returns the options used by NewDefaultGenerator
func DefaultOptions() Options {
	return Options{
		SearchWorkers: storage.DefaultSearchWorkers,
	}
}

// Generator renders DANFE labels
type Generator struct {
	pipeline *processor.Pipeline
}

// NewGenerator creates a generator with the given options
func NewGenerator(opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pipelineOpts := []processor.PipelineOption{
		processor.WithLogger(logger),
		processor.WithRenderer(zpl.NewStandardRenderer(zpl.Options{
			IncludeRecipientDocument: opts.IncludeRecipientDocument,
		})),
		processor.WithWriter(storage.NewFileSystemWriter(storage.WithWriterLogger(logger))),
	}
	if opts.XMLDir != "" {
		pipelineOpts = append(pipelineOpts, processor.WithFinder(storage.NewSearcher(opts.XMLDir,
			storage.WithWorkers(opts.SearchWorkers),
			storage.WithSearcherLogger(logger),
		)))
	}
	if opts.TimestampFallback {
		pipelineOpts = append(pipelineOpts, processor.WithTimestampFallback(time.Now))
	}

	return &Generator{pipeline: processor.NewPipeline(pipelineOpts...)}
}

// NewDefaultGenerator creates a generator with default options
func NewDefaultGenerator() *Generator {
	return NewGenerator(DefaultOptions())
}

// Generate renders the label for the NFe XML read from r
func (g *Generator) Generate(ctx context.Context, r io.Reader) (Label, error) {
	return labelOf(g.pipeline.ProcessXML(ctx, r))
}

// GenerateFile renders the label for the NFe XML file at path
func (g *Generator) GenerateFile(ctx context.Context, path string) (Label, error) {
	return labelOf(g.pipeline.ProcessFile(ctx, path))
}

// GenerateCode renders the label for the first XML file in the configured
// directory whose name contains code
func (g *Generator) GenerateCode(ctx context.Context, code string) (Label, error) {
	return labelOf(g.pipeline.ProcessCode(ctx, code))
}

// ZPL renders the label for data and returns its ZPL code
func (g *Generator) ZPL(ctx context.Context, data []byte) (string, error) {
	label, err := g.Generate(ctx, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return label.Code(), nil
}

// Save writes the label code to path, creating parent directories
func (g *Generator) Save(ctx context.Context, label Label, path string) error {
	return g.pipeline.Save(ctx, label, path)
}

// Info extracts the NFe data from r without rendering
func (g *Generator) Info(ctx context.Context, r io.Reader) (*Info, error) {
	inv, err := g.pipeline.ExtractXML(ctx, r)
	if err != nil {
		return nil, err
	}
	return processor.Describe(inv)
}

// Find returns the path of the first XML file whose name contains code
func (g *Generator) Find(ctx context.Context, code string) (string, error) {
	return g.pipeline.Find(ctx, code)
}

func labelOf(result *processor.Result) (Label, error) {
	if result.Error != nil {
		return Label{}, result.Error
	}
	return result.Label, nil
}
