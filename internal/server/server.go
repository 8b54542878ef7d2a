package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rezonia/danfe-zpl/internal/logger"
	"github.com/rezonia/danfe-zpl/internal/model"
	"github.com/rezonia/danfe-zpl/internal/processor"
	"github.com/rezonia/danfe-zpl/internal/render/zpl"
	"github.com/rezonia/danfe-zpl/internal/storage"
)

// MaxBodySize caps uploaded XML documents
const MaxBodySize = 10 << 20

// Config holds server configuration
type Config struct {
	Address                  string
	ReadTimeout              time.Duration
	WriteTimeout             time.Duration
	RequestTimeout           time.Duration
	Debug                    bool
	IncludeRecipientDocument bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	masked   zpl.Renderer
	full     zpl.Renderer
	logger   *zap.Logger
}

// Option configures the server
type Option func(*Server)

// WithPipeline sets the pipeline used for reading and searching
func WithPipeline(p *processor.Pipeline) Option {
	return func(s *Server) {
		s.pipeline = p
	}
}

// WithLogger sets the request logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new API server
func NewServer(config *Config, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}

	s := &Server{
		config: config,
		router: gin.New(),
		masked: zpl.NewStandardRenderer(zpl.Options{}),
		full:   zpl.NewStandardRenderer(zpl.Options{IncludeRecipientDocument: true}),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = processor.NewPipeline(processor.WithLogger(s.logger))
	}

	s.router.Use(logger.GinMiddleware(s.logger), logger.Recovery(s.logger))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/render", s.handleRender)
		v1.POST("/info", s.handleInfo)
		v1.GET("/files", s.handleFiles)
	}
}

// Run starts the HTTP server and shuts it down when ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("address", s.config.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRender(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	includeDoc := s.config.IncludeRecipientDocument
	if raw := c.Query("include_recipient_document"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "include_recipient_document must be a boolean"})
			return
		}
		includeDoc = v
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	invoice, err := s.pipeline.ExtractXML(ctx, bytes.NewReader(body))
	if err != nil {
		s.respondError(c, err)
		return
	}

	renderer := s.masked
	if includeDoc {
		renderer = s.full
	}
	label, err := renderer.Render(invoice)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if c.NegotiateFormat(gin.MIMEPlain, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, RenderResponse{
			ZPL:       label.Code(),
			Summary:   label.Summary(),
			AccessKey: invoice.AccessKey(),
		})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(label.Code()))
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	invoice, err := s.pipeline.ExtractXML(ctx, bytes.NewReader(body))
	if err != nil {
		s.respondError(c, err)
		return
	}

	info, err := processor.Describe(invoice)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, InfoResponse{Info: info})
}

func (s *Server) handleFiles(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	if code := c.Query("code"); code != "" {
		path, err := s.pipeline.Find(ctx, code)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, FindResponse{Code: code, Path: path})
		return
	}

	files, err := s.pipeline.List(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, FilesResponse{Files: files, Count: len(files)})
}

func (s *Server) readBody(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize)

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}
	return body, true
}

// respondError maps domain errors to HTTP statuses
func (s *Server) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		notFound   *model.NotFoundError
		readerErr  *model.ReaderError
		validation *model.ValidationError
		formatErr  *model.FormatError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Kind: "not_found"})
	case errors.As(err, &readerErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Kind: "reader", Field: readerErr.Node})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Kind: "validation", Field: validation.Field})
	case errors.As(err, &formatErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Kind: "format"})
	case errors.Is(err, storage.ErrDirNotConfigured):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Kind: "config"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: err.Error(), Kind: "timeout"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
