package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/danfe-zpl/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server that renders DANFE labels.

The API provides endpoints for:
  - POST /api/v1/render  - Render the ZPL label for the XML body
  - POST /api/v1/info    - Extract NFe data from the XML body
  - GET  /api/v1/files   - List XML files, or find one with ?code=
  - GET  /health         - Health check

Examples:
  # Start server on default port
  danfe-zpl serve

  # Start on a custom port with an XML directory
  danfe-zpl serve --address :9090 --xml-dir /data/nfe`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (default :8080)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 0, "HTTP read timeout (default 30s)")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 0, "HTTP write timeout (default 1m)")
	serveCmd.Flags().BoolVar(&includeRecipientDocument, "include-recipient-document", false, "Print the recipient CPF/CNPJ by default")
	serveCmd.Flags().BoolVar(&timestampFallback, "timestamp-fallback", false, "Use the current time for unparseable timestamps")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:                  cfg.Server.Address,
		ReadTimeout:              cfg.Server.ReadTimeout,
		WriteTimeout:             cfg.Server.WriteTimeout,
		Debug:                    cfg.Server.Debug,
		IncludeRecipientDocument: cfg.Render.IncludeRecipientDocument,
	}

	srv := server.NewServer(config,
		server.WithPipeline(newPipeline(cfg.Render.IncludeRecipientDocument)),
		server.WithLogger(log),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Starting server on %s\n", config.Address)
	if cfg.XML.Dir != "" {
		fmt.Fprintf(out, "Serving XML files from %s\n", cfg.XML.Dir)
	} else {
		fmt.Fprintln(out, "XML directory not configured, /api/v1/files disabled")
	}

	if err := srv.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Server stopped")
	return nil
}
