package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rezonia/danfe-zpl/internal/config"
	"github.com/rezonia/danfe-zpl/internal/logger"
	"github.com/rezonia/danfe-zpl/internal/processor"
	"github.com/rezonia/danfe-zpl/internal/render/zpl"
	"github.com/rezonia/danfe-zpl/internal/storage"
)

var (
	version = "1.0.0"

	// Global flags
	cfgFile      string
	verbose      bool
	outputFormat string
	xmlDir       string

	// Populated by loadConfig before any command runs
	cfg *config.Config
	log *zap.Logger
)

// flagKeys maps CLI flags to configuration keys
var flagKeys = map[string]string{
	"xml-dir":                    "xml.dir",
	"workers":                    "xml.search_workers",
	"timestamp-fallback":         "xml.timestamp_fallback",
	"include-recipient-document": "render.include_recipient_document",
	"output":                     "output.path",
	"address":                    "server.address",
	"debug":                      "server.debug",
	"read-timeout":               "server.read_timeout",
	"write-timeout":              "server.write_timeout",
}

var rootCmd = &cobra.Command{
	Use:   "danfe-zpl",
	Short: "Generate DANFE Simplificado thermal labels (ZPL) from NFe XML",
	Long: `danfe-zpl reads an authorized NFe XML document and renders the
DANFE Simplificado label in ZPL II for Zebra-compatible thermal printers.

Configuration is read from danfe.toml, DANFE_* environment variables and
flags, in increasing order of precedence.

Examples:
  # Render a label to danfe_generated.zpl
  danfe-zpl generate nfe.xml

  # Locate the XML by invoice code and print the label
  danfe-zpl generate --code 000123 --xml-dir /data/nfe --stdout

  # Show the extracted NFe data
  danfe-zpl info nfe.xml`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./danfe.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&xmlDir, "xml-dir", "", "Directory searched for NFe XML files (env: DANFE_XML_DIR)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case "table", "json":
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}

	v, err := config.New(cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err = config.FromViper(v)
	if err != nil {
		return err
	}

	logCfg := cfg.LoggerConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	log, err = logger.New(logCfg)
	if err != nil {
		return err
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// newPipeline wires the pipeline from configuration
func newPipeline(includeRecipientDocument bool) *processor.Pipeline {
	opts := []processor.PipelineOption{
		processor.WithLogger(log),
		processor.WithRenderer(zpl.NewStandardRenderer(zpl.Options{
			IncludeRecipientDocument: includeRecipientDocument,
		})),
		processor.WithWriter(storage.NewFileSystemWriter(storage.WithWriterLogger(log))),
	}

	if cfg.XML.Dir != "" {
		opts = append(opts, processor.WithFinder(storage.NewSearcher(cfg.XML.Dir,
			storage.WithWorkers(cfg.XML.SearchWorkers),
			storage.WithSearcherLogger(log),
		)))
	}
	if cfg.XML.TimestampFallback {
		opts = append(opts, processor.WithTimestampFallback(time.Now))
	}

	return processor.NewPipeline(opts...)
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
