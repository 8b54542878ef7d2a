package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/danfe-zpl/internal/processor"
)

var (
	outputDir    string
	batchTimeout time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Render labels for many NFe files",
	Long: `Render a DANFE label for each NFe XML file. Directories are expanded to
the XML files they contain. Each label is written to the output directory
as <name>.zpl; failures are reported per file. When two inputs share a
name, the first one (in argument order) is written and the others fail.

Examples:
  danfe-zpl batch /data/nfe --output-dir labels
  danfe-zpl batch *.xml --output-dir labels -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&outputDir, "output-dir", ".", "Directory receiving the .zpl files")
	batchCmd.Flags().BoolVar(&includeRecipientDocument, "include-recipient-document", false, "Print the recipient CPF/CNPJ instead of '-'")
	batchCmd.Flags().BoolVar(&timestampFallback, "timestamp-fallback", false, "Use the current time for unparseable timestamps")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "Timeout for the whole batch (0 disables)")
}

// BatchResult holds the outcome for a single file
type BatchResult struct {
	File    string `json:"file"`
	Output  string `json:"output,omitempty"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no XML files found")
	}
	printVerbose("Found %d files to process\n", len(files))

	ctx := cmd.Context()
	if batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, batchTimeout)
		defer cancel()
	}

	pipeline := newPipeline(cfg.Render.IncludeRecipientDocument)
	processed, err := pipeline.ProcessBatch(ctx, files)
	if err != nil {
		return err
	}

	results := make([]BatchResult, 0, len(processed))
	claimed := make(map[string]string, len(processed))
	failed := 0
	for _, r := range processed {
		res := saveResult(ctx, pipeline, r, claimed)
		if res.Error != "" {
			failed++
			printVerbose("  %s: %s\n", res.File, res.Error)
		}
		results = append(results, res)
	}

	if err := outputBatch(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// outputPath names the label file for source inside the output directory
func outputPath(source string) string {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ".zpl"
	return filepath.Join(outputDir, name)
}

// saveResult writes one label. claimed maps output paths to the source that
// already wrote them, so same-named inputs never overwrite each other.
func saveResult(ctx context.Context, pipeline *processor.Pipeline, r *processor.Result, claimed map[string]string) BatchResult {
	res := BatchResult{File: r.Source}
	if !r.OK() {
		res.Error = r.Error.Error()
		return res
	}

	path := outputPath(r.Source)
	if owner, ok := claimed[path]; ok {
		res.Error = fmt.Sprintf("output %s already written for %s", path, owner)
		return res
	}
	claimed[path] = r.Source

	if err := pipeline.Save(ctx, r.Label, path); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Output = path
	res.Summary = r.Label.Summary()
	return res
}

func outputBatch(w io.Writer, results []BatchResult) error {
	if outputFormat == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tOUTPUT\tNFE")
	fmt.Fprintln(tw, "----\t------\t---")
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\n", r.File, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.File, r.Output, r.Summary)
	}
	return tw.Flush()
}
