package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var searchWorkers int

var searchCmd = &cobra.Command{
	Use:   "search [code]",
	Short: "Search the XML directory",
	Long: `List the NFe XML files in the configured directory, or find the first
file (in name order) whose name contains the given invoice code.

Examples:
  danfe-zpl search --xml-dir /data/nfe
  danfe-zpl search 000123 --xml-dir /data/nfe -f json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchWorkers, "workers", 0, "Concurrent stat calls while searching (default 8)")
}

// SearchResult is the JSON view of a search
type SearchResult struct {
	Code  string   `json:"code,omitempty"`
	Path  string   `json:"path,omitempty"`
	Files []string `json:"files,omitempty"`
	Count int      `json:"count"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	pipeline := newPipeline(false)
	out := cmd.OutOrStdout()

	var result SearchResult
	if len(args) == 1 {
		printVerbose("Searching %s for code %s\n", cfg.XML.Dir, args[0])

		path, err := pipeline.Find(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		result = SearchResult{Code: args[0], Path: path, Count: 1}
	} else {
		files, err := pipeline.List(cmd.Context())
		if err != nil {
			return err
		}
		result = SearchResult{Files: files, Count: len(files)}
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if result.Path != "" {
		fmt.Fprintln(out, result.Path)
		return nil
	}
	for _, f := range result.Files {
		fmt.Fprintln(out, f)
	}
	printVerbose("%d XML files in %s\n", result.Count, cfg.XML.Dir)
	return nil
}
