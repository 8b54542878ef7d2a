package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/danfe-zpl/internal/model"
	"github.com/rezonia/danfe-zpl/internal/processor"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show the data extracted from NFe XML files",
	Long: `Display the NFe data used to build the label, without rendering it.

Shows number, series, issuance date, access key, authorization protocol,
issuer and recipient (documents unmasked) and the invoice total.

Examples:
  danfe-zpl info nfe.xml
  danfe-zpl info /data/nfe/*.xml -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// InfoResult holds the info output for a single file
type InfoResult struct {
	File  string          `json:"file"`
	Info  *processor.Info `json:"info,omitempty"`
	Error string          `json:"error,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no XML files found")
	}

	pipeline := newPipeline(false)
	results := make([]InfoResult, 0, len(files))

	for _, file := range files {
		printVerbose("Reading: %s\n", file)

		result := InfoResult{File: file}
		inv, err := pipeline.Extract(cmd.Context(), file)
		if err == nil {
			result.Info, err = processor.Describe(inv)
		}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	for _, r := range results {
		fmt.Fprintf(out, "File: %s\n", r.File)
		if r.Error != "" {
			fmt.Fprintf(out, "  Error: %s\n\n", r.Error)
			continue
		}
		if err := writeInfoTable(out, r.Info); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return nil
}

// writeInfo prints the NFe data block for inv
func writeInfo(w io.Writer, inv model.Invoice) error {
	info, err := processor.Describe(inv)
	if err != nil {
		return err
	}
	if outputFormat == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	}
	return writeInfoTable(w, info)
}

func writeInfoTable(w io.Writer, info *processor.Info) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "=== NFe ===")
	fmt.Fprintf(tw, "Número:\t%s\n", info.Number)
	fmt.Fprintf(tw, "Série:\t%s\n", info.Series)
	fmt.Fprintf(tw, "Data Emissão:\t%s\n", info.IssuedAt)
	fmt.Fprintf(tw, "Chave de Acesso:\t%s\n", info.AccessKeyFormatted)
	if info.Protocol != "" {
		fmt.Fprintf(tw, "Protocolo:\t%s\n", info.Protocol)
		fmt.Fprintf(tw, "Data Autorização:\t%s\n", info.AuthorizedAt)
	}
	fmt.Fprintf(tw, "Emitente:\t%s\n", info.Issuer.Name)
	fmt.Fprintf(tw, "CNPJ:\t%s\n", info.Issuer.CNPJ)
	fmt.Fprintf(tw, "IE / UF:\t%s / %s\n", info.Issuer.StateRegistration, info.Issuer.UF)
	fmt.Fprintf(tw, "Destinatário:\t%s\n", info.Recipient.Name)
	fmt.Fprintf(tw, "%s:\t%s\n", info.Recipient.DocumentType, info.Recipient.Document)
	fmt.Fprintf(tw, "UF:\t%s\n", info.Recipient.UF)
	fmt.Fprintf(tw, "Valor Total:\t%s\n", info.TotalFormatted)
	return tw.Flush()
}
