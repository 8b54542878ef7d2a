package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/danfe-zpl/internal/processor"
)

var (
	invoiceCode              string
	outputPath               string
	toStdout                 bool
	includeRecipientDocument bool
	printInfo                bool
	timestampFallback        bool
	timeout                  time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate [xml-file]",
	Short: "Render the DANFE label for one NFe",
	Long: `Render the DANFE Simplificado ZPL label for an NFe XML document.

The document is given as a path, or located with --code in the configured
XML directory (first file, in name order, whose name contains the code).

Examples:
  danfe-zpl generate nfe.xml
  danfe-zpl generate nfe.xml -o labels/123.zpl --print-info
  danfe-zpl generate --code 000123 --xml-dir /data/nfe --stdout | lp -d zebra -o raw`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&invoiceCode, "code", "", "Invoice code to search for in the XML directory")
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: danfe_generated.zpl)")
	generateCmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the label instead of saving it")
	generateCmd.Flags().BoolVar(&includeRecipientDocument, "include-recipient-document", false, "Print the recipient CPF/CNPJ instead of '-'")
	generateCmd.Flags().BoolVar(&printInfo, "print-info", false, "Print the extracted NFe data")
	generateCmd.Flags().BoolVar(&timestampFallback, "timestamp-fallback", false, "Use the current time for unparseable timestamps")
	generateCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Processing timeout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && invoiceCode == "" {
		return errors.New("an XML file or --code is required")
	}
	if len(args) == 1 && invoiceCode != "" {
		return errors.New("give either an XML file or --code, not both")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	pipeline := newPipeline(cfg.Render.IncludeRecipientDocument)

	var result *processor.Result
	if len(args) == 1 {
		printVerbose("Processing: %s\n", args[0])
		result = pipeline.ProcessFile(ctx, args[0])
	} else {
		printVerbose("Searching %s for code %s\n", cfg.XML.Dir, invoiceCode)
		result = pipeline.ProcessCode(ctx, invoiceCode)
	}
	if result.Error != nil {
		return result.Error
	}

	out := cmd.OutOrStdout()
	if printInfo {
		if err := writeInfo(out, result.Invoice); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if toStdout {
		fmt.Fprintln(out, result.Label.Code())
		return nil
	}

	if err := pipeline.Save(ctx, result.Label, cfg.Output.Path); err != nil {
		return err
	}
	fmt.Fprintf(out, "DANFE ZPL code generated and saved to: %s\n", cfg.Output.Path)
	return nil
}
