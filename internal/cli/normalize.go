package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/pipeline"
)

var (
	outPath     string
	variantName string
	sourcePath  string
	contextPath string
	report      bool
	compact     bool
	timeout     time.Duration
	maxBytes    int64
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize [document-file]",
	Short: "Build the structured record of one document",
	Long: `Normalize reads one document and prints its record as JSON:
- Collect candidate values (given, labelled lines, optional LLM)
- Resolve one value per field (user context beats the document)
- Classify amounts as DYNAMIC, FIXED or AMBIGUOUS
- Validate the record against its variant schema

The document is either a YAML/JSON file
  {id, variant, source_text, context_text, candidates}
or raw text files given with --source and --variant.

Example:
  jurisflow normalize caso.yaml
  jurisflow normalize --variant social-security --source sentenca.html --context notas.txt
  jurisflow normalize caso.json --report --out registro.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	// Input flags
	normalizeCmd.Flags().StringVar(&variantName, "variant", "", "document variant for raw text input (labor, social-security)")
	normalizeCmd.Flags().StringVar(&sourcePath, "source", "", "source document text (plain text or HTML)")
	normalizeCmd.Flags().StringVar(&contextPath, "context", "", "user context text (optional)")
	normalizeCmd.Flags().Int64Var(&maxBytes, "max-bytes", pipeline.DefaultMaxBytes, "max input file size")

	// Output flags
	normalizeCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default: stdout)")
	normalizeCmd.Flags().BoolVar(&report, "report", false, "wrap the record with observations and run metadata")
	normalizeCmd.Flags().BoolVar(&compact, "compact", false, "single-line JSON")
	normalizeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall run timeout")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	doc, err := loadInput(args)
	if err != nil {
		return err
	}

	p, cfg, logger, err := newPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Document: %s (%s)\n", doc.ID, doc.Variant)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	result, err := p.Run(ctx, doc)
	if err != nil {
		return fmt.Errorf("normalize failed: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Resolved %d fields\n", result.Record.Len())
		fmt.Fprintf(os.Stderr, "✓ Recorded %d observations\n", len(result.Observations))
		if result.Cached {
			fmt.Fprintf(os.Stderr, "✓ Served from cache\n")
		}
		fmt.Fprintln(os.Stderr)
	}

	return writeResult(cmd.OutOrStdout(), result, report || cfg.Output.Report, cfg.Output.Pretty && !compact)
}

// loadInput reads the document named on the command line
func loadInput(args []string) (*model.Document, error) {
	loader := pipeline.NewLoader(maxBytes)

	switch {
	case len(args) == 1 && sourcePath != "":
		return nil, fmt.Errorf("give either a document file or --source, not both")
	case len(args) == 1:
		return loader.LoadDocument(args[0])
	case sourcePath != "":
		if variantName == "" {
			return nil, fmt.Errorf("--variant is required with --source")
		}
		return loader.LoadText(model.Variant(variantName), sourcePath, contextPath)
	default:
		return nil, fmt.Errorf("no input: give a document file or --source")
	}
}

// writeResult renders the record, or the whole result with withReport
func writeResult(stdout io.Writer, result *pipeline.Result, withReport, pretty bool) (err error) {
	var payload interface{} = result.Record
	if withReport {
		payload = result
	}

	var data []byte
	if pretty {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	data = append(data, '\n')

	if outPath == "" {
		_, err = stdout.Write(data)
		return err
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Record written to %s\n", outPath)
	return nil
}
