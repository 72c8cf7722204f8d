package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/jurisflow/internal/pipeline"
	"github.com/ppiankov/jurisflow/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Normalize many documents in parallel",
	Long: `Batch normalizes every document of a batch file concurrently:
- Read documents from a YAML/JSON list or a JSON Lines file
- Run them in parallel with a configurable worker count
- Throttle per variant (concurrency.documents_per_second)
- Write one JSON file per document, or JSON Lines to stdout

Example:
  jurisflow batch lote.jsonl
  jurisflow batch lote.yaml --concurrency 8 --output-dir ./registros
  jurisflow batch lote.json --report --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "write one <id>.json per document here instead of stdout")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&report, "report", false, "wrap each record with observations and run metadata")
	batchCmd.Flags().Int64Var(&maxBytes, "max-bytes", pipeline.DefaultMaxBytes, "max batch file size")
}

// batchLine is one JSON Lines output entry
type batchLine struct {
	DocumentID string      `json:"document_id"`
	Record     interface{} `json:"record,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	p, cfg, logger, err := newPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "Workers:      %d\n", workers)
	if outputDir != "" {
		fmt.Fprintf(os.Stderr, "Output dir:   %s\n", outputDir)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	fmt.Fprintln(os.Stderr)

	processor := worker.NewBatchProcessor(p, workers, cfg.Concurrency.DocumentsPerSecond, cfg.Concurrency.Burst, logger)

	results, err := processor.ProcessFile(ctx, pipeline.NewLoader(maxBytes), file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	withReport := report || cfg.Output.Report
	enc := json.NewEncoder(cmd.OutOrStdout())

	failures := 0
	for _, res := range results {
		if res.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.DocumentID, res.Error)
			if outputDir == "" {
				if err := enc.Encode(batchLine{DocumentID: res.DocumentID, Error: res.Error.Error()}); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}
			continue
		}

		var payload interface{} = res.Result.Record
		if withReport {
			payload = res.Result
		}

		if outputDir == "" {
			if err := enc.Encode(batchLine{DocumentID: res.DocumentID, Record: payload}); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			continue
		}

		path := filepath.Join(outputDir, sanitizeFilename(res.DocumentID)+".json")
		data, err := json.MarshalIndent(payload, "", "  ")
		if err == nil {
			err = os.WriteFile(path, append(data, '\n'), 0644)
		}
		if err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write record: %v\n", res.DocumentID, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s -> %s\n", res.DocumentID, path)
	}

	// Summary
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Total:     %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "Success:   %d\n", len(results)-failures)
	fmt.Fprintf(os.Stderr, "Failures:  %d\n", failures)

	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(results))
	}
	return nil
}

// sanitizeFilename turns a document ID into a safe file name
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		"#", "_",
		" ", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))
	if s == "" || s == "." || s == ".." {
		s = "document"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
