package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/pipeline"
)

// Runner processes one document
type Runner interface {
	Run(ctx context.Context, doc *model.Document) (*pipeline.Result, error)
}

// DocumentJob runs one document after rate-limit clearance
type DocumentJob struct {
	Document *model.Document
	Runner   Runner
	Limiter  *Limiter
}

// Execute executes the document job
func (j *DocumentJob) Execute(ctx context.Context) Result {
	out := &DocumentResult{DocumentID: j.Document.ID}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Document.Variant); err != nil {
			out.Error = err
			return out
		}
	}

	out.Result, out.Error = j.Runner.Run(ctx, j.Document)
	return out
}

// DocumentResult is the outcome of one document in a batch
type DocumentResult struct {
	DocumentID string
	Result     *pipeline.Result
	Error      error
}

// GetError returns the error of the document run
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many documents concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
	limiter     *Limiter
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor. A non-positive rate
// disables throttling.
func NewBatchProcessor(runner Runner, concurrency int, documentsPerSecond float64, burst int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
		limiter:     NewLimiter(documentsPerSecond, burst),
		logger:      logger,
	}
}

// ProcessDocuments runs the documents and returns one result per
// document, in input order. Documents not started before ctx ends carry
// the context error.
func (b *BatchProcessor) ProcessDocuments(ctx context.Context, docs []*model.Document) []*DocumentResult {
	if len(docs) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	submitted := 0
	for _, doc := range docs {
		if !pool.Submit(&DocumentJob{Document: doc, Runner: b.runner, Limiter: b.limiter}) {
			break
		}
		submitted++
	}

	results := pool.Wait()

	out := make([]*DocumentResult, len(docs))
	for i, r := range results {
		if r != nil {
			out[i] = r.(*DocumentResult)
		}
	}

	failed := 0
	for i, doc := range docs {
		if out[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("document not processed")
			}
			out[i] = &DocumentResult{DocumentID: doc.ID, Error: err}
		}
		if out[i].Error != nil {
			failed++
		}
	}

	b.logger.Info("batch finished",
		zap.Int("documents", len(docs)),
		zap.Int("submitted", submitted),
		zap.Int("failed", failed))

	return out
}

// ProcessFile loads a batch file and processes its documents
func (b *BatchProcessor) ProcessFile(ctx context.Context, loader *pipeline.Loader, filePath string) ([]*DocumentResult, error) {
	docs, err := loader.LoadBatch(filePath)
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}

	return b.ProcessDocuments(ctx, docs), nil
}
