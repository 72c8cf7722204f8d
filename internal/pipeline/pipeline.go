// Package pipeline runs one document through extraction, resolution,
// classification and validation.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/jurisflow/internal/cache"
	"github.com/ppiankov/jurisflow/internal/classify"
	"github.com/ppiankov/jurisflow/internal/extract"
	"github.com/ppiankov/jurisflow/internal/extract/adapters"
	"github.com/ppiankov/jurisflow/internal/llm"
	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/reference"
	"github.com/ppiankov/jurisflow/internal/resolve"
	"github.com/ppiankov/jurisflow/internal/schema"
	"github.com/ppiankov/jurisflow/internal/validate"
)

// Pipeline orchestrates document runs. It holds no per-run state and is
// safe for concurrent use.
type Pipeline struct {
	tables       *reference.Tables
	registry     *adapters.Registry
	resolver     *resolve.Resolver
	classifier   *classify.Classifier
	provider     llm.Provider // Optional LLM extractor (nil if disabled)
	llmModel     string
	cache        cache.Cache  // nil if disabled
	cacheTTL     time.Duration
	policy       extract.Policy
	checkRange   bool
	defaultIndex string
	logger       *zap.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithTables replaces the reference tables named by the configuration
func WithTables(t *reference.Tables) Option {
	return func(p *Pipeline) { p.tables = t }
}

// WithProvider sets the LLM extractor; nil disables it
func WithProvider(provider llm.Provider) Option {
	return func(p *Pipeline) { p.provider = provider }
}

// WithCache sets the run cache; nil disables caching
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// New creates a pipeline from configuration
func New(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		registry:     adapters.NewRegistry(),
		checkRange:   cfg.Engine.CheckRange,
		defaultIndex: cfg.Engine.DefaultCorrectionIndex,
		cacheTTL:     cfg.Cache.DiskTTL,
		logger:       zap.NewNop(),
	}

	if cfg.Cache.Enabled {
		p.cache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.DiskDir, cfg.Cache.DiskTTL)
	}

	if cfg.LLM.Provider != "" {
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, fmt.Errorf("llm provider: %w", err)
		}
		p.provider = provider
	}

	for _, opt := range opts {
		opt(p)
	}
	if p.provider != nil {
		p.llmModel = cfg.LLM.Model
	}

	if p.tables == nil {
		if cfg.Engine.TablesPath != "" {
			t, err := reference.Load(cfg.Engine.TablesPath)
			if err != nil {
				return nil, fmt.Errorf("reference tables: %w", err)
			}
			p.tables = t
		} else {
			p.tables = reference.Default()
		}
	}

	tolerance, err := model.ParseMoney(cfg.Engine.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("engine tolerance: %w", err)
	}
	p.classifier = classify.New(p.tables, tolerance)

	if p.policy, err = extract.ParsePolicy(cfg.Engine.Eligibility); err != nil {
		return nil, err
	}

	if p.defaultIndex != "" {
		v, ok := p.tables.Vocabulary(reference.DomainCorrectionIndex)
		if !ok || !v.Contains(p.defaultIndex) {
			return nil, fmt.Errorf("default correction index %q is not a known index", p.defaultIndex)
		}
	}

	p.resolver = resolve.New(p.tables, resolve.WithLogger(p.logger))
	return p, nil
}

// Tables returns the reference tables in use
func (p *Pipeline) Tables() *reference.Tables { return p.tables }

// Result is the outcome of one run
type Result struct {
	RunID           string              `json:"run_id"`
	DocumentID      string              `json:"document_id,omitempty"`
	Variant         model.Variant       `json:"variant"`
	Record          *model.Record       `json:"record"`
	Observations    []model.Observation `json:"observations"`
	Classifications []classify.Result   `json:"classifications"`
	Cached          bool                `json:"cached"`
}

// cachedRun is the cache payload of a finished run
type cachedRun struct {
	Record          json.RawMessage     `json:"record"`
	Observations    []model.Observation `json:"observations"`
	Classifications []classify.Result   `json:"classifications"`
}

// Run processes one document. The input document is not modified. On
// error, including cancellation, no record is returned.
func (p *Pipeline) Run(ctx context.Context, doc *model.Document) (*Result, error) {
	s, err := p.schemaFor(doc.Variant)
	if err != nil {
		return nil, err
	}

	logger := p.logger.With(zap.String("document", doc.ID), zap.String("variant", string(doc.Variant)))

	key, err := p.cacheKey(doc)
	if err != nil {
		return nil, err
	}
	if res, ok := p.fromCache(s, key); ok {
		logger.Debug("cache hit")
		res.DocumentID = doc.ID
		return res, nil
	}

	work, err := p.prepare(ctx, doc, s, logger)
	if err != nil {
		return nil, err
	}

	resolutions, err := p.resolver.Resolve(ctx, s, work)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	assembler := validate.NewAssembler(s, p.tables, p.classifier, validate.WithRangeCheck(p.checkRange))
	assembly, err := assembler.Assemble(resolutions)
	if err != nil {
		return nil, err
	}

	// A run cancelled after assembly still emits nothing
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.store(key, assembly, logger)

	logger.Info("document resolved",
		zap.Int("candidates", len(work.Candidates)),
		zap.Int("observations", len(assembly.Observations)))

	return &Result{
		RunID:           uuid.NewString(),
		DocumentID:      doc.ID,
		Variant:         doc.Variant,
		Record:          assembly.Record,
		Observations:    assembly.Observations,
		Classifications: assembly.Classifications,
	}, nil
}

// schemaFor returns the variant schema with the configured correction index default
func (p *Pipeline) schemaFor(v model.Variant) (*schema.Schema, error) {
	s, err := schema.ForVariant(v)
	if err != nil {
		return nil, err
	}
	if _, ok := s.Field("indice_correcao"); ok && p.defaultIndex != "" {
		s = s.WithDefault("indice_correcao", p.defaultIndex)
	}
	return s, nil
}

// prepare builds the working copy of the document: plain text, given
// candidates plus labelled lines plus LLM proposals, filtered by policy.
func (p *Pipeline) prepare(ctx context.Context, doc *model.Document, s *schema.Schema, logger *zap.Logger) (*model.Document, error) {
	work := &model.Document{ID: doc.ID, Variant: doc.Variant}

	var err error
	if work.SourceText, err = extract.PlainText(doc.SourceText); err != nil {
		return nil, fmt.Errorf("source text: %w", err)
	}
	if work.ContextText, err = extract.PlainText(doc.ContextText); err != nil {
		return nil, fmt.Errorf("context text: %w", err)
	}

	candidates := append([]model.CandidateValue(nil), doc.Candidates...)

	labelled, err := p.registry.Extract(work)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	candidates = append(candidates, labelled...)

	if p.provider != nil && (work.SourceText != "" || work.ContextText != "") {
		resp, err := p.provider.Extract(ctx, llm.ExtractRequest{
			Variant:     doc.Variant,
			Fields:      llm.FieldHints(s, p.tables),
			SourceText:  work.SourceText,
			ContextText: work.ContextText,
		})
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			// The extractor only adds candidates; the run goes on without them
			logger.Warn("llm extraction failed", zap.String("provider", p.provider.Name()), zap.Error(err))
		default:
			logger.Debug("llm candidates", zap.Int("count", len(resp.Candidates)), zap.Int("tokens", resp.TokensUsed))
			candidates = append(candidates, resp.Candidates...)
		}
	}

	work.Candidates = extract.Filter(p.policy, candidates)
	if dropped := len(candidates) - len(work.Candidates); dropped > 0 {
		logger.Debug("candidates outside the operative part dropped",
			zap.String("policy", string(p.policy)), zap.Int("dropped", dropped))
	}
	return work, nil
}

// cacheKey digests everything a run's output depends on
func (p *Pipeline) cacheKey(doc *model.Document) (string, error) {
	if p.cache == nil {
		return "", nil
	}

	input, err := json.Marshal(struct {
		Variant     model.Variant          `json:"variant"`
		SourceText  string                 `json:"source_text"`
		ContextText string                 `json:"context_text"`
		Candidates  []model.CandidateValue `json:"candidates"`
	}{doc.Variant, doc.SourceText, doc.ContextText, doc.Candidates})
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}

	provider := ""
	if p.provider != nil {
		provider = p.provider.Name()
	}

	return cache.Key(
		input,
		[]byte(p.tables.Version()),
		[]byte(p.tables.Digest()),
		[]byte(p.classifier.Tolerance().String()),
		[]byte(p.policy),
		[]byte(fmt.Sprint(p.checkRange)),
		[]byte(p.defaultIndex),
		[]byte(provider),
		[]byte(p.llmModel),
	), nil
}

func (p *Pipeline) fromCache(s *schema.Schema, key string) (*Result, bool) {
	if p.cache == nil {
		return nil, false
	}
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}

	var run cachedRun
	if err := json.Unmarshal(data, &run); err != nil {
		p.logger.Warn("dropping unreadable cache entry", zap.Error(err))
		_ = p.cache.Delete(key)
		return nil, false
	}

	// Revalidate: a stale entry from an older schema must not leak out
	rec, err := validate.ParseRecord(s, run.Record)
	if err == nil {
		err = validate.NewValidator(s, p.tables).Validate(rec)
	}
	if err != nil {
		p.logger.Warn("dropping invalid cache entry", zap.Error(err))
		_ = p.cache.Delete(key)
		return nil, false
	}

	return &Result{
		RunID:           uuid.NewString(),
		Variant:         s.Variant,
		Record:          rec,
		Observations:    run.Observations,
		Classifications: run.Classifications,
		Cached:          true,
	}, true
}

func (p *Pipeline) store(key string, a *validate.Assembly, logger *zap.Logger) {
	if p.cache == nil {
		return
	}

	record, err := json.Marshal(a.Record)
	if err == nil {
		var data []byte
		data, err = json.Marshal(cachedRun{
			Record:          record,
			Observations:    a.Observations,
			Classifications: a.Classifications,
		})
		if err == nil {
			err = p.cache.Set(key, data, p.cacheTTL)
		}
	}
	if err != nil {
		logger.Warn("cache write failed", zap.Error(err))
	}
}
