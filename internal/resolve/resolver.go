// Package resolve picks one value per schema field from the candidates
// of a document, applying the source priority order.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/normalize"
	"github.com/ppiankov/jurisflow/internal/reference"
	"github.com/ppiankov/jurisflow/internal/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Resolution is the outcome for one field
type Resolution struct {
	Path      string           // Dotted field path
	Value     interface{}      // Normalized value; nil is null
	Tier      model.SourceTier // Tier of the winning candidates, empty when defaulted
	Locators  []string         // Locators of the winning candidates
	Defaulted bool             // No candidate produced a value
	Notes     []model.Observation
}

// Resolver resolves documents against the reference tables
type Resolver struct {
	tables *reference.Tables
	logger *zap.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a resolver
func New(tables *reference.Tables, opts ...Option) *Resolver {
	r := &Resolver{tables: tables, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns one resolution per schema leaf, in record order.
// Fields are independent and resolve concurrently.
func (r *Resolver) Resolve(ctx context.Context, s *schema.Schema, doc *model.Document) ([]Resolution, error) {
	leaves := s.Leaves()
	out := make([]Resolution, len(leaves))

	g, ctx := errgroup.WithContext(ctx)
	for i, leaf := range leaves {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.resolveField(leaf, doc)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// candidate is a normalized candidate value
type candidate struct {
	model.CandidateValue
	result normalize.Result
}

func (r *Resolver) resolveField(leaf schema.Leaf, doc *model.Document) (Resolution, error) {
	norm, err := r.normalizerFor(leaf)
	if err != nil {
		return Resolution{}, err
	}

	raw := append(doc.CandidatesFor(leaf.Path), r.keywordCandidates(leaf, doc)...)

	res := Resolution{Path: leaf.Path}
	byTier := map[model.SourceTier][]candidate{}
	for _, c := range raw {
		tier, err := model.ParseSourceTier(string(c.Tier))
		if err != nil {
			res.Notes = append(res.Notes, model.Observation{
				Kind:        model.ObservationNormalization,
				Severity:    model.SeverityInfo,
				Field:       leaf.Path,
				Description: fmt.Sprintf("candidato descartado %s: %v", c, err),
			})
			continue
		}
		c.Tier = tier

		nr := norm(c.RawText)
		if !nr.Ok() {
			res.Notes = append(res.Notes, model.Observation{
				Kind:        model.ObservationNormalization,
				Severity:    model.SeverityInfo,
				Field:       leaf.Path,
				Description: fmt.Sprintf("candidato descartado %s: %s", c, nr.Note),
			})
			continue
		}
		byTier[c.Tier] = append(byTier[c.Tier], candidate{CandidateValue: c, result: nr})
	}

	tier := model.TierUserContext
	winners := byTier[model.TierUserContext]
	if len(winners) == 0 {
		tier = model.TierDocument
		winners = byTier[model.TierDocument]
	}

	if len(winners) == 0 {
		res.Value = schema.DefaultFor(leaf.Field)
		res.Defaulted = true
		res.Notes = append(res.Notes, model.Observation{
			Kind:        model.ObservationMissingData,
			Severity:    model.SeverityInfo,
			Field:       leaf.Path,
			Description: fmt.Sprintf("%s sem valor nas fontes; adotado %s", leaf.Label, display(res.Value)),
		})
		r.logger.Debug("field defaulted", zap.String("field", leaf.Path), zap.Int("candidates", len(raw)))
		return res, nil
	}

	res.Tier = tier
	for _, w := range winners {
		if w.Locator != "" {
			res.Locators = append(res.Locators, w.Locator)
		}
	}

	if leaf.Kind.IsList() {
		res.Value = union(winners)
	} else {
		res.Value = winners[0].result.Value
		if note, ok := conflict(leaf, tier, winners); ok {
			res.Notes = append(res.Notes, note)
		}
	}

	if tier == model.TierUserContext {
		if discarded := byTier[model.TierDocument]; len(discarded) > 0 && !sameValues(res.Value, discarded) {
			res.Notes = append(res.Notes, model.Observation{
				Kind:     model.ObservationSourceOverride,
				Severity: model.SeverityInfo,
				Field:    leaf.Path,
				Description: fmt.Sprintf("%s: contexto do usuário (%s) prevalece sobre o documento (%s)",
					leaf.Label, display(res.Value), displayAll(discarded)),
			})
		}
	}

	r.logger.Debug("field resolved",
		zap.String("field", leaf.Path),
		zap.String("tier", string(tier)),
		zap.Int("candidates", len(raw)))
	return res, nil
}

// normalizerFor binds a field kind to its normalizer
func (r *Resolver) normalizerFor(leaf schema.Leaf) (func(string) normalize.Result, error) {
	switch leaf.Kind {
	case schema.KindText:
		return normalize.Text, nil
	case schema.KindTextList:
		return normalize.TextList, nil
	case schema.KindDate:
		return normalize.Date, nil
	case schema.KindMoney:
		return normalize.Money, nil
	case schema.KindVocabulary, schema.KindVocabularyList:
		v, ok := r.tables.Vocabulary(leaf.Domain)
		if !ok {
			return nil, fmt.Errorf("field %s: no vocabulary %q", leaf.Path, leaf.Domain)
		}
		if leaf.Kind == schema.KindVocabularyList {
			return func(s string) normalize.Result { return normalize.VocabularyList(v, s) }, nil
		}
		return func(s string) normalize.Result { return normalize.Vocabulary(v, s) }, nil
	case schema.KindFlag:
		rule, ok := r.tables.Flag(leaf.Path)
		if !ok {
			// A flag without triggers still accepts explicit yes/no answers
			rule = reference.KeywordFlagRule{Flag: leaf.Path}
		}
		return func(s string) normalize.Result { return normalize.Flag(rule, s) }, nil
	default:
		return nil, fmt.Errorf("field %s: kind %s has no normalizer", leaf.Path, leaf.Kind)
	}
}

// keywordCandidates scans the full document text and the user context
// for a flag's triggers; each hit becomes a candidate in its own tier.
func (r *Resolver) keywordCandidates(leaf schema.Leaf, doc *model.Document) []model.CandidateValue {
	if leaf.Kind != schema.KindFlag {
		return nil
	}
	rule, ok := r.tables.Flag(leaf.Path)
	if !ok {
		return nil
	}

	var out []model.CandidateValue
	sources := []struct {
		text string
		tier model.SourceTier
	}{
		{doc.SourceText, model.TierDocument},
		{doc.ContextText, model.TierUserContext},
	}
	for _, src := range sources {
		if trigger, ok := normalize.Trigger(rule, src.text); ok {
			out = append(out, model.CandidateValue{
				Field:   leaf.Path,
				RawText: trigger,
				Tier:    src.tier,
				Locator: "keyword:" + trigger,
			})
		}
	}
	return out
}

// conflict reports winning candidates that disagree with the first one
func conflict(leaf schema.Leaf, tier model.SourceTier, winners []candidate) (model.Observation, bool) {
	first := key(winners[0].result.Value)
	var differing []string
	seen := map[string]bool{first: true}
	for _, w := range winners[1:] {
		k := key(w.result.Value)
		if seen[k] {
			continue
		}
		seen[k] = true
		differing = append(differing, display(w.result.Value))
	}
	if len(differing) == 0 {
		return model.Observation{}, false
	}

	source := "no documento"
	if tier == model.TierUserContext {
		source = "no contexto do usuário"
	}
	return model.Observation{
		Kind:     model.ObservationConflict,
		Severity: model.SeverityWarning,
		Field:    leaf.Path,
		Description: fmt.Sprintf("%s: valores divergentes %s (%s); adotado %s.",
			leaf.Label, source, strings.Join(differing, ", "), display(winners[0].result.Value)),
		Data: map[string]interface{}{"tier": string(tier), "candidates": len(winners)},
	}, true
}

// union merges list values in first-seen order
func union(winners []candidate) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, w := range winners {
		items, _ := w.result.Value.([]string)
		for _, it := range items {
			if !seen[it] {
				seen[it] = true
				out = append(out, it)
			}
		}
	}
	return out
}

func sameValues(v interface{}, cs []candidate) bool {
	if items, ok := v.([]string); ok {
		return key(items) == key(union(cs))
	}
	for _, c := range cs {
		if key(c.result.Value) != key(v) {
			return false
		}
	}
	return true
}

// key is a canonical comparison form of a normalized value
func key(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case model.Money:
		return x.String()
	case model.Date:
		return x.String()
	case []string:
		return strings.Join(x, "\x1f")
	default:
		return fmt.Sprint(x)
	}
}

// display renders a value for observation texts
func display(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "nulo"
	case model.Money:
		return x.BRL()
	case model.Date:
		return x.BR()
	case bool:
		if x {
			return "sim"
		}
		return "não"
	case []string:
		if len(x) == 0 {
			return "lista vazia"
		}
		return strings.Join(x, ", ")
	default:
		return fmt.Sprint(x)
	}
}

func displayAll(cs []candidate) string {
	seen := make(map[string]bool)
	var parts []string
	for _, c := range cs {
		k := key(c.result.Value)
		if !seen[k] {
			seen[k] = true
			parts = append(parts, display(c.result.Value))
		}
	}
	return strings.Join(parts, ", ")
}
