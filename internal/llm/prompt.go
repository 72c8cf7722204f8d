package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/reference"
	"github.com/ppiankov/jurisflow/internal/schema"
)

const systemPrompt = "Você extrai valores literais de documentos jurídicos brasileiros. Nunca invente, calcule ou converta valores."

var kindWords = map[schema.Kind]string{
	schema.KindText:           "texto",
	schema.KindDate:           "data",
	schema.KindMoney:          "valor em reais",
	schema.KindVocabulary:     "um dos termos",
	schema.KindVocabularyList: "lista de termos",
	schema.KindFlag:           "sim ou não",
	schema.KindTextList:       "lista de textos",
}

// FieldHints lists the extractable leaves of a schema. The observations
// list is never requested.
func FieldHints(s *schema.Schema, tables *reference.Tables) []FieldHint {
	var out []FieldHint
	for _, leaf := range s.Leaves() {
		if leaf.Path == schema.ObservationsField {
			continue
		}
		hint := FieldHint{Path: leaf.Path, Label: leaf.Label, Kind: kindWords[leaf.Kind]}
		if leaf.Domain != "" {
			if v, ok := tables.Vocabulary(leaf.Domain); ok {
				hint.Terms = v.Terms()
			}
		}
		out = append(out, hint)
	}
	return out
}

// BuildPrompt constructs the default extraction prompt
func BuildPrompt(req ExtractRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Extraia valores de campos de um documento jurídico (%s).

REGRAS OBRIGATÓRIAS:
1. Copie cada valor exatamente como aparece no texto, em raw_text. Não calcule, não converta, não resuma.
2. Não invente valores. Se um campo não aparece no texto, omita-o.
3. Use somente os campos listados.
4. tier é "document" para valores do DOCUMENTO e "user_context" para valores do CONTEXTO DO USUÁRIO.

CAMPOS:
`, req.Variant)

	for _, f := range req.Fields {
		fmt.Fprintf(&b, "- %s (%s, %s)", f.Path, f.Label, f.Kind)
		if len(f.Terms) > 0 {
			fmt.Fprintf(&b, ": %s", strings.Join(f.Terms, "; "))
		}
		b.WriteString("\n")
	}

	b.WriteString(`
Responda somente com JSON no formato:
{"candidates":[{"field":"<campo>","raw_text":"<texto literal>","tier":"document"}]}

DOCUMENTO:
<<<
`)
	b.WriteString(req.SourceText)
	b.WriteString("\n>>>\n")

	if req.ContextText != "" {
		b.WriteString("\nCONTEXTO DO USUÁRIO:\n<<<\n")
		b.WriteString(req.ContextText)
		b.WriteString("\n>>>\n")
	}

	return b.String()
}

type rawCandidate struct {
	Field   string `json:"field"`
	RawText string `json:"raw_text"`
	Tier    string `json:"tier"`
}

// parseCandidates reads the JSON object out of a model reply. Models
// often wrap it in a code fence or a sentence.
func parseCandidates(content string) ([]rawCandidate, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var payload struct {
		Candidates []rawCandidate `json:"candidates"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("parse candidates: %w", err)
	}
	return payload.Candidates, nil
}

// toCandidates keeps the proposals for requested fields with a known
// tier. In strict mode a raw text missing from the text of its tier
// rejects the whole response.
func toCandidates(req ExtractRequest, found []rawCandidate, strict bool, locator string) ([]model.CandidateValue, error) {
	fields := make(map[string]bool, len(req.Fields))
	for _, f := range req.Fields {
		fields[f.Path] = true
	}

	var out []model.CandidateValue
	for _, rc := range found {
		raw := strings.TrimSpace(rc.RawText)
		if !fields[rc.Field] || raw == "" {
			continue
		}
		tier, err := model.ParseSourceTier(rc.Tier)
		if err != nil {
			continue
		}

		c := model.CandidateValue{Field: rc.Field, RawText: raw, Tier: tier, Locator: locator}

		if strict {
			source := req.SourceText
			if tier == model.TierUserContext {
				source = req.ContextText
			}
			if !containsVerbatim(source, raw) {
				return nil, fmt.Errorf("%w: %s", ErrCandidateLeak, c)
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// containsVerbatim compares with whitespace collapsed so line breaks in
// the source do not count as differences.
func containsVerbatim(text, raw string) bool {
	return strings.Contains(strings.Join(strings.Fields(text), " "), strings.Join(strings.Fields(raw), " "))
}
