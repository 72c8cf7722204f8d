package llm

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/reference"
	"github.com/ppiankov/jurisflow/internal/schema"
)

func TestFieldHints(t *testing.T) {
	hints := FieldHints(schema.SocialSecurity(), reference.Default())

	paths := make([]string, len(hints))
	for i, h := range hints {
		paths[i] = h.Path
	}
	assert.NotContains(t, paths, schema.ObservationsField)
	assert.Contains(t, paths, "rmi")

	for _, h := range hints {
		if h.Path == "tipo_beneficio" {
			assert.Contains(t, h.Terms, "BPC-LOAS")
			assert.Equal(t, "um dos termos", h.Kind)
		}
	}

	labor := FieldHints(schema.Labor(), reference.Default())
	var noturno bool
	for _, h := range labor {
		if h.Path == "adicionais.noturno" {
			noturno = true
		}
	}
	assert.True(t, noturno, "nested leaves are requested by dotted path")
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(rmiRequest)

	assert.Contains(t, prompt, "Não invente valores")
	assert.Contains(t, prompt, "- rmi (RMI, valor em reais)")
	assert.Contains(t, prompt, "R$ 1.320,00")
	assert.Contains(t, prompt, "CONTEXTO DO USUÁRIO")

	noContext := rmiRequest
	noContext.ContextText = ""
	assert.NotContains(t, BuildPrompt(noContext), "CONTEXTO DO USUÁRIO")
}

func TestParseCandidates(t *testing.T) {
	got, err := parseCandidates("Segue:\n```json\n{\"candidates\":[{\"field\":\"rmi\",\"raw_text\":\"1.320,00\",\"tier\":\"document\"}]}\n```")
	require.NoError(t, err)
	assert.Equal(t, []rawCandidate{{Field: "rmi", RawText: "1.320,00", Tier: "document"}}, got)

	_, err = parseCandidates("nada")
	assert.Error(t, err)

	_, err = parseCandidates("{\"candidates\": 3}")
	assert.Error(t, err)
}

func TestToCandidates(t *testing.T) {
	found := []rawCandidate{
		{Field: "rmi", RawText: " R$ 1.320,00 ", Tier: "DOCUMENT"},
		{Field: "rmi", RawText: "1.500,00", Tier: "user_context"},
		{Field: "dib", RawText: "", Tier: "document"},
		{Field: "dib", RawText: "01/06/2023", Tier: "email"},
		{Field: "dip", RawText: "01/07/2023", Tier: "document"},
	}

	got, err := toCandidates(rmiRequest, found, true, "llm:test")
	require.NoError(t, err)
	assert.Equal(t, []model.CandidateValue{
		{Field: "rmi", RawText: "R$ 1.320,00", Tier: model.TierDocument, Locator: "llm:test"},
		{Field: "rmi", RawText: "1.500,00", Tier: model.TierUserContext, Locator: "llm:test"},
	}, got)
}

func TestToCandidates_StrictChecksTheRightTier(t *testing.T) {
	// 1.500,00 is only in the user context
	found := []rawCandidate{{Field: "rmi", RawText: "1.500,00", Tier: "document"}}

	_, err := toCandidates(rmiRequest, found, true, "llm:test")
	assert.True(t, errors.Is(err, ErrCandidateLeak))
}

func TestContainsVerbatim(t *testing.T) {
	assert.True(t, containsVerbatim("fixada em\nR$ 1.320,00, com", "em R$ 1.320,00"))
	assert.False(t, containsVerbatim("R$ 1.320,00", "R$ 1320,00"))
}

func TestProxyFunc(t *testing.T) {
	fn := proxyFunc("http://proxy.local:3128", "", "localhost,.interno")

	get := func(raw string) *url.URL {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		p, err := fn(&http.Request{URL: u})
		require.NoError(t, err)
		return p
	}

	p := get("https://api.openai.com/v1/chat/completions")
	require.NotNil(t, p)
	assert.Equal(t, "proxy.local:3128", p.Host)

	assert.Nil(t, get("http://ollama.interno:11434/api/generate"))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider(Config{Provider: "Ollama", Model: "llama3.1"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	_, err = NewProvider(Config{Provider: "anthropic"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "supported"))
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.DefaultConfig().LLM)
	assert.True(t, cfg.StrictCandidates)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}
