package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/jurisflow/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_LoadDocumentYAML(t *testing.T) {
	path := writeFile(t, "processo-42.yaml", `
variant: social-security
source_text: |
  DIB: 01/06/2023
candidates:
  - field: rmi
    raw_text: "R$ 1.320,00"
    tier: document
    locator: p3
`)

	doc, err := NewLoader(0).LoadDocument(path)
	require.NoError(t, err)

	assert.Equal(t, "processo-42", doc.ID)
	assert.Equal(t, model.VariantSocialSecurity, doc.Variant)
	assert.Equal(t, "DIB: 01/06/2023\n", doc.SourceText)
	assert.Equal(t, []model.CandidateValue{
		{Field: "rmi", RawText: "R$ 1.320,00", Tier: model.TierDocument, Locator: "p3"},
	}, doc.Candidates)
}

func TestLoader_LoadBatch(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		ids     []string
	}{
		{
			name: "yaml list",
			file: "lote.yml",
			content: `
- id: a
  variant: labor
- variant: labor
`,
			ids: []string{"a", "lote#2"},
		},
		{
			name:    "json array",
			file:    "lote.json",
			content: `[{"id":"a","variant":"labor"},{"variant":"social-security"}]`,
			ids:     []string{"a", "lote#2"},
		},
		{
			name:    "json lines",
			file:    "lote.jsonl",
			content: "{\"variant\":\"labor\"}\n\n{\"id\":\"b\",\"variant\":\"labor\"}\n",
			ids:     []string{"lote#1", "b"},
		},
		{
			name:    "single json object",
			file:    "unico.json",
			content: `{"variant":"labor","candidates":[]}`,
			ids:     []string{"unico"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := NewLoader(0).LoadBatch(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			ids := make([]string, len(docs))
			for i, d := range docs {
				ids[i] = d.ID
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestLoader_Errors(t *testing.T) {
	loader := NewLoader(0)

	_, err := loader.LoadBatch(writeFile(t, "x.json", `{"variant":"labor","extra":1}`))
	assert.Error(t, err, "unknown JSON keys are rejected")

	_, err = loader.LoadBatch(writeFile(t, "x.yaml", "just text"))
	assert.Error(t, err)

	_, err = loader.LoadBatch(writeFile(t, "x.json", "   "))
	assert.Error(t, err)

	_, err = loader.LoadDocument(writeFile(t, "x.json", `[{"variant":"labor"},{"variant":"labor"}]`))
	assert.Error(t, err, "a single-document load rejects a batch")

	_, err = loader.LoadBatch(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = NewLoader(8).LoadBatch(writeFile(t, "big.json", `{"variant":"labor"}`))
	assert.Error(t, err, "file over the size limit")
}

func TestLoader_LoadText(t *testing.T) {
	source := writeFile(t, "peticao.txt", "Data de admissão: 10/01/2020")
	notes := writeFile(t, "notas.txt", "Data de dispensa: 15/03/2023")

	doc, err := NewLoader(0).LoadText(model.VariantLabor, source, notes)
	require.NoError(t, err)

	assert.Equal(t, "peticao", doc.ID)
	assert.Equal(t, model.VariantLabor, doc.Variant)
	assert.Equal(t, "Data de admissão: 10/01/2020", doc.SourceText)
	assert.Equal(t, "Data de dispensa: 15/03/2023", doc.ContextText)

	doc, err = NewLoader(0).LoadText(model.VariantLabor, source, "")
	require.NoError(t, err)
	assert.Empty(t, doc.ContextText)
}
