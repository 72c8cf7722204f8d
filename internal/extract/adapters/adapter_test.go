package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/jurisflow/internal/model"
)

func TestRegistry_FindAdapter(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		variant model.Variant
		want    string
	}{
		{model.VariantLabor, "labor"},
		{model.VariantSocialSecurity, "social-security"},
		{model.Variant("tax"), "generic"},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			assert.Equal(t, tt.want, registry.FindAdapter(tt.variant).Name())
		})
	}
}

func TestRegistry_ExtractLabor(t *testing.T) {
	doc := &model.Document{
		Variant: model.VariantLabor,
		SourceText: "DOS FATOS\n" +
			"Data de admissão: 10/01/2020\n" +
			"Salário base: R$ 2.000,00\n" +
			"Adicional noturno: R$ 300,00\n",
		ContextText: "Data de dispensa: 15/03/2023",
	}

	got, err := NewRegistry().Extract(doc)
	require.NoError(t, err)

	want := []model.CandidateValue{
		{Field: "data_admissao", RawText: "10/01/2020", Tier: model.TierDocument, Locator: "dos fatos#L2"},
		{Field: "salario_base", RawText: "R$ 2.000,00", Tier: model.TierDocument, Locator: "dos fatos#L3"},
		{Field: "adicionais.noturno", RawText: "R$ 300,00", Tier: model.TierDocument, Locator: "dos fatos#L4"},
		{Field: "data_dispensa", RawText: "15/03/2023", Tier: model.TierUserContext, Locator: "L1"},
	}
	assert.Equal(t, want, got)
}

func TestRegistry_ExtractSocialSecurityHTML(t *testing.T) {
	doc := &model.Document{
		Variant:    model.VariantSocialSecurity,
		SourceText: "<html><body><p>Renda mensal inicial: R$ 1.320,00</p><p>DIB: 01/06/2023</p></body></html>",
	}

	got, err := NewRegistry().Extract(doc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rmi", got[0].Field)
	assert.Equal(t, "R$ 1.320,00", got[0].RawText)
	assert.Equal(t, "dib", got[1].Field)
}

func TestRegistry_GenericAdapterUsesAllLabels(t *testing.T) {
	doc := &model.Document{
		Variant:    model.Variant("tax"),
		SourceText: "RMI: 1.320,00\nSalário base: 2.000,00",
	}

	got, err := NewRegistry().Extract(doc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rmi", got[0].Field)
	assert.Equal(t, "salario_base", got[1].Field)
}

func TestRegistry_EmptyDocument(t *testing.T) {
	got, err := NewRegistry().Extract(&model.Document{Variant: model.VariantLabor})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBaseAdapter_RulesAreCopies(t *testing.T) {
	a := NewLaborAdapter()
	rules := a.Rules()
	rules[0].Field = "changed"
	assert.NotEqual(t, "changed", a.Rules()[0].Field)
}
