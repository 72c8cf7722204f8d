package resolve

import (
	"context"
	"testing"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/reference"
	"github.com/ppiankov/jurisflow/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveDoc(t *testing.T, doc *model.Document) map[string]Resolution {
	t.Helper()
	s, err := schema.ForVariant(doc.Variant)
	require.NoError(t, err)

	out, err := New(reference.Default()).Resolve(context.Background(), s, doc)
	require.NoError(t, err)
	require.Len(t, out, len(s.Leaves()))

	byPath := make(map[string]Resolution, len(out))
	for _, r := range out {
		byPath[r.Path] = r
	}
	return byPath
}

func notesOf(r Resolution, kind model.ObservationKind) []model.Observation {
	var out []model.Observation
	for _, n := range r.Notes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func TestResolve_UserContextWins(t *testing.T) {
	res := resolveDoc(t, &model.Document{
		Variant: model.VariantSocialSecurity,
		Candidates: []model.CandidateValue{
			{Field: "rmi", RawText: "1.850,00", Tier: model.TierDocument, Locator: "p.3"},
			{Field: "rmi", RawText: "RMI atual: 1.500,00", Tier: model.TierUserContext},
		},
	})

	rmi := res["rmi"]
	require.IsType(t, model.Money{}, rmi.Value)
	assert.Equal(t, "1500.00", rmi.Value.(model.Money).String())
	assert.Equal(t, model.TierUserContext, rmi.Tier)
	assert.False(t, rmi.Defaulted)

	override := notesOf(rmi, model.ObservationSourceOverride)
	require.Len(t, override, 1)
	assert.False(t, override[0].Recorded())
	assert.Contains(t, override[0].Description, "R$ 1.850,00")
}

func TestResolve_InvalidContextFallsBackToDocument(t *testing.T) {
	res := resolveDoc(t, &model.Document{
		Variant: model.VariantSocialSecurity,
		Candidates: []model.CandidateValue{
			{Field: "dib", RawText: "15/06/2021", Tier: model.TierDocument},
			{Field: "dib", RawText: "junho de 2021", Tier: model.TierUserContext},
		},
	})

	dib := res["dib"]
	assert.Equal(t, "2021-06-15", dib.Value.(model.Date).String())
	assert.Equal(t, model.TierDocument, dib.Tier)
	require.Len(t, notesOf(dib, model.ObservationNormalization), 1)
}

func TestResolve_DocumentConflict(t *testing.T) {
	res := resolveDoc(t, &model.Document{
		Variant: model.VariantSocialSecurity,
		Candidates: []model.CandidateValue{
			{Field: "rmi", RawText: "R$ 1.850,00", Tier: model.TierDocument, Locator: "p.2"},
			{Field: "rmi", RawText: "R$ 1.850,00", Tier: model.TierDocument, Locator: "p.5"},
			{Field: "rmi", RawText: "R$ 1.900,00", Tier: model.TierDocument, Locator: "p.7"},
		},
	})

	rmi := res["rmi"]
	assert.Equal(t, "1850.00", rmi.Value.(model.Money).String())
	assert.Equal(t, []string{"p.2", "p.5", "p.7"}, rmi.Locators)

	conflicts := notesOf(rmi, model.ObservationConflict)
	require.Len(t, conflicts, 1)
	assert.True(t, conflicts[0].Recorded())
	assert.Equal(t, "RMI: valores divergentes no documento (R$ 1.900,00); adotado R$ 1.850,00.", conflicts[0].Description)
}

func TestResolve_Defaults(t *testing.T) {
	res := resolveDoc(t, &model.Document{Variant: model.VariantSocialSecurity})

	assert.Nil(t, res["rmi"].Value)
	assert.Nil(t, res["dib"].Value)
	assert.Nil(t, res["tipo_beneficio"].Value)
	assert.Equal(t, false, res["tem_adicional_25"].Value)
	assert.Equal(t, "SELIC", res["indice_correcao"].Value)
	assert.Equal(t, []string{}, res["observacoes"].Value)

	for path, r := range res {
		assert.True(t, r.Defaulted, path)
		missing := notesOf(r, model.ObservationMissingData)
		require.Len(t, missing, 1, path)
		assert.False(t, missing[0].Recorded())
	}
}

func TestResolve_ListUnionOfWinningTier(t *testing.T) {
	res := resolveDoc(t, &model.Document{
		Variant: model.VariantLabor,
		Candidates: []model.CandidateValue{
			{Field: "verbas_requeridas", RawText: "aviso prévio e FGTS", Tier: model.TierDocument},
			{Field: "verbas_requeridas", RawText: "multa de 40%, FGTS", Tier: model.TierDocument},
			{Field: "verbas_requeridas", RawText: "décimo terceiro", Tier: model.TierDocument},
		},
	})
	assert.Equal(t, []string{"aviso_previo", "fgts", "multa_40", "decimo_terceiro"}, res["verbas_requeridas"].Value)

	res = resolveDoc(t, &model.Document{
		Variant: model.VariantLabor,
		Candidates: []model.CandidateValue{
			{Field: "verbas_requeridas", RawText: "aviso prévio e FGTS", Tier: model.TierDocument},
			{Field: "verbas_requeridas", RawText: "saldo de salário", Tier: model.TierUserContext},
		},
	})
	assert.Equal(t, []string{"saldo_salario"}, res["verbas_requeridas"].Value)
}

func TestResolve_FlagKeywordScan(t *testing.T) {
	res := resolveDoc(t, &model.Document{
		Variant:    model.VariantSocialSecurity,
		SourceText: "O perito atesta a necessidade de assistência permanente de terceiros.",
	})

	flag := res["tem_adicional_25"]
	assert.Equal(t, true, flag.Value)
	assert.Equal(t, model.TierDocument, flag.Tier)
	assert.Equal(t, []string{"keyword:assistência permanente"}, flag.Locators)
}

func TestResolve_FlagExplicitContextAnswer(t *testing.T) {
	res := resolveDoc(t, &model.Document{
		Variant:    model.VariantLabor,
		SourceText: "Requer a multa do art. 477 da CLT.",
		Candidates: []model.CandidateValue{
			{Field: "multa_477_requerida", RawText: "não", Tier: model.TierUserContext},
		},
	})
	assert.Equal(t, false, res["multa_477_requerida"].Value)
	assert.Equal(t, false, res["multa_467_requerida"].Value)
}

func TestResolve_ContextTextTriggersFlag(t *testing.T) {
	res := resolveDoc(t, &model.Document{
		Variant:     model.VariantLabor,
		ContextText: "cliente quer cobrar a multa do 467",
	})
	flag := res["multa_467_requerida"]
	assert.Equal(t, true, flag.Value)
	assert.Equal(t, model.TierUserContext, flag.Tier)
}

func TestResolve_PluralArticlesSetBothFines(t *testing.T) {
	res := resolveDoc(t, &model.Document{
		Variant:    model.VariantLabor,
		SourceText: "Requer a condenação da reclamada nas multas dos arts. 467 e 477 da CLT.",
	})
	assert.Equal(t, true, res["multa_467_requerida"].Value)
	assert.Equal(t, true, res["multa_477_requerida"].Value)
}

func TestResolve_NestedObjectLeaves(t *testing.T) {
	res := resolveDoc(t, &model.Document{
		Variant: model.VariantLabor,
		Candidates: []model.CandidateValue{
			{Field: "adicionais.noturno", RawText: "R$ 320,50", Tier: model.TierDocument},
		},
	})
	assert.Equal(t, "320.50", res["adicionais.noturno"].Value.(model.Money).String())
	assert.Nil(t, res["adicionais.insalubridade"].Value)
}

func TestResolve_UnknownTierDiscarded(t *testing.T) {
	res := resolveDoc(t, &model.Document{
		Variant: model.VariantSocialSecurity,
		Candidates: []model.CandidateValue{
			{Field: "nome_segurado", RawText: "Maria", Tier: "oracle"},
			{Field: "nome_segurado", RawText: "José  da Silva", Tier: ""},
		},
	})
	nome := res["nome_segurado"]
	assert.Equal(t, "José da Silva", nome.Value)
	assert.Equal(t, model.TierDocument, nome.Tier)
	assert.Len(t, notesOf(nome, model.ObservationNormalization), 1)
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(reference.Default()).Resolve(ctx, schema.SocialSecurity(), &model.Document{Variant: model.VariantSocialSecurity})
	assert.ErrorIs(t, err, context.Canceled)
}
