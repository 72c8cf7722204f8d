package adapters

import (
	"github.com/ppiankov/jurisflow/internal/extract"
	"github.com/ppiankov/jurisflow/internal/model"
)

// LaborAdapter extracts labor-petition fields (reclamação trabalhista)
type LaborAdapter struct {
	BaseAdapter
}

// NewLaborAdapter creates a new labor adapter
func NewLaborAdapter() *LaborAdapter {
	return &LaborAdapter{BaseAdapter{
		name: "labor",
		rules: []extract.LabelRule{
			{Field: "data_admissao", Labels: []string{"data de admissão", "admissão", "admitido em", "admitida em", "data de contratação"}},
			{Field: "data_dispensa", Labels: []string{
				"data de dispensa", "data da dispensa", "data de demissão", "data da demissão",
				"dispensa", "demissão", "data de saída", "dispensado em", "dispensada em", "término do contrato",
			}},
			{Field: "salario_base", Labels: []string{"salário base", "salário-base", "último salário", "salário", "remuneração"}},
			{Field: "adicionais.insalubridade", Labels: []string{"adicional de insalubridade", "insalubridade"}},
			{Field: "adicionais.periculosidade", Labels: []string{"adicional de periculosidade", "periculosidade"}},
			{Field: "adicionais.noturno", Labels: []string{"adicional noturno"}},
			{Field: "verbas_requeridas", Labels: []string{"verbas requeridas", "verbas rescisórias", "pedidos", "verbas"}},
			{Field: "justificativa_demissao", Labels: []string{
				"justificativa da demissão", "justificativa", "motivo da dispensa", "motivo da demissão", "modalidade de dispensa",
			}},
			{Field: "multa_467_requerida", Labels: []string{"multa do art. 467", "multa do artigo 467", "multa 467"}},
			{Field: "multa_477_requerida", Labels: []string{"multa do art. 477", "multa do artigo 477", "multa 477"}},
		},
	}}
}

// CanHandle checks if this is a labor document
func (a *LaborAdapter) CanHandle(variant model.Variant) bool {
	return variant == model.VariantLabor
}
