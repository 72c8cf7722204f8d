package adapters

import (
	"github.com/ppiankov/jurisflow/internal/extract"
	"github.com/ppiankov/jurisflow/internal/model"
)

// SocialSecurityAdapter extracts INSS judicial record fields
type SocialSecurityAdapter struct {
	BaseAdapter
}

// NewSocialSecurityAdapter creates a new social-security adapter
func NewSocialSecurityAdapter() *SocialSecurityAdapter {
	return &SocialSecurityAdapter{BaseAdapter{
		name: "social-security",
		rules: []extract.LabelRule{
			{Field: "nome_segurado", Labels: []string{"nome do segurado", "nome da segurada", "segurado", "segurada", "autor", "autora", "requerente"}},
			{Field: "tipo_beneficio", Labels: []string{"tipo de benefício", "espécie do benefício", "espécie", "benefício"}},
			{Field: "dib", Labels: []string{"DIB", "data de início do benefício", "data do início do benefício"}},
			{Field: "dip", Labels: []string{"DIP", "data de início do pagamento", "data do início do pagamento"}},
			{Field: "rmi", Labels: []string{"RMI", "RMI atual", "renda mensal inicial", "renda mensal atual", "valor do benefício"}},
			{Field: "tem_adicional_25", Labels: []string{"adicional de 25%", "acréscimo de 25%", "grande invalidez"}},
			{Field: "indice_correcao", Labels: []string{"índice de correção", "índice de correção monetária", "correção monetária", "indexador"}},
		},
	}}
}

// CanHandle checks if this is a social-security document
func (a *SocialSecurityAdapter) CanHandle(variant model.Variant) bool {
	return variant == model.VariantSocialSecurity
}
