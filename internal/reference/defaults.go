package reference

import (
	"sync"
	"time"

	"github.com/ppiankov/jurisflow/internal/model"
)

// DefaultVersion names the built-in table revision
const DefaultVersion = "2025.1"

func period(amount string, from, to model.Date) Period {
	return Period{Amount: model.MustMoney(amount), From: from, To: &to}
}

func day(y int, m time.Month, d int) model.Date { return model.MustDate(y, m, d) }

// DefaultFile returns the built-in reference data.
// Amounts are the federal minimum wage and the INSS benefit ceiling as
// published in the Diário Oficial for each competence.
func DefaultFile() File {
	return File{
		Version: DefaultVersion,
		MinimumWage: []Period{
			period("998.00", day(2019, 1, 1), day(2019, 12, 31)),
			period("1039.00", day(2020, 1, 1), day(2020, 1, 31)),
			period("1045.00", day(2020, 2, 1), day(2020, 12, 31)),
			period("1100.00", day(2021, 1, 1), day(2021, 12, 31)),
			period("1212.00", day(2022, 1, 1), day(2022, 12, 31)),
			period("1302.00", day(2023, 1, 1), day(2023, 4, 30)),
			period("1320.00", day(2023, 5, 1), day(2023, 12, 31)),
			period("1412.00", day(2024, 1, 1), day(2024, 12, 31)),
			period("1518.00", day(2025, 1, 1), day(2025, 12, 31)),
		},
		Ceiling: []Period{
			period("5839.45", day(2019, 1, 1), day(2019, 12, 31)),
			period("6101.06", day(2020, 1, 1), day(2020, 12, 31)),
			period("6433.57", day(2021, 1, 1), day(2021, 12, 31)),
			period("7087.22", day(2022, 1, 1), day(2022, 12, 31)),
			period("7507.49", day(2023, 1, 1), day(2023, 4, 30)),
			period("7786.02", day(2023, 5, 1), day(2023, 12, 31)),
			period("7786.02", day(2024, 1, 1), day(2024, 12, 31)),
			period("8157.41", day(2025, 1, 1), day(2025, 12, 31)),
		},
		Vocabularies: []VocabularySpec{
			{
				Domain: DomainBenefit,
				Terms: []string{
					"Aposentadoria por Invalidez",
					"Aposentadoria por Idade",
					"Aposentadoria por Tempo de Contribuição",
					"Aposentadoria Especial",
					"Auxílio-Doença",
					"Auxílio-Acidente",
					"Pensão por Morte",
					"Salário-Maternidade",
					"BPC-LOAS",
				},
				Synonyms: map[string][]string{
					"Aposentadoria por Invalidez": {
						"aposentadoria por incapacidade permanente",
						"art. 42 da Lei 8.213",
						"artigo 42 da Lei 8.213",
					},
					"Aposentadoria por Idade": {
						"aposentadoria por idade rural",
						"aposentadoria por idade urbana",
						"aposentadoria por idade híbrida",
						"art. 48 da Lei 8.213",
						"artigo 48 da Lei 8.213",
					},
					"Aposentadoria por Tempo de Contribuição": {
						"aposentadoria por tempo de serviço",
						"art. 52 da Lei 8.213",
						"artigo 52 da Lei 8.213",
					},
					"Aposentadoria Especial": {
						"art. 57 da Lei 8.213",
						"artigo 57 da Lei 8.213",
					},
					"Auxílio-Doença": {
						"auxílio por incapacidade temporária",
						"benefício por incapacidade temporária",
						"art. 59 da Lei 8.213",
						"artigo 59 da Lei 8.213",
					},
					"Auxílio-Acidente": {
						"art. 86 da Lei 8.213",
						"artigo 86 da Lei 8.213",
					},
					"Pensão por Morte": {
						"art. 74 da Lei 8.213",
						"artigo 74 da Lei 8.213",
					},
					"Salário-Maternidade": {
						"art. 71 da Lei 8.213",
						"artigo 71 da Lei 8.213",
					},
					"BPC-LOAS": {
						"BPC",
						"LOAS",
						"benefício de prestação continuada",
						"amparo assistencial",
						"benefício assistencial",
						"art. 20 da Lei 8.742",
						"artigo 20 da Lei 8.742",
					},
				},
			},
			{
				Domain: DomainCorrectionIndex,
				Terms:  []string{"SELIC", "INPC", "IPCA-E", "TR"},
				Synonyms: map[string][]string{
					"SELIC":  {"taxa SELIC", "EC 113", "Emenda Constitucional 113"},
					"INPC":   {"Tema 905"},
					"IPCA-E": {"IPCAE", "IPCA especial"},
					"TR":     {"taxa referencial"},
				},
			},
			{
				Domain: DomainSeverance,
				Terms: []string{
					"saldo_salario",
					"aviso_previo",
					"fgts",
					"multa_40",
					"ferias_proporcionais",
					"decimo_terceiro",
				},
				Synonyms: map[string][]string{
					"saldo_salario": {"saldo de salário", "saldo salarial", "saldo salário"},
					"aviso_previo": {
						"aviso prévio",
						"aviso prévio indenizado",
						"aviso prévio proporcional",
						"art. 487 da CLT",
						"Lei 12.506",
					},
					"fgts": {
						"FGTS",
						"fundo de garantia",
						"depósitos do FGTS",
						"depósitos fundiários",
					},
					"multa_40": {
						"multa de 40%",
						"multa de 40% do FGTS",
						"multa de 40% sobre o FGTS",
						"multa de 40% sobre os depósitos do FGTS",
						"multa rescisória de 40%",
						"multa fundiária",
						"indenização de 40%",
					},
					"ferias_proporcionais": {
						"férias proporcionais",
						"férias proporcionais acrescidas de 1/3",
						"férias proporcionais + 1/3",
					},
					"decimo_terceiro": {
						"décimo terceiro",
						"décimo terceiro salário",
						"13º salário",
						"13º proporcional",
						"gratificação natalina",
						"Lei 4.090",
					},
				},
			},
		},
		Flags: []KeywordFlagRule{
			{
				Flag: "tem_adicional_25",
				Triggers: []string{
					"grande invalidez",
					"adicional de 25%",
					"acréscimo de 25%",
					"assistência permanente",
					"art. 45 da Lei 8.213",
				},
			},
			{
				Flag:     "multa_467_requerida",
				Triggers: []string{
					"art. 467", "artigo 467", "arts. 467", "artigos 467",
					"467 e 477", "477 e 467",
					"multa do 467", "multa prevista no 467",
				},
			},
			{
				Flag:     "multa_477_requerida",
				Triggers: []string{
					"art. 477", "artigo 477", "arts. 477", "artigos 477",
					"467 e 477", "477 e 467",
					"multa do 477", "multa prevista no 477",
				},
			},
		},
		AssistanceBenefits: []string{"BPC-LOAS"},
	}
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the shared built-in tables. The built-in data is known
// to be valid, so a build failure is a programming error.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Build(DefaultFile())
		if err != nil {
			panic("reference: built-in tables are invalid: " + err.Error())
		}
		defaultTables = t
	})
	return defaultTables
}
