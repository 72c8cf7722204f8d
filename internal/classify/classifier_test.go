package classify

import (
	"testing"
	"time"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) *model.Money {
	m := model.MustMoney(s)
	return &m
}

func date(y int, m time.Month, d int) *model.Date {
	v := model.MustDate(y, m, d)
	return &v
}

func newClassifier() *Classifier {
	return New(reference.Default(), DefaultTolerance)
}

func TestClassify_ScenarioA(t *testing.T) {
	res, ok := newClassifier().Classify(Input{
		Field:         "rmi",
		Label:         "RMI",
		Value:         money("1320.00"),
		ReferenceDate: date(2023, time.June, 1),
		Benefit:       "Aposentadoria por Invalidez",
	})
	require.True(t, ok)

	assert.Equal(t, Dynamic, res.Class)
	require.NotNil(t, res.Period)
	assert.Equal(t, "mai/2023 a dez/2023", res.Period.Label())
	assert.Equal(t,
		"RMI de R$ 1.320,00 corresponde ao salário mínimo vigente de mai/2023 a dez/2023 (R$ 1.320,00): valor dinâmico, indexado ao salário mínimo.",
		res.Annotation)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, model.ObservationMinimumWageLink, res.Notes[0].Kind)
	assert.True(t, res.Notes[0].Recorded())
}

func TestClassify_ToleranceBoundary(t *testing.T) {
	at := date(2024, time.March, 10) // 1412.00 in force

	tests := []struct {
		value string
		want  Class
	}{
		{"1412.00", Dynamic},
		{"1422.00", Dynamic},
		{"1402.00", Dynamic},
		{"1422.01", Fixed},
		{"1401.99", Fixed},
		{"2500.00", Fixed},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			res, ok := newClassifier().Classify(Input{Field: "rmi", Value: money(tt.value), ReferenceDate: at})
			require.True(t, ok)
			assert.Equal(t, tt.want, res.Class)
			if tt.want == Fixed {
				assert.Empty(t, res.Annotation)
			}
		})
	}
}

func TestClassify_DateOutsideTable(t *testing.T) {
	res, ok := newClassifier().Classify(Input{Field: "rmi", Value: money("998.00"), ReferenceDate: date(2010, time.January, 1)})
	require.True(t, ok)
	assert.Equal(t, Fixed, res.Class)
	assert.Empty(t, res.Annotation)
	assert.Empty(t, res.Notes)
}

func TestClassify_CrossPeriodCollision(t *testing.T) {
	// 1310.00 is within 10.00 of both 1320.00 (in force) and 1302.00
	res, ok := newClassifier().Classify(Input{Field: "rmi", Label: "RMI", Value: money("1310.00"), ReferenceDate: date(2023, time.June, 1)})
	require.True(t, ok)

	assert.Equal(t, Dynamic, res.Class, "the date-driven period decides")
	assert.Equal(t, "mai/2023 a dez/2023", res.Period.Label())
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "1302.00", res.Candidates[0].Amount.String())

	var kinds []model.ObservationKind
	for _, n := range res.Notes {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []model.ObservationKind{model.ObservationMinimumWageLink, model.ObservationAmbiguous}, kinds)
}

func TestClassify_FixedMatchingOtherPeriod(t *testing.T) {
	// 1302.00 was the wage until abr/2023, not in jun/2023
	res, ok := newClassifier().Classify(Input{Field: "rmi", Label: "RMI", Value: money("1302.00"), ReferenceDate: date(2023, time.June, 1)})
	require.True(t, ok)

	assert.Equal(t, Fixed, res.Class)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, model.ObservationAmbiguous, res.Notes[0].Kind)
	assert.Contains(t, res.Notes[0].Description, "jan/2023 a abr/2023")
}

func TestClassify_AssistanceWithoutValue(t *testing.T) {
	res, ok := newClassifier().Classify(Input{Field: "rmi", Label: "RMI", Benefit: "BPC-LOAS"})
	require.True(t, ok)

	assert.Equal(t, Dynamic, res.Class)
	assert.Equal(t, "BPC-LOAS é benefício assistencial vinculado ao salário mínimo; RMI não informada.", res.Annotation)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, model.ObservationMinimumWageLink, res.Notes[0].Kind)
}

func TestClassify_AssistanceIgnoresTolerance(t *testing.T) {
	res, ok := newClassifier().Classify(Input{
		Field:         "rmi",
		Label:         "RMI",
		Value:         money("900.00"),
		ReferenceDate: date(2024, time.January, 5),
		Benefit:       "BPC-LOAS",
	})
	require.True(t, ok)
	assert.Equal(t, Dynamic, res.Class)
	assert.Contains(t, res.Annotation, "vigente de jan/2024 a dez/2024")
}

func TestClassify_NothingToClassify(t *testing.T) {
	_, ok := newClassifier().Classify(Input{Field: "rmi", ReferenceDate: date(2023, time.June, 1)})
	assert.False(t, ok)
}

func TestClassify_NoReferenceDate(t *testing.T) {
	res, ok := newClassifier().Classify(Input{Field: "rmi", Label: "RMI", Value: money("1415.00")})
	require.True(t, ok)
	assert.Equal(t, Ambiguous, res.Class)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "1412.00", res.Candidates[0].Amount.String())
	assert.Contains(t, res.Annotation, "data de referência não foi informada")

	res, ok = newClassifier().Classify(Input{Field: "rmi", Value: money("3000.00")})
	require.True(t, ok)
	assert.Equal(t, Fixed, res.Class)
	assert.Empty(t, res.Notes)
}

func TestClassify_ZeroTolerance(t *testing.T) {
	c := New(reference.Default(), model.MustMoney("0"))

	res, _ := c.Classify(Input{Field: "rmi", Value: money("1412.00"), ReferenceDate: date(2024, time.May, 1)})
	assert.Equal(t, Dynamic, res.Class)

	res, _ = c.Classify(Input{Field: "rmi", Value: money("1412.01"), ReferenceDate: date(2024, time.May, 1)})
	assert.Equal(t, Fixed, res.Class)
}

func TestCheckRange(t *testing.T) {
	c := newClassifier()
	at := date(2024, time.March, 1)

	tests := []struct {
		name    string
		value   string
		benefit string
		limits  []string
	}{
		{"inside", "3000.00", "Aposentadoria por Idade", nil},
		{"floor band", "1405.00", "Aposentadoria por Idade", nil},
		{"below floor", "1000.00", "Aposentadoria por Idade", []string{"floor"}},
		{"above ceiling", "9000.00", "Aposentadoria por Idade", []string{"ceiling"}},
		{"exempt from floor", "700.00", "Auxílio-Acidente", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := c.CheckRange(Input{Field: "rmi", Label: "RMI", Value: money(tt.value), ReferenceDate: at, Benefit: tt.benefit})
			var limits []string
			for _, o := range obs {
				assert.Equal(t, model.ObservationRangeCheck, o.Kind)
				limits = append(limits, o.Data["limit"].(string))
			}
			assert.Equal(t, tt.limits, limits)
		})
	}

	assert.Nil(t, c.CheckRange(Input{Field: "rmi", Value: money("1.00")}))
}
