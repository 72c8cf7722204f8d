package validate

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/jurisflow/internal/classify"
	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/reference"
	"github.com/ppiankov/jurisflow/internal/resolve"
	"github.com/ppiankov/jurisflow/internal/schema"
)

func assemble(t *testing.T, doc *model.Document) (*Assembly, error) {
	t.Helper()
	s, err := schema.ForVariant(doc.Variant)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	tables := reference.Default()
	res, err := resolve.New(tables).Resolve(context.Background(), s, doc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	a := NewAssembler(s, tables, classify.New(tables, classify.DefaultTolerance))
	return a.Assemble(res)
}

func mustAssemble(t *testing.T, doc *model.Document) *Assembly {
	t.Helper()
	out, err := assemble(t, doc)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return out
}

func TestAssemble_ScenarioA_DynamicRMI(t *testing.T) {
	out := mustAssemble(t, &model.Document{
		Variant: model.VariantSocialSecurity,
		Candidates: []model.CandidateValue{
			{Field: "tipo_beneficio", RawText: "aposentadoria por incapacidade permanente", Tier: model.TierDocument},
			{Field: "rmi", RawText: "R$ 1.320,00", Tier: model.TierDocument},
			{Field: "dib", RawText: "01/06/2023", Tier: model.TierDocument},
		},
	})

	rmi, _ := out.Record.Get("rmi")
	if got := rmi.(model.Money).String(); got != "1320.00" {
		t.Errorf("rmi: expected 1320.00, got %s", got)
	}

	want := []string{
		"RMI de R$ 1.320,00 corresponde ao salário mínimo vigente de mai/2023 a dez/2023 (R$ 1.320,00): valor dinâmico, indexado ao salário mínimo.",
	}
	if diff := cmp.Diff(want, out.Record.Strings("observacoes")); diff != "" {
		t.Errorf("observacoes mismatch (-want +got):\n%s", diff)
	}

	if len(out.Classifications) != 1 || out.Classifications[0].Class != classify.Dynamic {
		t.Errorf("expected one DYNAMIC classification, got %+v", out.Classifications)
	}
}

func TestAssemble_ScenarioB_MissingAdmissionDate(t *testing.T) {
	out := mustAssemble(t, &model.Document{
		Variant: model.VariantLabor,
		Candidates: []model.CandidateValue{
			{Field: "data_dispensa", RawText: "10/01/2024", Tier: model.TierDocument},
			{Field: "salario_base", RawText: "R$ 2.500,00", Tier: model.TierDocument},
		},
	})

	v, ok := out.Record.Get("data_admissao")
	if !ok {
		t.Fatal("data_admissao key missing")
	}
	if v != nil {
		t.Errorf("data_admissao: expected null, got %v", v)
	}
	if obs := out.Record.Strings("observacoes"); len(obs) != 0 {
		t.Errorf("missing data must not reach observacoes, got %v", obs)
	}

	var missing int
	for _, o := range out.Observations {
		if o.Kind == model.ObservationMissingData && o.Field == "data_admissao" {
			missing++
		}
	}
	if missing != 1 {
		t.Errorf("expected one missing-data observation for data_admissao, got %d", missing)
	}
}

func TestAssemble_ScenarioC_AssistanceWithoutRMI(t *testing.T) {
	out := mustAssemble(t, &model.Document{
		Variant: model.VariantSocialSecurity,
		Candidates: []model.CandidateValue{
			{Field: "tipo_beneficio", RawText: "benefício assistencial (LOAS)", Tier: model.TierDocument},
		},
	})

	rmi, _ := out.Record.Get("rmi")
	if rmi != nil {
		t.Errorf("rmi: expected null, got %v", rmi)
	}
	want := []string{"BPC-LOAS é benefício assistencial vinculado ao salário mínimo; RMI não informada."}
	if diff := cmp.Diff(want, out.Record.Strings("observacoes")); diff != "" {
		t.Errorf("observacoes mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	doc := &model.Document{
		Variant:    model.VariantLabor,
		SourceText: "Requer as multas dos arts. 467 e 477 da CLT. Pede a multa do art. 477.",
		Candidates: []model.CandidateValue{
			{Field: "data_admissao", RawText: "02/01/2019", Tier: model.TierDocument},
			{Field: "data_dispensa", RawText: "15 de março de 2023", Tier: model.TierDocument},
			{Field: "salario_base", RawText: "1.302,00", Tier: model.TierDocument},
			{Field: "adicionais.insalubridade", RawText: "R$ 260,40", Tier: model.TierDocument},
			{Field: "verbas_requeridas", RawText: "aviso prévio, FGTS, multa de 40%", Tier: model.TierDocument},
			{Field: "justificativa_demissao", RawText: "dispensa sem justa causa", Tier: model.TierDocument},
		},
	}

	s := schema.Labor()
	tables := reference.Default()
	res, err := resolve.New(tables).Resolve(context.Background(), s, doc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	a := NewAssembler(s, tables, classify.New(tables, classify.DefaultTolerance))

	first, err := a.Assemble(res)
	if err != nil {
		t.Fatalf("first assemble: %v", err)
	}
	second, err := a.Assemble(res)
	if err != nil {
		t.Fatalf("second assemble: %v", err)
	}

	b1, _ := json.Marshal(first.Record)
	b2, _ := json.Marshal(second.Record)
	if string(b1) != string(b2) {
		t.Errorf("assembling twice differs:\n%s\n%s", b1, b2)
	}

	want := `{"data_admissao":"2019-01-02","data_dispensa":"2023-03-15","salario_base":1302.00,` +
		`"adicionais":{"insalubridade":260.40,"noturno":null,"periculosidade":null},` +
		`"verbas_requeridas":["aviso_previo","fgts","multa_40"],` +
		`"justificativa_demissao":"dispensa sem justa causa",` +
		`"observacoes":["Salário base de R$ 1.302,00 corresponde ao salário mínimo vigente de jan/2023 a abr/2023 (R$ 1.302,00): valor dinâmico, indexado ao salário mínimo."],` +
		`"multa_467_requerida":true,"multa_477_requerida":true}`
	if string(b1) != want {
		t.Errorf("unexpected record JSON:\n got %s\nwant %s", b1, want)
	}
}

func TestAssemble_RejectsBadResolutions(t *testing.T) {
	s := schema.SocialSecurity()
	tables := reference.Default()
	good, err := resolve.New(tables).Resolve(context.Background(), s, &model.Document{Variant: model.VariantSocialSecurity})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	a := NewAssembler(s, tables, classify.New(tables, classify.DefaultTolerance))

	replace := func(path string, value interface{}) []resolve.Resolution {
		out := make([]resolve.Resolution, len(good))
		copy(out, good)
		for i := range out {
			if out[i].Path == path {
				out[i].Value = value
			}
		}
		return out
	}

	tests := []struct {
		name  string
		input []resolve.Resolution
		field string
	}{
		{"missing field", good[1:], "nome_segurado"},
		{"extra field", append(append([]resolve.Resolution{}, good...), resolve.Resolution{Path: "valor_causa"}), "valor_causa"},
		{"duplicate field", append(append([]resolve.Resolution{}, good...), good[0]), "nome_segurado"},
		{"non-canonical term", replace("tipo_beneficio", "bpc"), "tipo_beneficio"},
		{"negative money", replace("rmi", model.MustMoney("-1.00")), "rmi"},
		{"null flag", replace("tem_adicional_25", nil), "tem_adicional_25"},
		{"scalar list", replace("observacoes", "nota"), "observacoes"},
		{"null index", replace("indice_correcao", nil), "indice_correcao"},
		{"text date", replace("dib", "01/06/2023"), "dib"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := a.Assemble(tt.input)
			if out != nil {
				t.Error("no assembly may be returned on a violation")
			}
			if !errors.Is(err, ErrSchemaViolation) {
				t.Fatalf("expected ErrSchemaViolation, got %v", err)
			}
			var ve *ViolationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ViolationError, got %T", err)
			}
			if ve.Violations[0].Field != tt.field {
				t.Errorf("expected violation on %s, got %v", tt.field, ve.Violations)
			}
		})
	}
}

func TestValidator_ParsedRecord(t *testing.T) {
	out := mustAssemble(t, &model.Document{
		Variant: model.VariantLabor,
		Candidates: []model.CandidateValue{
			{Field: "adicionais.noturno", RawText: "R$ 300,00", Tier: model.TierDocument},
			{Field: "verbas_requeridas", RawText: "saldo de salário", Tier: model.TierDocument},
		},
	})
	data, err := json.Marshal(out.Record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := schema.Labor()
	v := NewValidator(s, reference.Default())

	rec, err := ParseRecord(s, data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := v.Validate(rec); err != nil {
		t.Errorf("written record must validate: %v", err)
	}

	tampered := strings.Replace(string(data), `"noturno":300.00`, `"noturno":-300.00,"extra":1`, 1)
	rec, err = ParseRecord(s, []byte(tampered))
	if err != nil {
		t.Fatalf("parse tampered: %v", err)
	}
	err = v.Validate(rec)
	var ve *ViolationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ViolationError, got %v", err)
	}
	got := make([]string, len(ve.Violations))
	for i, viol := range ve.Violations {
		got[i] = viol.Field
	}
	if diff := cmp.Diff([]string{"adicionais.noturno", "adicionais.extra"}, got); diff != "" {
		t.Errorf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecord_NotAnObject(t *testing.T) {
	if _, err := ParseRecord(schema.Labor(), []byte(`null`)); err == nil {
		t.Error("expected error for null document")
	}
	if _, err := ParseRecord(schema.Labor(), []byte(`[1,2]`)); err == nil {
		t.Error("expected error for array document")
	}
}
