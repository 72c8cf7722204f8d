// Package schema defines the fixed field set of each record variant
package schema

import (
	"errors"
	"fmt"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/reference"
)

// ErrUnknownVariant is returned for a variant with no field set
var ErrUnknownVariant = errors.New("unknown record variant")

// Kind is the value type of a field
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindMoney
	KindVocabulary
	KindVocabularyList
	KindFlag
	KindTextList
	KindObject
)

var kindNames = map[Kind]string{
	KindText:           "text",
	KindDate:           "date",
	KindMoney:          "money",
	KindVocabulary:     "vocabulary",
	KindVocabularyList: "vocabulary_list",
	KindFlag:           "flag",
	KindTextList:       "text_list",
	KindObject:         "object",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsList reports whether the field holds a list of strings
func (k Kind) IsList() bool { return k == KindTextList || k == KindVocabularyList }

// ObservationsField is the list every variant carries for notes
const ObservationsField = "observacoes"

// Field describes one record key
type Field struct {
	Name     string
	Label    string // Name as written in observation texts
	Kind     Kind
	Domain   string      // Vocabulary domain (vocabulary kinds)
	Nullable bool        // Whether null is a valid value
	Default  interface{} // Value used when no candidate resolves; nil means null
	Children []Field     // Keys of an object field

	// Classify, when set, checks a money field against the minimum wage
	Classify *Classification
}

// Classification wires a money field to the minimum-wage classifier
type Classification struct {
	ReferenceDate string // Field whose date selects the wage period
	Benefit       string // Optional vocabulary field naming the benefit
	CheckRange    bool   // Also compare against the wage floor and INSS ceiling
}

// Schema is the field set of one variant
type Schema struct {
	Variant model.Variant
	Fields  []Field
}

// Names returns the top-level keys in record order
func (s *Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// Leaf is a field addressed by its dotted path (adicionais.noturno)
type Leaf struct {
	Path   string
	Parent string // Object key holding the field, empty at top level
	Field
}

// Leaves flattens object fields into their children, in record order
func (s *Schema) Leaves() []Leaf {
	var out []Leaf
	for _, f := range s.Fields {
		if f.Kind != KindObject {
			out = append(out, Leaf{Path: f.Name, Field: f})
			continue
		}
		for _, c := range f.Children {
			out = append(out, Leaf{Path: f.Name + "." + c.Name, Parent: f.Name, Field: c})
		}
	}
	return out
}

// Field looks up a top-level field
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Leaf looks up a field by dotted path
func (s *Schema) Leaf(path string) (Leaf, bool) {
	for _, l := range s.Leaves() {
		if l.Path == path {
			return l, true
		}
	}
	return Leaf{}, false
}

// ForVariant returns the field set of v
func ForVariant(v model.Variant) (*Schema, error) {
	switch v {
	case model.VariantLabor:
		return Labor(), nil
	case model.VariantSocialSecurity:
		return SocialSecurity(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
}

// Variants lists the known variants
func Variants() []model.Variant {
	return []model.Variant{model.VariantLabor, model.VariantSocialSecurity}
}

// Labor is the labor-law petition field set
func Labor() *Schema {
	return &Schema{
		Variant: model.VariantLabor,
		Fields: []Field{
			{Name: "data_admissao", Label: "Data de admissão", Kind: KindDate, Nullable: true},
			{Name: "data_dispensa", Label: "Data de dispensa", Kind: KindDate, Nullable: true},
			{
				Name: "salario_base", Label: "Salário base", Kind: KindMoney, Nullable: true,
				Classify: &Classification{ReferenceDate: "data_dispensa"},
			},
			{
				Name: "adicionais", Label: "Adicionais", Kind: KindObject,
				Children: []Field{
					{Name: "insalubridade", Label: "Adicional de insalubridade", Kind: KindMoney, Nullable: true},
					{Name: "periculosidade", Label: "Adicional de periculosidade", Kind: KindMoney, Nullable: true},
					{Name: "noturno", Label: "Adicional noturno", Kind: KindMoney, Nullable: true},
				},
			},
			{Name: "verbas_requeridas", Label: "Verbas requeridas", Kind: KindVocabularyList, Domain: reference.DomainSeverance},
			{Name: "justificativa_demissao", Label: "Justificativa da demissão", Kind: KindText, Nullable: true},
			{Name: ObservationsField, Label: "Observações", Kind: KindTextList},
			{Name: "multa_467_requerida", Label: "Multa do art. 467", Kind: KindFlag, Default: false},
			{Name: "multa_477_requerida", Label: "Multa do art. 477", Kind: KindFlag, Default: false},
		},
	}
}

// SocialSecurity is the INSS judicial record field set
func SocialSecurity() *Schema {
	return &Schema{
		Variant: model.VariantSocialSecurity,
		Fields: []Field{
			{Name: "nome_segurado", Label: "Nome do segurado", Kind: KindText, Nullable: true},
			{Name: "tipo_beneficio", Label: "Tipo de benefício", Kind: KindVocabulary, Domain: reference.DomainBenefit, Nullable: true},
			{Name: "dib", Label: "DIB", Kind: KindDate, Nullable: true},
			{Name: "dip", Label: "DIP", Kind: KindDate, Nullable: true},
			{
				Name: "rmi", Label: "RMI", Kind: KindMoney, Nullable: true,
				Classify: &Classification{ReferenceDate: "dib", Benefit: "tipo_beneficio", CheckRange: true},
			},
			{Name: "tem_adicional_25", Label: "Adicional de 25%", Kind: KindFlag, Default: false},
			{Name: "indice_correcao", Label: "Índice de correção", Kind: KindVocabulary, Domain: reference.DomainCorrectionIndex, Default: "SELIC"},
			{Name: ObservationsField, Label: "Observações", Kind: KindTextList},
		},
	}
}

// DefaultFor is the value a field takes when nothing resolves
func DefaultFor(f Field) interface{} {
	if f.Kind.IsList() {
		return []string{}
	}
	if f.Kind == KindFlag && f.Default == nil {
		return false
	}
	return f.Default
}

// WithDefault returns a copy of s where field name defaults to value
func (s *Schema) WithDefault(name string, value interface{}) *Schema {
	out := &Schema{Variant: s.Variant, Fields: make([]Field, len(s.Fields))}
	copy(out.Fields, s.Fields)
	for i := range out.Fields {
		if out.Fields[i].Name == name {
			out.Fields[i].Default = value
		}
	}
	return out
}
