package reference

import "fmt"

// KeywordFlagRule sets a boolean field when any trigger phrase occurs in
// the source text. Matching ignores case and accents and works on whole
// words, so "art. 477" does not fire on "art. 4770".
type KeywordFlagRule struct {
	Flag     string   `yaml:"flag"`
	Triggers []string `yaml:"triggers"`
	Default  bool     `yaml:"default"`
}

func validateFlag(r KeywordFlagRule) error {
	if r.Flag == "" {
		return fmt.Errorf("%w: flag rule without name", ErrInvalidTable)
	}
	if len(r.Triggers) == 0 {
		return fmt.Errorf("%w: flag rule %s has no triggers", ErrInvalidTable, r.Flag)
	}
	for _, t := range r.Triggers {
		if t == "" {
			return fmt.Errorf("%w: flag rule %s has an empty trigger", ErrInvalidTable, r.Flag)
		}
	}
	return nil
}
