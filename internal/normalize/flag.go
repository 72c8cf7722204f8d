package normalize

import "github.com/ppiankov/jurisflow/internal/reference"

var (
	affirmative = map[string]bool{"sim": true, "s": true, "true": true, "verdadeiro": true, "yes": true, "1": true, "x": true}
	negative    = map[string]bool{"nao": true, "n": true, "false": true, "falso": true, "0": true}
)

// Flag reads an explicit yes/no answer, otherwise scans raw for the
// rule's trigger phrases. Text with neither has no value.
func Flag(rule reference.KeywordFlagRule, raw string) Result {
	folded := Fold(raw)
	if affirmative[folded] {
		return value(true)
	}
	if negative[folded] {
		return value(false)
	}
	if trigger, ok := Trigger(rule, raw); ok {
		return Result{Value: true, Note: "gatilho: " + trigger}
	}
	return none("nenhum gatilho de " + rule.Flag)
}

// Trigger returns the first trigger phrase of rule found in text.
// Matching is accent- and case-insensitive and whole-word: a trigger
// never matches inside a longer word or number.
func Trigger(rule reference.KeywordFlagRule, text string) (string, bool) {
	folded := Fold(text)
	if folded == "" {
		return "", false
	}
	for _, t := range rule.Triggers {
		if containsPhrase(folded, Fold(t)) {
			return t, true
		}
	}
	return "", false
}
