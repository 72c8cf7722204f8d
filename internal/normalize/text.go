package normalize

import "strings"

// Text collapses whitespace; empty text has no value
func Text(raw string) Result {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return none("texto vazio")
	}
	return value(s)
}

// TextList splits raw on line breaks and semicolons and keeps the
// non-empty, whitespace-collapsed items in order.
func TextList(raw string) Result {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == ';' })
	var out []string
	for _, p := range parts {
		if s := strings.Join(strings.Fields(p), " "); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return none("lista vazia")
	}
	return value(out)
}
