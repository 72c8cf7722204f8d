package normalize

import (
	"regexp"
	"strings"

	"github.com/ppiankov/jurisflow/internal/model"
)

// amountPattern finds numeric tokens with optional grouping and decimals.
// The sign, currency and percent context around each token is read
// separately.
var amountPattern = regexp.MustCompile(`\d(?:[\d.,]*\d)?`)

// amountToken is one numeric token with its surrounding context
type amountToken struct {
	text     string
	negative bool
	percent  bool
	currency bool
	dated    bool
}

// Money reads one non-negative amount in reais, quantized to cents.
// Thousands separators and the "R$" prefix are dropped; when a single
// separator could be either, a comma is decimal.
func Money(raw string) Result {
	tokens := scanAmounts(raw)
	if len(tokens) == 0 {
		return none("nenhum valor numérico")
	}

	var usable []amountToken
	var sawPercent, sawNegative bool
	for _, t := range tokens {
		switch {
		case t.dated:
			continue
		case t.percent:
			sawPercent = true
		case t.negative:
			sawNegative = true
		default:
			usable = append(usable, t)
		}
	}

	// When several numbers appear, those marked with R$ win, then those
	// written with cents ("RMI em 2024: 1.500,00").
	usable = narrow(usable, func(t amountToken) bool { return t.currency })
	usable = narrow(usable, func(t amountToken) bool { return hasCents(t.text) })

	var amounts []model.Money
	seen := make(map[string]bool)
	for _, t := range usable {
		m, ok := parseAmount(t.text)
		if !ok {
			continue
		}
		if !seen[m.String()] {
			seen[m.String()] = true
			amounts = append(amounts, m)
		}
	}

	switch {
	case len(amounts) == 1:
		return value(amounts[0])
	case len(amounts) > 1:
		texts := make([]string, len(amounts))
		for i, a := range amounts {
			texts[i] = a.BRL()
		}
		return none("valores distintos no mesmo texto: " + strings.Join(texts, ", "))
	case sawNegative:
		return none("valor negativo")
	case sawPercent:
		return none("percentual não é valor monetário")
	default:
		return none("nenhum valor numérico")
	}
}

func scanAmounts(raw string) []amountToken {
	// Dates are numbers too; take them out first
	for _, re := range []*regexp.Regexp{isoDatePattern, numericDatePattern, monthYearPattern} {
		raw = blank(raw, re)
	}

	var out []amountToken
	for _, loc := range amountPattern.FindAllStringIndex(raw, -1) {
		prefix := raw[:loc[0]]
		before := strings.TrimRight(prefix, " \t\u00a0")
		after := strings.TrimLeft(raw[loc[1]:], " \t\u00a0")

		t := amountToken{text: raw[loc[0]:loc[1]]}
		t.percent = strings.HasPrefix(after, "%")
		t.dated = strings.HasPrefix(after, "/") || strings.HasSuffix(before, "/")

		if strings.HasSuffix(strings.ToUpper(before), "R$") {
			t.currency = true
			prefix = before[:len(before)-2]
		}
		t.negative = strings.HasSuffix(prefix, "-") || strings.HasSuffix(prefix, "\u2212")
		out = append(out, t)
	}
	return out
}

// narrow keeps the tokens matching keep, unless none do
func narrow(tokens []amountToken, keep func(amountToken) bool) []amountToken {
	if len(tokens) < 2 {
		return tokens
	}
	var kept []amountToken
	for _, t := range tokens {
		if keep(t) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return tokens
	}
	return kept
}

// hasCents reports a token whose last separator is followed by two digits
func hasCents(tok string) bool {
	i := strings.LastIndexAny(tok, ".,")
	return i >= 0 && len(tok)-i-1 == 2
}

// parseAmount interprets the separators of one numeric token
func parseAmount(tok string) (model.Money, bool) {
	lastComma := strings.LastIndex(tok, ",")
	lastDot := strings.LastIndex(tok, ".")
	commas := strings.Count(tok, ",")
	dots := strings.Count(tok, ".")

	var intPart, frac string
	switch {
	case commas > 0 && dots > 0:
		// Both present: the last one is the decimal separator
		sep := ","
		if lastDot > lastComma {
			sep = "."
		}
		i := strings.LastIndex(tok, sep)
		intPart, frac = tok[:i], tok[i+1:]
	case commas == 1:
		i := lastComma
		intPart, frac = tok[:i], tok[i+1:]
	case commas > 1:
		intPart = tok
	case dots == 1 && len(tok)-lastDot-1 == 3:
		// "1.412" groups thousands
		intPart = tok
	case dots == 1:
		intPart, frac = tok[:lastDot], tok[lastDot+1:]
	default:
		intPart = tok
	}

	intPart = strings.NewReplacer(".", "", ",", "").Replace(intPart)
	if intPart == "" || strings.ContainsAny(frac, ".,") {
		return model.Money{}, false
	}
	text := intPart
	if frac != "" {
		text += "." + frac
	}

	m, err := model.ParseMoney(text)
	if err != nil || m.Sign() < 0 {
		return model.Money{}, false
	}
	return m, true
}
