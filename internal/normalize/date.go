package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/jurisflow/internal/model"
)

var (
	isoDatePattern     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2,4})\b`)
	monthYearPattern   = regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{4})\b`)

	// Spelled forms run on folded text: "1º de maio" folds to "1o de maio"
	spelledDatePattern = regexp.MustCompile(`\b(\d{1,2}|primeiro)o? de (` + monthAlternation + `) de (\d{4})\b`)
	spelledPartPattern = regexp.MustCompile(`\b(` + monthAlternation + `) de (\d{4})\b`)
)

const monthAlternation = "janeiro|fevereiro|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro"

var monthNames = map[string]time.Month{
	"janeiro": time.January, "fevereiro": time.February, "marco": time.March,
	"abril": time.April, "maio": time.May, "junho": time.June,
	"julho": time.July, "agosto": time.August, "setembro": time.September,
	"outubro": time.October, "novembro": time.November, "dezembro": time.December,
}

// dateScan accumulates what one pass over a text found
type dateScan struct {
	dates     []model.Date
	seen      map[string]bool
	twoDigit  []string
	invalid   []string
	partial   []string
	threeYear []string
}

func (s *dateScan) add(d model.Date) {
	if s.seen[d.String()] {
		return
	}
	s.seen[d.String()] = true
	s.dates = append(s.dates, d)
}

func (s *dateScan) build(text string, y, m, d int) {
	date, ok := model.NewDate(y, time.Month(m), d)
	if !ok {
		s.invalid = append(s.invalid, text)
		return
	}
	s.add(date)
}

// Date reads one unambiguous calendar date. Accepted forms are
// DD/MM/YYYY (also with - or . separators), ISO YYYY-MM-DD and spelled
// Portuguese dates ("15 de março de 2021", "1º de maio de 2023").
func Date(raw string) Result {
	scan := &dateScan{seen: make(map[string]bool)}

	rest := raw
	for _, m := range isoDatePattern.FindAllStringSubmatch(rest, -1) {
		scan.build(m[0], atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	rest = blank(rest, isoDatePattern)

	for _, m := range numericDatePattern.FindAllStringSubmatch(rest, -1) {
		switch len(m[3]) {
		case 2:
			scan.twoDigit = append(scan.twoDigit, m[0])
		case 3:
			scan.threeYear = append(scan.threeYear, m[0])
		default:
			scan.build(m[0], atoi(m[3]), atoi(m[2]), atoi(m[1]))
		}
	}
	rest = blank(rest, numericDatePattern)
	for _, m := range monthYearPattern.FindAllString(rest, -1) {
		scan.partial = append(scan.partial, m)
	}

	folded := Fold(raw)
	for _, m := range spelledDatePattern.FindAllStringSubmatch(folded, -1) {
		day := 1
		if m[1] != "primeiro" {
			day = atoi(m[1])
		}
		scan.build(m[0], atoi(m[3]), int(monthNames[m[2]]), day)
	}
	folded = blank(folded, spelledDatePattern)
	for _, m := range spelledPartPattern.FindAllString(folded, -1) {
		scan.partial = append(scan.partial, m)
	}

	switch {
	case len(scan.dates) == 1:
		return value(scan.dates[0])
	case len(scan.dates) > 1:
		isos := make([]string, len(scan.dates))
		for i, d := range scan.dates {
			isos[i] = d.String()
		}
		return none("datas distintas no mesmo texto: " + strings.Join(isos, ", "))
	case len(scan.twoDigit) > 0:
		return none(fmt.Sprintf("ano com dois dígitos: %s", scan.twoDigit[0]))
	case len(scan.invalid) > 0:
		return none(fmt.Sprintf("data inexistente: %s", scan.invalid[0]))
	case len(scan.threeYear) > 0:
		return none(fmt.Sprintf("ano inválido: %s", scan.threeYear[0]))
	case len(scan.partial) > 0:
		return none(fmt.Sprintf("data incompleta: %s", scan.partial[0]))
	default:
		return none("nenhuma data reconhecida")
	}
}

// blank replaces every match of re with spaces, keeping byte offsets
func blank(s string, re *regexp.Regexp) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
