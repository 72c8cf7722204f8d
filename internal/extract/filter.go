package extract

import (
	"fmt"
	"strings"

	"github.com/ppiankov/jurisflow/internal/model"
)

// Policy selects which document candidates are eligible
type Policy string

const (
	PolicyAll          Policy = "all"          // Every candidate
	PolicyCondemnation Policy = "condemnation" // Only the operative part: condemnation or agreement
)

// operativeSections are folded heading fragments of the operative part
// of a decision or of a settlement.
var operativeSections = []string{
	"dispositivo", "condena", "acordo", "sentenca", "julgo", "decisao", "conclusao",
}

// ParsePolicy reads a policy name; empty means all
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAll:
		return PolicyAll, nil
	case PolicyCondemnation:
		return PolicyCondemnation, nil
	default:
		return "", fmt.Errorf("unknown eligibility policy %q (want all or condemnation)", s)
	}
}

// Filter drops candidates the policy does not accept. User context is
// always eligible, and so is a candidate whose locator does not place it
// on a line of the document (LLM proposals, "llm:<model>"). When no
// candidate carries a section locator the document has no recognizable
// structure and nothing is dropped.
func Filter(policy Policy, candidates []model.CandidateValue) []model.CandidateValue {
	if policy != PolicyCondemnation {
		return candidates
	}

	structured := false
	for _, c := range candidates {
		if section(c.Locator) != "" {
			structured = true
			break
		}
	}
	if !structured {
		return candidates
	}

	var out []model.CandidateValue
	for _, c := range candidates {
		if c.Tier == model.TierUserContext || !positioned(c.Locator) || isOperative(section(c.Locator)) {
			out = append(out, c)
		}
	}
	return out
}

// section returns the heading part of a "heading#L12" locator
func section(locator string) string {
	i := strings.LastIndex(locator, "#")
	if i <= 0 {
		return ""
	}
	return locator[:i]
}

// positioned reports whether a locator names a document line:
// "heading#L12" or "L12"
func positioned(locator string) bool {
	if i := strings.LastIndex(locator, "#"); i >= 0 {
		locator = locator[i+1:]
	}
	if len(locator) < 2 || locator[0] != 'L' {
		return false
	}
	for _, r := range locator[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isOperative(section string) bool {
	for _, s := range operativeSections {
		if strings.Contains(section, s) {
			return true
		}
	}
	return false
}
