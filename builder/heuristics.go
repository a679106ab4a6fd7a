package builder

import "strings"

// Definition-content heuristics: entries that read like proper nouns,
// abbreviations or classical vocabulary are pushed down; entries with
// measure words or a Cantonese marker are pulled up.
type heuristicKind uint8

const (
	containsTerms heuristicKind = iota
	doesNotContainTerms
)

type heuristic struct {
	kind  heuristicKind
	terms []string
	cost  uint32
}

var heuristics = []heuristic{
	{containsTerms, []string{"abbr."}, 5000},
	{doesNotContainTerms, []string{"M:", "CL:"}, 5000},
	{containsTerms, []string{"Surname", "surname"}, 2000},
	{doesNotContainTerms, []string{"(Cantonese)"}, 2000},
	{containsTerms, []string{"Confucius"}, 5000},
	{containsTerms, []string{"Dynasty", "Dynasties"}, 5000},
	{containsTerms, []string{"(Buddhism)"}, 5000},
}

func costHeuristic(definitions []string) uint32 {
	cost := uint32(0)
	for _, h := range heuristics {
		matched := matchesTerms(h.terms, definitions)
		switch h.kind {
		case containsTerms:
			if matched {
				cost += h.cost
			}
		case doesNotContainTerms:
			if !matched {
				cost += h.cost
			}
		}
	}
	return cost
}

func matchesTerms(needles []string, haystacks []string) bool {
	for _, needle := range needles {
		for _, haystack := range haystacks {
			if strings.Contains(haystack, needle) {
				return true
			}
		}
	}
	return false
}
