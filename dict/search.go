package dict

import (
	"sort"
	"strings"

	"github.com/jyutdict/jyutdict/jyutping"
	"github.com/jyutdict/jyutdict/strsearch"
	"k8s.io/klog/v2"
)

// Scoring constants. Costs are additive; lower is better. An exact base
// match is free; partial (substring) and fuzzy (prefix edit distance)
// base matches are charged by these factors. An entry that matches
// through Jyutping is not also scored through English.
const (
	OutOfOrderInversionPenalty = 8_000
	UnmatchedJyutpingPenalty   = 10_000

	JyutpingPartialMatchPenaltyK      = 12_000
	JyutpingCompletionPenaltyK        = 2_500
	JyutpingPrefixLevenshteinPenaltyK = 20_000

	EnglishBasePenalty            = 5_000
	NonASCIIMatchInEnglishPenalty = 8_000
	EnglishPosOffsetPenaltyK      = 100
	EnglishMiddleOfWordPenalty    = 5_000
)

// DefaultMaxResults is used when the caller passes no positive limit.
const DefaultMaxResults = 8

// MatchType names the modality an entry matched through.
type MatchType uint8

const (
	MatchTypeJyutping MatchType = iota
	MatchTypeTraditional
	MatchTypeEnglish
)

func (t MatchType) String() string {
	switch t {
	case MatchTypeJyutping:
		return "Jyutping"
	case MatchTypeTraditional:
		return "Traditional"
	case MatchTypeEnglish:
		return "English"
	}
	return "Unknown"
}

// MatchCostInfo is the additive cost breakdown of one match.
type MatchCostInfo struct {
	TermMatchCost         uint32 `json:"term_match_cost"`
	UnmatchedPositionCost uint32 `json:"unmatched_position_cost"`
	InversionCost         uint32 `json:"inversion_cost"`
	StaticCost            uint32 `json:"static_cost"`
}

func (c MatchCostInfo) Total() uint32 {
	return c.TermMatchCost + c.UnmatchedPositionCost + c.InversionCost + c.StaticCost
}

// Match is one scored entry. EntryID is an index into the dictionary;
// matches never hold pointers into it.
type Match struct {
	CostInfo MatchCostInfo `json:"cost_info"`
	Type     MatchType     `json:"match_type"`
	EntryID  int           `json:"entry_id"`
}

// Span is a half-open range into the display string of the match's
// modality (bytes for Jyutping and English, character indices for
// Traditional).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// MatchWithSpans pairs a match with its highlightable spans.
type MatchWithSpans struct {
	Match
	MatchedSpans []Span `json:"matched_spans"`
}

// Timings carries the stopwatch samples of one search.
type Timings struct {
	JyutpingPreMs    int32 `json:"jyutping_pre_ms"`
	TraditionalPreMs int32 `json:"traditional_pre_ms"`
	FullMatchMs      int32 `json:"full_match"`
	RankMs           int32 `json:"rank"`
}

// SearchResult is the complete answer to one query.
type SearchResult struct {
	Matches            []MatchWithSpans `json:"matches"`
	Timings            Timings          `json:"timings"`
	InternalCandidates int              `json:"internal_candidates"`
}

// jyutpingQueryTerm is one analyzed query token: which syllable bases
// it can stand for, and at what cost.
type jyutpingQueryTerm struct {
	baseText string
	tone     uint8
	hasTone  bool

	matches    bitset
	matchCosts []baseCost
}

type baseCost struct {
	base uint16
	cost uint32
}

func (t *jyutpingQueryTerm) costFor(base uint16) uint32 {
	for _, bc := range t.matchCosts {
		if bc.base == base {
			return bc.cost
		}
	}
	return 0
}

// queryTerms is the fully analyzed query.
type queryTerms struct {
	jyutpingTerms    []jyutpingQueryTerm
	traditionalTerms []uint16
	englishTokens    [][]byte
}

// analyzeJyutpingTerm scans the syllable alphabet once and records
// every base the token could mean: exact (free), substring (penalized
// by offset and completion length), or within prefix edit distance 1.
func (d *Dictionary) analyzeJyutpingTerm(token string) jyutpingQueryTerm {
	base, tone, hasTone := jyutping.ParseTone(token)

	term := jyutpingQueryTerm{
		baseText: base,
		tone:     tone,
		hasTone:  hasTone,
		matches:  newBitset(len(d.syllables.bases)),
	}

	baseBytes := []byte(base)
	for i, alpha := range d.syllables.bases {
		if len(base) == 0 {
			// A bare tone digit: any base completes it.
			term.matchCosts = append(term.matchCosts, baseCost{
				base: uint16(i),
				cost: uint32(len(alpha)) * JyutpingCompletionPenaltyK,
			})
			term.matches.set(i)
			continue
		}

		if asciiEqualFold(alpha, base) {
			term.matches.set(i)
			continue
		}

		if pos := strsearch.IndexOfCI(baseBytes, []byte(alpha)); pos >= 0 {
			cost := uint32(pos) * JyutpingPartialMatchPenaltyK
			cost += uint32(len(alpha)-len(base)) * JyutpingCompletionPenaltyK
			term.matchCosts = append(term.matchCosts, baseCost{base: uint16(i), cost: cost})
			term.matches.set(i)
			continue
		}

		if dist := strsearch.PrefixLevenshtein(base, alpha); dist < 2 {
			cost := uint32(dist) * JyutpingPrefixLevenshteinPenaltyK
			term.matchCosts = append(term.matchCosts, baseCost{base: uint16(i), cost: cost})
			term.matches.set(i)
		}
	}

	return term
}

// analyze builds the query terms for all three modalities.
func (d *Dictionary) analyze(query string, sw Stopwatch, timings *Timings) queryTerms {
	var terms queryTerms

	tokens := splitASCIIWhitespace(query)
	for _, tok := range tokens {
		terms.jyutpingTerms = append(terms.jyutpingTerms, d.analyzeJyutpingTerm(tok))
		terms.englishTokens = append(terms.englishTokens, []byte(tok))
	}
	timings.JyutpingPreMs = sw.ElapsedMs()

	for _, c := range query {
		if id, ok := d.chars.lookup(c); ok {
			terms.traditionalTerms = append(terms.traditionalTerms, id)
		}
	}
	timings.TraditionalPreMs = sw.ElapsedMs()

	return terms
}

// matchJyutping decides whether the entry satisfies every Jyutping
// query term and accumulates the cost breakdown. StaticCost is filled
// in by the caller.
func (d *Dictionary) matchJyutping(e *Entry, terms *queryTerms, scratch *searchScratch) (MatchCostInfo, bool) {
	if len(terms.jyutpingTerms) == 0 {
		return MatchCostInfo{}, false
	}
	if len(e.Jyutping) < len(terms.jyutpingTerms) {
		return MatchCostInfo{}, false
	}

	scratch.entryMatches.resize(len(e.Jyutping))
	scratch.positions = scratch.positions[:0]

	totalTermCost := uint32(0)
	for ti := range terms.jyutpingTerms {
		term := &terms.jyutpingTerms[ti]

		best := -1
		bestCost := uint32(0)
		for i, syl := range e.Jyutping {
			if !term.matches.has(int(syl.Base())) {
				continue
			}
			if term.hasTone && term.tone != syl.Tone() {
				continue
			}
			cost := term.costFor(syl.Base())
			if best == -1 || cost < bestCost {
				best = i
				bestCost = cost
			}
		}

		if best == -1 {
			return MatchCostInfo{}, false
		}
		totalTermCost += bestCost
		scratch.entryMatches.set(best)
		scratch.positions = append(scratch.positions, best)
	}

	inversionCost := costInversions(scratch.positions)

	unmatchedCost := uint32(0)
	for k := range e.Jyutping {
		if !scratch.entryMatches.has(k) {
			unmatchedCost += uint32(len(e.Jyutping)+1-k) * UnmatchedJyutpingPenalty
		}
	}

	return MatchCostInfo{
		TermMatchCost:         totalTermCost,
		UnmatchedPositionCost: unmatchedCost,
		InversionCost:         inversionCost,
	}, true
}

// matchEnglish runs every query token against the entry's concatenated
// definitions. All tokens must hit.
func (d *Dictionary) matchEnglish(e *Entry, query string, terms *queryTerms, scratch *searchScratch) (MatchCostInfo, bool) {
	if e.EnglishStart == e.EnglishEnd {
		return MatchCostInfo{}, false
	}

	// Every English match pays a flat base penalty.
	cost := uint32(EnglishBasePenalty)

	start := d.englishDataStarts[e.EnglishStart]
	end := d.englishDataStarts[e.EnglishEnd]
	block := d.englishData[start:end]

	scratch.positions = scratch.positions[:0]
	for _, token := range terms.englishTokens {
		pos := strsearch.IndexOfCI(token, block)
		if pos < 0 {
			return MatchCostInfo{}, false
		}
		scratch.positions = append(scratch.positions, pos)
		cost += uint32(pos) * EnglishPosOffsetPenaltyK

		if pos == 0 {
			continue
		}
		prev := block[pos-1]
		if isASCIIWhitespace(prev) || prev == '-' {
			continue
		}
		cost += EnglishMiddleOfWordPenalty
	}

	inversionCost := costInversions(scratch.positions)

	for _, c := range query {
		if c >= 0x80 {
			// Probably a Chinese character matching inside an
			// English description.
			cost += NonASCIIMatchInEnglishPenalty
		}
	}

	return MatchCostInfo{
		TermMatchCost: cost,
		InversionCost: inversionCost,
		StaticCost:    e.Cost,
	}, true
}

// matchTraditional is set containment: every queried character must
// appear somewhere in the entry.
func matchTraditional(e *Entry, terms *queryTerms) bool {
	for _, id := range terms.traditionalTerms {
		found := false
		for _, cid := range e.Characters {
			if cid == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Search runs one query against the dictionary. It is a pure function
// of (dictionary, query, maxResults) and safe to call from multiple
// goroutines. A nil stopwatch reads as zero.
func (d *Dictionary) Search(query string, maxResults int, sw Stopwatch) SearchResult {
	if sw == nil {
		sw = noopStopwatch{}
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	var result SearchResult
	if strings.TrimSpace(query) == "" {
		return result
	}

	terms := d.analyze(query, sw, &result.Timings)

	scratch := getScratch()
	defer putScratch(scratch)

	var matches []Match
	for i := range d.entries {
		e := &d.entries[i]

		if costInfo, ok := d.matchJyutping(e, &terms, scratch); ok {
			costInfo.StaticCost = e.Cost
			matches = append(matches, Match{
				CostInfo: costInfo,
				Type:     MatchTypeJyutping,
				EntryID:  i,
			})
			continue
		}

		if len(query) > 2 {
			if costInfo, ok := d.matchEnglish(e, query, &terms, scratch); ok {
				matches = append(matches, Match{
					CostInfo: costInfo,
					Type:     MatchTypeEnglish,
					EntryID:  i,
				})
			}
		}

		if len(terms.traditionalTerms) > 0 && matchTraditional(e, &terms) {
			matches = append(matches, Match{
				CostInfo: MatchCostInfo{StaticCost: e.Cost},
				Type:     MatchTypeTraditional,
				EntryID:  i,
			})
		}
	}
	result.Timings.FullMatchMs = sw.ElapsedMs()

	result.InternalCandidates = len(matches)
	klog.V(2).Infof("internal candidates: %d", len(matches))

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CostInfo.Total() < matches[j].CostInfo.Total()
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	result.Timings.RankMs = sw.ElapsedMs()

	result.Matches = make([]MatchWithSpans, 0, len(matches))
	for _, m := range matches {
		e := &d.entries[m.EntryID]
		var spans []Span
		switch m.Type {
		case MatchTypeJyutping:
			spans = d.jyutpingMatchedSpans(e, &terms)
		case MatchTypeTraditional:
			spans = d.traditionalMatchedSpans(e, &terms)
		case MatchTypeEnglish:
			spans = d.englishMatchedSpans(e, &terms)
		}
		result.Matches = append(result.Matches, MatchWithSpans{
			Match:        m,
			MatchedSpans: spans,
		})
	}

	return result
}

// costInversions charges a flat penalty for every pair of matched
// positions appearing out of query order.
func costInversions(positions []int) uint32 {
	cost := uint32(0)
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			if positions[i] > positions[j] {
				cost += OutOfOrderInversionPenalty
			}
		}
	}
	return cost
}

func splitASCIIWhitespace(s string) []string {
	var out []string
	start := -1
	for i := 0; i < len(s); i++ {
		if isASCIIWhitespace(s[i]) {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

func isASCIIWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if foldByte(a[i]) != foldByte(b[i]) {
			return false
		}
	}
	return true
}

func foldByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
