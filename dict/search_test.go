package dict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fatherDictionary(t *testing.T) *Dictionary {
	t.Helper()
	return Compile([]InputEntry{
		{
			Traditional: "阿爸",
			Jyutping:    "aa3 baa1",
			Definitions: []string{"father"},
			Cost:        0,
			Source:      SourceCCanto,
		},
	})
}

func TestSearchExactBasesFullSyllableSpans(t *testing.T) {
	d := fatherDictionary(t)

	res := d.Search("aa baa", 8, nil)
	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	require.Equal(t, MatchTypeJyutping, m.Type)
	require.Equal(t, uint32(0), m.CostInfo.Total())
	require.Equal(t, []Span{{0, 2}, {4, 7}}, m.MatchedSpans)
}

func TestSearchPartialCompletionCost(t *testing.T) {
	d := fatherDictionary(t)

	res := d.Search("aa ba", 8, nil)
	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	require.Equal(t, MatchTypeJyutping, m.Type)
	require.Equal(t, uint32(2500), m.CostInfo.Total())
	require.Equal(t, uint32(2500), m.CostInfo.TermMatchCost)
	require.Equal(t, []Span{{0, 2}, {4, 6}}, m.MatchedSpans)
}

func TestSearchWithTonesCoalescesSpans(t *testing.T) {
	d := fatherDictionary(t)

	res := d.Search("aa3 baa1", 8, nil)
	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	require.Equal(t, uint32(0), m.CostInfo.Total())
	require.Equal(t, []Span{{0, 8}}, m.MatchedSpans)
}

func TestSearchReferenceLou(t *testing.T) {
	d := referenceDictionary(t)

	res := d.Search("lou", 8, nil)
	require.NotEmpty(t, res.Matches)
	m := res.Matches[0]
	require.Equal(t, MatchTypeJyutping, m.Type)
	require.Equal(t, "老師", d.EntryCharacters(m.EntryID))
	require.Equal(t, "lou5 si1", d.EntryJyutping(m.EntryID))
	require.Equal(t, []Span{{0, 3}}, m.MatchedSpans)
}

func TestSearchPartialHighlightsTypedTextOnly(t *testing.T) {
	d := referenceDictionary(t)

	res := d.Search("saa", 8, nil)
	require.NotEmpty(t, res.Matches)
	m := res.Matches[0]
	require.Equal(t, "學生", d.EntryCharacters(m.EntryID))

	display := d.EntryJyutping(m.EntryID)
	require.Equal(t, "hok6 saang1", display)
	require.Equal(t, []Span{{5, 8}}, m.MatchedSpans)
	require.Equal(t, "saa", display[m.MatchedSpans[0].Start:m.MatchedSpans[0].End])
}

func TestSearchEnglish(t *testing.T) {
	d := referenceDictionary(t)

	res := d.Search("teacher", 8, nil)
	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	require.Equal(t, MatchTypeEnglish, m.Type)
	require.Equal(t, "老師", d.EntryCharacters(m.EntryID))
	require.Equal(t, uint32(EnglishBasePenalty), m.CostInfo.TermMatchCost)

	require.Len(t, m.MatchedSpans, 1)
	span := m.MatchedSpans[0]
	require.Equal(t, 0, span.Start)
	require.GreaterOrEqual(t, span.End-span.Start, len("teach"))
}

func TestSearchTraditional(t *testing.T) {
	d := referenceDictionary(t)

	res := d.Search("師", 8, nil)
	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	require.Equal(t, MatchTypeTraditional, m.Type)
	require.Equal(t, "老師", d.EntryCharacters(m.EntryID))
	// Character-index span over the second character.
	require.Equal(t, []Span{{1, 2}}, m.MatchedSpans)
	require.Equal(t, uint32(0), m.CostInfo.TermMatchCost)
}

func TestSearchCaseInsensitive(t *testing.T) {
	d := referenceDictionary(t)

	a := d.Search("LOU", 8, nil)
	b := d.Search("lou", 8, nil)
	c := d.Search("LoU", 8, nil)
	require.Equal(t, a.Matches, b.Matches)
	require.Equal(t, b.Matches, c.Matches)
	require.Equal(t, a.InternalCandidates, b.InternalCandidates)
}

func TestSearchPurity(t *testing.T) {
	d := referenceDictionary(t)

	a := d.Search("lou si", 8, nil)
	b := d.Search("lou si", 8, nil)
	require.Equal(t, a.Matches, b.Matches)
	require.Equal(t, a.InternalCandidates, b.InternalCandidates)
}

func TestSearchTruncation(t *testing.T) {
	d := referenceDictionary(t)

	// A single-letter term reaches every base through the fuzzy path,
	// so both entries are candidates.
	res := d.Search("a", 1, nil)
	require.LessOrEqual(t, len(res.Matches), 1)
	require.GreaterOrEqual(t, res.InternalCandidates, len(res.Matches))
	require.Equal(t, 2, res.InternalCandidates)
}

func TestSearchExactJyutpingZeroTotalCost(t *testing.T) {
	d := referenceDictionary(t)

	res := d.Search("lou5 si1", 8, nil)
	require.NotEmpty(t, res.Matches)
	m := res.Matches[0]
	require.Equal(t, "老師", d.EntryCharacters(m.EntryID))
	require.Equal(t, uint32(0), m.CostInfo.Total())
}

func TestSearchEmptyQuery(t *testing.T) {
	d := referenceDictionary(t)

	for _, q := range []string{"", "   ", "\t\n"} {
		res := d.Search(q, 8, nil)
		require.Empty(t, res.Matches)
		require.Equal(t, 0, res.InternalCandidates)
		require.Equal(t, Timings{}, res.Timings)
	}
}

func TestSearchNoResult(t *testing.T) {
	d := referenceDictionary(t)

	res := d.Search("zzzzzz", 8, nil)
	require.Empty(t, res.Matches)
}

func TestSearchUnmatchedPositionPenalty(t *testing.T) {
	d := referenceDictionary(t)

	// "saa" matches saang1 at position 1, leaving hok6 (position 0,
	// weighted (2+1-0)) unmatched.
	res := d.Search("saa", 8, nil)
	require.NotEmpty(t, res.Matches)
	m := res.Matches[0]
	require.Equal(t, uint32(3*UnmatchedJyutpingPenalty), m.CostInfo.UnmatchedPositionCost)
	require.Equal(t, uint32(2*JyutpingCompletionPenaltyK), m.CostInfo.TermMatchCost)
}

func TestSearchInversionPenalty(t *testing.T) {
	d := referenceDictionary(t)

	// Terms in reverse entry order: si1 then lou5.
	res := d.Search("si1 lou5", 8, nil)
	require.NotEmpty(t, res.Matches)
	m := res.Matches[0]
	require.Equal(t, MatchTypeJyutping, m.Type)
	require.Equal(t, uint32(OutOfOrderInversionPenalty), m.CostInfo.InversionCost)
}

func TestSearchConcurrent(t *testing.T) {
	d := referenceDictionary(t)

	done := make(chan SearchResult, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- d.Search("lou si", 8, nil)
		}()
	}
	want := d.Search("lou si", 8, nil)
	for i := 0; i < 8; i++ {
		got := <-done
		require.Equal(t, want.Matches, got.Matches)
	}
}

func TestMergeSpansIdempotentOnDisjoint(t *testing.T) {
	spans := []Span{{0, 2}, {4, 7}, {9, 12}}
	require.Equal(t, []Span{{0, 2}, {4, 7}, {9, 12}}, MergeOverlappingMatchSpans(spans))
}

func TestMergeSpansCoalesces(t *testing.T) {
	require.Equal(t, []Span{{0, 5}},
		MergeOverlappingMatchSpans([]Span{{0, 3}, {2, 5}}))
	require.Equal(t, []Span{{0, 4}},
		MergeOverlappingMatchSpans([]Span{{2, 4}, {0, 2}}))
	require.Equal(t, []Span{{0, 2}, {4, 6}},
		MergeOverlappingMatchSpans([]Span{{0, 2}, {4, 6}}))
}

func TestSearchSpansAreValid(t *testing.T) {
	d := referenceDictionary(t)

	for _, q := range []string{"lou", "saa", "teacher", "師", "lou5 si1", "hok saang"} {
		res := d.Search(q, 8, nil)
		for _, m := range res.Matches {
			for _, s := range m.MatchedSpans {
				require.Less(t, s.Start, s.End, "query %q", q)
			}
		}
	}
}
