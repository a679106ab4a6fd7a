package dict

import "github.com/jyutdict/jyutdict/strsearch"

// MergeOverlappingMatchSpans sorts spans and coalesces overlapping or
// touching neighbours. Already-disjoint sorted input comes back
// unchanged.
func MergeOverlappingMatchSpans(spans []Span) []Span {
	return mergeMatchSpans(spans, 0)
}

// mergeMatchSpans merges spans whose gap is at most slack. Jyutping
// spans use slack 1 so that adjacently matched syllables highlight
// across the single space joining them.
func mergeMatchSpans(spans []Span, slack int) []Span {
	if len(spans) < 2 {
		return spans
	}

	sortSpans(spans)

	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End+slack {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

func sortSpans(spans []Span) {
	// Insertion sort: span lists are tiny and usually already sorted.
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].Start < spans[j-1].Start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
}

// jyutpingMatchedSpans reconstructs byte spans into the entry's
// Jyutping display string ("base+tone" syllables joined by single
// spaces). Each query term highlights the typed text within its chosen
// syllable, plus the tone digit when the term carried one.
func (d *Dictionary) jyutpingMatchedSpans(e *Entry, terms *queryTerms) []Span {
	offsets := d.syllableDisplayOffsets(e)

	var spans []Span
	for ti := range terms.jyutpingTerms {
		term := &terms.jyutpingTerms[ti]

		// Re-run the scorer's best-syllable selection for this term.
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
			continue
		}

		alpha := d.syllables.bases[e.Jyutping[best].Base()]
		sylStart := offsets[best]

		if len(term.baseText) > 0 {
			matchOff := 0
			matchLen := len(term.baseText)
			if !asciiEqualFold(alpha, term.baseText) {
				if pos := strsearch.IndexOfCI([]byte(term.baseText), []byte(alpha)); pos >= 0 {
					matchOff = pos
				} else {
					// Fuzzy match: highlight the whole base.
					matchLen = len(alpha)
				}
			}
			spans = append(spans, Span{
				Start: sylStart + matchOff,
				End:   sylStart + matchOff + matchLen,
			})
		}

		if term.hasTone {
			spans = append(spans, Span{
				Start: sylStart + len(alpha),
				End:   sylStart + len(alpha) + 1,
			})
		}
	}

	return mergeMatchSpans(spans, 1)
}

// traditionalMatchedSpans returns character-index spans over the
// entry's character sequence.
func (d *Dictionary) traditionalMatchedSpans(e *Entry, terms *queryTerms) []Span {
	var spans []Span
	for idx, cid := range e.Characters {
		for _, qid := range terms.traditionalTerms {
			if cid == qid {
				spans = append(spans, Span{Start: idx, End: idx + 1})
				break
			}
		}
	}
	return MergeOverlappingMatchSpans(spans)
}

// englishMatchedSpans returns absolute byte spans into the English
// blob, one per query token hit per definition.
func (d *Dictionary) englishMatchedSpans(e *Entry, terms *queryTerms) []Span {
	var spans []Span
	for defIdx := e.EnglishStart; defIdx < e.EnglishEnd; defIdx++ {
		start := d.englishDataStarts[defIdx]
		end := d.englishDataStarts[defIdx+1]
		defBytes := d.englishData[start:end]

		for _, token := range terms.englishTokens {
			if pos := strsearch.IndexOfCI(token, defBytes); pos >= 0 {
				spans = append(spans, Span{
					Start: int(start) + pos,
					End:   int(start) + pos + len(token),
				})
			}
		}
	}
	return MergeOverlappingMatchSpans(spans)
}

// syllableDisplayOffsets returns the byte offset of each syllable in
// the entry's display string.
func (d *Dictionary) syllableDisplayOffsets(e *Entry) []int {
	offsets := make([]int, len(e.Jyutping))
	off := 0
	for i, syl := range e.Jyutping {
		offsets[i] = off
		off += len(d.syllables.bases[syl.Base()]) + 1 // tone digit
		if i < len(e.Jyutping)-1 {
			off++ // separating space
		}
	}
	return offsets
}
