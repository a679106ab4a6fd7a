package dict

import "strings"

// EntryCharacters returns the entry's Traditional form.
func (d *Dictionary) EntryCharacters(entryID int) string {
	e := &d.entries[entryID]
	var sb strings.Builder
	for _, id := range e.Characters {
		sb.WriteRune(d.chars.characters[id])
	}
	return sb.String()
}

// EntryJyutping returns the entry's Jyutping display string: syllables
// as base+tone, joined by single spaces. This is the string Jyutping
// match spans index into.
func (d *Dictionary) EntryJyutping(entryID int) string {
	e := &d.entries[entryID]
	var sb strings.Builder
	for i, syl := range e.Jyutping {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(d.syllables.bases[syl.Base()])
		sb.WriteByte('0' + syl.Tone())
	}
	return sb.String()
}

// EntryEnglishDefinitions returns the entry's definitions as strings.
func (d *Dictionary) EntryEnglishDefinitions(entryID int) []string {
	e := &d.entries[entryID]
	defs := make([]string, 0, e.EnglishEnd-e.EnglishStart)
	for i := e.EnglishStart; i < e.EnglishEnd; i++ {
		start := d.englishDataStarts[i]
		end := d.englishDataStarts[i+1]
		defs = append(defs, string(d.englishData[start:end]))
	}
	return defs
}

// EntryEnglishDefinitionSpans returns, for each definition, its
// absolute byte range within the English blob. English match spans use
// the same coordinates.
func (d *Dictionary) EntryEnglishDefinitionSpans(entryID int) []Span {
	e := &d.entries[entryID]
	spans := make([]Span, 0, e.EnglishEnd-e.EnglishStart)
	for i := e.EnglishStart; i < e.EnglishEnd; i++ {
		spans = append(spans, Span{
			Start: int(d.englishDataStarts[i]),
			End:   int(d.englishDataStarts[i+1]),
		})
	}
	return spans
}

// EntrySource reports which input dictionary the entry came from.
func (d *Dictionary) EntrySource(entryID int) Source {
	return d.entries[entryID].Source()
}

// EntryCost returns the entry's static cost.
func (d *Dictionary) EntryCost(entryID int) uint32 {
	return d.entries[entryID].Cost
}
