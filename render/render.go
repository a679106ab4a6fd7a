// Package render turns matches into display-ready results: the entry's
// fields as strings, with HTML <mark> highlighting applied over the
// matched spans and everything else escaped.
package render

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/bytebufferpool"

	"github.com/jyutdict/jyutdict/dict"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Result is one dictionary entry with pre-rendered, highlighted fields.
type Result struct {
	Characters         string   `json:"characters"`
	Jyutping           string   `json:"jyutping"`
	EnglishDefinitions []string `json:"english_definitions"`
	Cost               uint32   `json:"cost"`
	EntrySource        string   `json:"entry_source"`
}

// FromMatch renders one match with its hit highlighting applied to the
// field addressed by the match type.
func FromMatch(m *dict.MatchWithSpans, d *dict.Dictionary) Result {
	characters := d.EntryCharacters(m.EntryID)
	if m.Type == dict.MatchTypeTraditional {
		characters = applyHighlightsRunes(characters, m.MatchedSpans)
	} else {
		characters = EscapeHTML(characters)
	}

	jyutping := d.EntryJyutping(m.EntryID)
	if m.Type == dict.MatchTypeJyutping {
		jyutping = ApplyHighlights(jyutping, m.MatchedSpans)
	} else {
		jyutping = EscapeHTML(jyutping)
	}

	var definitions []string
	if m.Type == dict.MatchTypeEnglish {
		definitions = highlightedDefinitions(m, d)
	} else {
		defs := d.EntryEnglishDefinitions(m.EntryID)
		definitions = make([]string, len(defs))
		for i, def := range defs {
			definitions[i] = EscapeHTML(def)
		}
	}

	return Result{
		Characters:         characters,
		Jyutping:           jyutping,
		EnglishDefinitions: definitions,
		Cost:               d.EntryCost(m.EntryID),
		EntrySource:        d.EntrySource(m.EntryID).String(),
	}
}

// highlightedDefinitions re-bases the match's absolute blob spans onto
// each definition before highlighting it.
func highlightedDefinitions(m *dict.MatchWithSpans, d *dict.Dictionary) []string {
	defs := d.EntryEnglishDefinitions(m.EntryID)
	defSpans := d.EntryEnglishDefinitionSpans(m.EntryID)

	out := make([]string, len(defs))
	for i, def := range defs {
		var local []dict.Span
		for _, s := range m.MatchedSpans {
			if s.Start >= defSpans[i].Start && s.End <= defSpans[i].End {
				local = append(local, dict.Span{
					Start: s.Start - defSpans[i].Start,
					End:   s.End - defSpans[i].Start,
				})
			}
		}
		out[i] = ApplyHighlights(def, local)
	}
	return out
}

const (
	markOpen  = `<mark class="hit-highlight">`
	markClose = `</mark>`
)

// ApplyHighlights wraps the byte spans of text in <mark> tags and
// escapes everything. Spans must be sorted and non-overlapping (the
// search merges them).
func ApplyHighlights(text string, spans []dict.Span) string {
	if len(spans) == 0 {
		return EscapeHTML(text)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	last := 0
	for _, s := range spans {
		if s.Start > last {
			escapeInto(buf, text[last:s.Start])
		}
		buf.WriteString(markOpen)
		escapeInto(buf, text[s.Start:s.End])
		buf.WriteString(markClose)
		last = s.End
	}
	if last < len(text) {
		escapeInto(buf, text[last:])
	}

	return buf.String()
}

// applyHighlightsRunes is ApplyHighlights for spans counted in
// characters rather than bytes (Traditional matches).
func applyHighlightsRunes(text string, spans []dict.Span) string {
	runes := []rune(text)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	last := 0
	for _, s := range spans {
		if s.Start > last {
			escapeInto(buf, string(runes[last:s.Start]))
		}
		buf.WriteString(markOpen)
		escapeInto(buf, string(runes[s.Start:s.End]))
		buf.WriteString(markClose)
		last = s.End
	}
	if last < len(runes) {
		escapeInto(buf, string(runes[last:]))
	}

	return buf.String()
}

// EscapeHTML escapes the characters that could open markup or break
// out of attributes.
func EscapeHTML(text string) string {
	if !needsEscape(text) {
		return text
	}
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	escapeInto(buf, text)
	return buf.String()
}

func needsEscape(text string) bool {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '<', '>', '&', '"', '\'':
			return true
		}
	}
	return false
}

func escapeInto(buf *bytebufferpool.ByteBuffer, text string) {
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#x27;")
		default:
			buf.WriteByte(c)
		}
	}
}

// ResultSet is the JSON shape handed to web callers: rendered entries
// alongside the raw match data.
type ResultSet struct {
	Results            []RenderedMatch `json:"results"`
	InternalCandidates int             `json:"internal_candidates"`
	Timings            dict.Timings    `json:"timings"`
}

// RenderedMatch is one match plus its rendered display form.
type RenderedMatch struct {
	Cost         uint32             `json:"cost"`
	CostInfo     dict.MatchCostInfo `json:"cost_info"`
	MatchType    string             `json:"match_type"`
	MatchedSpans []dict.Span        `json:"matched_spans"`
	DisplayEntry Result             `json:"display_entry"`
}

// RenderSearchResult renders every match of a search result.
func RenderSearchResult(res *dict.SearchResult, d *dict.Dictionary) ResultSet {
	out := ResultSet{
		Results:            make([]RenderedMatch, 0, len(res.Matches)),
		InternalCandidates: res.InternalCandidates,
		Timings:            res.Timings,
	}
	for i := range res.Matches {
		m := &res.Matches[i]
		out.Results = append(out.Results, RenderedMatch{
			Cost:         m.CostInfo.Total(),
			CostInfo:     m.CostInfo,
			MatchType:    m.Type.String(),
			MatchedSpans: m.MatchedSpans,
			DisplayEntry: FromMatch(m, d),
		})
	}
	return out
}

// Marshal serializes the result set to JSON.
func (rs ResultSet) Marshal() ([]byte, error) {
	return json.Marshal(rs)
}
