package jyutping

// Splitter lazily tokenizes a string into Jyutping syllables: maximal
// runs of ASCII letters terminated by exactly one ASCII digit. Any
// non-ASCII byte, ASCII whitespace, or ASCII punctuation resets the
// current run; letter runs without a closing digit are discarded.
type Splitter struct {
	s     string
	pos   int
	start int
}

func NewSplitter(s string) *Splitter {
	return &Splitter{s: s}
}

// Next returns the next syllable token, or ok false at end of input.
func (sp *Splitter) Next() (string, bool) {
	for sp.pos < len(sp.s) {
		c := sp.s[sp.pos]

		if c >= 0x80 || isASCIIWhitespace(c) || isASCIIPunct(c) {
			sp.pos++
			sp.start = sp.pos
			continue
		}

		if c >= '0' && c <= '9' && sp.pos > sp.start {
			tok := sp.s[sp.start : sp.pos+1]
			sp.pos++
			sp.start = sp.pos
			return tok, true
		}

		if c >= '0' && c <= '9' {
			// Digit with no preceding letters: skip it.
			sp.pos++
			sp.start = sp.pos
			continue
		}

		sp.pos++
	}
	return "", false
}

// Split returns every syllable token of s.
func Split(s string) []string {
	var out []string
	sp := NewSplitter(s)
	for {
		tok, ok := sp.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

func isASCIIWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isASCIIPunct(c byte) bool {
	switch {
	case c >= '!' && c <= '/':
		return true
	case c >= ':' && c <= '@':
		return true
	case c >= '[' && c <= '`':
		return true
	case c >= '{' && c <= '~':
		return true
	}
	return false
}
