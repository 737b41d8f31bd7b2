// Package ingest annotates user utterances with lemma, part of speech,
// dependency, entity and shape information, and matches token patterns
// against the result.
package ingest

import "strings"

// Coarse parts of speech.
const (
	ADJ   = "ADJ"
	ADP   = "ADP"
	CCONJ = "CCONJ"
	DET   = "DET"
	INTJ  = "INTJ"
	NOUN  = "NOUN"
	NUM   = "NUM"
	PRON  = "PRON"
	PROPN = "PROPN"
	PUNCT = "PUNCT"
	VERB  = "VERB"
)

// Entity types.
const (
	DATE = "DATE"
	TIME = "TIME"
)

// Pobj marks the last token of the object of a preposition.
const Pobj = "pobj"

// Token is one annotated word.
type Token struct {
	Text    string
	Lower   string
	Lemma   string
	POS     string
	Dep     string
	Ent     string
	Shape   string
	LikeNum bool

	// Byte offsets into Doc.Text.
	Start, End int
}

// Doc is an annotated utterance.
type Doc struct {
	Text   string
	Tokens []Token
}

// Len returns the number of tokens.
func (d *Doc) Len() int { return len(d.Tokens) }

// Span is a contiguous run of tokens [Start, End) of a Doc.
type Span struct {
	Doc        *Doc
	Start, End int
}

// Len returns the number of tokens in the span.
func (s Span) Len() int { return s.End - s.Start }

// Tokens returns the span's tokens.
func (s Span) Tokens() []Token { return s.Doc.Tokens[s.Start:s.End] }

// Token returns the i-th token of the span.
func (s Span) Token(i int) Token { return s.Doc.Tokens[s.Start+i] }

// From returns the sub-span starting i tokens in.
func (s Span) From(i int) Span {
	start := s.Start + i
	if start > s.End {
		start = s.End
	}
	return Span{Doc: s.Doc, Start: start, End: s.End}
}

// Text returns the original text the span covers.
func (s Span) Text() string {
	if s.Len() <= 0 {
		return ""
	}
	first := s.Doc.Tokens[s.Start]
	last := s.Doc.Tokens[s.End-1]
	return strings.TrimSpace(s.Doc.Text[first.Start:last.End])
}

func (s Span) String() string { return s.Text() }
