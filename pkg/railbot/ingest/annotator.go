package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/railbot/pkg/railbot/lexicon"
)

// Annotator is the tokenizer/tagger collaborator.
type Annotator interface {
	Annotate(text string) *Doc
}

// RuleAnnotator tags tokens from a lexicon and a station vocabulary. It
// recognises the constructions a journey request uses: stations after a
// preposition, and date and time phrases.
type RuleAnnotator struct {
	lex      *lexicon.Lexicon
	stations map[string]struct{}
}

var _ Annotator = (*RuleAnnotator)(nil)

// NewRuleAnnotator creates an annotator. stationWords are lowercase words
// that appear in station names; they are tagged as proper nouns even when
// typed in lowercase.
func NewRuleAnnotator(lex *lexicon.Lexicon, stationWords []string) *RuleAnnotator {
	if lex == nil {
		lex = lexicon.Default()
	}
	sw := make(map[string]struct{}, len(stationWords))
	for _, w := range stationWords {
		sw[strings.ToLower(w)] = struct{}{}
	}
	return &RuleAnnotator{lex: lex, stations: sw}
}

// Annotate implements Annotator.
func (a *RuleAnnotator) Annotate(text string) *Doc {
	doc := &Doc{Text: text}
	for _, raw := range tokenize(text) {
		doc.Tokens = append(doc.Tokens, a.tag(raw))
	}
	a.entities(doc)
	a.dependencies(doc)
	return doc
}

// Value returns the integer a numeric token stands for.
func (a *RuleAnnotator) Value(t Token) (int, bool) {
	return NumberValue(a.lex, t)
}

// NumberValue returns the integer a numeric token stands for, reading digits
// or a number word.
func NumberValue(lex *lexicon.Lexicon, t Token) (int, bool) {
	if n, err := strconv.Atoi(strings.ReplaceAll(t.Lower, ",", "")); err == nil {
		return n, true
	}
	if lex != nil {
		return lex.Number(t.Lower)
	}
	return 0, false
}

var clockSuffix = regexp.MustCompile(`(?i)^(\d{1,2}(?::\d{2})?)(am|pm)$`)

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

func isInnerRune(r rune) bool { return r == '-' || r == '\'' || r == ':' || r == '/' || r == '.' || r == ',' }

// tokenize splits on whitespace and punctuation, keeping joiners that sit
// between word characters ("9:30", "12/03", "o'clock", "one-way").
func tokenize(text string) []Token {
	var out []Token
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		word := text[start:end]
		if m := clockSuffix.FindStringSubmatch(word); m != nil {
			split := start + len(m[1])
			out = append(out, Token{Text: m[1], Start: start, End: split})
			out = append(out, Token{Text: text[split:end], Start: split, End: end})
		} else {
			out = append(out, Token{Text: word, Start: start, End: end})
		}
		start = -1
	}

	for i, r := range text {
		switch {
		case isWordRune(r):
			if start < 0 {
				start = i
			}
		case start >= 0 && isInnerRune(r) && nextIsWord(text, i+utf8.RuneLen(r)):
			// joiner inside a word
		default:
			flush(i)
			if !unicode.IsSpace(r) {
				end := i + utf8.RuneLen(r)
				out = append(out, Token{Text: text[i:end], Start: i, End: end})
			}
		}
	}
	flush(len(text))
	return out
}

func nextIsWord(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return isWordRune(r)
}

// Shape maps digits to d, lowercase to x and uppercase to X, truncating
// runs of the same character class after four.
func Shape(text string) string {
	var b strings.Builder
	var last rune
	run := 0
	for _, r := range text {
		var c rune
		switch {
		case unicode.IsDigit(r):
			c = 'd'
		case unicode.IsUpper(r):
			c = 'X'
		case unicode.IsLower(r):
			c = 'x'
		default:
			c = r
		}
		if c == last {
			run++
		} else {
			last, run = c, 1
		}
		if run <= 4 {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (a *RuleAnnotator) likeNum(lower string) bool {
	s := strings.ReplaceAll(strings.ReplaceAll(lower, ",", ""), ".", "")
	if allDigits(s) {
		return true
	}
	if parts := strings.Split(lower, "/"); len(parts) == 2 && allDigits(parts[0]) && allDigits(parts[1]) {
		return true
	}
	_, ok := a.lex.Number(lower)
	return ok
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if isWordRune(r) {
			return true
		}
	}
	return false
}

func (a *RuleAnnotator) tag(t Token) Token {
	t.Lower = strings.ToLower(t.Text)
	t.Lemma = a.lex.Normalize(t.Lower)
	t.Shape = Shape(t.Text)
	t.LikeNum = a.likeNum(t.Lower)

	_, station := a.stations[t.Lower]
	class, closed := a.lex.Class(t.Lower)
	ent, _ := a.lex.Entity(t.Lower)
	first, _ := utf8.DecodeRuneInString(t.Text)

	switch {
	case !hasWordRune(t.Text):
		t.POS = PUNCT
	case t.LikeNum, allDigits(strings.NewReplacer(":", "", "/", "").Replace(t.Lower)):
		t.POS = NUM
	case closed && class != VERB:
		t.POS = class
	case ent != "":
		t.POS = NOUN
		t.Ent = ent
	case station:
		t.POS = PROPN
	case closed:
		t.POS = VERB
	case isVerbLemma(a.lex, t.Lemma):
		t.POS = VERB
	case unicode.IsUpper(first):
		t.POS = PROPN
	default:
		t.POS = NOUN
	}
	return t
}

func isVerbLemma(lex *lexicon.Lexicon, lemma string) bool {
	c, ok := lex.Class(lemma)
	return ok && c == VERB
}

var ordinal = regexp.MustCompile(`^\d{1,2}(st|nd|rd|th)$`)

func (a *RuleAnnotator) entities(doc *Doc) {
	toks := doc.Tokens
	for i := range toks {
		t := &toks[i]
		prev := func() *Token {
			if i > 0 {
				return &toks[i-1]
			}
			return nil
		}()

		switch {
		case t.Lower == "am" || t.Lower == "pm":
			if prev != nil && prev.POS == NUM {
				t.Ent = TIME
				prev.Ent = TIME
			} else if t.Lower == "am" {
				t.Ent = ""
				t.POS = VERB
			}
		case t.Lower == "o'clock" || t.Lower == "oclock":
			if prev != nil && prev.POS == NUM {
				prev.Ent = TIME
			}
		case strings.Contains(t.Lower, ":") && t.POS == NUM:
			t.Ent = TIME
		case strings.Contains(t.Lower, "/") && t.POS == NUM:
			t.Ent = DATE
		case ordinal.MatchString(t.Lower):
			t.Ent = DATE
			t.POS = NUM
		}
	}

	for i := range toks {
		t := &toks[i]
		if t.Ent != "" {
			continue
		}
		var prev, next *Token
		if i > 0 {
			prev = &toks[i-1]
		}
		if i+1 < len(toks) {
			next = &toks[i+1]
		}
		switch {
		case t.POS == NUM && (isMonth(prev) || isMonth(next)):
			t.Ent = DATE
		case (t.Lower == "next" || t.Lower == "this" || t.Lower == "last") && next != nil && next.Ent == DATE:
			t.Ent = DATE
		case t.POS == NUM && prev != nil && prev.Lower == "at" && atClock(t):
			t.Ent = TIME
		}
	}
}

func isMonth(t *Token) bool {
	return t != nil && t.Ent == DATE && monthNames[t.Lower]
}

var monthNames = map[string]bool{
	"january": true, "february": true, "march": true, "april": true, "may": true, "june": true,
	"july": true, "august": true, "september": true, "october": true, "november": true, "december": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true, "aug": true,
	"sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
}

func atClock(t *Token) bool {
	if t.Shape == "dddd" {
		return true
	}
	n, err := strconv.Atoi(t.Lower)
	return err == nil && n >= 0 && n <= 24
}

// dependencies marks the object of each preposition: the last token of the
// proper-noun or entity run that follows it, skipping determiners.
func (a *RuleAnnotator) dependencies(doc *Doc) {
	toks := doc.Tokens
	for i := range toks {
		if toks[i].POS != ADP {
			continue
		}
		j := i + 1
		for j < len(toks) && toks[j].POS == DET {
			j++
		}
		if j >= len(toks) {
			continue
		}
		head := toks[j]
		end := j
		switch {
		case head.POS == PROPN:
			for end+1 < len(toks) && toks[end+1].POS == PROPN {
				end++
			}
		case head.Ent != "":
			for end+1 < len(toks) && toks[end+1].Ent == head.Ent {
				end++
			}
		case head.POS == NOUN || head.POS == NUM:
		default:
			continue
		}
		toks[end].Dep = Pobj
	}
}
