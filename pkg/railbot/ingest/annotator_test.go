package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/railbot/pkg/railbot/lexicon"
)

func newAnnotator() *RuleAnnotator {
	return NewRuleAnnotator(lexicon.Default(), []string{"london", "liverpool", "street", "norwich", "ipswich"})
}

func texts(doc *Doc) []string {
	out := make([]string, len(doc.Tokens))
	for i, t := range doc.Tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenize(t *testing.T) {
	doc := newAnnotator().Annotate("Leaving at 9:30pm, on 12/03! o'clock one-way 👍")
	assert.Equal(t, []string{"Leaving", "at", "9:30", "pm", ",", "on", "12/03", "!", "o'clock", "one-way", "👍"}, texts(doc))
}

func TestShape(t *testing.T) {
	assert.Equal(t, "dd:dd", Shape("10:30"))
	assert.Equal(t, "d:dd", Shape("9:30"))
	assert.Equal(t, "dddd", Shape("103045"))
	assert.Equal(t, "Xxxxx", Shape("Norwich"))
}

func TestStationAfterPreposition(t *testing.T) {
	doc := newAnnotator().Annotate("book a train from norwich to London Liverpool Street tomorrow")
	byText := map[string]Token{}
	for _, tok := range doc.Tokens {
		byText[tok.Text] = tok
	}
	assert.Equal(t, VERB, byText["book"].POS)
	assert.Equal(t, "book", byText["book"].Lemma)
	assert.Equal(t, ADP, byText["from"].POS)
	assert.Equal(t, PROPN, byText["norwich"].POS)
	assert.Equal(t, Pobj, byText["norwich"].Dep)
	assert.Equal(t, PROPN, byText["London"].POS)
	assert.Empty(t, byText["London"].Dep)
	assert.Equal(t, Pobj, byText["Street"].Dep)
	assert.Equal(t, DATE, byText["tomorrow"].Ent)
}

func TestTimeEntities(t *testing.T) {
	doc := newAnnotator().Annotate("departing tomorrow at 9am")
	require.Len(t, doc.Tokens, 5)
	assert.Equal(t, "depart", doc.Tokens[0].Lemma)
	assert.Equal(t, DATE, doc.Tokens[1].Ent)
	assert.Equal(t, TIME, doc.Tokens[3].Ent)
	assert.Equal(t, TIME, doc.Tokens[4].Ent)
	assert.Equal(t, Pobj, doc.Tokens[4].Dep)
}

func TestAmAsVerb(t *testing.T) {
	doc := newAnnotator().Annotate("I am travelling")
	assert.Equal(t, VERB, doc.Tokens[1].POS)
	assert.Empty(t, doc.Tokens[1].Ent)
}

func TestNumbers(t *testing.T) {
	a := newAnnotator()
	doc := a.Annotate("two adults and 3 children")
	assert.True(t, doc.Tokens[0].LikeNum)
	assert.Equal(t, NUM, doc.Tokens[0].POS)
	assert.Equal(t, "adult", doc.Tokens[1].Lemma)
	assert.Equal(t, "child", doc.Tokens[4].Lemma)

	n, ok := a.Value(doc.Tokens[0])
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	n, ok = a.Value(doc.Tokens[3])
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestDateWithMonth(t *testing.T) {
	doc := newAnnotator().Annotate("leave on 12 March")
	assert.Equal(t, DATE, doc.Tokens[2].Ent)
	assert.Equal(t, DATE, doc.Tokens[3].Ent)
	assert.Equal(t, Pobj, doc.Tokens[3].Dep)
}

func TestSpanText(t *testing.T) {
	doc := newAnnotator().Annotate("depart from  London Liverpool Street")
	s := Span{Doc: doc, Start: 1, End: 5}
	assert.Equal(t, "from  London Liverpool Street", s.Text())
	assert.Equal(t, "London Liverpool Street", s.From(1).Text())
	assert.Equal(t, "", s.From(9).Text())
}
