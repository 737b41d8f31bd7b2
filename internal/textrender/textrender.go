// Package textrender turns reply envelopes into plain terminal text.
package textrender

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/railbot/pkg/railbot/chain"
	"github.com/cognicore/railbot/pkg/railbot/tags"
)

// Plain strips markup from an HTML fragment and decodes entities. Line
// breaks become newlines.
func Plain(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

// Reply is an envelope laid out for a terminal.
type Reply struct {
	Text        string
	Confirmed   []string
	Suggestions []string
	Request     tags.Slot
	Complete    bool
}

// Render decodes the control tokens of env and strips its markup.
func Render(env chain.Envelope) Reply {
	controls, rest := tags.Parse(env.Text)
	r := Reply{Text: Plain(rest)}
	for _, c := range controls {
		switch c.Kind {
		case "REQ":
			r.Request = tags.Slot(c.Value)
		case string(tags.Complete):
			r.Complete = true
		case "TAG", string(tags.Reload), string(tags.Book):
		default:
			r.Confirmed = append(r.Confirmed, c.Kind+": "+strings.ReplaceAll(c.Value, "_", ":"))
		}
	}
	for _, s := range env.Suggestions {
		r.Suggestions = append(r.Suggestions, Suggestion(s))
	}
	return r
}

// Suggestion renders a suggestion label. A booking link is shown after
// the label.
func Suggestion(s string) string {
	controls, rest := tags.Parse(s)
	label := Plain(rest)
	for _, c := range controls {
		if c.Kind == string(tags.Book) {
			return label + " <" + c.Value + ">"
		}
	}
	return label
}

// String lays the reply out over several lines.
func (r Reply) String() string {
	var b strings.Builder
	if len(r.Confirmed) > 0 {
		b.WriteString("[" + strings.Join(r.Confirmed, ", ") + "]\n")
	}
	b.WriteString(r.Text)
	for i, s := range r.Suggestions {
		b.WriteString("\n  ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(") ")
		b.WriteString(s)
	}
	return b.String()
}
