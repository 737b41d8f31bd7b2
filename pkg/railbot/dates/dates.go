// Package dates turns free-text date and time phrases into absolute times.
package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"go.uber.org/zap"
)

// Order tells the parser how to read numeric dates such as 03/04.
type Order string

const (
	DMY Order = "DMY"
	MDY Order = "MDY"
)

// Parser is the date/time collaborator.
type Parser interface {
	// Parse returns the absolute time described by text.
	Parse(text string, order Order) (time.Time, bool)
	// IsParseable reports whether text contains any date or time phrase.
	IsParseable(text string) bool
}

// NaturalParser implements Parser with github.com/olebedev/when rules for
// English plus the common numeric formats.
type NaturalParser struct {
	w   *when.Parser
	now func() time.Time
	log *zap.Logger
}

// NewNatural creates a parser resolving relative phrases against now.
// A nil now uses time.Now.
func NewNatural(now func() time.Time, log *zap.Logger) *NaturalParser {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &NaturalParser{w: w, now: now, log: log}
}

var slashDate = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})((?:/\d{2,4})?)\b`)

// Parse implements Parser.
func (p *NaturalParser) Parse(text string, order Order) (time.Time, bool) {
	if order == MDY {
		// The rule set reads slash dates day first.
		text = slashDate.ReplaceAllString(text, "$2/$1$3")
	}
	r, err := p.w.Parse(text, p.now())
	if err != nil {
		p.log.Debug("date parse failed", zap.String("text", text), zap.Error(err))
		return time.Time{}, false
	}
	if r == nil {
		return time.Time{}, false
	}
	return r.Time, true
}

// IsParseable implements Parser.
func (p *NaturalParser) IsParseable(text string) bool {
	_, ok := p.Parse(text, DMY)
	return ok
}

var clockReplacer = strings.NewReplacer(
	" am", "am", " AM", "am", " pm", "pm", " PM", "pm",
	" o'clock", ":00", " oclock", ":00", "o'clock", ":00", "oclock", ":00",
)

// NormalizeClock folds informal time separators: "9 am" becomes "9am" and
// "9 o'clock" becomes "9:00".
func NormalizeClock(text string) string {
	return clockReplacer.Replace(text)
}
