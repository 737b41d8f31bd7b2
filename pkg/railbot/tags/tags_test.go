package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncoders(t *testing.T) {
	assert.Equal(t, "{REQ:DEP}", Request(Departure))
	assert.Equal(t, "{DEP:Norwich}", Confirm(Departure, "Norwich"))
	assert.Equal(t, "{TAG:ARR}Ipswich", Choice(Arrival, "Ipswich"))
	assert.Equal(t, "{COMP:True}", Completed())
	assert.Equal(t, "{BOOK:https://example.test}", BookLink("https://example.test"))
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  {FROM}Norwich ":         "departing fromNorwich",
		"{TO} Ipswich":             "arriving to Ipswich",
		"{TAG:DAT}tomorrow at 9am": "departing attomorrow at 9am",
		"{TAG:RAT} friday":         "returning at friday",
		"{TAG:ADT}2":               "{TAG:ADT}2",
		"{A}{B}":                   "{A}{B}",
		"{FROM}{TO}":               "{FROM}{TO}",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestForAnnotation(t *testing.T) {
	assert.Equal(t, "2", ForAnnotation("{TAG:ADT}2"))
	assert.Equal(t, "Yes", ForAnnotation("{TAG:RET} Yes"))
	assert.Equal(t, "{TAG:DEP}{X}", ForAnnotation("{TAG:DEP}{X}"))
}

func TestChoice(t *testing.T) {
	text := "{TAG:DEP}London Liverpool Street"
	assert.True(t, HasChoice(text, Departure))
	assert.False(t, HasChoice(text, Arrival))
	assert.Equal(t, "London Liverpool Street", StripChoice(text, Departure))
}

func TestParse(t *testing.T) {
	controls, rest := Parse("{DEP:Norwich}{REQ:DDT}When do you want to depart?")
	assert.Equal(t, []Control{{Kind: "DEP", Value: "Norwich"}, {Kind: "REQ", Value: "DDT"}}, controls)
	assert.Equal(t, "When do you want to depart?", rest)

	controls, rest = Parse("{RELOAD}Not quite right")
	assert.Equal(t, []Control{{Kind: "RELOAD"}}, controls)
	assert.Equal(t, "Not quite right", rest)

	slot, ok := Requested("{ARR:Ipswich}{REQ:RET}Are you returning?")
	assert.True(t, ok)
	assert.Equal(t, Return, slot)
}

func TestRequestPrefix(t *testing.T) {
	want := map[Slot]string{
		Departure:     "{FROM}",
		Arrival:       "{TO}",
		DepartureDate: "{TAG:DAT}",
		Return:        "{TAG:RET}",
		ReturnDate:    "{TAG:RAT}",
		Adults:        "{TAG:ADT}",
		Children:      "{TAG:CHD}",
		Delay:         "{TAG:DDL}",
	}
	for slot, prefix := range want {
		got, ok := RequestPrefix(slot)
		assert.True(t, ok, slot)
		assert.Equal(t, prefix, got, slot)
	}
	_, ok := RequestPrefix(Complete)
	assert.False(t, ok)
}
