package dialog

import (
	"github.com/cognicore/railbot/pkg/railbot/chain"
	"github.com/cognicore/railbot/pkg/railbot/tags"
)

const (
	bookIntro = "Awesome, let's start your booking. I'll display all the details " +
		"on the right hand side from now on."
	delayIntro = "As per latest train data I can predict how long you'll be delayed." +
		"<br><i>Only available from Norwich to London Liverpool Street and intermediate stations.</i>"

	greetingText = "Hi! I'm your rail assistant. I can help you book train tickets " +
		"or tell you how long you'll be delayed. Let's go!"
	brokenText = "Sorry! There has been some issue with this chat, please reload " +
		"the page to start a new chat."

	foundManyText = "I found a few %s stations that matched %s. Is one of these correct?"
	foundNoneText = "I couldn't find any %s stations matching %s. Please try again."
	sameStation   = "%sThe departure and arrival station cannot be the same. Please enter a new %s station"

	returnUnclear = "Sorry, I don't understand. Are you returning? Try answering YES or NO."

	dateUnclear   = "%sSorry, I didn't get that. What %s are you %s?"
	dateOrder     = "%sSorry, the return time must be after the departure time. What %s are you %s?"
	datePast      = "%sSorry, the time must be in the future. What %s are you %s?"
	zeroPassenger = "There must be at least one passenger"

	askDepart      = "And where are you travelling from?"
	askDepartDate  = "When do you want to depart?"
	askArrive      = "And where are you travelling to?"
	askReturning   = "Are you returning?"
	askReturnDate  = "And when are you returning?"
	askAdults      = "How many adults (16+) will be travelling?"
	askChildren    = "How many children (under 16) will be travelling?"
	askDelayDepart = "Where are you travelling from?"
	askDelayArrive = "Where are you travelling to?"
	askDelayTime   = "What time were you expecting to depart the station?"
	askDelay       = "How long are you delayed?"

	summaryText = "Cheers! I've got everything I need to search for the best fare. " +
		"This may take some time. To start the search, check the details below in your " +
		"virtual ticket and if they are correct please press Start search. If something " +
		"isn't right please click to start a new chat and we can start again.<br/>"

	fareText     = "The best fare for a %s ticket between %s and %s is %s"
	fareLinkText = "I've found %s tickets between %s and %s."

	bookingText = "I have set up your booking with our preferred booking partner. " +
		"Click below to go through to their site to confirm your information and complete your booking."
	bookClosing = "Thanks for using the rail assistant today! If I can be of any more assistance, " +
		"click the button below to start a new chat"
	noFaresText = "Sorry, there are no available tickets between these stations at this time. " +
		"I'd be happy to try again for you with a different combination of stations or times."

	predictIntro = "Great! I can now predict how long your journey will be delayed. " +
		"This won't take longer than 5 seconds."
	predictFailed = "Sorry, I couldn't predict the delay for this journey right now."
	delayClosing  = "Thanks for using the rail assistant today! If you need any more help, " +
		"please click the button below to start a new chat"
)

// Suggestions offered to the user.
const (
	NewChat     = "Start a new chat"
	TryAgain    = "Try again"
	StartSearch = "Start search &#x1F50D;"
	NotRight    = tags.ReloadToken + "Not quite right &#8635;"
	BookTicket  = "Book a ticket"
	PredictIt   = "Delay prediction"
)

var (
	yesNo  = []string{tags.Choice(tags.Return, " Yes"), tags.Choice(tags.Return, " No")}
	thumbs = []string{tags.Choice(tags.Return, "👍"), tags.Choice(tags.Return, "👎")}
)

func countChoices(s tags.Slot) []string {
	out := make([]string, 10)
	for i := range out {
		out[i] = tags.Choice(s, string(rune('0'+i)))
	}
	return out
}

// Greeting is the envelope that opens a conversation.
func Greeting() chain.Envelope {
	return chain.Envelope{Text: greetingText, Suggestions: []string{BookTicket, PredictIt}, ResponseRequired: true}
}

// Broken is handed to the user when a turn aborts.
func Broken() chain.Envelope {
	return chain.Envelope{Text: brokenText, Suggestions: []string{"Reload Page"}, ResponseRequired: true}
}
