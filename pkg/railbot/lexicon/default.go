package lexicon

// Default returns the built-in English vocabulary for train journeys.
func Default() *Lexicon {
	l := New()
	for canonical, variants := range defaultLemmas {
		l.AddSynonymGroup(canonical, variants)
	}
	for w, n := range defaultNumbers {
		l.AddNumber(w, n)
	}
	for class, words := range defaultClasses {
		for _, w := range words {
			l.AddClass(w, class)
		}
	}
	for ent, words := range defaultEntities {
		for _, w := range words {
			l.AddEntity(w, ent)
		}
	}
	return l
}

var defaultLemmas = map[string][]string{
	"book":     {"books", "booked", "booking", "bookings"},
	"buy":      {"buys", "bought", "buying"},
	"purchase": {"purchases", "purchased", "purchasing"},
	"depart":   {"departs", "departed", "departing"},
	"leave":    {"leaves", "left", "leaving"},
	"arrive":   {"arrives", "arrived", "arriving"},
	"return":   {"returns", "returned", "returning"},
	"travel":   {"travels", "travelled", "traveled", "travelling", "traveling"},
	"go":       {"goes", "went", "going", "gone"},
	"want":     {"wants", "wanted", "wanting"},
	"need":     {"needs", "needed", "needing"},
	"delay":    {"delays", "delayed", "delaying"},
	"predict":  {"predicts", "predicted", "predicting"},
	"adult":    {"adults"},
	"child":    {"children", "kids", "kid"},
	"minute":   {"minutes", "mins", "min"},
	"ticket":   {"tickets"},
	"train":    {"trains"},
	"be":       {"am", "is", "are", "was", "were", "been", "being"},
}

var defaultNumbers = map[string]int{
	"zero": 0, "none": 0,
	"one": 1,
	"two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "fifteen": 15, "twenty": 20,
	"thirty": 30, "forty": 40, "forty-five": 45, "fifty": 50, "sixty": 60,
}

var defaultClasses = map[string][]string{
	"ADP": {
		"from", "to", "at", "on", "in", "by", "for", "of", "via", "into",
		"until", "after", "before", "between", "with", "around", "about",
	},
	"DET":   {"a", "an", "the", "this", "that", "these", "those", "my", "our", "your", "some", "any", "every"},
	"PRON":  {"i", "me", "we", "us", "you", "he", "she", "it", "they", "them"},
	"CCONJ": {"and", "or", "but"},
	"ADJ":   {"next", "last", "single", "one-way", "open"},
	"INTJ":  {"yes", "yeah", "yep", "yeh", "ye", "y", "no", "nope", "nah", "na", "n", "hi", "hello", "thanks"},
	"VERB": {
		"book", "buy", "purchase", "depart", "leave", "arrive", "return",
		"travel", "go", "want", "need", "predict", "like", "get", "be",
		"would", "will", "can", "could", "please",
	},
}

var defaultEntities = map[string][]string{
	"DATE": {
		"today", "tomorrow", "tonight", "yesterday", "week", "weekend", "fortnight",
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		"mon", "tue", "tues", "wed", "thu", "thur", "thurs", "fri", "sat", "sun",
		"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
	},
	"TIME": {
		"am", "pm", "a.m.", "p.m.", "noon", "midday", "midnight",
		"morning", "afternoon", "evening", "o'clock", "oclock", "hour", "hours",
	},
}
