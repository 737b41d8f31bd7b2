package dialog

import (
	"github.com/cognicore/railbot/pkg/railbot/ingest"
	"github.com/cognicore/railbot/pkg/railbot/slots"
)

var (
	bookWords   = ingest.In("book", "booking", "purchase", "buy")
	delayWords  = ingest.In("delay", "predict", "prediction")
	yesWords    = ingest.In("yes", "yeah", "y", "yep", "yeh", "ye", "👍")
	noWords     = ingest.In("no", "nope", "n", "nah", "na", "👎")
	returnWords = ingest.In("return", "returning")
	singleWords = ingest.In("single", "one-way")

	departWords = ingest.In("depart", "leave")
)

func one(s ingest.Spec) ingest.Pattern { return ingest.Pattern{s} }

var (
	bookPattern   = one(ingest.Spec{Lemma: bookWords})
	delayPattern  = one(ingest.Spec{Lemma: delayWords})
	yesPattern    = one(ingest.Spec{Lower: yesWords})
	noPattern     = one(ingest.Spec{Lower: noWords})
	returnPattern = one(ingest.Spec{Lemma: returnWords})
	singlePattern = one(ingest.Spec{Lemma: singleWords})
	numberPattern = one(ingest.Spec{LikeNum: true})

	adultsPattern   = ingest.Pattern{{LikeNum: true}, {Lemma: ingest.In("adult")}}
	childrenPattern = ingest.Pattern{{LikeNum: true}, {Lemma: ingest.In("child")}}
	minutesPattern  = ingest.Pattern{{LikeNum: true}, {Lemma: ingest.In("minute")}}
)

func stationPatterns(lead ingest.Set) []ingest.Pattern {
	return []ingest.Pattern{
		{
			{POS: ingest.ADP, Lemma: lead},
			{POS: ingest.PROPN, Op: ingest.ZeroOrMore},
			{POS: ingest.PROPN, Dep: ingest.Pobj},
		},
		{
			{Lemma: lead},
			{POS: ingest.PROPN, Op: ingest.ZeroOrMore},
			{POS: ingest.PROPN},
		},
	}
}

var endpointPatterns = map[slots.Endpoint][]ingest.Pattern{
	slots.Departure: stationPatterns(ingest.In("depart", "from")),
	slots.Arrival:   stationPatterns(ingest.In("arrive", "to")),
}

var (
	adpOpt   = ingest.Spec{POS: ingest.ADP, Op: ingest.Optional}
	dateStar = ingest.Spec{Ent: ingest.DATE, Op: ingest.ZeroOrMore}
	timeStar = ingest.Spec{Ent: ingest.TIME, Op: ingest.ZeroOrMore}
	datePobj = ingest.Spec{Ent: ingest.DATE, Dep: ingest.Pobj}
	timePobj = ingest.Spec{Ent: ingest.TIME, Dep: ingest.Pobj}
	timeTok  = ingest.Spec{Ent: ingest.TIME}
)

func shape(s string) ingest.Spec { return ingest.Spec{Shape: s} }

// datePatterns builds the date phrase patterns introduced by a verb in
// verbs. A leading verb is always followed by its phrase.
func datePatterns(verbs ingest.Set, trailingTime bool) []ingest.Pattern {
	v := ingest.Spec{Lemma: verbs}
	var ps []ingest.Pattern
	if trailingTime {
		ps = append(ps, ingest.Pattern{v, adpOpt, dateStar, adpOpt, timeStar, timePobj, timeTok})
	}
	ps = append(ps,
		ingest.Pattern{v, adpOpt, dateStar, adpOpt, timeStar, timePobj},
		ingest.Pattern{v, adpOpt, timeStar, adpOpt, dateStar, datePobj},
	)
	for _, lead := range []ingest.Spec{dateStar, timeStar} {
		for _, s := range []string{"dd:dd", "dddd", "d:dd"} {
			ps = append(ps, ingest.Pattern{v, adpOpt, lead, adpOpt, shape(s)})
		}
	}
	return ps
}

var dateFieldPatterns = map[slots.DateField][]ingest.Pattern{
	slots.DepartField: datePatterns(departWords, true),
	slots.ReturnField: datePatterns(returnWords, false),
	slots.DelayField: {
		{{Lemma: departWords}, adpOpt, shape("dd:dd")},
		{{Lemma: departWords}, adpOpt, shape("d:dd")},
		{{Lemma: departWords}, adpOpt, timeStar, timePobj},
	},
}
