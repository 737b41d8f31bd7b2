package dialog

// Knowledge keys.
const (
	KeyMessage            = "message_text"
	KeyAction             = "action"
	KeyComplete           = "complete"
	KeyExtraInfoReq       = "extra_info_req"
	KeyExtraInfoRequested = "extra_info_requested"
	KeyScanned            = "message_scanned"

	KeyDepart         = "depart"
	KeyArrive         = "arrive"
	KeyDepartureDate  = "departure_date"
	KeyReturnDate     = "return_date"
	KeyReturning      = "returning"
	KeyAdults         = "no_adults"
	KeyChildren       = "no_children"
	KeyDepartureDelay = "departure_delay"

	KeyFinalMessageSent = "final_message_sent"
	KeyFinalized        = "finalized"
)

// Transient keys live for one turn and never reach the knowledge store.
var Transient = []string{KeyMessage, KeyExtraInfoReq, KeyExtraInfoRequested, KeyScanned}
