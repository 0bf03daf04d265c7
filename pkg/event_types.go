package pkg

type EventType string

const (
	EventTypeJoinQueue    EventType = "join_queue"
	EventTypeOffer        EventType = "offer"
	EventTypeAnswer       EventType = "answer"
	EventTypeIceCandidate EventType = "ice-candidate"
	EventTypeMatched      EventType = "matched"
	EventTypePartnerLeft  EventType = "partner_left"
)

// IsRelayed reports whether events of this type are forwarded between the
// two members of a room.
func (t EventType) IsRelayed() bool {
	switch t {
	case EventTypeOffer, EventTypeAnswer, EventTypeIceCandidate:
		return true
	default:
		return false
	}
}
