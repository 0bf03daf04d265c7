package pkg

import "github.com/prometheus/client_golang/prometheus"

const (
	DropReasonMalformedPayload = "malformed_payload"
	DropReasonUnknownRoom      = "unknown_room"
	DropReasonNotRoomMember    = "not_room_member"
	DropReasonUnknownEvent     = "unknown_event"
	DropReasonDecodeFailed     = "decode_failed"
	DropReasonDuplicateJoin    = "duplicate_join"
	DropReasonBufferFull       = "buffer_full"
)

var (
	PairingServerSessionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pairing_server_sessions",
		Help: "A gauge of sessions connected to the pairing server.",
	})

	PairingServerWaitingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pairing_server_waiting_sessions",
		Help: "A gauge of sessions waiting in the queue for a partner.",
	})

	PairingServerRoomsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pairing_server_rooms",
		Help: "A gauge of rooms currently holding a matched pair.",
	})

	PairingServerMatchesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pairing_server_matches_total",
		Help: "A counter for pairs formed by the matchmaker.",
	})

	PairingServerRelayedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pairing_server_relayed_messages_total",
		Help: "A counter for negotiation messages forwarded to a partner.",
	}, []string{"event"})

	PairingServerDroppedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pairing_server_dropped_messages_total",
		Help: "A counter for messages dropped instead of being handled.",
	}, []string{"reason"})

	PairingServerInFlightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pairing_server_in_flight_requests",
		Help: "A gauge of requests being handled by the pairing server.",
	})

	PairingServerRequestsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pairing_server_requests_total",
		Help: "A counter for requests to the pairing server.",
	}, []string{"code", "method"})
)

func init() {
	prometheus.MustRegister(
		PairingServerSessionsGauge,
		PairingServerWaitingGauge,
		PairingServerRoomsGauge,
		PairingServerMatchesCounter,
		PairingServerRelayedCounter,
		PairingServerDroppedCounter,
		PairingServerInFlightGauge,
		PairingServerRequestsCounter,
	)
}
