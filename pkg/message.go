package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrUnknownRoom      = errors.New("unknown room")
	ErrNotRoomMember    = errors.New("sender is not a member of the room")
	ErrUnknownEvent     = errors.New("unknown event")
)

// Message is the envelope for every frame exchanged over the socket. Data is
// kept raw so relayed payloads reach the partner exactly as they were sent.
type Message struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type MatchedData struct {
	RoomID string `json:"room_id"`
}

type roomReference struct {
	RoomID string `json:"room_id"`
}

func decodeMessage(message []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(message, &m); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}

	if m.Event == "" {
		return nil, fmt.Errorf("message has no event")
	}

	return &m, nil
}

// roomIDFromData extracts the room_id field of a relayed payload without
// interpreting anything else in it.
func roomIDFromData(data json.RawMessage) (string, error) {
	if len(data) == 0 {
		return "", ErrMalformedPayload
	}

	var ref roomReference
	if err := json.Unmarshal(data, &ref); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if ref.RoomID == "" {
		return "", ErrMalformedPayload
	}

	return ref.RoomID, nil
}

func encodeMessage(event EventType, data any) ([]byte, error) {
	m := Message{Event: event}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s data: %w", event, err)
		}
		m.Data = raw
	}

	return json.Marshal(&m)
}

// encodeRelayed wraps a forwarded payload in an envelope without re-encoding
// it, so the partner receives the sender's bytes unchanged.
func encodeRelayed(event EventType, data json.RawMessage) ([]byte, error) {
	name, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event name: %w", err)
	}

	out := make([]byte, 0, len(name)+len(data)+20)
	out = append(out, `{"event":`...)
	out = append(out, name...)
	out = append(out, `,"data":`...)
	out = append(out, data...)
	out = append(out, '}')

	return out, nil
}
