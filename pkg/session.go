package pkg

import (
	"errors"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type SessionState int

const (
	SessionIdle SessionState = iota
	SessionQueued
	SessionMatched
	SessionDisconnected
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionQueued:
		return "queued"
	case SessionMatched:
		return "matched"
	case SessionDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Session is one live connection. state and room are owned by the manager
// and only touched while holding its lock.
type Session struct {
	manager *Manager
	uuid    uuid.UUID
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	state   SessionState
	room    *Room
}

func (s *Session) ID() string {
	return s.uuid.String()
}

func (s *Session) logFields() log.Fields {
	return log.Fields{"session": s.uuid}
}

// deliver queues an outbound frame without blocking. Frames that do not fit
// in the buffer are dropped.
func (s *Session) deliver(message []byte) bool {
	select {
	case s.send <- message:
		return true
	default:
		PairingServerDroppedCounter.WithLabelValues(DropReasonBufferFull).Inc()
		log.WithFields(s.logFields()).
			WithField("reason", DropReasonBufferFull).
			Warn("Dropped outbound message")
		return false
	}
}

func (s *Session) handleMessage(messageData []byte) error {
	message, err := decodeMessage(messageData)
	if err != nil {
		PairingServerDroppedCounter.WithLabelValues(DropReasonDecodeFailed).Inc()
		return err
	}

	switch {
	case message.Event == EventTypeJoinQueue:
		return s.manager.Join(s)
	case message.Event.IsRelayed():
		return s.manager.Relay(s, message.Event, message.Data)
	default:
		PairingServerDroppedCounter.WithLabelValues(DropReasonUnknownEvent).Inc()
		return ErrUnknownEvent
	}
}

func (s *Session) read() {
	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil && !websocket.IsCloseError(err,
			websocket.CloseNormalClosure,
			websocket.CloseGoingAway) {
			log.WithFields(s.logFields()).Debug("Failed to read message: ", err)
		}

		if err != nil {
			break
		}

		// Handling errors only ever drop the offending message.
		err = s.handleMessage(message)
		if err != nil {
			entry := log.WithFields(s.logFields())
			switch {
			case errors.Is(err, ErrUnknownRoom), errors.Is(err, ErrNotRoomMember):
				entry.Info("Dropped message: ", err)
			default:
				entry.Warn("Failed to handle message: ", err)
			}
		}
	}
}

func (s *Session) write() {
	defer s.conn.Close()

	for {
		select {
		case message := <-s.send:
			err := s.conn.WriteMessage(websocket.TextMessage, message)
			if err != nil {
				log.WithFields(s.logFields()).Debug("Failed to write message: ", err)
				return
			}
		case <-s.done:
			return
		}
	}
}
