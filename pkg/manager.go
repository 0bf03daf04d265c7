package pkg

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Manager owns the session registry, the waiting queue and the room table.
// Every operation that reads or mutates them holds lock for its whole
// duration, so dequeueing a pair and creating its room is one step.
type Manager struct {
	lock           sync.RWMutex
	sessions       map[uuid.UUID]*Session
	queue          waitingQueue
	rooms          map[uuid.UUID]*Room
	upgrader       websocket.Upgrader
	sendBufferSize int
	maxMessageSize int64
}

func NewManager(config *Config) *Manager {
	return &Manager{
		lock:     sync.RWMutex{},
		sessions: make(map[uuid.UUID]*Session),
		rooms:    make(map[uuid.UUID]*Room),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return config.OriginAllowed(r.Header.Get("Origin"))
			},
		},
		sendBufferSize: config.SendBufferSize,
		maxMessageSize: config.MaxMessageBytes,
	}
}

func (m *Manager) NewSession(conn *websocket.Conn) (*Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := uuid.New()
	if _, ok := m.sessions[id]; ok {
		return nil, fmt.Errorf("session already exists")
	}

	s := &Session{
		manager: m,
		uuid:    id,
		conn:    conn,
		send:    make(chan []byte, m.sendBufferSize),
		done:    make(chan struct{}),
		state:   SessionIdle,
	}

	m.sessions[id] = s

	PairingServerSessionsGauge.Inc()

	return s, nil
}

// Join appends s to the waiting queue and pairs the two oldest waiting
// sessions once at least two are present. A session that is already queued
// or matched is left where it is.
func (m *Manager) Join(s *Session) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.sessions[s.uuid]; !ok {
		return fmt.Errorf("session %s is not registered", s.uuid)
	}

	if s.state != SessionIdle {
		PairingServerDroppedCounter.WithLabelValues(DropReasonDuplicateJoin).Inc()
		log.WithFields(s.logFields()).WithFields(log.Fields{
			"reason": DropReasonDuplicateJoin,
			"state":  s.state,
		}).Debug("Ignored join request")
		return nil
	}

	m.queue.push(s)
	s.state = SessionQueued

	log.WithFields(s.logFields()).Info("Session joined queue")

	if first, second, ok := m.queue.popPair(); ok {
		m.createRoom(first, second)
	}

	PairingServerWaitingGauge.Set(float64(m.queue.len()))

	return nil
}

func (m *Manager) createRoom(first, second *Session) {
	room := newRoom(first, second)
	m.rooms[room.uuid] = room

	for _, s := range room.members {
		s.state = SessionMatched
		s.room = room
	}

	PairingServerMatchesCounter.Inc()
	PairingServerRoomsGauge.Set(float64(len(m.rooms)))

	log.WithFields(log.Fields{
		"room":    room.uuid,
		"members": []uuid.UUID{first.uuid, second.uuid},
	}).Info("Matched sessions")

	// Neither member knows the room yet, so each is told individually.
	matched, err := encodeMessage(EventTypeMatched, MatchedData{RoomID: room.ID()})
	if err != nil {
		log.WithField("room", room.uuid).Error("Failed to encode matched message: ", err)
		return
	}

	for _, s := range room.members {
		s.deliver(matched)
	}
}

// Relay forwards data to the other member of the room named by its room_id
// field. The payload is not inspected beyond that field.
func (m *Manager) Relay(s *Session, event EventType, data json.RawMessage) error {
	if !event.IsRelayed() {
		PairingServerDroppedCounter.WithLabelValues(DropReasonUnknownEvent).Inc()
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}

	roomID, err := roomIDFromData(data)
	if err != nil {
		PairingServerDroppedCounter.WithLabelValues(DropReasonMalformedPayload).Inc()
		return fmt.Errorf("%s: %w", event, err)
	}

	id, err := uuid.Parse(roomID)
	if err != nil {
		PairingServerDroppedCounter.WithLabelValues(DropReasonUnknownRoom).Inc()
		return fmt.Errorf("%s to %q: %w", event, roomID, ErrUnknownRoom)
	}

	m.lock.RLock()
	defer m.lock.RUnlock()

	room, ok := m.rooms[id]
	if !ok {
		PairingServerDroppedCounter.WithLabelValues(DropReasonUnknownRoom).Inc()
		return fmt.Errorf("%s to %s: %w", event, id, ErrUnknownRoom)
	}

	if !room.has(s) {
		PairingServerDroppedCounter.WithLabelValues(DropReasonNotRoomMember).Inc()
		return fmt.Errorf("%s to %s: %w", event, id, ErrNotRoomMember)
	}

	partner := room.partnerOf(s)
	if partner == nil {
		return nil
	}

	message, err := encodeRelayed(event, data)
	if err != nil {
		return err
	}

	if partner.deliver(message) {
		PairingServerRelayedCounter.WithLabelValues(string(event)).Inc()
	}

	log.WithFields(log.Fields{
		"session": s.uuid,
		"room":    id,
		"event":   event,
	}).Debug("Relayed message")

	return nil
}

// DeleteSession evicts s from the queue or its room. It is safe to call
// more than once; later calls do nothing.
func (m *Manager) DeleteSession(session *Session) {
	m.lock.Lock()
	defer m.lock.Unlock()

	s, ok := m.sessions[session.uuid]
	if !ok {
		return
	}

	delete(m.sessions, s.uuid)

	if m.queue.remove(s) {
		PairingServerWaitingGauge.Set(float64(m.queue.len()))
	}

	if room := s.room; room != nil {
		partner := room.partnerOf(s)
		room.remove(s)

		// A room never outlives its first departure.
		if partner != nil {
			room.remove(partner)
			partner.state = SessionIdle
			partner.room = nil

			left, err := encodeMessage(EventTypePartnerLeft, nil)
			if err == nil {
				partner.deliver(left)
			}
		}

		delete(m.rooms, room.uuid)
		PairingServerRoomsGauge.Set(float64(len(m.rooms)))

		log.WithFields(log.Fields{
			"session": s.uuid,
			"room":    room.uuid,
		}).Info("Closed room")
	}

	s.state = SessionDisconnected
	s.room = nil

	PairingServerSessionsGauge.Dec()
}

func (m *Manager) WaitingCount() int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.queue.len()
}

func (m *Manager) RoomCount() int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return len(m.rooms)
}

func (m *Manager) IsWaiting(s *Session) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.queue.contains(s)
}

// Room returns the members of the room with the given id, if it exists.
func (m *Manager) Room(roomID string) ([2]*Session, bool) {
	id, err := uuid.Parse(roomID)
	if err != nil {
		return [2]*Session{}, false
	}

	m.lock.RLock()
	defer m.lock.RUnlock()

	room, ok := m.rooms[id]
	if !ok {
		return [2]*Session{}, false
	}

	return room.Members(), true
}

func (m *Manager) SessionState(s *Session) SessionState {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return s.state
}

func (m *Manager) SocketHandler(w http.ResponseWriter, r *http.Request) {
	// Set the response headers
	w.Header().Set("Cache-Control", "no-cache")

	// Upgrade the connection to a websocket connection
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade connection: ", err)
		return
	}

	defer conn.Close()

	if m.maxMessageSize > 0 {
		conn.SetReadLimit(m.maxMessageSize)
	}

	// Register our new session
	session, err := m.NewSession(conn)
	if err != nil {
		log.Error("Failed to register session: ", err)
		return
	}

	logFields := session.logFields()

	// Log that we have a new session
	log.WithFields(logFields).Info("New session")

	// Write messages to the connection
	go session.write()

	// Read on this goroutine so no event is handled after cleanup
	session.read()

	m.DeleteSession(session)
	close(session.done)

	// Log that we have a closed session
	log.WithFields(logFields).Info("Closed session")
}
