package pkg

import (
	"github.com/google/uuid"
)

// Room pairs exactly two sessions. A slot is cleared when its session
// leaves; the manager deletes the room as soon as that happens.
type Room struct {
	uuid    uuid.UUID
	members [2]*Session
}

func newRoom(first, second *Session) *Room {
	return &Room{
		uuid:    uuid.New(),
		members: [2]*Session{first, second},
	}
}

func (r *Room) ID() string {
	return r.uuid.String()
}

func (r *Room) Members() [2]*Session {
	return r.members
}

func (r *Room) has(s *Session) bool {
	return s != nil && (r.members[0] == s || r.members[1] == s)
}

// partnerOf returns the member in the other slot, or nil if s is not a
// member or the other slot is empty.
func (r *Room) partnerOf(s *Session) *Session {
	switch s {
	case nil:
		return nil
	case r.members[0]:
		return r.members[1]
	case r.members[1]:
		return r.members[0]
	default:
		return nil
	}
}

func (r *Room) remove(s *Session) bool {
	if s == nil {
		return false
	}

	for i := range r.members {
		if r.members[i] == s {
			r.members[i] = nil
			return true
		}
	}

	return false
}
