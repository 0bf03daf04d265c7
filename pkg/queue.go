package pkg

// waitingQueue holds sessions waiting for a partner in arrival order.
type waitingQueue struct {
	sessions []*Session
}

func (q *waitingQueue) len() int {
	return len(q.sessions)
}

func (q *waitingQueue) push(s *Session) {
	q.sessions = append(q.sessions, s)
}

// popPair removes and returns the two oldest sessions.
func (q *waitingQueue) popPair() (*Session, *Session, bool) {
	if len(q.sessions) < 2 {
		return nil, nil, false
	}

	first, second := q.sessions[0], q.sessions[1]
	q.sessions[0], q.sessions[1] = nil, nil
	q.sessions = q.sessions[2:]

	return first, second, true
}

func (q *waitingQueue) remove(s *Session) bool {
	for i, session := range q.sessions {
		if session == s {
			q.sessions = append(q.sessions[:i], q.sessions[i+1:]...)
			return true
		}
	}

	return false
}

func (q *waitingQueue) contains(s *Session) bool {
	for _, session := range q.sessions {
		if session == s {
			return true
		}
	}

	return false
}
