package store

import (
	"database/sql"
	"time"
)

// EventKind classifies a gesture event.
type EventKind string

const (
	// EventCommit is a new stable gesture.
	EventCommit EventKind = "commit"
	// EventLost is the hand leaving the frame while a gesture was stable.
	EventLost EventKind = "lost"
	// EventReset is a reset hold firing.
	EventReset EventKind = "reset"
)

// Event is one persisted gesture event.
type Event struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      EventKind `json:"kind"`
	Gesture   string    `json:"gesture"`
	Previous  string    `json:"previous"`
	HeldMs    int64     `json:"held_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository reads and writes gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts e and fills in its ID. A zero CreatedAt is set to now.
func (r *EventRepository) Record(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.Exec(
		`INSERT INTO gesture_events (session_id, kind, gesture, previous, held_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID, string(e.Kind), e.Gesture, e.Previous, e.HeldMs, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListBySession returns a session's events in the order they happened.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, gesture, previous, held_ms, created_at
		 FROM gesture_events WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		e := &Event{}
		var kind string
		if err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.Gesture, &e.Previous, &e.HeldMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = EventKind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountByGesture returns how often each gesture was committed in a session.
func (r *EventRepository) CountByGesture(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT gesture, COUNT(*) FROM gesture_events
		 WHERE session_id = ? AND kind = ? AND gesture != ''
		 GROUP BY gesture`,
		sessionID, string(EventCommit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var gesture string
		var n int
		if err := rows.Scan(&gesture, &n); err != nil {
			return nil, err
		}
		counts[gesture] = n
	}
	return counts, rows.Err()
}
