package session

import (
	"sync"
	"time"

	"github.com/wafam/salesbot/internal/domain"
)

// Slot names collected across a conversation.
const (
	SlotProduct  = "produkt"
	SlotLocation = "miejscowosc"
	SlotPhone    = "telefon"
	SlotEmail    = "email"
)

// Session holds the volatile per-conversation state: bounded message
// history, the last product-related topic, and collected customer slots.
// All access goes through methods; the internal lock serializes
// concurrent requests for the same session id.
type Session struct {
	mu       sync.Mutex
	history  []domain.Message
	topic    string
	slots    map[string]string
	lastSeen time.Time
}

func (s *Session) touch() {
	s.lastSeen = time.Now()
}

// AppendHistory adds a turn and trims the history to the given bound,
// keeping the most recent entries in order.
func (s *Session) AppendHistory(role, content string, limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.history = append(s.history, domain.Message{Role: role, Content: content})
	if limit > 0 && len(s.history) > limit {
		s.history = append(s.history[:0:0], s.history[len(s.history)-limit:]...)
	}
}

// History returns a copy of the current message history.
func (s *Session) History() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Topic returns the last remembered product topic, if any.
func (s *Session) Topic() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic, s.topic != ""
}

// SetTopic remembers the last product-related message verbatim.
func (s *Session) SetTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.topic = topic
}

// SetSlot records a collected piece of customer data; later writes
// overwrite earlier ones.
func (s *Session) SetSlot(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.slots[name] = value
}

// Slot returns a single collected value.
func (s *Session) Slot(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[name]
}

// Slots returns a copy of all collected values.
func (s *Session) Slots() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.slots))
	for k, v := range s.slots {
		out[k] = v
	}
	return out
}

// Store keeps sessions in process memory, keyed by a caller-supplied
// session id. Sessions are created lazily and live until cleared or
// until the idle TTL sweep removes them.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a session store. When ttl > 0, sessions idle longer
// than ttl are removed by a background sweep at the given interval.
func NewStore(ttl, sweepEvery time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	if ttl > 0 {
		if sweepEvery <= 0 {
			sweepEvery = 5 * time.Minute
		}
		go s.sweep(sweepEvery)
	}
	return s
}

// GetOrCreate returns the session for the given id, creating an empty
// one on first use.
func (s *Store) GetOrCreate(id string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[id]; ok {
		return sess
	}
	sess = &Session{
		slots:    make(map[string]string),
		lastSeen: time.Now(),
	}
	s.sessions[id] = sess
	return sess
}

// Clear removes a session's state. Clearing an unknown id is a no-op.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the idle sweep.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.expire(now)
		}
	}
}

func (s *Store) expire(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > s.ttl {
			delete(s.sessions, id)
		}
	}
}
