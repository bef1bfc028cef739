// Package queue holds the performer queue of one karaoke event: the ordered
// queue, per-performer song comments and the history of finished performances.
//
// A Session does no locking of its own. Callers that share a Session between
// goroutines must serialize access (see event.Event).
package queue

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrNotQueued     = errors.New("performer is not in the queue")
	ErrAlreadyQueued = errors.New("performer is already in the queue")
	ErrEmpty         = errors.New("queue is empty")
)

// Performer is an opaque user identifier owned by the chat platform.
type Performer string

// Entry is a queued performer together with its comment ("" if none).
type Entry struct {
	Performer Performer
	Comment   string
}

// LogEntry records a performer that completed a turn.
type LogEntry struct {
	Performer  Performer
	Comment    string
	FinishedAt time.Time
}

type Session struct {
	queue       []Performer
	annotations map[Performer]string
	log         []LogEntry
	now         func() time.Time
}

type Option func(*Session)

// WithClock overrides the clock used to stamp log entries.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		annotations: make(map[Performer]string),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IndexOf returns the 1-based position of p.
func (s *Session) IndexOf(p Performer) (int, error) {
	i := slices.Index(s.queue, p)
	if i < 0 {
		return 0, ErrNotQueued
	}
	return i + 1, nil
}

func (s *Session) Contains(p Performer) bool {
	return slices.Contains(s.queue, p)
}

func (s *Session) Len() int { return len(s.queue) }

// Enqueue appends p to the tail and returns its 1-based position. A non-empty
// comment is stored as p's annotation, replacing any previous one.
func (s *Session) Enqueue(p Performer, comment string) (int, error) {
	if s.Contains(p) {
		return 0, ErrAlreadyQueued
	}
	s.queue = append(s.queue, p)
	if comment != "" {
		s.annotations[p] = comment
	}
	return len(s.queue), nil
}

// PeekHead returns the entry at position 1 without removing it.
func (s *Session) PeekHead() (Entry, bool) {
	return s.peek(0)
}

// PeekSecond returns the on-deck entry at position 2 without removing it.
func (s *Session) PeekSecond() (Entry, bool) {
	return s.peek(1)
}

func (s *Session) peek(i int) (Entry, bool) {
	if len(s.queue) <= i {
		return Entry{}, false
	}
	p := s.queue[i]
	return Entry{Performer: p, Comment: s.annotations[p]}, true
}

// Dequeue removes the head, moves its annotation into a new log entry and
// returns the removed entry.
func (s *Session) Dequeue() (Entry, error) {
	if len(s.queue) == 0 {
		return Entry{}, ErrEmpty
	}
	p := s.queue[0]
	s.queue = slices.Delete(s.queue, 0, 1)

	e := Entry{Performer: p, Comment: s.annotations[p]}
	delete(s.annotations, p)
	s.log = append(s.log, LogEntry{Performer: p, Comment: e.Comment, FinishedAt: s.now()})
	return e, nil
}

// RemoveByIdentity takes p out of the queue without logging it: a removed
// performer never performed. The annotation is dropped with it. reason is not
// stored; it only travels to the announcements built by the caller.
func (s *Session) RemoveByIdentity(p Performer, reason string) (Entry, error) {
	i := slices.Index(s.queue, p)
	if i < 0 {
		return Entry{}, ErrNotQueued
	}
	s.queue = slices.Delete(s.queue, i, i+1)

	e := Entry{Performer: p, Comment: s.annotations[p]}
	delete(s.annotations, p)
	return e, nil
}

// Reset clears the queue, the annotations and the log.
func (s *Session) Reset() {
	s.queue = nil
	s.annotations = make(map[Performer]string)
	s.log = nil
}

// Entries returns a snapshot of the queue in order.
func (s *Session) Entries() []Entry {
	out := make([]Entry, 0, len(s.queue))
	for _, p := range s.queue {
		out = append(out, Entry{Performer: p, Comment: s.annotations[p]})
	}
	return out
}

// History returns a snapshot of the log in completion order.
func (s *Session) History() []LogEntry {
	return slices.Clone(s.log)
}

// Annotation returns the live comment stored for p.
func (s *Session) Annotation(p Performer) (string, bool) {
	c, ok := s.annotations[p]
	return c, ok
}
