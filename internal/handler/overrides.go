package handler

import (
	"sync"

	"github.com/dukerupert/siag/internal/agenda"
)

// SessionOverrides keeps the manual event times of each session. They live
// in memory only and disappear on logout or restart.
type SessionOverrides struct {
	mu        sync.Mutex
	bySession map[string]agenda.Overrides
}

func NewSessionOverrides() *SessionOverrides {
	return &SessionOverrides{bySession: make(map[string]agenda.Overrides)}
}

// Get returns a copy of the session's overrides.
func (s *SessionOverrides) Get(token string) agenda.Overrides {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bySession[token].Clone()
}

// Set records clock for key and returns the session's overrides afterwards.
func (s *SessionOverrides) Set(token, key, clock string) (agenda.Overrides, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.bySession[token]
	if !ok {
		o = agenda.NewOverrides()
	}
	if err := o.Set(key, clock); err != nil {
		return nil, err
	}
	if len(o) == 0 {
		delete(s.bySession, token)
	} else {
		s.bySession[token] = o
	}
	return o.Clone(), nil
}

func (s *SessionOverrides) Drop(token string) {
	s.mu.Lock()
	delete(s.bySession, token)
	s.mu.Unlock()
}

// Prune drops the overrides of every session for which alive reports false
// and returns how many were dropped.
func (s *SessionOverrides) Prune(alive func(token string) bool) int {
	s.mu.Lock()
	tokens := make([]string, 0, len(s.bySession))
	for tok := range s.bySession {
		tokens = append(tokens, tok)
	}
	s.mu.Unlock()

	n := 0
	for _, tok := range tokens {
		if alive(tok) {
			continue
		}
		s.Drop(tok)
		n++
	}
	return n
}
