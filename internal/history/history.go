// Package history keeps a browser-style back/forward stack of tokens and
// calls a load function whenever the current token changes, the way a
// browser fires its hash-change callback.
package history

import "slices"

// Stack is a token history. It is not safe for concurrent use; it belongs
// to the event loop that owns the wizard.
type Stack struct {
	entries []string
	pos     int
	load    func(token string)
}

// New returns an empty history.
func New() *Stack {
	return &Stack{pos: -1}
}

// Init replaces the history with a single initial entry without calling
// load. An empty initial token clears the history.
func (s *Stack) Init(initial string, load func(token string)) {
	s.load = load
	s.entries = nil
	s.pos = -1
	if initial != "" {
		s.entries = []string{initial}
		s.pos = 0
	}
}

// Push records token as the new current entry, dropping any forward
// entries, and loads it.
func (s *Stack) Push(token string) {
	if s.pos < len(s.entries)-1 {
		s.entries = s.entries[:s.pos+1]
	}
	s.entries = append(s.entries, token)
	s.pos = len(s.entries) - 1
	s.fire(token)
}

// Back moves one entry back and loads it.
func (s *Stack) Back() bool {
	if s.pos <= 0 {
		return false
	}
	s.pos--
	s.fire(s.entries[s.pos])
	return true
}

// Forward moves one entry forward and loads it.
func (s *Stack) Forward() bool {
	if s.pos >= len(s.entries)-1 {
		return false
	}
	s.pos++
	s.fire(s.entries[s.pos])
	return true
}

// Len is the number of entries up to and including the current one.
func (s *Stack) Len() int {
	return s.pos + 1
}

// Current returns the current token, or "" for an empty history.
func (s *Stack) Current() string {
	if s.pos < 0 {
		return ""
	}
	return s.entries[s.pos]
}

// Tokens returns every recorded entry, including forward ones.
func (s *Stack) Tokens() []string {
	return slices.Clone(s.entries)
}

func (s *Stack) fire(token string) {
	if s.load != nil {
		s.load(token)
	}
}
