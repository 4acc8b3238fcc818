// Package session holds the conversation transcript and the gate that
// serializes turns: at most one conversational turn is in flight at a time.
package session

import (
	"sync"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// ConversationTurn is one utterance in the transcript. Immutable once
// created; appended only, in chronological order.
type ConversationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// State is the single session state: the ordered transcript, the turn gate,
// and the active personality/character. It is passed by reference to every
// component that needs it; there are no ambient globals.
type State struct {
	mu           sync.RWMutex
	transcript   []ConversationTurn
	turnInFlight bool
	speaking     bool
	personality  string
	character    string
}

// NewState creates an empty session state
func NewState() *State {
	return &State{}
}

// BeginTurn atomically claims the turn gate. It returns false if a turn is
// already in flight; the caller must not submit in that case.
func (s *State) BeginTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turnInFlight {
		return false
	}
	s.turnInFlight = true
	return true
}

// EndTurn releases the turn gate. It is called on every terminal path of a
// submission so a single failed request can never lock out future turns.
func (s *State) EndTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turnInFlight = false
}

// TurnInFlight reports whether a turn is currently in flight
func (s *State) TurnInFlight() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.turnInFlight
}

// SetSpeaking records whether the avatar is speaking. Only the presentation
// synchronizer writes this, in response to playback lifecycle events.
func (s *State) SetSpeaking(speaking bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speaking = speaking
}

// Speaking reports whether the avatar is speaking
func (s *State) Speaking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.speaking
}

// Busy reports whether a new submission would be rejected
func (s *State) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.turnInFlight || s.speaking
}

// Append adds a turn to the transcript
func (s *State) Append(turn ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, turn)
}

// Transcript returns a copy of the transcript
func (s *State) Transcript() []ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ConversationTurn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Len returns the transcript length
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transcript)
}

// Clear empties the transcript. The turn gate is untouched; clearing
// history is independent of whether a turn is in flight.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
}

// Replace swaps the whole transcript, used when loading server-side history
// at session start.
func (s *State) Replace(turns []ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = make([]ConversationTurn, len(turns))
	copy(s.transcript, turns)
}

// SetPersonality records the active personality
func (s *State) SetPersonality(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personality = p
}

// Personality returns the active personality
func (s *State) Personality() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.personality
}

// SetCharacter records the active character
func (s *State) SetCharacter(c string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.character = c
}

// Character returns the active character
func (s *State) Character() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.character
}
