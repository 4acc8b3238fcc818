package session

import (
	"sync"
	"testing"
)

func TestBeginTurnClaimsGateOnce(t *testing.T) {
	s := NewState()

	if !s.BeginTurn() {
		t.Fatal("first BeginTurn should succeed")
	}
	if s.BeginTurn() {
		t.Fatal("second BeginTurn should fail while a turn is in flight")
	}

	s.EndTurn()
	if !s.BeginTurn() {
		t.Fatal("BeginTurn should succeed after EndTurn")
	}
}

func TestBeginTurnIsAtomicUnderContention(t *testing.T) {
	s := NewState()

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.BeginTurn()
		}()
	}
	wg.Wait()
	close(results)

	won := 0
	for ok := range results {
		if ok {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winner, got %d", won)
	}
}

func TestBusyCoversSpeakingAndInFlight(t *testing.T) {
	s := NewState()
	if s.Busy() {
		t.Fatal("fresh state should not be busy")
	}

	s.SetSpeaking(true)
	if !s.Busy() {
		t.Fatal("speaking state should be busy")
	}
	s.SetSpeaking(false)

	s.BeginTurn()
	if !s.Busy() {
		t.Fatal("in-flight turn should be busy")
	}
	s.EndTurn()

	if s.Busy() {
		t.Fatal("idle state should not be busy")
	}
}

func TestTranscriptReturnsCopy(t *testing.T) {
	s := NewState()
	s.Append(ConversationTurn{Role: RoleUser, Text: "hello"})

	snapshot := s.Transcript()
	snapshot[0].Text = "mutated"

	if got := s.Transcript()[0].Text; got != "hello" {
		t.Fatalf("transcript mutated through snapshot: %q", got)
	}
}

func TestClearLeavesGateUntouched(t *testing.T) {
	s := NewState()
	s.Append(ConversationTurn{Role: RoleUser, Text: "hello"})
	s.BeginTurn()

	s.Clear()

	if s.Len() != 0 {
		t.Fatal("transcript should be empty after Clear")
	}
	if !s.TurnInFlight() {
		t.Fatal("Clear must not release the turn gate")
	}
}

func TestReplaceSwapsTranscript(t *testing.T) {
	s := NewState()
	s.Append(ConversationTurn{Role: RoleUser, Text: "old"})

	s.Replace([]ConversationTurn{
		{Role: RoleUser, Text: "hi"},
		{Role: RoleAgent, Text: "hello there"},
	})

	turns := s.Transcript()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Text != "hi" || turns[1].Role != RoleAgent {
		t.Fatalf("unexpected transcript: %+v", turns)
	}
}
