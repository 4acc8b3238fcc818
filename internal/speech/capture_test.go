package speech

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/avatarchat/internal/bus"
)

type fakeRecorder struct {
	available bool
	wav       []byte
	err       error
	block     chan struct{} // optional; Record waits on it when set
}

func (r *fakeRecorder) Available() bool { return r.available }

func (r *fakeRecorder) Record(ctx context.Context) ([]byte, error) {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.wav, nil
}

type fakeTranscriber struct {
	available bool
	text      string
	err       error
}

func (t *fakeTranscriber) Name() string    { return "fake" }
func (t *fakeTranscriber) Available() bool { return t.available }

func (t *fakeTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	return t.text, t.err
}

func waitInactive(t *testing.T, c *Capturer) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.State() == StateInactive {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("capturer did not return to inactive")
}

func TestActivateUnavailableIsSilentNoOp(t *testing.T) {
	events := bus.NewEventBus()
	var published int
	events.SubscribeMultiple([]bus.EventType{
		bus.EventTypeListeningStarted,
		bus.EventTypeListeningStopped,
	}, func(bus.Event) { published++ })

	c := NewCapturer(&fakeRecorder{available: false}, &fakeTranscriber{available: true}, events, zerolog.Nop())
	c.Activate()

	if c.State() != StateInactive {
		t.Fatal("unavailable capture must stay inactive")
	}
	if published != 0 {
		t.Fatal("unavailable capture must not publish events")
	}
}

func TestActivateDeliversOneTranscript(t *testing.T) {
	events := bus.NewEventBus()
	c := NewCapturer(
		&fakeRecorder{available: true, wav: []byte("wav")},
		&fakeTranscriber{available: true, text: "hello avatar"},
		events, zerolog.Nop(),
	)

	var mu sync.Mutex
	var transcripts []string
	var stateAtDelivery CaptureState
	done := make(chan struct{})
	c.SetOnTranscript(func(text string) {
		mu.Lock()
		transcripts = append(transcripts, text)
		stateAtDelivery = c.State()
		mu.Unlock()
		close(done)
	})

	c.Activate()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("transcript was not delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(transcripts) != 1 || transcripts[0] != "hello avatar" {
		t.Fatalf("expected one transcript, got %v", transcripts)
	}
	if stateAtDelivery != StateInactive {
		t.Fatal("capture must be inactive before the transcript is delivered")
	}
}

func TestActivateWhileListeningStops(t *testing.T) {
	events := bus.NewEventBus()
	rec := &fakeRecorder{available: true, wav: []byte("wav"), block: make(chan struct{})}
	c := NewCapturer(rec, &fakeTranscriber{available: true, text: "never"}, events, zerolog.Nop())

	var delivered bool
	c.SetOnTranscript(func(string) { delivered = true })

	c.Activate()
	if c.State() != StateListening {
		t.Fatal("first activation should start listening")
	}

	// Second activation is the stop gesture.
	c.Activate()
	waitInactive(t, c)

	if delivered {
		t.Fatal("stopped pass must not deliver a transcript")
	}
}

func TestFailedTranscriptionDegradesSilently(t *testing.T) {
	events := bus.NewEventBus()
	var stopped int
	stoppedCh := make(chan struct{}, 1)
	events.Subscribe(bus.EventTypeListeningStopped, func(bus.Event) {
		stopped++
		stoppedCh <- struct{}{}
	})

	c := NewCapturer(
		&fakeRecorder{available: true, wav: []byte("wav")},
		&fakeTranscriber{available: true, err: fmt.Errorf("api down")},
		events, zerolog.Nop(),
	)
	var delivered bool
	c.SetOnTranscript(func(string) { delivered = true })

	c.Activate()
	select {
	case <-stoppedCh:
	case <-time.After(2 * time.Second):
		t.Fatal("listening never stopped")
	}
	waitInactive(t, c)

	if delivered {
		t.Fatal("failed transcription must not deliver a transcript")
	}
	if stopped != 1 {
		t.Fatalf("expected one stop event, got %d", stopped)
	}
}

func TestListeningEventsBracketThePass(t *testing.T) {
	events := bus.NewEventBus()
	var mu sync.Mutex
	var order []bus.EventType
	done := make(chan struct{})
	events.SubscribeMultiple([]bus.EventType{
		bus.EventTypeListeningStarted,
		bus.EventTypeListeningStopped,
	}, func(e bus.Event) {
		mu.Lock()
		order = append(order, e.Type)
		n := len(order)
		mu.Unlock()
		if n == 2 {
			close(done)
		}
	})

	c := NewCapturer(
		&fakeRecorder{available: true, wav: []byte("wav")},
		&fakeTranscriber{available: true, text: "hi"},
		events, zerolog.Nop(),
	)
	c.Activate()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listening events incomplete")
	}

	mu.Lock()
	defer mu.Unlock()
	if order[0] != bus.EventTypeListeningStarted || order[1] != bus.EventTypeListeningStopped {
		t.Fatalf("unexpected event order: %v", order)
	}
}
