package playback

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/avatarchat/internal/bus"
)

type fakeFetcher struct {
	data map[string][]byte
	err  error
}

func (f *fakeFetcher) FetchAudio(_ context.Context, audioID string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[audioID], nil
}

// blockingPlayer holds each play until released, recording played paths.
type blockingPlayer struct {
	mu      sync.Mutex
	paths   []string
	release chan struct{}
	err     error
}

func newBlockingPlayer() *blockingPlayer {
	return &blockingPlayer{release: make(chan struct{}, 8)}
}

func (p *blockingPlayer) Name() string      { return "fake" }
func (p *blockingPlayer) IsAvailable() bool { return true }

func (p *blockingPlayer) Play(_ context.Context, path string) error {
	p.mu.Lock()
	p.paths = append(p.paths, path)
	p.mu.Unlock()
	<-p.release
	return p.err
}

func (p *blockingPlayer) playedPaths() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.paths...)
}

// eventRecorder collects playback events in delivery order.
type eventRecorder struct {
	mu     sync.Mutex
	events []bus.Event
	seen   chan bus.Event
}

func recordEvents(events *bus.EventBus) *eventRecorder {
	r := &eventRecorder{seen: make(chan bus.Event, 16)}
	events.SubscribeMultiple([]bus.EventType{
		bus.EventTypePlaybackStarted,
		bus.EventTypePlaybackEnded,
		bus.EventTypePlaybackErrored,
	}, func(e bus.Event) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
		r.seen <- e
	})
	return r
}

func (r *eventRecorder) wait(t *testing.T, eventType bus.EventType) bus.Event {
	t.Helper()
	for {
		select {
		case e := <-r.seen:
			if e.Type == eventType {
				return e
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", eventType)
		}
	}
}

func (r *eventRecorder) types() []bus.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bus.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func TestPlayEmitsStartedThenEnded(t *testing.T) {
	events := bus.NewEventBus()
	rec := recordEvents(events)
	player := newBlockingPlayer()
	fetcher := &fakeFetcher{data: map[string][]byte{"a1": []byte("mp3 bytes")}}
	c := NewController(fetcher, player, events, zerolog.Nop())

	c.Play(context.Background(), "a1")
	started := rec.wait(t, bus.EventTypePlaybackStarted)
	if started.Data["audio_id"] != "a1" {
		t.Fatalf("started event for wrong audio: %v", started.Data)
	}

	player.release <- struct{}{}
	rec.wait(t, bus.EventTypePlaybackEnded)

	got := rec.types()
	want := []bus.EventType{bus.EventTypePlaybackStarted, bus.EventTypePlaybackEnded}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected event sequence: %v", got)
	}
}

func TestPlayFetchFailureEmitsErroredOnly(t *testing.T) {
	events := bus.NewEventBus()
	rec := recordEvents(events)
	fetcher := &fakeFetcher{err: fmt.Errorf("boom")}
	c := NewController(fetcher, newBlockingPlayer(), events, zerolog.Nop())

	c.Play(context.Background(), "a1")
	errored := rec.wait(t, bus.EventTypePlaybackErrored)
	if errored.Data["error"] == nil {
		t.Fatal("errored event should carry the error")
	}

	got := rec.types()
	if len(got) != 1 || got[0] != bus.EventTypePlaybackErrored {
		t.Fatalf("expected errored only, got %v", got)
	}
}

func TestPlayPlayerFailureEmitsStartedThenErrored(t *testing.T) {
	events := bus.NewEventBus()
	rec := recordEvents(events)
	player := newBlockingPlayer()
	player.err = fmt.Errorf("device busy")
	fetcher := &fakeFetcher{data: map[string][]byte{"a1": []byte("x")}}
	c := NewController(fetcher, player, events, zerolog.Nop())

	c.Play(context.Background(), "a1")
	rec.wait(t, bus.EventTypePlaybackStarted)
	player.release <- struct{}{}
	rec.wait(t, bus.EventTypePlaybackErrored)

	got := rec.types()
	if len(got) != 2 || got[1] != bus.EventTypePlaybackErrored {
		t.Fatalf("unexpected event sequence: %v", got)
	}
}

func TestPlaySupersededHandleEventsAreDiscarded(t *testing.T) {
	events := bus.NewEventBus()
	rec := recordEvents(events)
	player := newBlockingPlayer()
	fetcher := &fakeFetcher{data: map[string][]byte{
		"first":  []byte("one"),
		"second": []byte("two"),
	}}
	c := NewController(fetcher, player, events, zerolog.Nop())

	c.Play(context.Background(), "first")
	rec.wait(t, bus.EventTypePlaybackStarted)

	c.Play(context.Background(), "second")
	started := rec.wait(t, bus.EventTypePlaybackStarted)
	if started.Data["audio_id"] != "second" {
		t.Fatalf("expected second handle to start, got %v", started.Data)
	}

	// Release both; only the live handle's terminal event may surface.
	player.release <- struct{}{}
	player.release <- struct{}{}
	ended := rec.wait(t, bus.EventTypePlaybackEnded)
	if ended.Data["audio_id"] != "second" {
		t.Fatalf("terminal event from superseded handle leaked: %v", ended.Data)
	}

	// Exactly one terminal event overall.
	terminal := 0
	for _, e := range rec.types() {
		if e == bus.EventTypePlaybackEnded || e == bus.EventTypePlaybackErrored {
			terminal++
		}
	}
	if terminal != 1 {
		t.Fatalf("expected exactly one terminal event, got %d (%v)", terminal, rec.types())
	}
}

func TestPlayReleasesAudioHandle(t *testing.T) {
	events := bus.NewEventBus()
	rec := recordEvents(events)
	player := newBlockingPlayer()
	fetcher := &fakeFetcher{data: map[string][]byte{"a1": []byte("payload")}}
	c := NewController(fetcher, player, events, zerolog.Nop())

	c.Play(context.Background(), "a1")
	rec.wait(t, bus.EventTypePlaybackStarted)
	player.release <- struct{}{}
	rec.wait(t, bus.EventTypePlaybackEnded)

	paths := player.playedPaths()
	if len(paths) != 1 {
		t.Fatalf("expected one played file, got %d", len(paths))
	}
	waitForRemoval(t, paths[0])
}

func waitForRemoval(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !fileExists(path) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("audio handle %s was not removed", path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
