// Package speech provides one-shot speech capture: a single activation
// records one utterance, transcribes it, and yields at most one final
// transcript. There is no streaming and no partial result.
package speech

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/normanking/avatarchat/internal/bus"
)

// Transcriber converts one recorded utterance to text.
type Transcriber interface {
	Name() string
	Available() bool
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// CaptureState is the capturer's two-state machine.
type CaptureState int

const (
	StateInactive CaptureState = iota
	StateListening
)

// Capturer wraps a recorder and transcriber behind the one-shot contract.
// When the platform lacks either capability, every operation degrades to a
// silent no-op and the client stays text-only.
type Capturer struct {
	mu          sync.Mutex
	state       CaptureState
	cancel      context.CancelFunc
	recorder    Recorder
	transcriber Transcriber
	events      *bus.EventBus
	logger      zerolog.Logger

	onTranscript func(string)
}

// NewCapturer creates a speech capturer
func NewCapturer(recorder Recorder, transcriber Transcriber, events *bus.EventBus, logger zerolog.Logger) *Capturer {
	return &Capturer{
		recorder:    recorder,
		transcriber: transcriber,
		events:      events,
		logger:      logger.With().Str("component", "speech").Logger(),
	}
}

// SetOnTranscript registers the callback that receives the final transcript.
// The transcript is submitted as if the user had typed it.
func (c *Capturer) SetOnTranscript(fn func(string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTranscript = fn
}

// Available reports whether speech capture can be used on this platform
func (c *Capturer) Available() bool {
	return c.recorder != nil && c.recorder.Available() &&
		c.transcriber != nil && c.transcriber.Available()
}

// State returns the current capture state
func (c *Capturer) State() CaptureState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Activate toggles capture. While inactive it starts a single-shot pass;
// while listening it stops the pass without producing a transcript. When
// the capability is absent it does nothing.
func (c *Capturer) Activate() {
	if !c.Available() {
		c.logger.Debug().Msg("Speech capture unavailable; ignoring activation")
		return
	}

	c.mu.Lock()
	if c.state == StateListening {
		cancel := c.cancel
		c.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.state = StateListening
	c.cancel = cancel
	c.mu.Unlock()

	c.events.Publish(bus.Event{Type: bus.EventTypeListeningStarted})
	go c.capture(ctx)
}

// Deactivate stops an in-progress pass without producing a transcript
func (c *Capturer) Deactivate() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Capturer) capture(ctx context.Context) {
	text := c.runPass(ctx)

	// Back to inactive before the transcript is delivered; the pass is
	// over either way.
	c.finish()

	if text == "" {
		return
	}
	c.logger.Info().Int("len", len(text)).Msg("Transcript captured")
	c.events.Publish(bus.Event{Type: bus.EventTypeTranscript, Data: map[string]any{"text": text}})

	c.mu.Lock()
	fn := c.onTranscript
	c.mu.Unlock()
	if fn != nil {
		fn(text)
	}
}

// runPass records and transcribes one utterance. It returns an empty string
// when the pass was stopped or failed; failures degrade silently.
func (c *Capturer) runPass(ctx context.Context) string {
	wav, err := c.recorder.Record(ctx)
	if ctx.Err() != nil {
		// Explicitly stopped: no transcript.
		return ""
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("Recording failed")
		return ""
	}

	text, err := c.transcriber.Transcribe(ctx, wav)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Transcription failed")
		return ""
	}
	return text
}

func (c *Capturer) finish() {
	c.mu.Lock()
	c.state = StateInactive
	c.cancel = nil
	c.mu.Unlock()
	c.events.Publish(bus.Event{Type: bus.EventTypeListeningStopped})
}
