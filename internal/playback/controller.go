// Package playback owns the audio channel for spoken replies. One decoded
// audio resource is live at a time; every play emits started and then
// exactly one of ended or errored on the event bus, and releases the
// resource unconditionally.
package playback

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/normanking/avatarchat/internal/bus"
)

// AudioFetcher retrieves the referenced audio resource.
type AudioFetcher interface {
	FetchAudio(ctx context.Context, audioID string) ([]byte, error)
}

// Controller fetches, decodes and plays one spoken reply at a time. A new
// Play supersedes any still-pending handle: the superseded handle's further
// events are discarded, never delivered.
type Controller struct {
	fetcher    AudioFetcher
	player     Player
	events     *bus.EventBus
	logger     zerolog.Logger
	generation atomic.Uint64
}

// NewController creates a playback controller
func NewController(fetcher AudioFetcher, player Player, events *bus.EventBus, logger zerolog.Logger) *Controller {
	return &Controller{
		fetcher: fetcher,
		player:  player,
		events:  events,
		logger:  logger.With().Str("component", "playback").Logger(),
	}
}

// Play starts playback of the referenced audio. It returns immediately;
// lifecycle is reported through started/ended/errored events. Failures are
// absorbed here; they never abort the conversational turn.
func (c *Controller) Play(ctx context.Context, audioID string) {
	gen := c.generation.Add(1)
	go c.run(ctx, audioID, gen)
}

func (c *Controller) run(ctx context.Context, audioID string, gen uint64) {
	data, err := c.fetcher.FetchAudio(ctx, audioID)
	if err != nil {
		c.logger.Warn().Err(err).Str("audioId", audioID).Msg("Audio fetch failed")
		c.emit(gen, bus.EventTypePlaybackErrored, audioID, err)
		return
	}

	path, err := c.writeHandle(data)
	if err != nil {
		c.logger.Warn().Err(err).Str("audioId", audioID).Msg("Audio decode failed")
		c.emit(gen, bus.EventTypePlaybackErrored, audioID, err)
		return
	}
	defer os.Remove(path)

	// Superseded before playback began: no events for this handle.
	if !c.current(gen) {
		return
	}

	c.emit(gen, bus.EventTypePlaybackStarted, audioID, nil)

	if err := c.player.Play(ctx, path); err != nil {
		c.logger.Warn().Err(err).Str("audioId", audioID).Msg("Playback failed")
		c.emit(gen, bus.EventTypePlaybackErrored, audioID, err)
		return
	}

	c.emit(gen, bus.EventTypePlaybackEnded, audioID, nil)
}

// writeHandle materializes the decoded audio as a temp file, the live
// playback handle. The caller removes it on any terminal path.
func (c *Controller) writeHandle(data []byte) (string, error) {
	f, err := os.CreateTemp("", "avatarchat-voice-*.mp3")
	if err != nil {
		return "", fmt.Errorf("create audio handle: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write audio handle: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close audio handle: %w", err)
	}
	return path, nil
}

func (c *Controller) current(gen uint64) bool {
	return c.generation.Load() == gen
}

func (c *Controller) emit(gen uint64, eventType bus.EventType, audioID string, err error) {
	if !c.current(gen) {
		c.logger.Debug().Str("event", string(eventType)).Str("audioId", audioID).Msg("Discarding event for superseded handle")
		return
	}
	data := map[string]any{"audio_id": audioID}
	if err != nil {
		data["error"] = err.Error()
	}
	c.events.Publish(bus.Event{Type: eventType, Data: data})
}
