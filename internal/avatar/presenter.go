// Package avatar synchronizes the avatar's visual loop with voice playback.
package avatar

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/normanking/avatarchat/internal/bus"
	"github.com/normanking/avatarchat/internal/config"
)

// Mode is the avatar's current visual loop.
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeSpeaking Mode = "speaking"
)

// Character binds a character name to its video loop resources.
type Character struct {
	Name     string
	Idle     string
	Speaking string
}

// SpeakingGate is written as the presentation enters and leaves speaking
// mode; it feeds the turn submitter's back-pressure check.
type SpeakingGate interface {
	SetSpeaking(bool)
}

// Presenter is a strict two-state machine: idle or speaking. Transitions
// are driven exclusively by playback lifecycle events, never by timers or
// direct user input.
type Presenter struct {
	mu         sync.RWMutex
	mode       Mode
	characters map[string]Character
	active     string
	gate       SpeakingGate
	logger     zerolog.Logger

	onChange func(Mode, Character)
}

// NewPresenter creates a presenter with the configured character set
func NewPresenter(characters map[string]Character, defaultCharacter string, gate SpeakingGate, logger zerolog.Logger) *Presenter {
	if len(characters) == 0 {
		characters = DefaultCharacters()
	}
	if _, ok := characters[defaultCharacter]; !ok {
		for name := range characters {
			defaultCharacter = name
			break
		}
	}

	return &Presenter{
		mode:       ModeIdle,
		characters: characters,
		active:     defaultCharacter,
		gate:       gate,
		logger:     logger.With().Str("component", "avatar").Logger(),
	}
}

// Attach subscribes the presenter to playback lifecycle events. It is the
// sole subscriber that mutates presentation state.
func (p *Presenter) Attach(events *bus.EventBus) {
	events.Subscribe(bus.EventTypePlaybackStarted, func(bus.Event) {
		p.setMode(ModeSpeaking)
	})
	events.SubscribeMultiple([]bus.EventType{bus.EventTypePlaybackEnded, bus.EventTypePlaybackErrored}, func(bus.Event) {
		p.setMode(ModeIdle)
	})
}

// SetOnChange registers a callback invoked after every mode or character
// change with the new mode and active character.
func (p *Presenter) SetOnChange(fn func(Mode, Character)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// Mode returns the current presentation mode
func (p *Presenter) Mode() Mode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// ActiveCharacter returns the active character
func (p *Presenter) ActiveCharacter() Character {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.characters[p.active]
}

// ActiveVideo returns the video resource for the current mode
func (p *Presenter) ActiveVideo() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ch := p.characters[p.active]
	if p.mode == ModeSpeaking {
		return ch.Speaking
	}
	return ch.Idle
}

// SpeakingVideo returns the speaking-loop resource for a character, used as
// the generation request's input face. Unknown characters fall back to the
// built-in default.
func (p *Presenter) SpeakingVideo(name string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if ch, ok := p.characters[name]; ok && ch.Speaking != "" {
		return ch.Speaking
	}
	return config.DefaultSpeakingVideo
}

// Characters returns the known character names in stable order
func (p *Presenter) Characters() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.characters))
	for name := range p.characters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetCharacter switches the active character and swaps the idle-loop
// resource immediately. The caller confirms the change with the backend
// first; on failure the prior character is retained.
func (p *Presenter) SetCharacter(name string) error {
	p.mu.Lock()
	ch, ok := p.characters[name]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("unknown character: %s", name)
	}
	p.active = name
	mode := p.mode
	fn := p.onChange
	p.mu.Unlock()

	p.logger.Info().Str("character", name).Msg("Character changed")
	if fn != nil {
		fn(mode, ch)
	}
	return nil
}

// MergeCharacters adds server-listed characters that the local set lacks,
// deriving their video resources from the configured base URL.
func (p *Presenter) MergeCharacters(names []string, videoBaseURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, name := range names {
		if _, ok := p.characters[name]; ok {
			continue
		}
		p.characters[name] = DeriveCharacter(name, videoBaseURL)
	}
}

func (p *Presenter) setMode(mode Mode) {
	p.mu.Lock()
	if p.mode == mode {
		p.mu.Unlock()
		return
	}
	p.mode = mode
	ch := p.characters[p.active]
	fn := p.onChange
	p.mu.Unlock()

	if p.gate != nil {
		p.gate.SetSpeaking(mode == ModeSpeaking)
	}
	p.logger.Debug().Str("mode", string(mode)).Msg("Presentation mode changed")
	if fn != nil {
		fn(mode, ch)
	}
}

// DefaultCharacters returns the built-in character set used when neither
// the config file nor the service provides one.
func DefaultCharacters() map[string]Character {
	return map[string]Character{
		"Coffee Woman": {Name: "Coffee Woman", Idle: config.DefaultIdleVideo, Speaking: config.DefaultSpeakingVideo},
		"Office Man":   {Name: "Office Man", Idle: config.DefaultIdleVideo, Speaking: "https://example.com/office_man.mp4"},
		"Student":      {Name: "Student", Idle: config.DefaultIdleVideo, Speaking: "https://example.com/student.mp4"},
	}
}

// DeriveCharacter builds video resources for a character the service lists
// but no config entry covers.
func DeriveCharacter(name, videoBaseURL string) Character {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	return Character{
		Name:     name,
		Idle:     config.DefaultIdleVideo,
		Speaking: fmt.Sprintf("%s/%s.mp4", videoBaseURL, slug),
	}
}
