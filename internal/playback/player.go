package playback

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Player renders one audio file and blocks until it finishes.
type Player interface {
	Name() string
	IsAvailable() bool
	Play(ctx context.Context, path string) error
}

// playerCandidates are probed in order. Each entry plays a single file and
// exits when done, with any video or window output suppressed.
var playerCandidates = []struct {
	binary string
	args   []string
}{
	{"afplay", nil},
	{"mpv", []string{"--no-video", "--really-quiet"}},
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{"aplay", []string{"-q"}},
}

// ExecPlayer plays audio by invoking a system player binary.
type ExecPlayer struct {
	mu     sync.RWMutex
	binary string
	args   []string
	logger zerolog.Logger
}

// NewExecPlayer builds a player around a specific command line, e.g.
// "mpv --no-video". An empty command probes the known system players.
func NewExecPlayer(command string, logger zerolog.Logger) *ExecPlayer {
	p := &ExecPlayer{logger: logger.With().Str("component", "player").Logger()}
	p.SetCommand(command)
	return p
}

// SetCommand reconfigures the player command. Used on config hot reload; the
// new command applies to the next play, never an in-flight one.
func (p *ExecPlayer) SetCommand(command string) {
	binary, args := resolveCommand(command)

	p.mu.Lock()
	p.binary = binary
	p.args = args
	p.mu.Unlock()

	if binary == "" {
		p.logger.Warn().Msg("No audio player found; voice playback will fail to idle")
	} else {
		p.logger.Info().Str("player", binary).Msg("Audio player selected")
	}
}

func resolveCommand(command string) (string, []string) {
	if command != "" {
		fields := strings.Fields(command)
		return fields[0], fields[1:]
	}
	for _, cand := range playerCandidates {
		if _, err := exec.LookPath(cand.binary); err == nil {
			return cand.binary, cand.args
		}
	}
	return "", nil
}

func (p *ExecPlayer) command() (string, []string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.binary, p.args
}

// Name returns the player binary name
func (p *ExecPlayer) Name() string {
	binary, _ := p.command()
	return binary
}

// IsAvailable reports whether a player binary was found
func (p *ExecPlayer) IsAvailable() bool {
	binary, _ := p.command()
	if binary == "" {
		return false
	}
	_, err := exec.LookPath(binary)
	return err == nil
}

// Play runs the player against the file and waits for it to exit
func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	binary, args := p.command()
	if binary == "" {
		return fmt.Errorf("no audio player available")
	}
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("no audio player available")
	}

	cmdArgs := append(append([]string{}, args...), path)
	cmd := exec.CommandContext(ctx, binary, cmdArgs...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", binary, err)
	}
	return nil
}
