package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Recorder captures one utterance from the microphone as WAV data.
type Recorder interface {
	Available() bool
	Record(ctx context.Context) ([]byte, error)
}

// recorderCandidates are probed in order. Each records 16kHz mono WAV to a
// file and stops at the duration limit; cancelling the context stops the
// process early, keeping whatever was captured.
var recorderCandidates = []struct {
	binary string
	args   func(path string, seconds int) []string
}{
	{"rec", func(path string, seconds int) []string { // sox
		return []string{"-q", "-r", "16000", "-c", "1", path, "trim", "0", fmt.Sprintf("%d", seconds)}
	}},
	{"arecord", func(path string, seconds int) []string {
		return []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-d", fmt.Sprintf("%d", seconds), path}
	}},
	{"ffmpeg", func(path string, seconds int) []string {
		return []string{"-hide_banner", "-loglevel", "quiet", "-f", "avfoundation", "-i", ":0",
			"-t", fmt.Sprintf("%d", seconds), "-ar", "16000", "-ac", "1", "-y", path}
	}},
}

// ExecRecorder records by invoking a system capture binary.
type ExecRecorder struct {
	binary      string
	argsFor     func(path string, seconds int) []string
	maxDuration time.Duration
	logger      zerolog.Logger
}

// NewExecRecorder builds a recorder around a specific binary name, or
// probes the known capture tools when command is empty.
func NewExecRecorder(command string, maxDuration time.Duration, logger zerolog.Logger) *ExecRecorder {
	if maxDuration <= 0 {
		maxDuration = 8 * time.Second
	}
	r := &ExecRecorder{
		maxDuration: maxDuration,
		logger:      logger.With().Str("component", "recorder").Logger(),
	}

	want := strings.TrimSpace(command)
	for _, cand := range recorderCandidates {
		if want != "" && cand.binary != want {
			continue
		}
		if _, err := exec.LookPath(cand.binary); err == nil {
			r.binary = cand.binary
			r.argsFor = cand.args
			break
		}
	}

	if r.binary == "" {
		r.logger.Debug().Msg("No audio recorder found; speech capture disabled")
	} else {
		r.logger.Info().Str("recorder", r.binary).Msg("Audio recorder selected")
	}
	return r
}

// Available reports whether a capture binary was found
func (r *ExecRecorder) Available() bool {
	if r.binary == "" {
		return false
	}
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Record captures one utterance and returns the WAV bytes. A cancelled
// context stops recording early and returns the partial capture.
func (r *ExecRecorder) Record(ctx context.Context) ([]byte, error) {
	if !r.Available() {
		return nil, fmt.Errorf("no audio recorder available")
	}

	f, err := os.CreateTemp("", "avatarchat-capture-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create capture file: %w", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	seconds := int(r.maxDuration.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	cmd := exec.CommandContext(ctx, r.binary, r.argsFor(path, seconds)...)
	err = cmd.Run()
	if err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("%s failed: %w", r.binary, err)
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("read capture: %w", readErr)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty capture")
	}
	return data, nil
}
