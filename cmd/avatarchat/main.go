// AvatarChat - terminal client for the avatar conversation service
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/normanking/avatarchat/internal/avatar"
	"github.com/normanking/avatarchat/internal/backend"
	"github.com/normanking/avatarchat/internal/bus"
	"github.com/normanking/avatarchat/internal/config"
	"github.com/normanking/avatarchat/internal/logging"
	"github.com/normanking/avatarchat/internal/playback"
	"github.com/normanking/avatarchat/internal/session"
	"github.com/normanking/avatarchat/internal/speech"
	"github.com/normanking/avatarchat/internal/ui"
)

var version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:     "avatarchat",
		Short:   "Talk to an avatar companion from the terminal",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient()
		},
	}

	register := &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account on the conversation service",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(args[0], args[1])
		},
	}
	root.AddCommand(register)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runClient() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	syslog, err := logging.New(&logging.Config{
		LogDir: cfg.Log.Dir,
		Level:  logging.LogLevel(cfg.Log.Level),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer syslog.Close()
	zlogger := syslog.Zerolog()
	zlogger.Info().Str("version", version).Msg("AvatarChat starting")

	token, err := config.ReadToken(cfg.Backend.TokenPath)
	if err != nil {
		return fmt.Errorf("no session token at %s; log in with the web client and store the token there, or run 'avatarchat register' first: %w",
			cfg.Backend.TokenPath, err)
	}

	events := bus.NewEventBus()
	state := session.NewState()
	state.SetCharacter(cfg.Avatar.DefaultCharacter)

	client := backend.NewClient(&backend.ClientConfig{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Token:   token,
	}, zlogger)

	player := playback.NewExecPlayer(cfg.Playback.PlayerCommand, zlogger)
	controller := playback.NewController(client, player, events, zlogger)

	presenter := avatar.NewPresenter(characterSet(cfg), cfg.Avatar.DefaultCharacter, state, zlogger)
	presenter.Attach(events)

	var capturer *speech.Capturer
	if cfg.Speech.Enabled {
		recorder := speech.NewExecRecorder(cfg.Speech.RecordCommand, cfg.Speech.MaxRecordTime, zlogger)
		transcriber := speech.NewWhisperTranscriber(&speech.WhisperConfig{
			APIKey:   cfg.Speech.APIKey,
			Model:    cfg.Speech.Model,
			Language: cfg.Speech.Language,
		}, zlogger)
		capturer = speech.NewCapturer(recorder, transcriber, events, zlogger)
	} else {
		capturer = speech.NewCapturer(nil, nil, events, zlogger)
	}

	submitter := session.NewSubmitter(state, client, controller, presenter.SpeakingVideo, zlogger)

	model := ui.NewModel(ui.Deps{
		State:        state,
		Submitter:    submitter,
		Backend:      client,
		Capturer:     capturer,
		Presenter:    presenter,
		VideoBaseURL: cfg.Avatar.VideoBaseURL,
		Logger:       zlogger,
	}, cfg.UI.Theme)

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Out-of-loop components report into the update loop via Send.
	capturer.SetOnTranscript(func(text string) {
		program.Send(ui.TranscriptMsg{Text: text})
	})
	presenter.SetOnChange(func(mode avatar.Mode, ch avatar.Character) {
		video := ch.Idle
		if mode == avatar.ModeSpeaking {
			video = ch.Speaking
		}
		program.Send(ui.AvatarChangedMsg{Mode: mode, Character: ch.Name, Video: video})
	})
	events.Subscribe(bus.EventTypeListeningStarted, func(bus.Event) {
		program.Send(ui.ListeningMsg{Active: true})
	})
	events.Subscribe(bus.EventTypeListeningStopped, func(bus.Event) {
		program.Send(ui.ListeningMsg{Active: false})
	})

	// Hot reload applies to the next request; in-flight turns are untouched.
	config.Watch(func(fresh *config.Config) {
		client.SetBaseURL(fresh.Backend.BaseURL)
		player.SetCommand(fresh.Playback.PlayerCommand)
		zlogger.Info().Str("baseUrl", fresh.Backend.BaseURL).Msg("Configuration reloaded")
	})

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("ui failed: %w", err)
	}
	zlogger.Info().Msg("AvatarChat exited")
	return nil
}

func runRegister(username, password string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	syslog, err := logging.New(&logging.Config{LogDir: cfg.Log.Dir, Level: logging.LogLevel(cfg.Log.Level)})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer syslog.Close()

	client := backend.NewClient(&backend.ClientConfig{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, syslog.Zerolog())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.Register(ctx, username, password); err != nil {
		return err
	}
	fmt.Printf("Account %q created. Log in with the web client and store the session token at %s\n",
		username, cfg.Backend.TokenPath)
	return nil
}

// characterSet converts the configured characters to presenter characters.
func characterSet(cfg *config.Config) map[string]avatar.Character {
	out := make(map[string]avatar.Character, len(cfg.Avatar.Characters))
	for name, ch := range cfg.Avatar.Characters {
		out[name] = avatar.Character{Name: name, Idle: ch.Idle, Speaking: ch.Speaking}
	}
	return out
}
