package playback

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestExecPlayerExplicitCommand(t *testing.T) {
	p := NewExecPlayer("echo -n", zerolog.Nop())

	if p.Name() != "echo" {
		t.Fatalf("expected echo, got %s", p.Name())
	}
	if !p.IsAvailable() {
		t.Fatal("echo should be available")
	}
	if err := p.Play(context.Background(), "some-file.mp3"); err != nil {
		t.Fatalf("play failed: %v", err)
	}
}

func TestExecPlayerMissingBinary(t *testing.T) {
	p := NewExecPlayer("definitely-not-a-player-xyz", zerolog.Nop())

	if p.IsAvailable() {
		t.Fatal("nonexistent binary should not be available")
	}
	if err := p.Play(context.Background(), "some-file.mp3"); err == nil {
		t.Fatal("play without a player should error")
	}
}

func TestExecPlayerSetCommandApplies(t *testing.T) {
	p := NewExecPlayer("definitely-not-a-player-xyz", zerolog.Nop())
	p.SetCommand("echo")

	if p.Name() != "echo" {
		t.Fatalf("SetCommand not applied, got %s", p.Name())
	}
	if !p.IsAvailable() {
		t.Fatal("echo should be available after SetCommand")
	}
}
