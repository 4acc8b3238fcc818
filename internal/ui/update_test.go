package ui

import (
	"testing"
)

func TestCycleNext(t *testing.T) {
	items := []string{"Friendly", "Professional", "Humorous"}

	cases := []struct {
		current string
		want    string
	}{
		{"Friendly", "Professional"},
		{"Professional", "Humorous"},
		{"Humorous", "Friendly"}, // wraps
		{"Unknown", "Friendly"},  // unknown lands on the first entry
		{"", "Friendly"},
	}
	for _, tc := range cases {
		if got := cycleNext(items, tc.current); got != tc.want {
			t.Errorf("cycleNext(%q) = %q, want %q", tc.current, got, tc.want)
		}
	}

	if got := cycleNext(nil, "anything"); got != "" {
		t.Errorf("empty list should yield empty, got %q", got)
	}
}

func TestThemeToggle(t *testing.T) {
	if DarkTheme().Toggle().Name != "light" {
		t.Error("dark should toggle to light")
	}
	if LightTheme().Toggle().Name != "dark" {
		t.Error("light should toggle to dark")
	}
}

func TestDetectThemeExplicitNames(t *testing.T) {
	if DetectTheme("dark").Name != "dark" {
		t.Error("explicit dark ignored")
	}
	if DetectTheme("light").Name != "light" {
		t.Error("explicit light ignored")
	}
}
