// Package ui provides Bubble Tea message types for avatarchat.
package ui

import (
	"github.com/normanking/avatarchat/internal/avatar"
)

// TranscriptMsg carries a final speech transcript; it is submitted exactly
// as if the user had typed it. Sent from outside the program via Send.
type TranscriptMsg struct {
	Text string
}

// AvatarChangedMsg signals a presentation mode or character change.
// Sent from outside the program via Send.
type AvatarChangedMsg struct {
	Mode      avatar.Mode
	Character string
	Video     string
}

// ListeningMsg signals that speech capture started or stopped.
// Sent from outside the program via Send.
type ListeningMsg struct {
	Active bool
}

// initLoadedMsg carries the session bootstrap data fetched at startup.
type initLoadedMsg struct {
	personalities []string
	current       string
	characters    []string
	historyLen    int
}

// submitDoneMsg signals that a submission resolved (accepted or rejected).
type submitDoneMsg struct {
	accepted bool
}

// personalityChangedMsg reports the outcome of a personality change.
type personalityChangedMsg struct {
	name string
	err  error
}

// characterChangedMsg reports the outcome of a character change.
type characterChangedMsg struct {
	name string
	err  error
}

// preferenceAddedMsg reports the outcome of a preference submission.
type preferenceAddedMsg struct {
	message string
	err     error
}

// personalitiesReloadedMsg carries the refreshed personality list.
type personalitiesReloadedMsg struct {
	personalities []string
}

// historyClearedMsg reports the outcome of a clear-history request.
type historyClearedMsg struct {
	err error
}
