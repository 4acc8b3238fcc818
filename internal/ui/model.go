package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/normanking/avatarchat/internal/avatar"
	"github.com/normanking/avatarchat/internal/backend"
	"github.com/normanking/avatarchat/internal/session"
	"github.com/normanking/avatarchat/internal/speech"
)

// inputMode selects what the input field submits.
type inputMode int

const (
	inputChat inputMode = iota
	inputPreference
)

// defaultPersonalities is the fallback list when the service returns none.
var defaultPersonalities = []string{"Friendly", "Professional", "Humorous", "Sarcastic", "Empathetic"}

// Deps wires the session components into the UI. All cross-component state
// lives in the shared session.State; the model keeps only view state.
type Deps struct {
	State     *session.State
	Submitter *session.Submitter
	Backend   *backend.Client
	Capturer  *speech.Capturer
	Presenter *avatar.Presenter

	VideoBaseURL string
	Logger       zerolog.Logger
}

// Model is the Bubble Tea model for the avatar chat client. All work runs
// as reactions to messages on the single update loop; network calls are
// dispatched as commands.
type Model struct {
	deps Deps

	width  int
	height int
	ready  bool

	theme  Theme
	styles Styles
	keys   KeyMap
	help   help.Model

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	mode       inputMode
	listening  bool
	submitting bool

	avatarMode  avatar.Mode
	activeVideo string

	personalities []string
	characters    []string

	notice    string
	noticeErr bool
}

// NewModel creates the UI model
func NewModel(deps Deps, themeName string) Model {
	theme := DetectTheme(themeName)

	input := textarea.New()
	input.Placeholder = "Type here to talk to avatar"
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		deps:        deps,
		theme:       theme,
		styles:      NewStyles(theme),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		input:       input,
		spinner:     sp,
		mode:        inputChat,
		avatarMode:  deps.Presenter.Mode(),
		activeVideo: deps.Presenter.ActiveVideo(),
		characters:  deps.Presenter.Characters(),
	}
}

// Init starts the session bootstrap
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initLoadCmd(), m.spinner.Tick)
}
