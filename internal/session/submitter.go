package session

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/normanking/avatarchat/internal/backend"
)

// FallbackReply is appended as the agent turn whenever a generation request
// fails or comes back without a text payload. The user always sees a
// response; a turn is never left dangling.
const FallbackReply = "Sorry, I couldn't process that request."

// characterInstruction is appended to the contextual history on every
// generation request.
const characterInstruction = "Don't break character; you are as the character as defined\nLimit your answer to be less than 50 words..."

// Generator issues one remote generation request per accepted turn.
type Generator interface {
	GenerateReply(ctx context.Context, req backend.GenerateRequest) (*backend.GenerateReply, error)
}

// Speaker receives the audio reference of a successful reply.
type Speaker interface {
	Play(ctx context.Context, audioID string)
}

// FaceResolver maps a character name to its speaking-loop video resource,
// sent to the service as the lip-sync input face.
type FaceResolver func(character string) string

// Submitter runs one conversational turn end to end: gate check, user turn,
// generation request, agent turn (real or fallback), playback hand-off.
type Submitter struct {
	state   *State
	gen     Generator
	speaker Speaker
	face    FaceResolver
	logger  zerolog.Logger
}

// NewSubmitter creates a turn submitter
func NewSubmitter(state *State, gen Generator, speaker Speaker, face FaceResolver, logger zerolog.Logger) *Submitter {
	return &Submitter{
		state:   state,
		gen:     gen,
		speaker: speaker,
		face:    face,
		logger:  logger.With().Str("component", "submitter").Logger(),
	}
}

// Submit runs one turn. It returns false without side effects when the text
// is empty or a turn is already in flight or the avatar is still speaking.
// On acceptance the user turn is appended before the request is dispatched,
// and the agent turn (real or fallback) is appended before playback is
// invoked. The turn gate is released on every path.
func (s *Submitter) Submit(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if s.state.Speaking() {
		s.logger.Debug().Msg("Submission rejected: avatar still speaking")
		return false
	}
	if !s.state.BeginTurn() {
		s.logger.Debug().Msg("Submission rejected: turn in flight")
		return false
	}

	turnID := uuid.NewString()
	extraPrompt := s.contextPrompt()

	s.state.Append(ConversationTurn{Role: RoleUser, Text: text})

	req := backend.GenerateRequest{
		TextPrompt:    text,
		InputFace:     s.resolveFace(),
		ExtraPrompt:   extraPrompt,
		CharacterName: s.state.Character(),
		AIPersonality: s.state.Personality(),
		SessionID:     turnID,
	}

	s.logger.Info().Str("turnId", turnID).Int("textLen", len(text)).Msg("Turn accepted")

	reply, err := s.gen.GenerateReply(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).Str("turnId", turnID).Msg("Generation failed, using fallback reply")
		s.state.Append(ConversationTurn{Role: RoleAgent, Text: FallbackReply})
		s.state.EndTurn()
		return true
	}

	s.state.Append(ConversationTurn{Role: RoleAgent, Text: reply.ChatGptResponse})
	s.state.EndTurn()

	if reply.AudioID != "" {
		s.speaker.Play(ctx, reply.AudioID)
	} else {
		s.logger.Warn().Str("turnId", turnID).Msg("Reply carried no audio reference")
	}
	return true
}

// contextPrompt renders the accumulated transcript as the contextual history
// the service expects. The snapshot is taken before the new user turn is
// appended; the utterance itself travels in text_prompt.
func (s *Submitter) contextPrompt() string {
	var sb strings.Builder
	sb.WriteString("Previous conversation for context:")
	for _, turn := range s.state.Transcript() {
		sb.WriteString("{")
		sb.WriteString(turn.Text)
		sb.WriteString("}")
	}
	sb.WriteString(characterInstruction)
	return sb.String()
}

func (s *Submitter) resolveFace() string {
	if s.face == nil {
		return ""
	}
	return s.face(s.state.Character())
}
