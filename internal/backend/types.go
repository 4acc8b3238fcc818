package backend

// HistoryEntry is one message of the server-side conversation history.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest is the body of the generate-lipsync operation.
type GenerateRequest struct {
	TextPrompt    string `json:"text_prompt"`
	InputFace     string `json:"input_face"`
	ExtraPrompt   string `json:"extra_prompt"`
	CharacterName string `json:"characterName"`
	AIPersonality string `json:"ai_personality"`
	SessionID     string `json:"sessionId"`
}

// GenerateReply is the decoded generate-lipsync response. AudioID may be
// empty; a reply without audio is still a valid turn.
type GenerateReply struct {
	ChatGptResponse string `json:"chatGptResponse"`
	AudioID         string `json:"audio_id"`
}

// statusResponse covers the success/message shape shared by the
// change-personality, change-character and clear-history operations.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// messageResponse covers operations that return only a message.
type messageResponse struct {
	Message string `json:"message"`
}

// personalityResponse carries the current personality of the user.
type personalityResponse struct {
	AIPersonality string `json:"ai_personality"`
}

// historyResponse wraps the stored conversation history.
type historyResponse struct {
	History []HistoryEntry `json:"history"`
}

// registerRequest is the body of the register operation.
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// addPersonalityRequest is the body of the add-personality operation.
type addPersonalityRequest struct {
	Name        string `json:"name"`
	Personality string `json:"personality"`
}

// changePersonalityRequest is the body of the change-personality operation.
type changePersonalityRequest struct {
	AIPersonality string `json:"ai_personality"`
}

// changeCharacterRequest is the body of the change-character operation.
type changeCharacterRequest struct {
	CharacterName string `json:"characterName"`
}
