package models

const (
	RoleUser    = "user"
	RolePersona = "persona"
)

// Turn is one message in a persona conversation. History is append-only
// and ordered by arrival.
type Turn struct {
	Role    string `json:"role"` // "user" | "persona"
	Content string `json:"content"`
}

// PanelEntry is what the session store holds per persona: the spec, the
// original review, and the text-chat history (voice-call history is
// client-held and never stored here).
type PanelEntry struct {
	Persona PersonaSpec  `json:"persona"`
	Review  ReviewResult `json:"review"`
	History []Turn       `json:"history"`
}

// HistoryLimit bounds stored conversation history per persona.
const HistoryLimit = 100
