package models

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatMessage is one entry of a user's conversation history.
type ChatMessage struct {
	ID        string
	UserID    string
	Text      string
	Sender    Sender
	Timestamp int64

	// Payload is set on assistant messages only.
	Payload *MessagePayload
}

// MessagePayload is the structured part of an assistant reply.
type MessagePayload struct {
	Intent        string        `json:"intent"`
	ToolsUsed     []string      `json:"tools_used,omitempty"`
	SuggestionIDs []string      `json:"suggestion_ids,omitempty"`
	Explanations  []Explanation `json:"explanations,omitempty"`
}

// Explanation is one step of the trace attached to every reply.
type Explanation struct {
	Step string `json:"step"`
	What string `json:"what"`
}

// Suggestion is a follow-up action proposed by the assistant.
// The Executed flag is owned by the server and flips at most once.
type Suggestion struct {
	ID     string
	UserID string
	Label  string

	// Action is the executor action identifier, e.g. "add_budget".
	Action string
	Params map[string]string

	Executed   bool
	ExecutedAt int64

	// ResultID is the ID of the record created by the execution.
	ResultID string

	CreatedAt int64
}
