package chat

// Role tags a message with its conversational origin.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// System builds a system-instruction message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User builds a user-turn message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant builds an assistant-reply message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
