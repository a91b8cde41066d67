package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deepchat-dev/deepchat/internal/llm"
)

// ErrEmptyMessage is returned when a user turn is blank after trimming
var ErrEmptyMessage = errors.New("message is empty")

// Conversation holds the ordered message history for a single session.
// The first message is always the system message; user and assistant turns
// are appended in chronological order and never mutated afterwards.
type Conversation struct {
	messages []llm.Message
}

// NewConversation creates a conversation seeded with a system message
func NewConversation(systemMessage string) *Conversation {
	return &Conversation{
		messages: []llm.Message{
			{Role: "system", Content: systemMessage},
		},
	}
}

// AppendUser adds a user turn. Blank input is rejected because an empty
// turn would produce a malformed request.
func (c *Conversation) AppendUser(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	c.messages = append(c.messages, llm.Message{Role: "user", Content: text})
	return nil
}

// AppendAssistant adds an assistant turn with the fully assembled response
func (c *Conversation) AppendAssistant(text string) {
	c.messages = append(c.messages, llm.Message{Role: "assistant", Content: text})
}

// AppendSystem adds extra system context mid-conversation
func (c *Conversation) AppendSystem(text string) {
	c.messages = append(c.messages, llm.Message{Role: "system", Content: text})
}

// AttachFile adds a file's content as system context for following turns
func (c *Conversation) AttachFile(name, content string) {
	c.messages = append(c.messages, llm.Message{
		Role:    "system",
		Content: fmt.Sprintf("Here is the content of %s:\n%s", name, content),
	})
}

// Messages returns a copy of the ordered history for request serialization
func (c *Conversation) Messages() []llm.Message {
	out := make([]llm.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages including the system message
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Reset drops everything but the initial system message
func (c *Conversation) Reset() {
	c.messages = c.messages[:1]
}

// Transcript renders the user/assistant history for display.
// System messages are omitted.
func (c *Conversation) Transcript() string {
	var sb strings.Builder
	for _, msg := range c.messages {
		switch msg.Role {
		case "user":
			sb.WriteString("You: ")
		case "assistant":
			sb.WriteString("Assistant: ")
		default:
			continue
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
