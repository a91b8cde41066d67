package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/deepchat-dev/deepchat/internal/llm"
)

// Session is the handle for one chat exchange loop: a conversation, the
// provider used to complete it, and the model it targets. At most one
// exchange is in flight per session; the caller must not submit a new turn
// until the previous one has resolved.
type Session struct {
	id           string
	provider     llm.Provider
	conversation *Conversation
	model        string
	closed       bool
}

// Start opens a session against the given provider
func Start(provider llm.Provider, model, systemMessage string) *Session {
	return &Session{
		id:           uuid.NewString(),
		provider:     provider,
		conversation: NewConversation(systemMessage),
		model:        model,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Model returns the model alias the session targets
func (s *Session) Model() string {
	return s.model
}

// Conversation exposes the session history
func (s *Session) Conversation() *Conversation {
	return s.conversation
}

// SetProvider switches the provider and model for following turns.
// History is kept: the original lets /model change models mid-conversation.
func (s *Session) SetProvider(provider llm.Provider, model string) {
	s.provider = provider
	s.model = model
}

// Chat submits one user turn in blocking mode. On success the assistant
// message is committed to the conversation and returned.
func (s *Session) Chat(ctx context.Context, text string) (string, error) {
	if err := s.conversation.AppendUser(text); err != nil {
		return "", err
	}

	reply, err := s.provider.Generate(ctx, s.conversation.Messages())
	if err != nil {
		return "", err
	}

	s.conversation.AppendAssistant(reply)
	return reply, nil
}

// ChatStream submits one user turn in streaming mode. Chunks are forwarded
// in receipt order; when the terminal chunk arrives the concatenated deltas
// are committed to the conversation as the assistant message. A failed or
// abandoned stream commits nothing; use Salvage to keep partial text.
func (s *Session) ChatStream(ctx context.Context, text string) (<-chan llm.StreamChunk, error) {
	if err := s.conversation.AppendUser(text); err != nil {
		return nil, err
	}

	chunks, err := s.provider.GenerateStream(ctx, s.conversation.Messages())
	if err != nil {
		return nil, err
	}

	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)

		var reply strings.Builder
		for chunk := range chunks {
			if chunk.Done {
				s.conversation.AppendAssistant(reply.String())
			} else {
				reply.WriteString(chunk.Text)
			}

			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}

			if chunk.Done || chunk.Error != nil {
				return
			}
		}
	}()

	return out, nil
}

// Salvage commits partially accumulated text after an abandoned stream
func (s *Session) Salvage(text string) {
	if text == "" {
		return
	}
	s.conversation.AppendAssistant(text)
}

// Close ends the session. The in-memory history is discarded with it.
func (s *Session) Close() {
	s.closed = true
	s.conversation = nil
}
