package chat

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNewConversation(t *testing.T) {
	conv := NewConversation("You are a helpful assistant.")

	msgs := conv.Messages()
	if len(msgs) != 1 {
		t.Fatalf("new conversation has %d messages, want 1", len(msgs))
	}
	if msgs[0].Role != "system" {
		t.Errorf("first message role = %q, want %q", msgs[0].Role, "system")
	}
	if msgs[0].Content != "You are a helpful assistant." {
		t.Errorf("system content = %q", msgs[0].Content)
	}
}

func TestAppendUser(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "normal text", text: "Hello"},
		{name: "multiline text", text: "line one\nline two"},
		{name: "empty", text: "", wantErr: ErrEmptyMessage},
		{name: "whitespace only", text: "   ", wantErr: ErrEmptyMessage},
		{name: "tabs and newlines", text: "\t\n ", wantErr: ErrEmptyMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := NewConversation("system")
			before := conv.Len()

			err := conv.AppendUser(tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AppendUser(%q) error = %v, want %v", tt.text, err, tt.wantErr)
			}

			if tt.wantErr != nil {
				if conv.Len() != before {
					t.Errorf("failed append changed length: %d -> %d", before, conv.Len())
				}
				return
			}

			msgs := conv.Messages()
			if len(msgs) != before+1 {
				t.Fatalf("length = %d, want %d", len(msgs), before+1)
			}
			last := msgs[len(msgs)-1]
			if last.Role != "user" || last.Content != tt.text {
				t.Errorf("last message = %+v, want user/%q", last, tt.text)
			}
		})
	}
}

func TestAppendAssistant(t *testing.T) {
	conv := NewConversation("system")
	if err := conv.AppendUser("question"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}
	conv.AppendAssistant("answer")

	msgs := conv.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != "assistant" || last.Content != "answer" {
		t.Errorf("last message = %+v, want assistant/answer", last)
	}
}

func TestMessagesIsPure(t *testing.T) {
	conv := NewConversation("system")
	if err := conv.AppendUser("hi"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}

	first := conv.Messages()
	second := conv.Messages()
	if !reflect.DeepEqual(first, second) {
		t.Error("two reads without intervening appends differ")
	}

	// Mutating the returned slice must not affect the conversation
	first[0].Content = "tampered"
	if conv.Messages()[0].Content != "system" {
		t.Error("Messages() exposed internal state")
	}
}

func TestConversationRoundTrip(t *testing.T) {
	conv := NewConversation("system")
	turns := []struct{ role, content string }{
		{"user", "What is the capital of France?"},
		{"assistant", "Paris"},
		{"user", "And of Italy?"},
		{"assistant", "Rome"},
	}
	for _, turn := range turns {
		if turn.role == "user" {
			if err := conv.AppendUser(turn.content); err != nil {
				t.Fatalf("AppendUser(%q) error = %v", turn.content, err)
			}
		} else {
			conv.AppendAssistant(turn.content)
		}
	}

	// Replay the serialized history into a fresh conversation
	serialized := conv.Messages()
	replayed := NewConversation(serialized[0].Content)
	for _, msg := range serialized[1:] {
		switch msg.Role {
		case "user":
			if err := replayed.AppendUser(msg.Content); err != nil {
				t.Fatalf("replay AppendUser(%q) error = %v", msg.Content, err)
			}
		case "assistant":
			replayed.AppendAssistant(msg.Content)
		}
	}

	if !reflect.DeepEqual(conv.Messages(), replayed.Messages()) {
		t.Error("replayed conversation differs from the original")
	}
}

func TestReset(t *testing.T) {
	conv := NewConversation("system")
	if err := conv.AppendUser("hi"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}
	conv.AppendAssistant("hello")

	conv.Reset()

	msgs := conv.Messages()
	if len(msgs) != 1 || msgs[0].Role != "system" {
		t.Errorf("after Reset() messages = %+v, want only the system message", msgs)
	}
}

func TestAttachFile(t *testing.T) {
	conv := NewConversation("system")
	conv.AttachFile("main.go", "package main")

	msgs := conv.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != "system" {
		t.Errorf("attached file role = %q, want system", last.Role)
	}
	if !strings.Contains(last.Content, "main.go") || !strings.Contains(last.Content, "package main") {
		t.Errorf("attached file content = %q", last.Content)
	}
}

func TestTranscript(t *testing.T) {
	conv := NewConversation("system prompt")
	if err := conv.AppendUser("question"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}
	conv.AppendAssistant("answer")

	got := conv.Transcript()
	if !strings.Contains(got, "You: question") {
		t.Errorf("Transcript() = %q, missing user turn", got)
	}
	if !strings.Contains(got, "Assistant: answer") {
		t.Errorf("Transcript() = %q, missing assistant turn", got)
	}
	if strings.Contains(got, "system prompt") {
		t.Errorf("Transcript() = %q, should omit system messages", got)
	}
}

func TestMessageRoles(t *testing.T) {
	conv := NewConversation("s")
	if err := conv.AppendUser("u"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}
	conv.AppendAssistant("a")

	want := []string{"system", "user", "assistant"}
	for i, msg := range conv.Messages() {
		if msg.Role != want[i] {
			t.Errorf("message %d role = %q, want %q", i, msg.Role, want[i])
		}
	}
}
