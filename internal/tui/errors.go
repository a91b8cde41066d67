package tui

import (
	"errors"

	"github.com/deepchat-dev/deepchat/internal/chat"
	"github.com/deepchat-dev/deepchat/internal/config"
	"github.com/deepchat-dev/deepchat/internal/llm"
)

// describeError maps known failures to messages a chat user can act on.
// Unknown errors pass through verbatim.
func describeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return "Message is empty."

	case errors.Is(err, llm.ErrNoAPIKey):
		return "No API key configured. Set one with /config set api_key <key> or DEEPCHAT_API_KEY."

	case errors.Is(err, llm.ErrAuth):
		return "Authentication failed: " + err.Error() + "\nCheck your API key with /config."

	case errors.Is(err, llm.ErrRateLimited):
		return "Rate limited: " + err.Error() + "\nWait a moment and try again."

	case errors.Is(err, llm.ErrStreamInterrupted):
		return "The response stream was interrupted: " + err.Error()

	case errors.Is(err, llm.ErrDecode):
		return "Could not decode the API response: " + err.Error()

	case errors.Is(err, config.ErrModelNotFound):
		return err.Error() + "  (see /list)"
	}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return "API error: " + apiErr.Error()
	}

	return err.Error()
}
