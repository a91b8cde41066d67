package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single exchange so a silent connection cannot
// block the session forever.
const DefaultTimeout = 2 * time.Minute

// Options configures a Client for one OpenAI-compatible endpoint.
type Options struct {
	APIKey      string
	Model       string // API model identifier, e.g. "deepseek-chat"
	Endpoint    string // full chat-completions URL
	MaxTokens   int
	Temperature *float64
	Extra       map[string]any // provider-specific request parameters
	Timeout     time.Duration
}

// Client implements Provider against an OpenAI-compatible chat-completion API
type Client struct {
	opts   Options
	client *http.Client
}

// Chat-completion API request/response types
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature *float64  `json:"temperature,omitempty"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiErrorBody `json:"error,omitempty"`
}

type apiErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

type streamResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index int `json:"index"`
		Delta struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content,omitempty"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// NewClient creates a client for the given endpoint and model
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// ModelName returns the model being used
func (c *Client) ModelName() string {
	return c.opts.Model
}

// buildBody marshals the request, merging any provider-specific extras.
func (c *Client) buildBody(messages []Message, stream bool) ([]byte, error) {
	req := chatRequest{
		Model:       c.opts.Model,
		Messages:    messages,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		Stream:      stream,
	}

	// deepseek-reasoner rejects the temperature parameter
	if req.Model == "deepseek-reasoner" {
		req.Temperature = nil
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if len(c.opts.Extra) == 0 {
		return jsonBody, nil
	}

	var merged map[string]any
	if err := json.Unmarshal(jsonBody, &merged); err != nil {
		return nil, fmt.Errorf("failed to merge extra parameters: %w", err)
	}
	for k, v := range c.opts.Extra {
		merged[k] = v
	}
	return json.Marshal(merged)
}

func (c *Client) newRequest(ctx context.Context, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	return req, nil
}

// statusError turns a non-2xx response into an APIError carrying the
// server-provided message verbatim when one is present.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error *apiErrorBody `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
		msg = errResp.Error.Message
	} else if len(body) > 0 {
		msg = strings.TrimSpace(string(body))
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// Generate performs one blocking exchange and returns the full response text
func (c *Client) Generate(ctx context.Context, messages []Message) (string, error) {
	if c.opts.APIKey == "" {
		return "", ErrNoAPIKey
	}

	body, err := c.buildBody(messages, false)
	if err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, body)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrDecode)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// GenerateStream performs one exchange and streams the response. Each
// well-formed SSE frame yields one chunk with its text delta; the terminal
// chunk has Done=true and an empty delta. Malformed interior frames are
// skipped. A connection drop before the [DONE] sentinel yields an error
// chunk wrapping ErrStreamInterrupted and ends the sequence.
func (c *Client) GenerateStream(ctx context.Context, messages []Message) (<-chan StreamChunk, error) {
	if c.opts.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	body, err := c.buildBody(messages, true)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}

	chunks := make(chan StreamChunk)

	go func() {
		defer close(chunks)
		defer resp.Body.Close()

		reader := bufio.NewReader(resp.Body)
		completed := false

		for !completed {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF && strings.TrimSpace(line) == "" {
					// Server closed without the sentinel
					err = io.ErrUnexpectedEOF
				}
				if err != io.EOF {
					select {
					case chunks <- StreamChunk{Error: fmt.Errorf("%w: %v", ErrStreamInterrupted, err)}:
					case <-ctx.Done():
					}
					return
				}
			}

			line = strings.TrimSpace(line)
			if line == "" {
				if err == io.EOF {
					break
				}
				continue
			}

			// SSE format: data: {...}
			if !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				completed = true
				break
			}

			var streamResp streamResponse
			if jsonErr := json.Unmarshal([]byte(data), &streamResp); jsonErr != nil {
				continue // Skip malformed frames
			}

			if len(streamResp.Choices) > 0 {
				content := streamResp.Choices[0].Delta.Content
				if content != "" {
					select {
					case chunks <- StreamChunk{Text: content}:
					case <-ctx.Done():
						return
					}
				}

				if streamResp.Choices[0].FinishReason != nil {
					completed = true
				}
			}

			if err == io.EOF {
				break
			}
		}

		if !completed {
			select {
			case chunks <- StreamChunk{Error: fmt.Errorf("%w: connection closed before completion", ErrStreamInterrupted)}:
			case <-ctx.Done():
			}
			return
		}

		select {
		case chunks <- StreamChunk{Done: true}:
		case <-ctx.Done():
		}
	}()

	return chunks, nil
}
