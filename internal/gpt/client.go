// Package gpt is the credential/generation collaborator: it turns a free
// text request into a shell command template via the OpenAI API.
package gpt

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/seivan/hoard/internal/logging/events"
)

const systemPrompt = "You are a shell command generator. Answer with a single " +
	"POSIX shell command that does what the user asks for. Output only the " +
	"command itself, no explanation, no code fences."

// Generator produces a command template for a free-text request. The session
// controller only consumes this interface; tests substitute fakes.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is the OpenAI-backed Generator. The underlying API client is
// created lazily on the first request.
type Client struct {
	apiKey string
	model  openai.ChatModel
	client *openai.Client
}

// NewClient builds a client around the given credential. An empty key is
// valid and yields an unconfigured client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		model:  openai.ChatModelGPT4oMini,
	}
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Generate sends the request and returns the generated command template.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("no generation credential configured")
	}
	if c.client == nil {
		client := openai.NewClient(option.WithAPIKey(c.apiKey))
		c.client = &client
	}
	events.Gpt.Prompt(prompt)
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices")
	}
	template := strings.TrimSpace(completion.Choices[0].Message.Content)
	events.Gpt.Result(template)
	return template, nil
}
