// Package anthropic is a thin client for the Anthropic messages API, used by
// the insight service for flock advisories.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 1024
)

// Client defines the AI text operations the application consumes.
type Client interface {
	// Complete returns a free-text answer for the prompt.
	Complete(ctx context.Context, system, prompt string) (string, error)
	// CompleteJSON forces a JSON answer and unmarshals it into out.
	CompleteJSON(ctx context.Context, system, prompt string, out any) error
}

type anthropicClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{httpClient: client}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *anthropicClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	text, err := c.send(ctx, system, []message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *anthropicClient) CompleteJSON(ctx context.Context, system, prompt string, out any) error {
	// Prefill the assistant turn with an opening brace to force raw JSON
	// output, then reconstruct it before decoding.
	msgs := []message{
		{Role: "user", Content: prompt},
		{Role: "assistant", Content: "{"},
	}
	text, err := c.send(ctx, system, msgs)
	if err != nil {
		return err
	}

	raw := stripFences("{" + text)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("unmarshal ai response: %w; response was: %s", err, raw)
	}
	return nil
}

func (c *anthropicClient) send(ctx context.Context, system string, msgs []message) (string, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  msgs,
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(apiURL)
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", fmt.Errorf("empty response from ai")
	}
	return respBody.Content[0].Text, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
