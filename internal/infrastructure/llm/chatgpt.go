package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ShortsPublisher/internal/config"
	"ShortsPublisher/internal/domain"
	"ShortsPublisher/internal/ports"
)

const (
	titleMaxChars = 100

	defaultSystemPrompt = `You are a YouTube Shorts metadata writer.
You MUST respond with ONLY valid JSON - no markdown, no explanation, no preamble.
The JSON must have exactly these fields:
- "title": string (max 100 chars, catchy, honest)
- "description": string (2-3 sentences with a call to action)
- "tags": array of up to 15 short strings
- "hashtags": array of up to 5 strings starting with #`
)

// ChatGPTClient implements ports.MetadataGenerator backed by OpenAI-compatible
// chat-completion APIs.
type ChatGPTClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.MetadataGenerator = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.ChatGPTConfig) *ChatGPTClient {
	return &ChatGPTClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Generate asks the model for publish metadata about the given topic.
func (c *ChatGPTClient) Generate(ctx context.Context, topic string) (domain.VideoMetadata, error) {
	if c == nil {
		return domain.VideoMetadata{}, fmt.Errorf("chatgpt client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.VideoMetadata{}, fmt.Errorf("chatgpt client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(c.systemPrompt)},
			{"role": "user", "content": buildUserPrompt(topic)},
		},
		"temperature": 0.8,
		"max_tokens":  1024,
	})
	if err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("marshal chatgpt payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("generate metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.VideoMetadata{}, fmt.Errorf("chatgpt error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("decode chatgpt response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return domain.VideoMetadata{}, fmt.Errorf("chatgpt returned no choices")
	}

	meta, err := parseMetadata(completion.Choices[0].Message.Content)
	if err != nil {
		return domain.VideoMetadata{}, err
	}
	return meta, nil
}

func parseMetadata(content string) (domain.VideoMetadata, error) {
	content = cleanJSON(content)

	var meta domain.VideoMetadata
	if err := json.Unmarshal([]byte(content), &meta); err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("parse metadata JSON: %w", err)
	}
	if meta.Title == "" {
		return domain.VideoMetadata{}, fmt.Errorf("metadata has no title")
	}
	if len(meta.Title) > titleMaxChars {
		meta.Title = meta.Title[:titleMaxChars-3] + "..."
	}
	return meta, nil
}

func buildUserPrompt(topic string) string {
	var sb strings.Builder
	sb.WriteString("Create a catchy YouTube Shorts title, description (with CTA), tags and hashtags for this video.\n\n")
	sb.WriteString("VIDEO TOPIC / CAPTION:\n")
	sb.WriteString(topic)
	sb.WriteString("\n\nRespond ONLY with valid JSON.")
	return sb.String()
}

// cleanJSON strips markdown code fences some models wrap around the payload.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return defaultSystemPrompt
	}
	return prompt
}
