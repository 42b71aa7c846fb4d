// Package aichat talks to an OpenAI-compatible chat-completions endpoint.
package aichat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/paper-chat/backend/internal/domain"
)

type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
}

func NewClient(endpoint, model, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
	}
}

// ChatRequest carries one conversation turn: the full client-side message
// history plus the paper the assistant should ground its answers in.
type ChatRequest struct {
	Messages     []domain.ChatMessage
	PaperTitle   string
	PaperContext string
}

// Wire types for the completions API.
type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string       `json:"model"`
	Messages []apiMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPromptFormat = `You are an AI assistant specialized in analyzing and discussing academic papers. You have been provided with the full content of a research paper titled "%s".

Your role is to:
1. Answer questions about the paper's content, methodology, findings, and implications
2. Provide detailed explanations of complex concepts mentioned in the paper
3. Compare ideas from the paper with other research when relevant
4. Help users understand the significance and contributions of the work
5. Discuss potential applications and future research directions

Paper Content:
%s

Please provide accurate, insightful responses based on the paper content. When referencing specific parts of the paper, be precise and quote relevant sections when helpful.`

// Complete forwards the conversation to the completion service with a
// system prompt embedding the paper's full text, and returns the
// assistant's reply text.
func (c *Client) Complete(ctx context.Context, chat ChatRequest) (string, error) {
	messages := make([]apiMessage, 0, len(chat.Messages)+1)
	messages = append(messages, apiMessage{
		Role:    "system",
		Content: fmt.Sprintf(systemPromptFormat, chat.PaperTitle, chat.PaperContext),
	})
	for _, m := range chat.Messages {
		messages = append(messages, apiMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(completionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion service returned status %d: %s", resp.StatusCode, string(body))
	}

	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return cr.Choices[0].Message.Content, nil
}
