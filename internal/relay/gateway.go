package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// FallbackReply is returned when the provider answers with a well-formed
// response that carries no usable text.
const FallbackReply = "I'm here to help! Could you please rephrase your question?"

// GatewayClient talks to the external chat-completion gateway. One outbound
// HTTPS call per invocation, non-streaming, no retries, no caching.
type GatewayClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewGatewayClient(baseURL, apiKey string) *GatewayClient {
	return &GatewayClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user turn to the gateway and returns the first
// choice's text, or FallbackReply when the response carries none.
func (c *GatewayClient) Complete(ctx context.Context, model, systemPrompt, userContent string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", ErrQuotaExhausted
	case resp.StatusCode >= 400:
		// Log the detail for diagnosis; the caller only sees a generic error.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[error] operation=gateway_complete upstream_status=%d body=%s", resp.StatusCode, string(detail))
		return "", ErrUpstream
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gateway decode: %w", err)
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return FallbackReply, nil
	}
	return out.Choices[0].Message.Content, nil
}
