// Package openai реализует клиент генерации комментариев. Один запрос —
// один короткий текст от первого лица; потоковая передача и состояние
// диалога не используются. Сбой генерации изолируется на стороне
// вызывающего: запись продолжает жизнь без комментария.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	model         = "gpt-4o"
	maxTokens     = 150
	temperature   = 0.8
	systemMessage = "You are a concerned UK citizen providing authentic feedback about local traffic issues. Keep responses concise and natural."
)

// Client ходит в chat-completions API.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// New создает клиент генерации комментариев.
func New(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     "https://api.openai.com/v1",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL заменяет адрес API, используется в тестах.
func (c *Client) WithBaseURL(url string) *Client {
	c.apiURL = url
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateComment возвращает короткий комментарий по промпту.
// Пустой ответ модели считается ошибкой.
func (c *Client) GenerateComment(ctx context.Context, prompt string) (string, error) {
	const op = "openai.GenerateComment"

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%s: unexpected status %s - %s", op, resp.Status, strings.TrimSpace(string(text)))
	}

	var data chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if len(data.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", op)
	}
	comment := strings.TrimSpace(data.Choices[0].Message.Content)
	if comment == "" {
		return "", fmt.Errorf("%s: empty comment generated", op)
	}
	return comment, nil
}
