// Package notion реализует клиент внешнего хранилища конфигурации генерации.
// Из одной базы читается документ настроек, из отдельной страницы — текст
// промпта для генерации комментариев. Остальной движок работает только
// со строго типизированным GenerationConfig: разбор и валидация
// слабо типизированного ответа API происходят на этой границе.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/baysidecampaign/signup-engine/internal/models"
)

const apiVersion = "2022-06-28"

// Client ходит в Notion API по фиксированным идентификаторам,
// заданным в конфигурации процесса.
type Client struct {
	token        string
	databaseID   string
	promptPageID string
	baseURL      string
	httpClient   *http.Client
}

// New создает клиент хранилища конфигурации.
func New(token, databaseID, promptPageID string) *Client {
	return &Client{
		token:        token,
		databaseID:   databaseID,
		promptPageID: promptPageID,
		baseURL:      "https://api.notion.com/v1",
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL заменяет адрес API, используется в тестах.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notion api: %s - %s", resp.Status, strings.TrimSpace(string(text)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// richText и прочие структуры повторяют ровно те фрагменты ответа API,
// которые нужны движку.
type richText struct {
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
}

type property struct {
	Checkbox *bool      `json:"checkbox"`
	Number   *float64   `json:"number"`
	RichText []richText `json:"rich_text"`
}

func (p *property) text(fallback string) string {
	if p == nil || len(p.RichText) == 0 {
		return fallback
	}
	return p.RichText[0].Text.Content
}

func (p *property) number(fallback float64) float64 {
	if p == nil || p.Number == nil {
		return fallback
	}
	return *p.Number
}

func (p *property) checked() bool {
	return p != nil && p.Checkbox != nil && *p.Checkbox
}

type queryResponse struct {
	Results []struct {
		Properties map[string]*property `json:"properties"`
	} `json:"results"`
}

// GetConfig читает документ настроек генерации. Возвращает (nil, nil),
// когда документа нет: для вызывающего это "нечего делать", а не ошибка.
// Документ с нарушенными границами даёт models.ErrInvalidConfig.
func (c *Client) GetConfig(ctx context.Context) (*models.GenerationConfig, error) {
	const op = "notion.GetConfig"

	req, err := c.newRequest(ctx, http.MethodPost, "/databases/"+c.databaseID+"/query", map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var data queryResponse
	if err := c.do(req, &data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(data.Results) == 0 {
		return nil, nil
	}

	props := data.Results[0].Properties
	cfg := &models.GenerationConfig{
		Enabled:           props["enabled"].checked(),
		StartTime:         props["startTime"].text("00:00"),
		EndTime:           props["endTime"].text("23:59"),
		MinSignups:        int(props["minSignups"].number(5)),
		MaxSignups:        int(props["maxSignups"].number(20)),
		CommentPercentage: props["openAIPercentage"].number(0.3),
		AvgDelaySeconds:   int(props["avgDelay"].number(120)),
		JitterSeconds:     int(props["jitter"].number(30)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

type blocksResponse struct {
	Results []struct {
		Type      string `json:"type"`
		Paragraph *struct {
			RichText []richText `json:"rich_text"`
		} `json:"paragraph"`
	} `json:"results"`
}

// GetPrompt собирает текст промпта из параграфов страницы.
// Пустая страница даёт пустую строку без ошибки.
func (c *Client) GetPrompt(ctx context.Context) (string, error) {
	const op = "notion.GetPrompt"

	req, err := c.newRequest(ctx, http.MethodGet, "/blocks/"+c.promptPageID+"/children", nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var data blocksResponse
	if err := c.do(req, &data); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var blocks []string
	for _, block := range data.Results {
		if block.Type != "paragraph" || block.Paragraph == nil {
			continue
		}
		var sb strings.Builder
		for _, rt := range block.Paragraph.RichText {
			sb.WriteString(rt.Text.Content)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			blocks = append(blocks, text)
		}
	}

	return strings.Join(blocks, "\n\n"), nil
}
