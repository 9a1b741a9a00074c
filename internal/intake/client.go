// Package intake реализует клиент публичной формы кампании.
// Длительный процесс отправляет готовые записи в тот же эндпоинт,
// что и настоящие посетители сайта.
package intake

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

// Client отправляет записи в эндпоинт приёма заявок.
type Client struct {
	url        string
	httpClient *http.Client
}

// New создает клиент формы по полному URL эндпоинта.
func New(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type submission struct {
	Name         string `json:"name"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Timestamp    string `json:"timestamp"`
	Source       string `json:"source"`
	Comment      string `json:"comment,omitempty"`
	Referrer     string `json:"referrer"`
	UserID       string `json:"user_id"`
	SubmissionID string `json:"submission_id"`
}

// Submission — одна заявка формы.
type Submission struct {
	Name         string
	FirstName    string
	LastName     string
	Email        string
	Timestamp    time.Time
	Source       string
	Comment      string
	Referrer     string
	UserID       string
	SubmissionID string
}

// Submit отправляет одну запись в форму. Любой статус вне 2xx — ошибка.
func (c *Client) Submit(ctx context.Context, sub Submission) error {
	const op = "intake.Submit"

	body, err := json.Marshal(submission{
		Name:         sub.Name,
		FirstName:    sub.FirstName,
		LastName:     sub.LastName,
		Email:        sub.Email,
		Timestamp:    sub.Timestamp.UTC().Format(time.RFC3339),
		Source:       sub.Source,
		Comment:      sub.Comment,
		Referrer:     sub.Referrer,
		UserID:       sub.UserID,
		SubmissionID: sub.SubmissionID,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: unexpected status %s - %s", op, resp.Status, strings.TrimSpace(string(text)))
	}
	return nil
}
