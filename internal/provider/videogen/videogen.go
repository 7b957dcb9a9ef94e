// Package videogen генерирует видео через Runway task API.
// Задача отправляется одним запросом, затем её статус опрашивается с фиксированным интервалом.
package videogen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/content-studio/internal/config"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
)

var (
	ErrNotConfigured   = errors.New("video provider API key is not configured")
	ErrInvalidResponse = errors.New("invalid response from video provider")
	ErrTaskFailed      = errors.New("video generation failed")
	ErrTimeout         = errors.New("video generation timed out, please try again")
)

type submitRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
	Duration    int    `json:"duration"`
	Model       string `json:"model"`
}

type submitResponse struct {
	TaskID string `json:"task_id"`
	ID     string `json:"id"`
	URL    string `json:"url"`
}

type taskResponse struct {
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

// Client отправляет задачи генерации видео и дожидается результата.
type Client struct {
	http         *http.Client
	baseURL      string
	apiKey       string
	model        string
	ratio        string
	duration     int
	pollInterval time.Duration
	maxAttempts  int
	limiter      *rate.Limiter
	log          *slog.Logger
}

// New создаёт клиента по настройкам провайдера.
func New(cfg config.VideoProvider, log *slog.Logger) *Client {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &Client{
		http:         &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		ratio:        cfg.Ratio,
		duration:     cfg.Duration,
		pollInterval: cfg.PollInterval,
		maxAttempts:  attempts,
		limiter:      rate.NewLimiter(rate.Limit(rps), 1),
		log:          log,
	}
}

// Generate запускает генерацию и возвращает URL готового видео.
// Блокируется не дольше pollInterval*maxAttempts и прерывается при отмене ctx.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "videogen.Generate"

	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	submitted, err := c.submit(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	taskID := submitted.TaskID
	if taskID == "" {
		taskID = submitted.ID
	}
	switch {
	case taskID != "":
		return c.poll(ctx, taskID)
	case submitted.URL != "":
		return submitted.URL, nil
	default:
		return "", ErrInvalidResponse
	}
}

func (c *Client) submit(ctx context.Context, prompt string) (*submitResponse, error) {
	body, err := json.Marshal(submitRequest{
		Prompt:      prompt,
		AspectRatio: c.ratio,
		Duration:    c.duration,
		Model:       c.model,
	})
	if err != nil {
		return nil, err
	}

	var out submitResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/generate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) poll(ctx context.Context, taskID string) (string, error) {
	const op = "videogen.poll"
	log := c.log.With(slog.String("op", op), slog.String("task_id", taskID))

	timer := time.NewTimer(c.pollInterval)
	defer timer.Stop()

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
		timer.Reset(c.pollInterval)

		var task taskResponse
		if err := c.do(ctx, http.MethodGet, c.baseURL+"/tasks/"+taskID, nil, &task); err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("%s: %w", op, ctx.Err())
			}
			// ошибка проверки статуса расходует попытку, но не прерывает ожидание
			log.Warn("status check failed", slog.Int("attempt", attempt), sl.Err(err))
			continue
		}

		log.Debug("status check", slog.Int("attempt", attempt), slog.String("status", task.Status))

		switch strings.ToLower(task.Status) {
		case "completed", "succeeded":
			if url := outputURL(task.Output); url != "" {
				return url, nil
			}
		case "failed":
			reason := task.Error
			if reason == "" {
				reason = "unknown error"
			}
			return "", fmt.Errorf("%w: %s", ErrTaskFailed, reason)
		}
	}

	return "", ErrTimeout
}

// outputURL разбирает поле output, которое бывает строкой или массивом строк.
func outputURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) > 0 {
			return list[0]
		}
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
