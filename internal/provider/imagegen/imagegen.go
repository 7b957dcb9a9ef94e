// Package imagegen генерирует изображения через OpenAI Images API.
package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/content-studio/internal/config"
)

var (
	// ErrNotConfigured возвращается, если не задан ключ API.
	ErrNotConfigured = errors.New("image provider API key is not configured")
	// ErrEmptyResponse возвращается, если провайдер не вернул ни URL, ни данных.
	ErrEmptyResponse = errors.New("invalid response from image provider")
	// ErrAssetTooLarge возвращается, если скачиваемый файл превышает лимит.
	ErrAssetTooLarge = errors.New("generated image exceeds size limit")
)

// Image содержит скачанное изображение.
type Image struct {
	Data          []byte
	ContentType   string
	RevisedPrompt string
}

// Client генерирует изображение и сразу скачивает его, потому что ссылки провайдера временные.
type Client struct {
	api          *openai.Client
	http         *http.Client
	model        string
	size         string
	maxAssetSize int64
	limiter      *rate.Limiter
	configured   bool
}

// New создаёт клиента по настройкам провайдера.
func New(cfg config.ImageProvider) *Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = httpClient

	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}
	maxSize := cfg.MaxAssetSize
	if maxSize <= 0 {
		maxSize = 20 << 20
	}

	return &Client{
		api:          openai.NewClientWithConfig(apiCfg),
		http:         httpClient,
		model:        cfg.Model,
		size:         cfg.Size,
		maxAssetSize: maxSize,
		limiter:      rate.NewLimiter(rate.Limit(rps), 1),
		configured:   cfg.APIKey != "",
	}
}

// Generate создаёт одно изображение по описанию prompt и возвращает его содержимое.
func (c *Client) Generate(ctx context.Context, prompt string) (*Image, error) {
	const op = "imagegen.Generate"

	if !c.configured {
		return nil, ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.model,
		N:              1,
		Size:           c.size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrEmptyResponse
	}

	item := resp.Data[0]
	switch {
	case item.URL != "":
		img, err := c.download(ctx, item.URL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		img.RevisedPrompt = item.RevisedPrompt
		return img, nil
	case item.B64JSON != "":
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &Image{Data: data, ContentType: "image/png", RevisedPrompt: item.RevisedPrompt}, nil
	default:
		return nil, ErrEmptyResponse
	}
}

func (c *Client) download(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxAssetSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxAssetSize {
		return nil, ErrAssetTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &Image{Data: data, ContentType: contentType}, nil
}

