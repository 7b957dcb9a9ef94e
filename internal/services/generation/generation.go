// Package generation принимает запросы на генерацию, проверяет квоту, вызывает провайдера
// и сохраняет результат. При любой ошибке провайдера запись контента не создаётся.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/content-studio/internal/assetstore"
	"github.com/magabrotheeeer/content-studio/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/metrics"
	"github.com/magabrotheeeer/content-studio/internal/models"
	"github.com/magabrotheeeer/content-studio/internal/provider/imagegen"
)

// QuotaEvaluator проверяет, может ли пользователь генерировать.
type QuotaEvaluator interface {
	Evaluate(ctx context.Context, userID int64) (models.Quota, error)
}

// ImageGenerator генерирует изображение и возвращает его содержимое.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*imagegen.Image, error)
}

// VideoGenerator генерирует видео и возвращает его URL.
type VideoGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ContentRepository сохраняет артефакты.
type ContentRepository interface {
	CreateContent(ctx context.Context, c models.Content) (*models.Content, error)
}

// Publisher отправляет доменные события.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Dispatcher выполняет генерацию контента.
type Dispatcher struct {
	quota     QuotaEvaluator
	images    ImageGenerator
	videos    VideoGenerator
	assets    assetstore.Store
	repo      ContentRepository
	publisher Publisher
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// New создаёт Dispatcher.
func New(quota QuotaEvaluator, images ImageGenerator, videos VideoGenerator, assets assetstore.Store,
	repo ContentRepository, publisher Publisher, m *metrics.Metrics, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		quota:     quota,
		images:    images,
		videos:    videos,
		assets:    assets,
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// Generate проверяет квоту, генерирует артефакт и сохраняет его.
// Возвращает models.ErrQuotaExceeded, если дневной лимит исчерпан, и *models.ProviderError при отказе провайдера.
func (d *Dispatcher) Generate(ctx context.Context, req models.GenerateRequest) (*models.Content, error) {
	const op = "services.generation.Generate"
	log := d.log.With(slog.String("op", op), slog.Int64("user_id", req.UserID), slog.String("type", string(req.Type)))

	if !req.Type.Valid() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidContentType)
	}

	q, err := d.quota.Evaluate(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !q.Allowed {
		d.metrics.QuotaDenied()
		log.Info("daily limit reached", slog.Int("used", q.Used), slog.Int("limit", q.Limit))
		return nil, fmt.Errorf("%s: %w", op, models.ErrQuotaExceeded)
	}

	var url string
	switch req.Type {
	case models.ContentImage:
		var img *imagegen.Image
		img, err = d.generateImage(ctx, req)
		if err != nil {
			return nil, d.providerFailed(log, req.Type, op, err)
		}
		// Ошибка записи файла внутренняя и не считается отказом провайдера.
		url, err = d.assets.Put(ctx, assetstore.ObjectKey(req.UserID, req.Description, ".png"), img.Data, img.ContentType)
		if err != nil {
			d.metrics.Generation(string(req.Type), "failed")
			log.Error("failed to store image", sl.Err(err))
			return nil, fmt.Errorf("%s: store image: %w", op, err)
		}
	case models.ContentVideo:
		url, err = d.generateVideo(ctx, req)
		if err != nil {
			return nil, d.providerFailed(log, req.Type, op, err)
		}
	}

	content, err := d.repo.CreateContent(ctx, models.Content{
		UserID:      req.UserID,
		Type:        req.Type,
		Title:       models.TitleFrom(req.Description),
		Description: req.Description,
		URL:         &url,
	})
	if err != nil {
		d.metrics.Generation(string(req.Type), "failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d.metrics.Generation(string(req.Type), "success")
	log.Info("content generated", slog.Int64("content_id", content.ID))

	event := models.ContentGeneratedEvent{
		ContentID: content.ID,
		UserID:    content.UserID,
		Type:      content.Type,
		CreatedAt: content.CreatedAt,
	}
	if err := d.publisher.Publish(rabbitmq.KeyContentGenerated, event); err != nil {
		log.Warn("failed to publish event", sl.Err(err))
	}

	return content, nil
}

func (d *Dispatcher) providerFailed(log *slog.Logger, kind models.ContentType, op string, err error) error {
	d.metrics.Generation(string(kind), "failed")
	log.Error("generation failed", sl.Err(err))
	return fmt.Errorf("%s: %w", op, &models.ProviderError{Kind: kind, Err: err})
}

func (d *Dispatcher) generateImage(ctx context.Context, req models.GenerateRequest) (*imagegen.Image, error) {
	start := time.Now()
	img, err := d.images.Generate(ctx, req.Description)
	d.metrics.ProviderDuration("openai", time.Since(start))
	return img, err
}

func (d *Dispatcher) generateVideo(ctx context.Context, req models.GenerateRequest) (string, error) {
	start := time.Now()
	url, err := d.videos.Generate(ctx, req.Description)
	d.metrics.ProviderDuration("runway", time.Since(start))
	return url, err
}
