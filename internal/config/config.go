// Package config предоставляет структуры и функции для загрузки конфигурации сервиса
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"DATABASE_URL"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Quota                   Quota         `yaml:"quota"`
	RateLimit               RateLimit     `yaml:"rate_limit"`
	ImageProvider           ImageProvider `yaml:"image_provider"`
	VideoProvider           VideoProvider `yaml:"video_provider"`
	AssetStorage            AssetStorage  `yaml:"asset_storage"`
	Stripe                  Stripe        `yaml:"stripe"`
	RabbitMQ                RabbitMQ      `yaml:"rabbitmq"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP  string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":3001"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"5m"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
	PublicURL    string        `yaml:"public_url" env:"PUBLIC_URL" env-default:"http://localhost:3001"`
	FrontendURL  string        `yaml:"frontend_url" env:"FRONTEND_URL" env-default:"http://localhost:3000"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Quota настройки дневной квоты бесплатного тарифа.
// Timezone задаёт границы дня; пустое значение и "Local" означают пояс сервера.
type Quota struct {
	DailyFreeLimit int    `yaml:"daily_free_limit" env:"DAILY_FREE_LIMIT" env-default:"5"`
	Timezone       string `yaml:"timezone" env:"QUOTA_TIMEZONE" env-default:"Local"`
}

// RateLimit лимиты запросов с одного IP.
type RateLimit struct {
	GeneralRequests  int           `yaml:"general_requests" env-default:"100"`
	GeneralWindow    time.Duration `yaml:"general_window" env-default:"15m"`
	AuthRequests     int           `yaml:"auth_requests" env-default:"10"`
	AuthWindow       time.Duration `yaml:"auth_window" env-default:"15m"`
	GenerateRequests int           `yaml:"generate_requests" env-default:"10"`
	GenerateWindow   time.Duration `yaml:"generate_window" env-default:"1m"`
}

// ImageProvider настройки клиента генерации изображений.
type ImageProvider struct {
	APIKey       string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL      string        `yaml:"base_url" env:"OPENAI_BASE_URL"`
	Model        string        `yaml:"model" env-default:"dall-e-3"`
	Size         string        `yaml:"size" env-default:"1024x1024"`
	Timeout      time.Duration `yaml:"timeout" env-default:"2m"`
	MaxAssetSize int64         `yaml:"max_asset_size" env-default:"20971520"`
	RPS          float64       `yaml:"rps" env-default:"5"`
}

// VideoProvider настройки клиента генерации видео.
type VideoProvider struct {
	APIKey       string        `yaml:"api_key" env:"RUNWAY_API_KEY"`
	BaseURL      string        `yaml:"base_url" env:"RUNWAY_BASE_URL" env-default:"https://api.runwayml.com/v1"`
	Model        string        `yaml:"model" env-default:"gen4-turbo"`
	Duration     int           `yaml:"duration" env-default:"5"`
	Ratio        string        `yaml:"ratio" env-default:"16:9"`
	PollInterval time.Duration `yaml:"poll_interval" env-default:"10s"`
	MaxAttempts  int           `yaml:"max_attempts" env-default:"30"`
	Timeout      time.Duration `yaml:"timeout" env-default:"30s"`
	RPS          float64       `yaml:"rps" env-default:"5"`
}

// AssetStorage настройки хранилища сгенерированных файлов. Driver: local или s3.
type AssetStorage struct {
	Driver        string `yaml:"driver" env:"ASSET_DRIVER" env-default:"local"`
	LocalDir      string `yaml:"local_dir" env-default:"./uploads"`
	PublicBaseURL string `yaml:"public_base_url" env:"ASSET_PUBLIC_BASE_URL"`
	Bucket        string `yaml:"bucket" env:"S3_BUCKET"`
	Region        string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Endpoint      string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey     string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	UsePathStyle  bool   `yaml:"use_path_style"`
}

// Stripe настройки платёжного провайдера. Пустой SecretKey отключает checkout и webhook.
type Stripe struct {
	SecretKey      string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	PublishableKey string `yaml:"publishable_key" env:"STRIPE_PUBLISHABLE_KEY"`
	WebhookSecret  string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	ProductName    string `yaml:"product_name" env-default:"Premium Subscription"`
}

// RabbitMQ настройки брокера событий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// IsDevelopment сообщает, можно ли отдавать клиенту текст внутренних ошибок.
func (c *Config) IsDevelopment() bool {
	return c.Env == "local" || c.Env == "development"
}

// Load читает конфиг из YAML-файла path и переменных окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: file %s: %w", op, path, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.StorageConnectionString == "":
		return errors.New("storage_connection_string is required")
	case c.JWTSecretKey == "":
		return errors.New("jwt_secret_key is required")
	case c.Quota.DailyFreeLimit < 0:
		return errors.New("quota.daily_free_limit must not be negative")
	case c.AssetStorage.Driver != "local" && c.AssetStorage.Driver != "s3":
		return fmt.Errorf("asset_storage.driver %q is not supported", c.AssetStorage.Driver)
	case c.AssetStorage.Driver == "s3" && c.AssetStorage.Bucket == "":
		return errors.New("asset_storage.bucket is required for s3 driver")
	}
	return nil
}

// MustLoad загружает .env (если есть) и конфиг из CONFIG_PATH, завершая процесс при ошибке
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}
