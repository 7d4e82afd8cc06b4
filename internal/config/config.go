package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
// Загружается один раз при старте и дальше только читается.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	ServerPort     string        `env:"SERVER_PORT"`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogFormat      string        `env:"LOG_FORMAT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Auth-сервис (GoTrue-совместимый)
	AuthURL        string `env:"AUTH_URL,required"`
	AuthAnonKey    string `env:"AUTH_ANON_KEY,required"`
	AuthCookieName string `env:"AUTH_COOKIE_NAME"`
	CookieSecure   bool   `env:"COOKIE_SECURE"`
	LoginPath      string `env:"LOGIN_PATH"`

	// Настройки для MinIO
	MinioEndpoint        string `env:"MINIO_ENDPOINT,required"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID,required"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY,required"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME,required"`
	MinioRegion          string `env:"MINIO_REGION,required"`
	// MinioPublicURL — базовый адрес, по которому браузер получает объекты
	MinioPublicURL string `env:"MINIO_PUBLIC_URL"`

	// ограничение параллельных загрузок аватаров
	AvatarUploadConcurrency int `env:"AVATAR_UPLOAD_CONCURRENCY"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL,required"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"photo_cleanup_queue"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults вручную устанавливает значения по умолчанию для пустых полей
func (c *Config) applyDefaults() {
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.AuthCookieName == "" {
		c.AuthCookieName = "filmfeed-auth-token"
	}
	if c.LoginPath == "" {
		c.LoginPath = "/login"
	}
	if c.MinioPublicURL == "" {
		scheme := "http"
		if c.MinioUseSSL {
			scheme = "https"
		}
		c.MinioPublicURL = fmt.Sprintf("%s://%s", scheme, c.MinioEndpoint)
	}
	if c.AvatarUploadConcurrency <= 0 {
		c.AvatarUploadConcurrency = 5
	}
}
